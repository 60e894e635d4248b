package engine

import (
	"math"

	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/shopspring/decimal"
)

// RoundTrip is a buy leg paired with a closing leg.
type RoundTrip struct {
	Buy   types.Trade
	Close types.Trade
}

// PnL is (close price - buy price) * buy shares.
func (r RoundTrip) PnL() decimal.Decimal {
	return decimal.NewFromFloat(r.Close.Price).
		Sub(decimal.NewFromFloat(r.Buy.Price)).
		Mul(decimal.NewFromInt(r.Buy.Shares))
}

// HoldingDays is the number of calendar days between the two legs.
func (r RoundTrip) HoldingDays() int {
	return types.HoldingDays(r.Buy.Date, r.Close.Date)
}

// Pair matches buy legs with closing legs.
//
// Positional pairing matches the i-th buy with the i-th close in emission order and stops at
// the shorter of the two lists. LIFO pairing matches every close with the most recent buy
// that is still unmatched. On a well-formed ledger both produce the same pairs.
func Pair(ledger types.TradeLedger, mode PairingMode) []RoundTrip {
	if mode == PairingLIFO {
		return pairLIFO(ledger)
	}

	buys := ledger.Buys()
	closes := ledger.Closes()

	n := min(len(buys), len(closes))
	trips := make([]RoundTrip, 0, n)

	for i := range n {
		trips = append(trips, RoundTrip{Buy: buys[i], Close: closes[i]})
	}

	return trips
}

func pairLIFO(ledger types.TradeLedger) []RoundTrip {
	var stack []types.Trade

	trips := make([]RoundTrip, 0, len(ledger)/2)

	for _, trade := range ledger {
		if trade.Kind == types.TradeKindBuy {
			stack = append(stack, trade)

			continue
		}

		if !trade.IsClosing() || len(stack) == 0 {
			continue
		}

		buy := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		trips = append(trips, RoundTrip{Buy: buy, Close: trade})
	}

	return trips
}

// Summarize derives the backtest summary from a ledger.
//
// The round trip count is floor(len(ledger)/2). The win rate is the number of profitable
// pairs over the ledger length, as a percentage. A pair with zero P&L counts as a loss.
// The profit factor is |gross profit / gross loss|, +Inf when pairs exist and none lost
// (including all of them breaking even), and 0 for an empty ledger.
func Summarize(signal string, ledger types.TradeLedger, initialCapital float64, mode PairingMode) types.BacktestSummary {
	summary := types.BacktestSummary{
		Signal:         signal,
		InitialCapital: initialCapital,
		FinalCapital:   initialCapital,
	}

	if len(ledger) == 0 {
		return summary
	}

	initial := decimal.NewFromFloat(initialCapital)
	final := decimal.NewFromFloat(ledger.FinalCash(initialCapital))

	summary.FinalCapital = final.InexactFloat64()
	summary.TotalReturnPct = final.Sub(initial).Div(initial).Mul(decimal.NewFromInt(100)).InexactFloat64()
	summary.RoundTrips = len(ledger) / 2

	trips := Pair(ledger, mode)
	if len(trips) == 0 {
		return summary
	}

	grossProfit := decimal.Zero
	grossLoss := decimal.Zero
	wins := 0
	holdingDays := 0

	for _, trip := range trips {
		pnl := trip.PnL()
		if pnl.IsPositive() {
			wins++
			grossProfit = grossProfit.Add(pnl)
		} else {
			grossLoss = grossLoss.Add(pnl)
		}

		holdingDays += trip.HoldingDays()
	}

	summary.WinRate = float64(wins) / float64(len(ledger)) * 100
	summary.AvgHoldingDays = float64(holdingDays) / float64(len(trips))
	summary.GrossProfit = grossProfit.InexactFloat64()
	summary.GrossLoss = grossLoss.InexactFloat64()
	summary.ProfitFactor = profitFactor(grossProfit, grossLoss)

	return summary
}

func profitFactor(grossProfit, grossLoss decimal.Decimal) float64 {
	if grossLoss.IsZero() {
		return math.Inf(1)
	}

	return grossProfit.Div(grossLoss).Abs().InexactFloat64()
}
