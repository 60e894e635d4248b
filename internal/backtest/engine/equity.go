package engine

import (
	"time"

	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"github.com/shopspring/decimal"
)

// Reconstruct replays a ledger into a mark-to-market equity curve with a buy-and-hold benchmark.
//
// The curve starts with initialCapital at the first bar, holds one point per trade valued at
// the trade's remaining cash plus the open shares at that day's close, and ends with a point at
// the last bar when the last trade happened earlier. The benchmark has one point per bar.
func Reconstruct(signal string, bars []types.PriceBar, ledger types.TradeLedger, initialCapital float64) (types.EquityCurve, error) {
	curve := types.EquityCurve{Signal: signal}

	if initialCapital <= 0 {
		return curve, errors.Newf(errors.ErrCodeInvalidCapital, "initial capital must be positive, got %v", initialCapital)
	}

	if len(bars) == 0 {
		return curve, nil
	}

	if err := checkPrices(bars); err != nil {
		return curve, err
	}

	closes := make(map[time.Time]decimal.Decimal, len(bars))
	for _, bar := range bars {
		closes[bar.Time] = decimal.NewFromFloat(bar.Close)
	}

	first := bars[0]
	last := bars[len(bars)-1]

	points := make([]types.EquityPoint, 0, len(ledger)+2)
	points = append(points, types.EquityPoint{Date: first.Time, Equity: initialCapital})

	cash := decimal.NewFromFloat(initialCapital)

	var held int64

	for i, trade := range ledger {
		price, ok := closes[trade.Date]
		if !ok {
			return curve, errors.Newf(errors.ErrCodeDataNotFound,
				"trade %d on %s has no matching price bar", i, trade.Date.Format(time.DateOnly))
		}

		cash = decimal.NewFromFloat(trade.RemainingCash)
		if trade.Kind == types.TradeKindBuy {
			held = trade.Shares
		} else {
			held = 0
		}

		equity := cash.Add(price.Mul(decimal.NewFromInt(held)))
		points = append(points, types.EquityPoint{Date: trade.Date, Equity: equity.InexactFloat64()})
	}

	if !points[len(points)-1].Date.Equal(last.Time) {
		equity := cash.Add(closes[last.Time].Mul(decimal.NewFromInt(held)))
		points = append(points, types.EquityPoint{Date: last.Time, Equity: equity.InexactFloat64()})
	}

	curve.Points = points
	curve.Benchmark = Benchmark(bars, initialCapital)

	return curve, nil
}

// Benchmark returns the value of investing initialCapital at the first close and holding.
func Benchmark(bars []types.PriceBar, initialCapital float64) []types.EquityPoint {
	if len(bars) == 0 {
		return nil
	}

	units := decimal.NewFromFloat(initialCapital).Div(decimal.NewFromFloat(bars[0].Close))
	points := make([]types.EquityPoint, len(bars))

	for i, bar := range bars {
		points[i] = types.EquityPoint{
			Date:   bar.Time,
			Equity: units.Mul(decimal.NewFromFloat(bar.Close)).InexactFloat64(),
		}
	}

	return points
}
