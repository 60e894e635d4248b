// Package engine replays {-1, 0, +1} signal columns as long-only trades against a daily price
// series, derives summary statistics from the resulting ledger and reconstructs equity curves.
//
// At most one position is open at a time. A buy while holding and a sell while flat are no-ops.
// A position still open after the last bar is closed with a ForcedClose trade at the last close,
// so every ledger ends flat and every backtest return is fully realized.
package engine

import (
	"math"

	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"github.com/shopspring/decimal"
)

// Result is the output of one backtest.
type Result struct {
	Ledger  types.TradeLedger
	Summary types.BacktestSummary
}

// Engine runs backtests with a fixed configuration. It holds no state between runs.
type Engine struct {
	config Config
}

// NewEngine validates the configuration and creates an engine.
func NewEngine(config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Engine{config: config}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Run replays one signal column over bars.
func (e *Engine) Run(bars []types.PriceBar, signal types.SignalSeries) (Result, error) {
	ledger, err := replay(bars, signal, e.config.InitialCapital, e.config.PositionFraction)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Ledger:  ledger,
		Summary: Summarize(signal.Name, ledger, e.config.InitialCapital, e.config.pairing()),
	}, nil
}

// Run replays one signal column over bars with positional pairing.
func Run(bars []types.PriceBar, signal types.SignalSeries, initialCapital float64, positionFraction float64) (types.TradeLedger, types.BacktestSummary, error) {
	e, err := NewEngine(Config{
		InitialCapital:   initialCapital,
		PositionFraction: positionFraction,
		Pairing:          PairingPositional,
	})
	if err != nil {
		return nil, types.BacktestSummary{}, err
	}

	result, err := e.Run(bars, signal)
	if err != nil {
		return nil, types.BacktestSummary{}, err
	}

	return result.Ledger, result.Summary, nil
}

func replay(bars []types.PriceBar, signal types.SignalSeries, initialCapital float64, positionFraction float64) (types.TradeLedger, error) {
	if err := signal.CheckAligned(bars); err != nil {
		return nil, err
	}

	if len(bars) == 0 {
		return types.TradeLedger{}, nil
	}

	if err := checkPrices(bars); err != nil {
		return nil, err
	}

	cash := decimal.NewFromFloat(initialCapital)
	fraction := decimal.NewFromFloat(positionFraction)

	var held int64

	ledger := types.TradeLedger{}

	// the first bar has no prior state and is never actionable
	for i := 1; i < len(bars); i++ {
		bar := bars[i]
		price := decimal.NewFromFloat(bar.Close)

		switch {
		case signal.IsBuy(i) && held == 0:
			shares := cash.Mul(fraction).Div(price).Floor().IntPart()
			if shares <= 0 {
				// not enough capital for a single share
				continue
			}

			cost := price.Mul(decimal.NewFromInt(shares))
			cash = cash.Sub(cost)
			held = shares

			ledger = append(ledger, types.Trade{
				Date:          bar.Time,
				Kind:          types.TradeKindBuy,
				Price:         bar.Close,
				Shares:        shares,
				CashFlow:      cost.InexactFloat64(),
				RemainingCash: cash.InexactFloat64(),
			})
		case signal.IsSell(i) && held > 0:
			ledger = append(ledger, closePosition(&cash, &held, bar, types.TradeKindSell))
		}
	}

	if held > 0 {
		ledger = append(ledger, closePosition(&cash, &held, bars[len(bars)-1], types.TradeKindForcedClose))
	}

	return ledger, nil
}

func closePosition(cash *decimal.Decimal, held *int64, bar types.PriceBar, kind types.TradeKind) types.Trade {
	proceeds := decimal.NewFromFloat(bar.Close).Mul(decimal.NewFromInt(*held))
	*cash = cash.Add(proceeds)

	trade := types.Trade{
		Date:          bar.Time,
		Kind:          kind,
		Price:         bar.Close,
		Shares:        *held,
		CashFlow:      proceeds.InexactFloat64(),
		RemainingCash: cash.InexactFloat64(),
	}

	*held = 0

	return trade
}

// checkPrices rejects close prices that cannot be traded at.
func checkPrices(bars []types.PriceBar) error {
	for i, bar := range bars {
		if math.IsNaN(bar.Close) || math.IsInf(bar.Close, 0) || bar.Close <= 0 {
			return errors.Newf(errors.ErrCodeInvalidParameter,
				"close price at index %d must be a positive finite number, got %v", i, bar.Close)
		}
	}

	return nil
}
