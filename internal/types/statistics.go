package types

import (
	"encoding/json"
	"math"
)

// BacktestSummary is derived solely from one TradeLedger.
type BacktestSummary struct {
	// Signal is the signal column that produced the ledger.
	Signal string `yaml:"signal" json:"signal"`
	// Initial capital passed to the engine.
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital"`
	// Cash after the last trade. Always fully realized because the ledger ends flat.
	FinalCapital float64 `yaml:"final_capital" json:"final_capital"`
	// (final / initial - 1) * 100.
	TotalReturnPct float64 `yaml:"total_return_pct" json:"total_return_pct"`
	// floor(len(ledger) / 2).
	RoundTrips int `yaml:"round_trips" json:"round_trips"`
	// Winning paired trades / ledger length * 100.
	WinRate float64 `yaml:"win_rate" json:"win_rate"`
	// Mean calendar days between paired buy and close.
	AvgHoldingDays float64 `yaml:"avg_holding_days" json:"avg_holding_days"`
	// Sum of positive paired P&L.
	GrossProfit float64 `yaml:"gross_profit" json:"gross_profit"`
	// Sum of non-positive paired P&L, zero or negative.
	GrossLoss float64 `yaml:"gross_loss" json:"gross_loss"`
	// |gross_profit / gross_loss|, +Inf when gross_loss is zero, 0 with no trades.
	ProfitFactor float64 `yaml:"profit_factor" json:"profit_factor"`
}

// MarshalJSON encodes non-finite ratios as strings since JSON has no infinity.
func (s BacktestSummary) MarshalJSON() ([]byte, error) {
	type plain BacktestSummary

	return json.Marshal(struct {
		plain
		ProfitFactor any `json:"profit_factor"`
	}{
		plain:        plain(s),
		ProfitFactor: JSONFloat(s.ProfitFactor),
	})
}

// JSONFloat maps NaN to nil and infinities to "+Inf"/"-Inf" so values survive encoding/json.
func JSONFloat(f float64) any {
	switch {
	case math.IsNaN(f):
		return nil
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	default:
		return f
	}
}
