package types

import (
	"encoding/json"
	"strings"
)

// ComboSeparator joins member names into a combination label.
const ComboSeparator = " + "

// AccuracyRecord scores one signal column (or combination) against forward returns.
// Ratios that have no defined observations are NaN.
type AccuracyRecord struct {
	Signal       string `yaml:"signal" json:"signal"`
	BuySignals   int    `yaml:"buy_signals" json:"buy_signals"`
	SellSignals  int    `yaml:"sell_signals" json:"sell_signals"`
	TotalSignals int    `yaml:"total_signals" json:"total_signals"`
	// Fraction of buy triggers whose forward return is > 0
	BuyAccuracy float64 `yaml:"buy_accuracy" json:"buy_accuracy"`
	// Fraction of sell triggers whose forward return is < 0
	SellAccuracy  float64 `yaml:"sell_accuracy" json:"sell_accuracy"`
	TotalAccuracy float64 `yaml:"total_accuracy" json:"total_accuracy"`
	// Mean forward return after a buy, in percent
	BuyReturn float64 `yaml:"buy_return" json:"buy_return"`
	// Mean negated forward return after a sell, in percent. Positive when price fell.
	SellReturn float64 `yaml:"sell_return" json:"sell_return"`
}

// MarshalJSON encodes NaN ratios as null.
func (r AccuracyRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.jsonFields())
}

func (r AccuracyRecord) jsonFields() map[string]any {
	return map[string]any{
		"signal":         r.Signal,
		"buy_signals":    r.BuySignals,
		"sell_signals":   r.SellSignals,
		"total_signals":  r.TotalSignals,
		"buy_accuracy":   JSONFloat(r.BuyAccuracy),
		"sell_accuracy":  JSONFloat(r.SellAccuracy),
		"total_accuracy": JSONFloat(r.TotalAccuracy),
		"buy_return":     JSONFloat(r.BuyReturn),
		"sell_return":    JSONFloat(r.SellReturn),
	}
}

// ComboRecord is an AccuracyRecord for the logical AND of several signal columns.
type ComboRecord struct {
	AccuracyRecord `yaml:",inline"`
	Indicators     []string `yaml:"indicators" json:"indicators"`
}

// MarshalJSON keeps the embedded record flat and NaN-safe.
func (c ComboRecord) MarshalJSON() ([]byte, error) {
	fields := c.AccuracyRecord.jsonFields()
	fields["indicators"] = c.Indicators

	return json.Marshal(fields)
}

// ComboLabel returns the display label of a combination, e.g. "RSI_9_Signal + MACD_Signal_Col".
func ComboLabel(members []string) string {
	return strings.Join(members, ComboSeparator)
}
