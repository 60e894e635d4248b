package types

import "time"

// EquityPoint is the mark-to-market portfolio value at a date.
type EquityPoint struct {
	Date   time.Time `yaml:"date" json:"date" csv:"date"`
	Equity float64   `yaml:"equity" json:"equity" csv:"equity"`
}

// EquityCurve holds the strategy curve (one point per trade event plus a trailing point)
// and the buy-and-hold benchmark (one point per bar).
type EquityCurve struct {
	Signal    string        `yaml:"signal" json:"signal"`
	Points    []EquityPoint `yaml:"points" json:"points"`
	Benchmark []EquityPoint `yaml:"benchmark" json:"benchmark"`
}

// Last returns the final strategy equity point and false when the curve is empty.
func (c EquityCurve) Last() (EquityPoint, bool) {
	if len(c.Points) == 0 {
		return EquityPoint{}, false
	}

	return c.Points[len(c.Points)-1], true
}
