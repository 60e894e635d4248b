package types

import (
	"time"

	"github.com/rxtech-lab/argo-signals/pkg/errors"
)

// Signal values carried by a signal column.
const (
	SignalSell = -1
	SignalHold = 0
	SignalBuy  = 1
)

// SignalSeries is a named {-1, 0, +1} column aligned 1:1 with a price series.
type SignalSeries struct {
	// Name is the column name, e.g. "RSI_14_Signal"
	Name string
	// Dates is the date index the values are keyed by
	Dates []time.Time
	// Values holds one signal per date
	Values []int
}

// NewSignalSeries builds a signal series and checks that every value is -1, 0 or 1.
func NewSignalSeries(name string, dates []time.Time, values []int) (SignalSeries, error) {
	if len(dates) != len(values) {
		return SignalSeries{}, errors.NewAlignmentError(name, len(dates), len(values), -1)
	}

	for i, v := range values {
		if v < SignalSell || v > SignalBuy {
			return SignalSeries{}, errors.Newf(errors.ErrCodeInvalidSignalValue,
				"signal %s has value %d at index %d, expected -1, 0 or 1", name, v, i)
		}
	}

	return SignalSeries{
		Name:   name,
		Dates:  dates,
		Values: values,
	}, nil
}

// Len returns the number of values in the series.
func (s SignalSeries) Len() int {
	return len(s.Values)
}

// IsBuy reports whether the value at i is a buy trigger.
func (s SignalSeries) IsBuy(i int) bool {
	return s.Values[i] > 0
}

// IsSell reports whether the value at i is a sell trigger.
func (s SignalSeries) IsSell(i int) bool {
	return s.Values[i] < 0
}

// CheckAligned returns an AlignmentError when the series is not keyed by exactly the bar dates.
func (s SignalSeries) CheckAligned(bars []PriceBar) error {
	if len(bars) != len(s.Values) || len(s.Dates) != len(s.Values) {
		return errors.NewAlignmentError(s.Name, len(bars), len(s.Values), -1)
	}

	for i, bar := range bars {
		if !bar.Time.Equal(s.Dates[i]) {
			return errors.NewAlignmentError(s.Name, len(bars), len(s.Values), i)
		}
	}

	return nil
}
