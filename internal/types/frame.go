package types

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-signals/pkg/errors"
)

// Frame is a date-indexed wide table: the price bars plus any number of named float columns
// (indicator values and signal columns). Columns are discovered by name, never by a fixed schema.
type Frame struct {
	Symbol  string
	bars    []PriceBar
	columns map[string][]float64
	order   []string
}

// NewFrame creates a frame over bars. Dates must be strictly increasing.
func NewFrame(symbol string, bars []PriceBar) (*Frame, error) {
	for i := 1; i < len(bars); i++ {
		if !bars[i].Time.After(bars[i-1].Time) {
			return nil, errors.Newf(errors.ErrCodeUnorderedDates,
				"price dates must be strictly increasing: %s is not after %s",
				bars[i].Time.Format(time.DateOnly), bars[i-1].Time.Format(time.DateOnly))
		}
	}

	return &Frame{
		Symbol:  symbol,
		bars:    bars,
		columns: make(map[string][]float64),
		order:   nil,
	}, nil
}

// Len returns the number of bars.
func (f *Frame) Len() int {
	return len(f.bars)
}

// Bars returns the price bars. Callers must not modify the slice.
func (f *Frame) Bars() []PriceBar {
	return f.bars
}

// Dates returns a copy of the date index.
func (f *Frame) Dates() []time.Time {
	return Dates(f.bars)
}

// AddColumn appends a new column. The length must match the bar count.
func (f *Frame) AddColumn(name string, values []float64) error {
	if _, exists := f.columns[name]; exists {
		return errors.Newf(errors.ErrCodeColumnExists, "column %s already exists", name)
	}

	return f.SetColumn(name, values)
}

// SetColumn adds or replaces a column.
func (f *Frame) SetColumn(name string, values []float64) error {
	if len(values) != len(f.bars) {
		return errors.NewAlignmentError(name, len(f.bars), len(values), -1)
	}

	if _, exists := f.columns[name]; !exists {
		f.order = append(f.order, name)
	}

	f.columns[name] = values

	return nil
}

// HasColumn reports whether a column exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.columns[name]

	return ok
}

// Column returns the values of a column.
func (f *Frame) Column(name string) ([]float64, error) {
	values, ok := f.columns[name]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeColumnNotFound, "column %s not found", name)
	}

	return values, nil
}

// Columns returns column names in insertion order.
func (f *Frame) Columns() []string {
	names := make([]string, len(f.order))
	copy(names, f.order)

	return names
}

// SignalColumns returns the names of columns ending with any of the suffixes, in insertion order.
func (f *Frame) SignalColumns(suffixes []string) []string {
	var names []string

	for _, name := range f.order {
		for _, suffix := range suffixes {
			if strings.HasSuffix(name, suffix) {
				names = append(names, name)

				break
			}
		}
	}

	return names
}

// Signal converts a column into a SignalSeries. NaN reads as 0 and any other value
// is reduced to its sign.
func (f *Frame) Signal(name string) (SignalSeries, error) {
	values, err := f.Column(name)
	if err != nil {
		return SignalSeries{}, err
	}

	ints := make([]int, len(values))

	for i, v := range values {
		switch {
		case math.IsNaN(v) || v == 0:
			ints[i] = SignalHold
		case v > 0:
			ints[i] = SignalBuy
		default:
			ints[i] = SignalSell
		}
	}

	return NewSignalSeries(name, f.Dates(), ints)
}

// Signals converts every named column into a SignalSeries, sorted by name when sorted is true.
func (f *Frame) Signals(names []string, sorted bool) ([]SignalSeries, error) {
	if sorted {
		names = append([]string(nil), names...)
		sort.Strings(names)
	}

	series := make([]SignalSeries, 0, len(names))

	for _, name := range names {
		s, err := f.Signal(name)
		if err != nil {
			return nil, err
		}

		series = append(series, s)
	}

	return series, nil
}

// Window returns a new frame restricted to bars within [start, end]. Zero times are open bounds.
func (f *Frame) Window(start, end time.Time) *Frame {
	from, to := 0, len(f.bars)

	for from < to && !start.IsZero() && f.bars[from].Time.Before(start) {
		from++
	}

	for to > from && !end.IsZero() && f.bars[to-1].Time.After(end) {
		to--
	}

	window := &Frame{
		Symbol:  f.Symbol,
		bars:    f.bars[from:to],
		columns: make(map[string][]float64, len(f.columns)),
		order:   f.Columns(),
	}

	for name, values := range f.columns {
		window.columns[name] = values[from:to]
	}

	return window
}
