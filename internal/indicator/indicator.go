// Package indicator computes technical indicator columns over a price frame.
//
// Each indicator writes one or more named float columns. Values that are undefined during the
// warm-up period are NaN, except where an indicator defines a neutral sentinel (Bollinger %B
// reads 0.5 and stochastic %K reads 50 when the band or range has zero width).
package indicator

import (
	"strconv"

	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
)

// Indicator interface defines methods that any technical indicator must implement
type Indicator interface {
	// Name returns the name of the indicator
	Name() types.IndicatorType
	// Config replaces the indicator parameters
	Config(params ...any) error
	// Columns returns the names of the columns Compute writes, in write order
	Columns() []string
	// Compute writes the indicator columns into the frame, replacing existing ones
	Compute(frame *types.Frame) error
}

func closes(frame *types.Frame) []float64 {
	return types.Closes(frame.Bars())
}

func field(frame *types.Frame, pick func(types.PriceBar) float64) []float64 {
	bars := frame.Bars()
	out := make([]float64, len(bars))

	for i, bar := range bars {
		out[i] = pick(bar)
	}

	return out
}

// periodsParam reads params as positive ints, or a single []int.
func periodsParam(name string, params []any) ([]int, error) {
	if len(params) == 1 {
		if list, ok := params[0].([]int); ok {
			params = make([]any, len(list))
			for i, v := range list {
				params[i] = v
			}
		}
	}

	if len(params) == 0 {
		return nil, errors.Newf(errors.ErrCodeMissingParameter, "%s expects at least one period (int)", name)
	}

	periods := make([]int, len(params))

	for i, param := range params {
		period, ok := param.(int)
		if !ok {
			return nil, errors.Newf(errors.ErrCodeInvalidType, "invalid type for %s period parameter %d, expected int", name, i)
		}

		if period <= 0 {
			return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
		}

		periods[i] = period
	}

	return periods, nil
}

func formatMultiplier(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}
