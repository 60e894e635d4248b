package indicator

import (
	"fmt"

	"github.com/rxtech-lab/argo-signals/internal/types"
)

// EMA represents the Exponential Moving Average of the close with alpha = 2/(span+1).
type EMA struct {
	periods []int
}

// NewEMA creates a new EMA indicator with spans 12 and 26.
func NewEMA() Indicator {
	return &EMA{
		periods: []int{12, 26},
	}
}

// Name returns the name of the indicator.
func (e *EMA) Name() types.IndicatorType {
	return types.IndicatorTypeEMA
}

// Config configures the EMA indicator. Expected parameters: one or more spans (int).
func (e *EMA) Config(params ...any) error {
	periods, err := periodsParam("EMA", params)
	if err != nil {
		return err
	}

	e.periods = periods

	return nil
}

// Columns implements Indicator.
func (e *EMA) Columns() []string {
	names := make([]string, len(e.periods))
	for i, p := range e.periods {
		names[i] = fmt.Sprintf("EMA_%d", p)
	}

	return names
}

// Compute implements Indicator.
func (e *EMA) Compute(frame *types.Frame) error {
	prices := closes(frame)

	for i, period := range e.periods {
		if err := frame.SetColumn(e.Columns()[i], SpanEWM(prices, period)); err != nil {
			return err
		}
	}

	return nil
}
