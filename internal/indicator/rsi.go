package indicator

import (
	"fmt"
	"math"

	"github.com/rxtech-lab/argo-signals/internal/types"
)

// RSI represents the Relative Strength Index indicator with Wilder smoothing
// (alpha = 1/period). It writes one column per period named RSI_<period>.
type RSI struct {
	periods []int
}

// NewRSI creates a new RSI indicator with periods 9, 14 and 25.
func NewRSI() Indicator {
	return &RSI{
		periods: []int{9, 14, 25},
	}
}

// Name returns the name of the indicator.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Config configures the RSI indicator. Expected parameters: one or more periods (int).
func (r *RSI) Config(params ...any) error {
	periods, err := periodsParam("RSI", params)
	if err != nil {
		return err
	}

	r.periods = periods

	return nil
}

// Columns implements Indicator.
func (r *RSI) Columns() []string {
	names := make([]string, len(r.periods))
	for i, p := range r.periods {
		names[i] = RSIColumn(p)
	}

	return names
}

// Compute implements Indicator.
func (r *RSI) Compute(frame *types.Frame) error {
	prices := closes(frame)

	for _, period := range r.periods {
		if err := frame.SetColumn(RSIColumn(period), RSIValues(prices, period)); err != nil {
			return err
		}
	}

	return nil
}

// RSIColumn is the column name of the RSI over period.
func RSIColumn(period int) string {
	return fmt.Sprintf("RSI_%d", period)
}

// RSIValues computes RSI = 100 - 100 / (1 + avgGain/avgLoss). A series with gains and no
// losses reads 100. A flat series is NaN.
func RSIValues(prices []float64, period int) []float64 {
	delta := Diff(prices)
	gains := make([]float64, len(delta))
	losses := make([]float64, len(delta))

	for i, d := range delta {
		if math.IsNaN(d) {
			gains[i], losses[i] = d, d

			continue
		}

		gains[i] = math.Max(d, 0)
		losses[i] = math.Max(-d, 0)
	}

	alpha := 1 / float64(period)
	avgGain := EWM(gains, alpha)
	avgLoss := EWM(losses, alpha)

	out := make([]float64, len(prices))
	for i := range out {
		rs := avgGain[i] / avgLoss[i]
		out[i] = 100 - 100/(1+rs)
	}

	return out
}
