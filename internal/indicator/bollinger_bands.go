package indicator

import (
	"fmt"

	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
)

// NeutralPercentB is the %B reported when the bands have no width or are not defined yet.
const NeutralPercentB = 0.5

// BollingerBands implements the Indicator interface for Bollinger Bands. For every period and
// multiplier it writes BB_<p>_<m>_MA, _Upper, _Lower and _%B.
type BollingerBands struct {
	periods     []int
	multipliers []float64
}

// NewBollingerBands creates Bollinger Bands over periods 20 and 40 with multipliers 1.5, 2 and 2.5.
func NewBollingerBands() Indicator {
	return &BollingerBands{
		periods:     []int{20, 40},
		multipliers: []float64{1.5, 2, 2.5},
	}
}

// Name returns the name of the indicator.
func (bb *BollingerBands) Name() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

// Config configures the Bollinger Bands indicator. Expected parameters: periods ([]int), multipliers ([]float64).
func (bb *BollingerBands) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 2 parameters: periods ([]int), multipliers ([]float64)")
	}

	periods, err := periodsParam("BollingerBands", params[:1])
	if err != nil {
		return err
	}

	multipliers, ok := params[1].([]float64)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for multipliers parameter, expected []float64")
	}

	if len(multipliers) == 0 {
		return errors.New(errors.ErrCodeMissingParameter, "at least one multiplier is required")
	}

	for _, m := range multipliers {
		if m <= 0 {
			return errors.Newf(errors.ErrCodeInvalidMultiplier, "multiplier must be a positive number, got %f", m)
		}
	}

	bb.periods = periods
	bb.multipliers = multipliers

	return nil
}

// Columns implements Indicator.
func (bb *BollingerBands) Columns() []string {
	var names []string

	for _, p := range bb.periods {
		for _, m := range bb.multipliers {
			prefix := bandPrefix(p, m)
			names = append(names, prefix+"_MA", prefix+"_Upper", prefix+"_Lower", prefix+"_%B")
		}
	}

	return names
}

// Compute implements Indicator.
func (bb *BollingerBands) Compute(frame *types.Frame) error {
	prices := closes(frame)

	for _, period := range bb.periods {
		ma := RollingMean(prices, period)
		std := RollingStd(prices, period)

		for _, multiplier := range bb.multipliers {
			upper := make([]float64, len(prices))
			lower := make([]float64, len(prices))
			percentB := make([]float64, len(prices))

			for i := range prices {
				upper[i] = ma[i] + multiplier*std[i]
				lower[i] = ma[i] - multiplier*std[i]
				percentB[i] = (prices[i] - lower[i]) / (upper[i] - lower[i])
			}

			prefix := bandPrefix(period, multiplier)
			columns := map[string][]float64{
				prefix + "_MA":    ma,
				prefix + "_Upper": upper,
				prefix + "_Lower": lower,
				prefix + "_%B":    FillNonFinite(percentB, NeutralPercentB),
			}

			for _, name := range []string{prefix + "_MA", prefix + "_Upper", prefix + "_Lower", prefix + "_%B"} {
				if err := frame.SetColumn(name, columns[name]); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func bandPrefix(period int, multiplier float64) string {
	return fmt.Sprintf("BB_%d_%s", period, formatMultiplier(multiplier))
}
