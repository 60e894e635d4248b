package indicator

import (
	"fmt"

	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
)

// NeutralK is the %K reported when the high-low range has no width or is not defined yet.
const NeutralK = 50.0

// StochasticOscillator writes %K_<w> for every window and %D_<w>_<d>, the d-bar mean of %K,
// for every window and smoothing period.
type StochasticOscillator struct {
	windows  []int
	dPeriods []int
}

// NewStochasticOscillator creates the oscillator over windows 5, 9 and 14 with %D periods 3 and 5.
func NewStochasticOscillator() Indicator {
	return &StochasticOscillator{
		windows:  []int{5, 9, 14},
		dPeriods: []int{3, 5},
	}
}

// Name returns the name of the indicator.
func (s *StochasticOscillator) Name() types.IndicatorType {
	return types.IndicatorTypeStochasticOsciallator
}

// Config configures the oscillator. Expected parameters: windows ([]int), dPeriods ([]int).
func (s *StochasticOscillator) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 2 parameters: windows ([]int), dPeriods ([]int)")
	}

	windows, err := periodsParam("StochasticOscillator", params[:1])
	if err != nil {
		return err
	}

	dPeriods, err := periodsParam("StochasticOscillator", params[1:])
	if err != nil {
		return err
	}

	s.windows = windows
	s.dPeriods = dPeriods

	return nil
}

// Columns implements Indicator.
func (s *StochasticOscillator) Columns() []string {
	var names []string

	for _, w := range s.windows {
		names = append(names, KColumn(w))
		for _, d := range s.dPeriods {
			names = append(names, DColumn(w, d))
		}
	}

	return names
}

// Compute implements Indicator.
func (s *StochasticOscillator) Compute(frame *types.Frame) error {
	prices := closes(frame)
	highs := field(frame, func(bar types.PriceBar) float64 { return bar.High })
	lows := field(frame, func(bar types.PriceBar) float64 { return bar.Low })

	for _, window := range s.windows {
		lowest := RollingMin(lows, window)
		highest := RollingMax(highs, window)

		k := make([]float64, len(prices))
		for i := range prices {
			k[i] = 100 * (prices[i] - lowest[i]) / (highest[i] - lowest[i])
		}

		k = FillNonFinite(k, NeutralK)

		if err := frame.SetColumn(KColumn(window), k); err != nil {
			return err
		}

		for _, d := range s.dPeriods {
			if err := frame.SetColumn(DColumn(window, d), RollingMean(k, d)); err != nil {
				return err
			}
		}
	}

	return nil
}

// KColumn is the %K column name for window.
func KColumn(window int) string {
	return fmt.Sprintf("%%K_%d", window)
}

// DColumn is the %D column name for window and smoothing period.
func DColumn(window, dPeriod int) string {
	return fmt.Sprintf("%%D_%d_%d", window, dPeriod)
}
