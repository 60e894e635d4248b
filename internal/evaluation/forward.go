package evaluation

import (
	"math"

	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
)

// ForwardReturns returns (close[i+h] - close[i]) / close[i] for every bar. The last h values,
// and any value whose base close is not positive, are NaN.
func ForwardReturns(bars []types.PriceBar, horizon int) ([]float64, error) {
	if horizon <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidHorizon, "horizon must be a positive number of bars, got %d", horizon)
	}

	returns := make([]float64, len(bars))

	for i := range bars {
		returns[i] = math.NaN()

		if i+horizon >= len(bars) {
			continue
		}

		base := bars[i].Close
		if base <= 0 || math.IsNaN(base) {
			continue
		}

		returns[i] = (bars[i+horizon].Close - base) / base
	}

	return returns, nil
}
