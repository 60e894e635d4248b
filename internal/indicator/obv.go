package indicator

import (
	"github.com/rxtech-lab/argo-signals/internal/types"
)

// OBVColumn is the on-balance volume column name.
const OBVColumn = "OBV"

// OBV represents On-Balance Volume: starting at 0, add the bar volume on an up close and
// subtract it on a down close.
type OBV struct{}

// NewOBV creates a new OBV indicator.
func NewOBV() Indicator {
	return &OBV{}
}

// Name returns the name of the indicator.
func (o *OBV) Name() types.IndicatorType {
	return types.IndicatorTypeOBV
}

// Config accepts no parameters.
func (o *OBV) Config(_ ...any) error {
	return nil
}

// Columns implements Indicator.
func (o *OBV) Columns() []string {
	return []string{OBVColumn}
}

// Compute implements Indicator.
func (o *OBV) Compute(frame *types.Frame) error {
	bars := frame.Bars()
	obv := make([]float64, len(bars))

	for i := 1; i < len(bars); i++ {
		switch {
		case bars[i].Close > bars[i-1].Close:
			obv[i] = obv[i-1] + bars[i].Volume
		case bars[i].Close < bars[i-1].Close:
			obv[i] = obv[i-1] - bars[i].Volume
		default:
			obv[i] = obv[i-1]
		}
	}

	return frame.SetColumn(OBVColumn, obv)
}
