package indicator

import (
	"fmt"

	"github.com/rxtech-lab/argo-signals/internal/types"
)

// MA represents a Simple Moving Average. The same type serves the close price (MA_<p>) and
// the volume (Volume_MA_<p>).
type MA struct {
	name    types.IndicatorType
	prefix  string
	source  func(types.PriceBar) float64
	periods []int
}

// NewMA creates a close price moving average with periods 5, 10, 20, 50, 100 and 200.
func NewMA() Indicator {
	return &MA{
		name:    types.IndicatorTypeMA,
		prefix:  "MA",
		source:  func(bar types.PriceBar) float64 { return bar.Close },
		periods: []int{5, 10, 20, 50, 100, 200},
	}
}

// NewVolumeMA creates a volume moving average with periods 5, 10, 20 and 50.
func NewVolumeMA() Indicator {
	return &MA{
		name:    types.IndicatorTypeVolumeMA,
		prefix:  "Volume_MA",
		source:  func(bar types.PriceBar) float64 { return bar.Volume },
		periods: []int{5, 10, 20, 50},
	}
}

// Name returns the name of the indicator.
func (m *MA) Name() types.IndicatorType {
	return m.name
}

// Config configures the moving average. Expected parameters: one or more periods (int).
func (m *MA) Config(params ...any) error {
	periods, err := periodsParam(m.prefix, params)
	if err != nil {
		return err
	}

	m.periods = periods

	return nil
}

// Columns implements Indicator.
func (m *MA) Columns() []string {
	names := make([]string, len(m.periods))
	for i, p := range m.periods {
		names[i] = fmt.Sprintf("%s_%d", m.prefix, p)
	}

	return names
}

// Compute implements Indicator.
func (m *MA) Compute(frame *types.Frame) error {
	values := field(frame, m.source)
	names := m.Columns()

	for i, period := range m.periods {
		if err := frame.SetColumn(names[i], RollingMean(values, period)); err != nil {
			return err
		}
	}

	return nil
}
