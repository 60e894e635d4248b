package indicator

import (
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
)

// MACD column names. The signal line is not called MACD_Signal so that it can never be taken
// for a signal column.
const (
	MACDLineColumn       = "MACD_Line"
	MACDSignalLineColumn = "MACD_SignalLine"
	MACDHistogramColumn  = "MACD_Hist"
)

// MACD represents the Moving Average Convergence Divergence indicator.
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// NewMACD creates a new MACD indicator with default parameters (12, 26, 9).
func NewMACD() Indicator {
	return &MACD{
		fastPeriod:   12,
		slowPeriod:   26,
		signalPeriod: 9,
	}
}

// Name returns the name of the indicator.
func (m *MACD) Name() types.IndicatorType {
	return types.IndicatorTypeMACD
}

// Config configures the MACD indicator. Expected parameters: fastPeriod (int), slowPeriod (int), signalPeriod (int).
func (m *MACD) Config(params ...any) error {
	if len(params) != 3 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 3 parameters: fastPeriod (int), slowPeriod (int), signalPeriod (int)")
	}

	periods, err := periodsParam("MACD", params)
	if err != nil {
		return err
	}

	if periods[0] >= periods[1] {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "fast period (%d) must be smaller than slow period (%d)", periods[0], periods[1])
	}

	m.fastPeriod = periods[0]
	m.slowPeriod = periods[1]
	m.signalPeriod = periods[2]

	return nil
}

// Columns implements Indicator.
func (m *MACD) Columns() []string {
	return []string{MACDLineColumn, MACDSignalLineColumn, MACDHistogramColumn}
}

// Compute implements Indicator.
func (m *MACD) Compute(frame *types.Frame) error {
	prices := closes(frame)
	fast := SpanEWM(prices, m.fastPeriod)
	slow := SpanEWM(prices, m.slowPeriod)

	line := make([]float64, len(prices))
	for i := range line {
		line[i] = fast[i] - slow[i]
	}

	signal := SpanEWM(line, m.signalPeriod)

	hist := make([]float64, len(prices))
	for i := range hist {
		hist[i] = line[i] - signal[i]
	}

	for i, values := range [][]float64{line, signal, hist} {
		if err := frame.SetColumn(m.Columns()[i], values); err != nil {
			return err
		}
	}

	return nil
}
