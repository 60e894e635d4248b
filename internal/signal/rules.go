package signal

import (
	"fmt"

	"github.com/rxtech-lab/argo-signals/internal/indicator"
	"github.com/rxtech-lab/argo-signals/internal/types"
)

// KDRule reads %K and %D of one window and smoothing period. It writes:
//   - KD_<w>_<d>_Signal: buy when %K crosses above %D below the oversold level, sell when it
//     crosses below %D above the overbought level
//   - KD_<w>_<d>_GoldenCross: buy on any upward cross
//   - KD_<w>_<d>_DeathCross: sell on any downward cross
type KDRule struct {
	Window     int
	DPeriod    int
	Oversold   float64
	Overbought float64
}

// NewKDRule creates a KD rule with levels 20 and 80.
func NewKDRule(window, dPeriod int) *KDRule {
	return &KDRule{Window: window, DPeriod: dPeriod, Oversold: 20, Overbought: 80}
}

// Name implements Rule.
func (r *KDRule) Name() string {
	return fmt.Sprintf("KD_%d_%d", r.Window, r.DPeriod)
}

// Columns implements Rule.
func (r *KDRule) Columns() []string {
	return []string{r.Name() + "_Signal", r.Name() + "_GoldenCross", r.Name() + "_DeathCross"}
}

// Apply implements Rule.
func (r *KDRule) Apply(frame *types.Frame) error {
	k, err := frame.Column(indicator.KColumn(r.Window))
	if err != nil {
		return err
	}

	d, err := frame.Column(indicator.DColumn(r.Window, r.DPeriod))
	if err != nil {
		return err
	}

	signal := make([]float64, len(k))
	golden := make([]float64, len(k))
	death := make([]float64, len(k))

	for i := range k {
		up := crossedAbove(k, d, i)
		down := crossedBelow(k, d, i)

		if up {
			golden[i] = types.SignalBuy
		}

		if down {
			death[i] = types.SignalSell
		}

		switch {
		case down && k[i] > r.Overbought:
			signal[i] = types.SignalSell
		case up && k[i] < r.Oversold:
			signal[i] = types.SignalBuy
		}
	}

	columns := r.Columns()
	for i, values := range [][]float64{signal, golden, death} {
		if err := frame.SetColumn(columns[i], values); err != nil {
			return err
		}
	}

	return nil
}

// RSIRule writes RSI_<p>_Signal: buy when RSI stays below the oversold level and turns up,
// sell when it stays above the overbought level and turns down.
type RSIRule struct {
	Period     int
	Oversold   float64
	Overbought float64
}

// NewRSIRule creates an RSI rule with levels 30 and 70.
func NewRSIRule(period int) *RSIRule {
	return &RSIRule{Period: period, Oversold: 30, Overbought: 70}
}

// Name implements Rule.
func (r *RSIRule) Name() string {
	return fmt.Sprintf("RSI_%d", r.Period)
}

// Columns implements Rule.
func (r *RSIRule) Columns() []string {
	return []string{r.Name() + "_Signal"}
}

// Apply implements Rule.
func (r *RSIRule) Apply(frame *types.Frame) error {
	rsi, err := frame.Column(indicator.RSIColumn(r.Period))
	if err != nil {
		return err
	}

	signal := make([]float64, len(rsi))

	for i := 1; i < len(rsi); i++ {
		cur, prev := rsi[i], rsi[i-1]

		switch {
		case cur > r.Overbought && prev > r.Overbought && cur < prev:
			signal[i] = types.SignalSell
		case cur < r.Oversold && prev < r.Oversold && cur > prev:
			signal[i] = types.SignalBuy
		}
	}

	return frame.SetColumn(r.Columns()[0], signal)
}

// MACDColumn is the MACD cross signal column.
const MACDColumn = "MACD_Signal_Col"

// MACDRule writes MACD_Signal_Col: buy when the MACD line crosses above its signal line, sell
// when it crosses below.
type MACDRule struct{}

// NewMACDRule creates a MACD cross rule.
func NewMACDRule() *MACDRule {
	return &MACDRule{}
}

// Name implements Rule.
func (r *MACDRule) Name() string {
	return "MACD"
}

// Columns implements Rule.
func (r *MACDRule) Columns() []string {
	return []string{MACDColumn}
}

// Apply implements Rule.
func (r *MACDRule) Apply(frame *types.Frame) error {
	line, err := frame.Column(indicator.MACDLineColumn)
	if err != nil {
		return err
	}

	signalLine, err := frame.Column(indicator.MACDSignalLineColumn)
	if err != nil {
		return err
	}

	signal := make([]float64, len(line))

	for i := range line {
		switch {
		case crossedBelow(line, signalLine, i):
			signal[i] = types.SignalSell
		case crossedAbove(line, signalLine, i):
			signal[i] = types.SignalBuy
		}
	}

	return frame.SetColumn(MACDColumn, signal)
}

// DefaultRules returns the rules matching the default indicator registry: KD over windows
// 5, 9 and 14 with %D periods 3 and 5, RSI over 9, 14 and 25, and the MACD cross.
func DefaultRules() []Rule {
	var rules []Rule

	for _, window := range []int{5, 9, 14} {
		for _, d := range []int{3, 5} {
			rules = append(rules, NewKDRule(window, d))
		}
	}

	for _, period := range []int{9, 14, 25} {
		rules = append(rules, NewRSIRule(period))
	}

	return append(rules, NewMACDRule())
}
