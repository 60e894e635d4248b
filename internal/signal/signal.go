// Package signal derives {-1, 0, +1} signal columns from indicator columns and discovers
// signal columns by name suffix.
package signal

import (
	"github.com/rxtech-lab/argo-signals/internal/types"
)

// DefaultSuffixes are the name suffixes that identify signal columns.
var DefaultSuffixes = []string{"_Signal", "_Col"}

// Rule writes one or more signal columns derived from existing indicator columns.
type Rule interface {
	// Name identifies the rule
	Name() string
	// Columns returns the names of the columns Apply writes
	Columns() []string
	// Apply writes the signal columns into the frame
	Apply(frame *types.Frame) error
}

// Apply runs every rule in order and stops at the first error.
func Apply(frame *types.Frame, rules []Rule) error {
	for _, rule := range rules {
		if err := rule.Apply(frame); err != nil {
			return err
		}
	}

	return nil
}

// Discover returns the signal series of every column whose name ends with one of the suffixes,
// sorted by name. An empty suffix list uses DefaultSuffixes.
func Discover(frame *types.Frame, suffixes []string) ([]types.SignalSeries, error) {
	if len(suffixes) == 0 {
		suffixes = DefaultSuffixes
	}

	return frame.Signals(frame.SignalColumns(suffixes), true)
}

// crossedAbove reports a[i] > b[i] after a[i-1] <= b[i-1]. Any NaN operand makes it false.
func crossedAbove(a, b []float64, i int) bool {
	return i > 0 && a[i] > b[i] && a[i-1] <= b[i-1]
}

// crossedBelow reports a[i] < b[i] after a[i-1] >= b[i-1]. Any NaN operand makes it false.
func crossedBelow(a, b []float64, i int) bool {
	return i > 0 && a[i] < b[i] && a[i-1] >= b[i-1]
}
