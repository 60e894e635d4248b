// Package report renders ranked accuracy and backtest tables for the terminal and derives the
// latest-bar advice from the top-ranked signal columns.
package report

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
)

// Style definitions.
var (
	// TitleStyle for section headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HeaderStyle for table header cells.
	HeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

	// CellStyle for table body cells.
	CellStyle = lipgloss.NewStyle().Padding(0, 1)

	// HelpStyle for footnotes.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// BuyStyle highlights a buy verdict.
	BuyStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))

	// SellStyle highlights a sell verdict.
	SellStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
)

// FormatPercent formats a fraction in 0..1 as a percentage.
func FormatPercent(fraction float64) string {
	if math.IsNaN(fraction) {
		return "n/a"
	}

	return fmt.Sprintf("%.1f%%", fraction*100)
}

// FormatReturn formats a value that is already a percentage.
func FormatReturn(pct float64) string {
	switch {
	case math.IsNaN(pct):
		return "n/a"
	case math.IsInf(pct, 1):
		return "inf"
	case math.IsInf(pct, -1):
		return "-inf"
	}

	return fmt.Sprintf("%+.2f%%", pct)
}

// FormatRatio formats a ratio with two decimals.
func FormatRatio(f float64) string {
	switch {
	case math.IsNaN(f):
		return "n/a"
	case math.IsInf(f, 1):
		return "inf"
	}

	return fmt.Sprintf("%.2f", f)
}
