package types

import "time"

// PriceBar is one daily OHLCV bar. Volume is zero when the source has no volume column.
type PriceBar struct {
	Time   time.Time `yaml:"time" json:"time" csv:"time"`
	Open   float64   `yaml:"open" json:"open" csv:"open"`
	High   float64   `yaml:"high" json:"high" csv:"high"`
	Low    float64   `yaml:"low" json:"low" csv:"low"`
	Close  float64   `yaml:"close" json:"close" csv:"close"`
	Volume float64   `yaml:"volume" json:"volume" csv:"volume"`
}

// Dates returns the bar dates in order.
func Dates(bars []PriceBar) []time.Time {
	dates := make([]time.Time, len(bars))
	for i, bar := range bars {
		dates[i] = bar.Time
	}

	return dates
}

// Closes returns the close prices in order.
func Closes(bars []PriceBar) []float64 {
	closes := make([]float64, len(bars))
	for i, bar := range bars {
		closes[i] = bar.Close
	}

	return closes
}

// HoldingDays returns the number of whole calendar days between two dates.
func HoldingDays(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
