package engine

import (
	"time"

	"github.com/rxtech-lab/argo-signals/internal/types"
)

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func barsOf(closes ...float64) []types.PriceBar {
	bars := make([]types.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = types.PriceBar{
			Time:   testStart.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}

	return bars
}

func signalOf(name string, bars []types.PriceBar, values ...int) types.SignalSeries {
	series, err := types.NewSignalSeries(name, types.Dates(bars), values)
	if err != nil {
		panic(err)
	}

	return series
}
