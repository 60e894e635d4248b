package indicator

import (
	"time"

	"github.com/rxtech-lab/argo-signals/internal/types"
)

func barsOf(closes ...float64) []types.PriceBar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]types.PriceBar, len(closes))

	for i, c := range closes {
		bars[i] = types.PriceBar{Time: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 100}
	}

	return bars
}

func frameOf(bars []types.PriceBar) *types.Frame {
	frame, err := types.NewFrame("TEST", bars)
	if err != nil {
		panic(err)
	}

	return frame
}
