package pipeline

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/mocks"
	"go.uber.org/mock/gomock"
)

// iterate adapts a bar slice to the DataSource.ReadAll iterator.
func iterate(bars []types.PriceBar) func(func(types.PriceBar, error) bool) {
	return func(yield func(types.PriceBar, error) bool) {
		for _, bar := range bars {
			if !yield(bar, nil) {
				return
			}
		}
	}
}

// expectBars makes the mock serve bars with the given precomputed columns.
func expectBars(ds *mocks.MockDataSource, bars []types.PriceBar, columns map[string][]float64) {
	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}

	ds.EXPECT().Count(gomock.Any(), gomock.Any()).Return(len(bars), nil).AnyTimes()
	ds.EXPECT().ReadAll(gomock.Any(), gomock.Any()).Return(iterate(bars)).AnyTimes()
	ds.EXPECT().ExtraColumns().Return(names, nil).AnyTimes()

	for name, values := range columns {
		ds.EXPECT().ReadColumn(name, gomock.Any(), gomock.Any()).Return(values, nil).AnyTimes()
	}
}

func barsOf(closes ...float64) []types.PriceBar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]types.PriceBar, len(closes))

	for i, c := range closes {
		bars[i] = types.PriceBar{Time: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 100}
	}

	return bars
}

func none() optional.Option[time.Time] {
	return optional.None[time.Time]()
}
