package datasource

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
)

// LoadFrame reads the bars within the optional window into a Frame. Numeric columns stored
// next to the prices (precomputed indicators or signals) are carried over as frame columns.
func LoadFrame(ds DataSource, symbol string, start, end optional.Option[time.Time]) (*types.Frame, error) {
	count, err := ds.Count(start, end)
	if err != nil {
		return nil, err
	}

	if count == 0 {
		return nil, errors.New(errors.ErrCodeEmptySeries, "no price bars in the requested window")
	}

	bars := make([]types.PriceBar, 0, count)

	for bar, err := range ds.ReadAll(start, end) {
		if err != nil {
			return nil, err
		}

		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return nil, errors.New(errors.ErrCodeEmptySeries, "no price bars in the requested window")
	}

	frame, err := types.NewFrame(symbol, bars)
	if err != nil {
		return nil, err
	}

	extra, err := ds.ExtraColumns()
	if err != nil {
		return nil, err
	}

	for _, name := range extra {
		values, err := ds.ReadColumn(name, start, end)
		if err != nil {
			return nil, err
		}

		if err := frame.AddColumn(name, values); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to load column %s", name)
		}
	}

	return frame, nil
}
