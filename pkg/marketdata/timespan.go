package marketdata

import (
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
)

// Timespan is a download interval such as "1d" or "4h".
type Timespan string

const (
	TimespanOneMinute      Timespan = "1m"
	TimespanFiveMinutes    Timespan = "5m"
	TimespanFifteenMinutes Timespan = "15m"
	TimespanThirtyMinutes  Timespan = "30m"
	TimespanOneHour        Timespan = "1h"
	TimespanFourHours      Timespan = "4h"
	TimespanOneDay         Timespan = "1d"
	TimespanOneWeek        Timespan = "1w"
	TimespanOneMonth       Timespan = "1M"
)

type interval struct {
	multiplier int
	timespan   models.Timespan
}

var intervals = map[Timespan]interval{
	TimespanOneMinute:      {1, models.Minute},
	TimespanFiveMinutes:    {5, models.Minute},
	TimespanFifteenMinutes: {15, models.Minute},
	TimespanThirtyMinutes:  {30, models.Minute},
	TimespanOneHour:        {1, models.Hour},
	TimespanFourHours:      {4, models.Hour},
	TimespanOneDay:         {1, models.Day},
	TimespanOneWeek:        {1, models.Week},
	TimespanOneMonth:       {1, models.Month},
}

// ParseTimespan validates an interval string.
func ParseTimespan(s string) (Timespan, error) {
	t := Timespan(s)
	if _, ok := intervals[t]; !ok {
		return "", errors.Newf(errors.ErrCodeInvalidParameter, "unsupported interval %q", s)
	}

	return t, nil
}

// Multiplier returns the bar multiplier, defaulting to 1.
func (t Timespan) Multiplier() int {
	if i, ok := intervals[t]; ok {
		return i.multiplier
	}

	return 1
}

// Timespan returns the provider timespan, defaulting to daily bars.
func (t Timespan) Timespan() models.Timespan {
	if i, ok := intervals[t]; ok {
		return i.timespan
	}

	return models.Day
}
