package types

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type SignalTestSuite struct {
	suite.Suite
}

func TestSignalSuite(t *testing.T) {
	suite.Run(t, new(SignalTestSuite))
}

func days(n int) []time.Time {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, n)

	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}

	return dates
}

func barsFromCloses(closes ...float64) []PriceBar {
	dates := days(len(closes))
	bars := make([]PriceBar, len(closes))

	for i, c := range closes {
		bars[i] = PriceBar{Time: dates[i], Open: c, High: c, Low: c, Close: c}
	}

	return bars
}

func (suite *SignalTestSuite) TestNewSignalSeries() {
	series, err := NewSignalSeries("RSI_14_Signal", days(3), []int{0, 1, -1})
	suite.NoError(err)
	suite.Equal(3, series.Len())
	suite.True(series.IsBuy(1))
	suite.True(series.IsSell(2))
	suite.False(series.IsBuy(0))
}

func (suite *SignalTestSuite) TestNewSignalSeriesRejectsInvalidValues() {
	_, err := NewSignalSeries("bad", days(2), []int{0, 2})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidSignalValue))
}

func (suite *SignalTestSuite) TestNewSignalSeriesLengthMismatch() {
	_, err := NewSignalSeries("short", days(3), []int{0, 1})
	suite.True(errors.IsAlignmentError(err))
}

func (suite *SignalTestSuite) TestCheckAligned() {
	bars := barsFromCloses(10, 12, 8)

	aligned, err := NewSignalSeries("ok", Dates(bars), []int{0, 1, -1})
	suite.Require().NoError(err)
	suite.NoError(aligned.CheckAligned(bars))

	shifted, err := NewSignalSeries("shifted", days(4)[1:], []int{0, 1, -1})
	suite.Require().NoError(err)

	err = shifted.CheckAligned(bars)
	suite.True(errors.IsAlignmentError(err))

	var alignmentErr *errors.AlignmentError
	suite.Require().True(errors.As(err, &alignmentErr))
	suite.Equal(0, alignmentErr.MismatchIdx)

	err = aligned.CheckAligned(bars[:2])
	suite.True(errors.IsAlignmentError(err))
}
