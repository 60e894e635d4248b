package signal

import (
	"math"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-signals/internal/indicator"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/mocks"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type SignalTestSuite struct {
	suite.Suite
}

func TestSignalSuite(t *testing.T) {
	suite.Run(t, new(SignalTestSuite))
}

func (suite *SignalTestSuite) frame(n int) *types.Frame {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]types.PriceBar, n)

	for i := range bars {
		bars[i] = types.PriceBar{Time: start.AddDate(0, 0, i), Open: 1, High: 1, Low: 1, Close: 1}
	}

	frame, err := types.NewFrame("TEST", bars)
	suite.Require().NoError(err)

	return frame
}

func (suite *SignalTestSuite) column(frame *types.Frame, name string) []float64 {
	values, err := frame.Column(name)
	suite.Require().NoError(err)

	return values
}

func (suite *SignalTestSuite) TestKDRule() {
	frame := suite.frame(6)
	nan := math.NaN()
	suite.Require().NoError(frame.SetColumn("%K_5", []float64{nan, 10, 15, 85, 70, 90}))
	suite.Require().NoError(frame.SetColumn("%D_5_3", []float64{nan, 12, 12, 86, 80, 85}))

	rule := NewKDRule(5, 3)
	suite.Require().NoError(rule.Apply(frame))

	// idx2 crosses up below 20, idx3 crosses down above 80, idx5 crosses up outside the oversold zone
	suite.Equal([]float64{0, 0, 1, -1, 0, 0}, suite.column(frame, "KD_5_3_Signal"))
	suite.Equal([]float64{0, 0, 1, 0, 0, 1}, suite.column(frame, "KD_5_3_GoldenCross"))
	suite.Equal([]float64{0, 0, 0, -1, 0, 0}, suite.column(frame, "KD_5_3_DeathCross"))
}

func (suite *SignalTestSuite) TestRSIRule() {
	frame := suite.frame(7)
	suite.Require().NoError(frame.SetColumn("RSI_14", []float64{math.NaN(), 25, 28, 27, 75, 80, 72}))

	suite.Require().NoError(NewRSIRule(14).Apply(frame))
	suite.Equal([]float64{0, 0, 1, 0, 0, 0, -1}, suite.column(frame, "RSI_14_Signal"))
}

func (suite *SignalTestSuite) TestMACDRule() {
	frame := suite.frame(5)
	suite.Require().NoError(frame.SetColumn(indicator.MACDLineColumn, []float64{0, -1, 1, 1, -2}))
	suite.Require().NoError(frame.SetColumn(indicator.MACDSignalLineColumn, []float64{0, 0, 0, 1, 0}))

	suite.Require().NoError(NewMACDRule().Apply(frame))
	suite.Equal([]float64{0, -1, 1, 0, -1}, suite.column(frame, MACDColumn))
}

func (suite *SignalTestSuite) TestMissingIndicatorColumn() {
	frame := suite.frame(3)

	err := NewRSIRule(9).Apply(frame)
	suite.Equal(errors.ErrCodeColumnNotFound, errors.GetCode(err))

	err = Apply(frame, DefaultRules())
	suite.Equal(errors.ErrCodeColumnNotFound, errors.GetCode(err))
}

func (suite *SignalTestSuite) TestDefaultPipelineDiscovery() {
	frame, err := types.NewFrame("TEST", mocks.GenerateDaily(300))
	suite.Require().NoError(err)
	suite.Require().NoError(indicator.NewDefaultRegistry().ComputeAll(frame))
	suite.Require().NoError(Apply(frame, DefaultRules()))

	series, err := Discover(frame, nil)
	suite.Require().NoError(err)

	// 6 KD signals, 3 RSI signals and the MACD cross; crosses and the MACD signal line are not signals
	suite.Len(series, 10)

	names := make([]string, len(series))
	for i, s := range series {
		names[i] = s.Name
		suite.Equal(frame.Len(), s.Len())

		for _, v := range s.Values {
			suite.Contains([]int{-1, 0, 1}, v)
		}
	}

	suite.IsIncreasing(names)
	suite.Contains(names, MACDColumn)
	suite.NotContains(names, indicator.MACDSignalLineColumn)
	suite.NotContains(names, "KD_5_3_GoldenCross")

	crosses, err := Discover(frame, []string{"_GoldenCross"})
	suite.Require().NoError(err)
	suite.Len(crosses, 6)
}
