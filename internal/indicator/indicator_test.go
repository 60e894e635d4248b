package indicator

import (
	"math"
	"testing"

	"github.com/rxtech-lab/argo-signals/mocks"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type IndicatorTestSuite struct {
	suite.Suite
}

func TestIndicatorSuite(t *testing.T) {
	suite.Run(t, new(IndicatorTestSuite))
}

func (suite *IndicatorTestSuite) column(frameColumns map[string][]float64, name string) []float64 {
	values, ok := frameColumns[name]
	suite.Require().True(ok, "missing column %s", name)

	return values
}

func (suite *IndicatorTestSuite) TestRSI() {
	suite.Equal([]string{"RSI_9", "RSI_14", "RSI_25"}, NewRSI().Columns())

	values := RSIValues([]float64{10, 11, 10}, 1)
	suite.True(math.IsNaN(values[0]))
	suite.InDelta(100, values[1], 1e-9)
	suite.InDelta(0, values[2], 1e-9)

	values = RSIValues([]float64{10, 11, 10}, 2)
	suite.InDelta(50, values[2], 1e-9)

	rising := RSIValues([]float64{1, 2, 3, 4, 5}, 14)
	suite.InDelta(100, rising[4], 1e-9)

	flat := RSIValues([]float64{5, 5, 5}, 14)
	suite.True(math.IsNaN(flat[2]))
}

func (suite *IndicatorTestSuite) TestRSIConfig() {
	rsi := NewRSI()
	suite.Require().NoError(rsi.Config(7))
	suite.Equal([]string{"RSI_7"}, rsi.Columns())

	suite.Require().NoError(rsi.Config([]int{2, 3}))
	suite.Equal([]string{"RSI_2", "RSI_3"}, rsi.Columns())

	suite.Equal(errors.ErrCodeMissingParameter, errors.GetCode(rsi.Config()))
	suite.Equal(errors.ErrCodeInvalidType, errors.GetCode(rsi.Config("14")))
	suite.Equal(errors.ErrCodeInvalidPeriod, errors.GetCode(rsi.Config(0)))
}

func (suite *IndicatorTestSuite) TestEMAAndMA() {
	frame := frameOf(barsOf(1, 2, 3, 4))

	ema := NewEMA()
	suite.Require().NoError(ema.Config(3))
	suite.Require().NoError(ema.Compute(frame))

	values, err := frame.Column("EMA_3")
	suite.Require().NoError(err)
	suite.InDelta(2.25, values[2], 1e-9)

	ma := NewMA()
	suite.Require().NoError(ma.Config(2))
	suite.Require().NoError(ma.Compute(frame))

	values, err = frame.Column("MA_2")
	suite.Require().NoError(err)
	suite.True(math.IsNaN(values[0]))
	suite.InDelta(3.5, values[3], 1e-9)

	volume := NewVolumeMA()
	suite.Equal([]string{"Volume_MA_5", "Volume_MA_10", "Volume_MA_20", "Volume_MA_50"}, volume.Columns())
	suite.Require().NoError(volume.Config(2))
	suite.Require().NoError(volume.Compute(frame))

	values, err = frame.Column("Volume_MA_2")
	suite.Require().NoError(err)
	suite.InDelta(100, values[1], 1e-9)
}

func (suite *IndicatorTestSuite) TestMACD() {
	frame := frameOf(mocks.GenerateDaily(120))
	macd := NewMACD()
	suite.Require().NoError(macd.Compute(frame))

	line, err := frame.Column(MACDLineColumn)
	suite.Require().NoError(err)
	signal, err := frame.Column(MACDSignalLineColumn)
	suite.Require().NoError(err)
	hist, err := frame.Column(MACDHistogramColumn)
	suite.Require().NoError(err)

	suite.InDelta(0, line[0], 1e-12)

	for i := range hist {
		suite.InDelta(line[i]-signal[i], hist[i], 1e-9)
	}

	suite.Equal(errors.ErrCodeMissingParameter, errors.GetCode(macd.Config(12, 26)))
	suite.Equal(errors.ErrCodeInvalidPeriod, errors.GetCode(macd.Config(26, 12, 9)))
	suite.NoError(macd.Config(5, 35, 5))
}

func (suite *IndicatorTestSuite) TestBollingerBands() {
	frame := frameOf(barsOf(1, 2, 3, 3, 3, 3))
	bb := NewBollingerBands()
	suite.Require().NoError(bb.Config([]int{3}, []float64{2}))
	suite.Equal([]string{"BB_3_2_MA", "BB_3_2_Upper", "BB_3_2_Lower", "BB_3_2_%B"}, bb.Columns())
	suite.Require().NoError(bb.Compute(frame))

	percentB, err := frame.Column("BB_3_2_%B")
	suite.Require().NoError(err)
	// warm-up and zero-width bands read the neutral value
	suite.InDelta(NeutralPercentB, percentB[0], 1e-9)
	suite.InDelta(0.75, percentB[2], 1e-9)
	suite.InDelta(NeutralPercentB, percentB[5], 1e-9)

	upper, err := frame.Column("BB_3_2_Upper")
	suite.Require().NoError(err)
	suite.InDelta(4, upper[2], 1e-9)
	suite.True(math.IsNaN(upper[0]))

	suite.Equal(errors.ErrCodeInvalidMultiplier, errors.GetCode(bb.Config([]int{20}, []float64{-1})))
	suite.Equal(errors.ErrCodeInvalidType, errors.GetCode(bb.Config([]int{20}, []int{2})))
	suite.Contains(NewBollingerBands().Columns(), "BB_40_1.5_%B")
}

func (suite *IndicatorTestSuite) TestStochasticOscillator() {
	frame := frameOf(barsOf(1, 2, 3, 3, 3))
	kd := NewStochasticOscillator()
	suite.Require().NoError(kd.Config([]int{2}, []int{2}))
	suite.Equal([]string{"%K_2", "%D_2_2"}, kd.Columns())
	suite.Require().NoError(kd.Compute(frame))

	k, err := frame.Column(KColumn(2))
	suite.Require().NoError(err)
	suite.InDelta(NeutralK, k[0], 1e-9)
	suite.InDelta(100, k[1], 1e-9)
	suite.InDelta(NeutralK, k[4], 1e-9)

	d, err := frame.Column(DColumn(2, 2))
	suite.Require().NoError(err)
	suite.True(math.IsNaN(d[0]))
	suite.InDelta(75, d[1], 1e-9)
}

func (suite *IndicatorTestSuite) TestOBV() {
	bars := barsOf(10, 11, 11, 9)
	for i := range bars {
		bars[i].Volume = float64(100 * (i + 1))
	}

	frame := frameOf(bars)
	suite.Require().NoError(NewOBV().Compute(frame))

	obv, err := frame.Column(OBVColumn)
	suite.Require().NoError(err)
	suite.Equal([]float64{0, 200, 200, -200}, obv)
}

func (suite *IndicatorTestSuite) TestDefaultRegistryOverGeneratedBars() {
	frame := frameOf(mocks.GenerateDaily(300))
	suite.Require().NoError(NewDefaultRegistry().ComputeAll(frame))
	suite.Len(frame.Columns(), 52)

	columns := make(map[string][]float64)
	for _, name := range frame.Columns() {
		values, err := frame.Column(name)
		suite.Require().NoError(err)
		columns[name] = values
	}

	for _, v := range suite.column(columns, "RSI_14") {
		if !math.IsNaN(v) {
			suite.GreaterOrEqual(v, 0.0)
			suite.LessOrEqual(v, 100.0)
		}
	}

	for _, v := range suite.column(columns, "%K_14") {
		suite.False(math.IsNaN(v))
		suite.GreaterOrEqual(v, 0.0)
		suite.LessOrEqual(v, 100.0)
	}

	for _, v := range suite.column(columns, "BB_20_2_%B") {
		suite.False(math.IsNaN(v))
	}

	ma200 := suite.column(columns, "MA_200")
	suite.True(math.IsNaN(ma200[198]))
	suite.False(math.IsNaN(ma200[199]))
}
