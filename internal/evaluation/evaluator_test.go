package evaluation

import (
	"context"
	"math"
	"testing"

	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/mocks"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type EvaluatorTestSuite struct {
	suite.Suite
	bars []types.PriceBar
}

func TestEvaluatorSuite(t *testing.T) {
	suite.Run(t, new(EvaluatorTestSuite))
}

func (suite *EvaluatorTestSuite) SetupTest() {
	suite.bars = barsOf(10, 11, 12, 11, 13, 12, 14, 15)
}

func (suite *EvaluatorTestSuite) TestForwardReturns() {
	returns, err := ForwardReturns(barsOf(10, 11, 12, 9, 10), 2)
	suite.Require().NoError(err)
	suite.Require().Len(returns, 5)
	suite.InDelta(0.2, returns[0], 1e-12)
	suite.InDelta(-2.0/11.0, returns[1], 1e-12)
	suite.InDelta(-2.0/12.0, returns[2], 1e-12)
	suite.True(math.IsNaN(returns[3]))
	suite.True(math.IsNaN(returns[4]))

	_, err = ForwardReturns(suite.bars, 0)
	suite.Equal(errors.ErrCodeInvalidHorizon, errors.GetCode(err))
}

func (suite *EvaluatorTestSuite) TestEvaluate() {
	evaluation, err := Evaluate(suite.bars, []types.SignalSeries{
		signalOf("A", suite.bars, 1, 0, -1, 0, -1, 0, 0, 1),
		signalOf("B", suite.bars, 0, 1, 0, 1, 0, 0, 0, 0),
		signalOf("C", suite.bars, 0, 0, 0, 0, 0, 0, 0, 0),
		signalOf("D", suite.bars, -1, 0, 0, 0, 0, 0, 0, 0),
	}, 1)
	suite.Require().NoError(err)
	suite.Equal(1, evaluation.Horizon)
	suite.Empty(evaluation.Failures)
	suite.Len(evaluation.Records, 3)
	suite.NotContains(evaluation.Records, "C")

	a := evaluation.Records["A"]
	suite.Equal(2, a.BuySignals)
	suite.Equal(2, a.SellSignals)
	suite.Equal(4, a.TotalSignals)
	suite.InDelta(1, a.BuyAccuracy, 1e-12)
	suite.InDelta(10, a.BuyReturn, 1e-9)
	suite.InDelta(1, a.SellAccuracy, 1e-12)
	suite.InDelta((1.0/12.0+1.0/13.0)/2*100, a.SellReturn, 1e-9)
	suite.InDelta(1, a.TotalAccuracy, 1e-12)

	b := evaluation.Records["B"]
	suite.Equal(2, b.BuySignals)
	suite.Zero(b.SellSignals)
	suite.InDelta(b.BuyAccuracy, b.TotalAccuracy, 1e-12)
	suite.True(math.IsNaN(b.SellAccuracy))
	suite.True(math.IsNaN(b.SellReturn))

	d := evaluation.Records["D"]
	suite.Zero(d.SellAccuracy)
	suite.InDelta(-10, d.SellReturn, 1e-9)
	suite.Zero(d.TotalAccuracy)
	suite.True(math.IsNaN(d.BuyAccuracy))

	for _, record := range evaluation.Records {
		suite.Equal(record.BuySignals+record.SellSignals, record.TotalSignals)
		suite.Positive(record.TotalSignals)
	}
}

func (suite *EvaluatorTestSuite) TestUndefinedForwardReturnsAreExcluded() {
	bars := barsOf(10, 11, 12, 13, 14, 15, 16, 17)
	evaluation, err := Evaluate(bars, []types.SignalSeries{
		signalOf("late", bars, 1, 0, 0, 0, 0, 1, 0, 0),
	}, 5)
	suite.Require().NoError(err)

	record := evaluation.Records["late"]
	suite.Equal(2, record.BuySignals)
	suite.InDelta(1, record.BuyAccuracy, 1e-12)
	suite.InDelta(50, record.BuyReturn, 1e-9)
}

func (suite *EvaluatorTestSuite) TestTriggersWithoutDefinedReturnsAreReported() {
	bars := barsOf(10, 11, 12)
	evaluation, err := Evaluate(bars, []types.SignalSeries{
		signalOf("tail", bars, 0, 0, 1),
	}, 1)
	suite.Require().NoError(err)

	record, ok := evaluation.Records["tail"]
	suite.Require().True(ok)
	suite.Equal(1, record.TotalSignals)
	suite.True(math.IsNaN(record.BuyAccuracy))
	suite.True(math.IsNaN(record.TotalAccuracy))
}

func (suite *EvaluatorTestSuite) TestWeightedTotalAccuracy() {
	// buys: idx0 up, idx1 down; sells: idx2 up, idx3 down, idx4 down
	bars := barsOf(10, 11, 10, 12, 11, 10, 9)
	evaluation, err := Evaluate(bars, []types.SignalSeries{
		signalOf("mixed", bars, 1, 1, -1, -1, -1, 0, 0),
	}, 1)
	suite.Require().NoError(err)

	record := evaluation.Records["mixed"]
	suite.InDelta(0.5, record.BuyAccuracy, 1e-12)
	suite.InDelta(2.0/3.0, record.SellAccuracy, 1e-12)
	suite.InDelta(3.0/5.0, record.TotalAccuracy, 1e-12)
}

func (suite *EvaluatorTestSuite) TestMisalignedColumnDoesNotStopBatch() {
	evaluation, err := Evaluate(suite.bars, []types.SignalSeries{
		signalOf("short", barsOf(1, 2), 1, 0),
		signalOf("B", suite.bars, 0, 1, 0, 1, 0, 0, 0, 0),
	}, 1)
	suite.Require().NoError(err)
	suite.True(errors.IsAlignmentError(evaluation.Failures["short"]))
	suite.Contains(evaluation.Records, "B")
}

func (suite *EvaluatorTestSuite) TestEmptyInput() {
	evaluation, err := Evaluate(nil, nil, 5)
	suite.Require().NoError(err)
	suite.Empty(evaluation.Records)
	suite.Empty(evaluation.Ranked())
}

func (suite *EvaluatorTestSuite) TestRanked() {
	evaluation, err := Evaluate(suite.bars, []types.SignalSeries{
		signalOf("A", suite.bars, 1, 0, -1, 0, -1, 0, 0, 1),
		signalOf("B", suite.bars, 0, 1, 0, 1, 0, 0, 0, 0),
		signalOf("D", suite.bars, -1, 0, 0, 0, 0, 0, 0, 0),
		signalOf("E", suite.bars, 0, 0, 1, 0, 0, 0, 0, 0),
	}, 1)
	suite.Require().NoError(err)

	ranked := evaluation.Ranked()
	names := make([]string, len(ranked))

	for i, record := range ranked {
		names[i] = record.Signal
	}

	// A and B are both 100% accurate, B has the higher mean return; E is wrong; D has no buys
	suite.Equal([]string{"B", "A", "E", "D"}, names)
	suite.Equal([]string{"B", "A"}, evaluation.Top(2))
	suite.Len(evaluation.Top(10), 4)
}

func (suite *EvaluatorTestSuite) TestParallelMatchesSequential() {
	bars := mocks.GenerateDaily(400)
	signals := make([]types.SignalSeries, 0, 12)

	for k := 2; k < 14; k++ {
		values := make([]int, len(bars))
		for i := range values {
			switch {
			case i%k == 0:
				values[i] = types.SignalBuy
			case i%(k+1) == 0:
				values[i] = types.SignalSell
			}
		}

		signals = append(signals, signalOf(string(rune('a'+k)), bars, values...))
	}

	sequential, err := Evaluate(bars, signals, 10)
	suite.Require().NoError(err)

	parallel, err := EvaluateParallel(context.Background(), bars, signals, 10, 4)
	suite.Require().NoError(err)

	suite.Equal(len(sequential.Records), len(parallel.Records))

	for name, record := range sequential.Records {
		other := parallel.Records[name]
		suite.Equal(record.TotalSignals, other.TotalSignals)
		suite.True(sameFloat(record.BuyAccuracy, other.BuyAccuracy))
		suite.True(sameFloat(record.SellReturn, other.SellReturn))
	}
}

func (suite *EvaluatorTestSuite) TestEvaluateParallelCancelled() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := EvaluateParallel(ctx, suite.bars, []types.SignalSeries{
		signalOf("B", suite.bars, 0, 1, 0, 1, 0, 0, 0, 0),
	}, 1, 2)
	suite.ErrorIs(err, context.Canceled)
}
