package report

import (
	"math"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ReportTestSuite struct {
	suite.Suite
}

func TestReportSuite(t *testing.T) {
	suite.Run(t, new(ReportTestSuite))
}

func (suite *ReportTestSuite) frame(columns map[string][]float64) *types.Frame {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]types.PriceBar, 2)

	for i := range bars {
		bars[i] = types.PriceBar{Time: start.AddDate(0, 0, i), Close: 10}
	}

	frame, err := types.NewFrame("TEST", bars)
	suite.Require().NoError(err)

	for name, values := range columns {
		suite.Require().NoError(frame.AddColumn(name, values))
	}

	return frame
}

func (suite *ReportTestSuite) TestAdviseVerdict() {
	tests := []struct {
		name     string
		latest   []float64
		expected types.Recommendation
	}{
		{name: "two buys", latest: []float64{1, 1, 0}, expected: types.RecommendationBuy},
		{name: "three sells", latest: []float64{-1, -1, -1}, expected: types.RecommendationSell},
		{name: "single buy is not a majority", latest: []float64{1, 0, 0}, expected: types.RecommendationHold},
		{name: "split", latest: []float64{1, -1, 0}, expected: types.RecommendationHold},
		{name: "two sells one buy", latest: []float64{-1, 1, -1}, expected: types.RecommendationSell},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			frame := suite.frame(map[string][]float64{
				"A_Signal": {0, tc.latest[0]},
				"B_Signal": {0, tc.latest[1]},
				"C_Signal": {0, tc.latest[2]},
			})

			advice, err := Advise(frame, []string{"A_Signal", "B_Signal", "C_Signal"})
			suite.Require().NoError(err)
			suite.Equal(tc.expected, advice.Verdict)
			suite.Len(advice.Signals, 3)
			suite.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), advice.Date)
		})
	}
}

func (suite *ReportTestSuite) TestAdviseUsesTopThreeOnly() {
	frame := suite.frame(map[string][]float64{
		"A_Signal": {0, 1},
		"B_Signal": {0, 0},
		"C_Signal": {0, 0},
		"D_Signal": {0, 1},
	})

	advice, err := Advise(frame, []string{"A_Signal", "B_Signal", "C_Signal", "D_Signal"})
	suite.Require().NoError(err)
	suite.Len(advice.Signals, 4)
	suite.Equal(types.RecommendationBuy, advice.Signals[3].Recommendation)
	suite.Equal(types.RecommendationHold, advice.Verdict)
}

func (suite *ReportTestSuite) TestAdviseMissingColumn() {
	_, err := Advise(suite.frame(nil), []string{"missing"})
	suite.True(errors.HasCode(err, errors.ErrCodeColumnNotFound))
}

func (suite *ReportTestSuite) TestFormatting() {
	suite.Equal("n/a", FormatPercent(math.NaN()))
	suite.Equal("66.7%", FormatPercent(2.0/3))
	suite.Equal("+1.50%", FormatReturn(1.5))
	suite.Equal("-33.20%", FormatReturn(-33.2))
	suite.Equal("inf", FormatRatio(math.Inf(1)))
	suite.Equal("n/a", FormatRatio(math.NaN()))
}

func (suite *ReportTestSuite) TestRender() {
	r := types.Report{
		Symbol: "AAPL",
		Bars:   2,
		Horizons: []types.HorizonReport{
			{
				HorizonDays:  5,
				Accuracy:     []types.AccuracyRecord{{Signal: "RSI_9_Signal", BuySignals: 1, TotalSignals: 1, BuyAccuracy: 1, SellAccuracy: math.NaN(), TotalAccuracy: 1, BuyReturn: 2, SellReturn: math.NaN()}},
				Combinations: []types.ComboRecord{{AccuracyRecord: types.AccuracyRecord{Signal: "RSI_9_Signal + MACD_Signal_Col"}}},
				Backtests:    []types.BacktestSummary{{Signal: "RSI_9_Signal", FinalCapital: 668, TotalReturnPct: -33.2, ProfitFactor: 0}},
				Failures:     map[string]string{"BAD_Signal": "misaligned"},
				Advice: types.Advice{
					HorizonDays: 5,
					Signals:     []types.CurrentSignal{{Signal: "RSI_9_Signal", Value: 1, Recommendation: types.RecommendationBuy}},
					Verdict:     types.RecommendationHold,
				},
			},
			{
				HorizonDays: 20,
				Advice: types.Advice{
					HorizonDays: 20,
					Signals:     []types.CurrentSignal{{Signal: "MACD_Signal_Col", Value: -1, Recommendation: types.RecommendationSell}},
					Verdict:     types.RecommendationSell,
				},
			},
		},
	}

	out := Render(r)
	suite.Contains(out, "Signal accuracy, 5-day horizon")
	suite.Contains(out, "RSI_9_Signal + MACD_Signal_Col")
	suite.Contains(out, "-33.20%")
	suite.Contains(out, "skipped BAD_Signal")
	suite.Contains(out, "HOLD")
	suite.Contains(out, "5-day ranking")
	suite.Contains(out, "20-day ranking")
	suite.Contains(out, "SELL")
}

func (suite *ReportTestSuite) TestLedgerTable() {
	ledger := types.TradeLedger{
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Kind: types.TradeKindBuy, Price: 12, Shares: 83, CashFlow: 996, RemainingCash: 4},
	}

	out := LedgerTable("RSI_9_Signal", ledger)
	suite.Contains(out, "2024-01-02")
	suite.Contains(out, "996.00")
}
