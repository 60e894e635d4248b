package engine

import (
	"math"
	"testing"

	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/stretchr/testify/suite"
)

type SummaryTestSuite struct {
	suite.Suite
}

func TestSummarySuite(t *testing.T) {
	suite.Run(t, new(SummaryTestSuite))
}

// two buys in a row followed by a single close, which the engine never emits
func (suite *SummaryTestSuite) malformedLedger() types.TradeLedger {
	return types.TradeLedger{
		{Date: testStart.AddDate(0, 0, 1), Kind: types.TradeKindBuy, Price: 10, Shares: 10, CashFlow: 100, RemainingCash: 900},
		{Date: testStart.AddDate(0, 0, 2), Kind: types.TradeKindBuy, Price: 20, Shares: 5, CashFlow: 100, RemainingCash: 800},
		{Date: testStart.AddDate(0, 0, 5), Kind: types.TradeKindSell, Price: 30, Shares: 5, CashFlow: 150, RemainingCash: 950},
	}
}

func (suite *SummaryTestSuite) TestPairPositional() {
	trips := Pair(suite.malformedLedger(), PairingPositional)
	suite.Require().Len(trips, 1)
	suite.InDelta(10, trips[0].Buy.Price, 1e-9)
	suite.InDelta(200, trips[0].PnL().InexactFloat64(), 1e-9)
	suite.Equal(4, trips[0].HoldingDays())
}

func (suite *SummaryTestSuite) TestPairLIFO() {
	trips := Pair(suite.malformedLedger(), PairingLIFO)
	suite.Require().Len(trips, 1)
	suite.InDelta(20, trips[0].Buy.Price, 1e-9)
	suite.InDelta(50, trips[0].PnL().InexactFloat64(), 1e-9)
	suite.Equal(3, trips[0].HoldingDays())
}

func (suite *SummaryTestSuite) TestOddLedgerUndercountsRoundTrips() {
	summary := Summarize("s", suite.malformedLedger(), 1000, PairingPositional)
	suite.Equal(1, summary.RoundTrips)
	suite.InDelta(950, summary.FinalCapital, 1e-9)
	suite.InDelta(-5, summary.TotalReturnPct, 1e-9)
	suite.InDelta(100.0/3.0, summary.WinRate, 1e-9)
}

func (suite *SummaryTestSuite) TestMixedWinsAndLosses() {
	ledger := types.TradeLedger{
		{Date: testStart.AddDate(0, 0, 1), Kind: types.TradeKindBuy, Price: 10, Shares: 100, CashFlow: 1000, RemainingCash: 0},
		{Date: testStart.AddDate(0, 0, 3), Kind: types.TradeKindSell, Price: 13, Shares: 100, CashFlow: 1300, RemainingCash: 1300},
		{Date: testStart.AddDate(0, 0, 4), Kind: types.TradeKindBuy, Price: 13, Shares: 100, CashFlow: 1300, RemainingCash: 0},
		{Date: testStart.AddDate(0, 0, 9), Kind: types.TradeKindForcedClose, Price: 12, Shares: 100, CashFlow: 1200, RemainingCash: 1200},
	}

	summary := Summarize("s", ledger, 1000, PairingPositional)
	suite.Equal(2, summary.RoundTrips)
	suite.InDelta(25, summary.WinRate, 1e-9)
	suite.InDelta(3.5, summary.AvgHoldingDays, 1e-9)
	suite.InDelta(300, summary.GrossProfit, 1e-9)
	suite.InDelta(-100, summary.GrossLoss, 1e-9)
	suite.InDelta(3, summary.ProfitFactor, 1e-9)
	suite.InDelta(20, summary.TotalReturnPct, 1e-9)
}

func (suite *SummaryTestSuite) TestEmptyLedger() {
	summary := Summarize("s", nil, 500, PairingLIFO)
	suite.Equal(types.BacktestSummary{Signal: "s", InitialCapital: 500, FinalCapital: 500}, summary)
}

func (suite *SummaryTestSuite) TestProfitFactorSentinels() {
	suite.True(math.IsInf(Summarize("s", types.TradeLedger{
		{Date: testStart, Kind: types.TradeKindBuy, Price: 1, Shares: 1, CashFlow: 1, RemainingCash: 9},
		{Date: testStart.AddDate(0, 0, 1), Kind: types.TradeKindSell, Price: 2, Shares: 1, CashFlow: 2, RemainingCash: 11},
	}, 10, PairingPositional).ProfitFactor, 1))

	breakEven := Summarize("s", types.TradeLedger{
		{Date: testStart, Kind: types.TradeKindBuy, Price: 1, Shares: 1, CashFlow: 1, RemainingCash: 9},
		{Date: testStart.AddDate(0, 0, 1), Kind: types.TradeKindSell, Price: 1, Shares: 1, CashFlow: 1, RemainingCash: 10},
	}, 10, PairingPositional)
	suite.True(math.IsInf(breakEven.ProfitFactor, 1))
	suite.Zero(breakEven.GrossProfit)
	suite.Zero(breakEven.GrossLoss)
	suite.Zero(breakEven.WinRate)
}
