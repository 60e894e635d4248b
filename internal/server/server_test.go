package server

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/internal/version"
	"github.com/rxtech-lab/argo-signals/internal/writer"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ServerTestSuite struct {
	suite.Suite
	root   string
	id     string
	server *Server
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (suite *ServerTestSuite) SetupTest() {
	suite.root = suite.T().TempDir()
	suite.id = uuid.New().String()

	report := types.Report{
		ID:        suite.id,
		Version:   version.GetVersion(),
		Symbol:    "AAPL",
		CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Bars:      250,
		Horizons: []types.HorizonReport{
			{
				HorizonDays: 5,
				Accuracy: []types.AccuracyRecord{
					{Signal: "RSI_9_Signal", BuySignals: 3, TotalSignals: 3, BuyAccuracy: 2.0 / 3, SellAccuracy: math.NaN(), TotalAccuracy: 2.0 / 3, BuyReturn: 1.2, SellReturn: math.NaN()},
				},
				Backtests: []types.BacktestSummary{
					{Signal: "RSI_9_Signal", InitialCapital: 1000, FinalCapital: 1100, TotalReturnPct: 10, RoundTrips: 1, ProfitFactor: math.Inf(1)},
				},
				Advice: types.Advice{HorizonDays: 5, Verdict: types.RecommendationBuy},
			},
			{
				HorizonDays: 20,
				Advice:      types.Advice{HorizonDays: 20, Verdict: types.RecommendationSell},
			},
		},
		Files:  map[string]string{"trades_5d": "trades_5d.parquet"},
	}

	dir := filepath.Join(suite.root, suite.id)
	_, err := writer.WriteReport(dir, report)
	suite.Require().NoError(err)
	suite.Require().NoError(os.WriteFile(filepath.Join(dir, "trades_5d.parquet"), []byte("PAR1"), 0644))

	// directories without a report are skipped by the listing
	suite.Require().NoError(os.MkdirAll(filepath.Join(suite.root, "scratch"), 0755))

	suite.server = NewServer(suite.root, DefaultConfig(), nil)
}

func (suite *ServerTestSuite) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	suite.server.Handler().ServeHTTP(rec, req)

	return rec
}

func (suite *ServerTestSuite) decode(rec *httptest.ResponseRecorder, v any) {
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v))
}

func (suite *ServerTestSuite) TestHealth() {
	rec := suite.get("/health")
	suite.Equal(http.StatusOK, rec.Code)
	suite.NotEmpty(rec.Header().Get("X-Request-ID"))
}

func (suite *ServerTestSuite) TestListReports() {
	rec := suite.get("/reports")
	suite.Require().Equal(http.StatusOK, rec.Code)

	var summaries []writer.ReportSummary
	suite.decode(rec, &summaries)
	suite.Require().Len(summaries, 1)
	suite.Equal(suite.id, summaries[0].ID)
	suite.Equal("AAPL", summaries[0].Symbol)
	suite.Equal([]int{5, 20}, summaries[0].Horizons)
}

func (suite *ServerTestSuite) TestGetReportEncodesNonFiniteValues() {
	rec := suite.get("/reports/" + suite.id)
	suite.Require().Equal(http.StatusOK, rec.Code)

	var body map[string]any
	suite.decode(rec, &body)

	horizons := body["horizons"].([]any)
	horizon := horizons[0].(map[string]any)
	accuracy := horizon["accuracy"].([]any)[0].(map[string]any)
	backtest := horizon["backtests"].([]any)[0].(map[string]any)

	suite.Nil(accuracy["sell_accuracy"])
	suite.Equal("+Inf", backtest["profit_factor"])
}

func (suite *ServerTestSuite) TestGetHorizon() {
	tests := []struct {
		name   string
		path   string
		status int
	}{
		{name: "known horizon", path: "/reports/" + suite.id + "/horizons/5", status: http.StatusOK},
		{name: "unknown horizon", path: "/reports/" + suite.id + "/horizons/10", status: http.StatusNotFound},
		{name: "non numeric horizon", path: "/reports/" + suite.id + "/horizons/abc", status: http.StatusNotFound},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.status, suite.get(tc.path).Code)
		})
	}
}

func (suite *ServerTestSuite) TestGetAdvice() {
	rec := suite.get("/reports/" + suite.id + "/advice")
	suite.Require().Equal(http.StatusOK, rec.Code)

	var advice []types.Advice
	suite.decode(rec, &advice)
	suite.Require().Len(advice, 2)
	suite.Equal(5, advice[0].HorizonDays)
	suite.Equal(types.RecommendationBuy, advice[0].Verdict)
	suite.Equal(20, advice[1].HorizonDays)
	suite.Equal(types.RecommendationSell, advice[1].Verdict)
}

func (suite *ServerTestSuite) TestReportErrors() {
	rec := suite.get("/reports/not-a-uuid")
	suite.Equal(http.StatusBadRequest, rec.Code)

	var body errorResponse
	suite.decode(rec, &body)
	suite.Equal(errors.ErrCodeInvalidParameter, body.Code)

	suite.Equal(http.StatusNotFound, suite.get("/reports/"+uuid.New().String()).Code)
}

func (suite *ServerTestSuite) TestGetFile() {
	rec := suite.get("/reports/" + suite.id + "/files/trades_5d")
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.Equal("PAR1", rec.Body.String())

	suite.Equal(http.StatusNotFound, suite.get("/reports/"+suite.id+"/files/report").Code)
}

func (suite *ServerTestSuite) TestVersionMismatch() {
	original := version.Version
	version.Version = "v99.0.0"
	defer func() { version.Version = original }()

	suite.Equal(http.StatusConflict, suite.get("/reports/"+suite.id).Code)
}
