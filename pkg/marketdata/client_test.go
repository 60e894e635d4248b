package marketdata

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-playground/validator/v10"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-signals/internal/logger"
	"github.com/rxtech-lab/argo-signals/mocks"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"github.com/rxtech-lab/argo-signals/pkg/marketdata/writer"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ClientTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockProvider *mocks.MockProvider
	tempDir      string
	params       DownloadParams
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (suite *ClientTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockProvider = mocks.NewMockProvider(suite.ctrl)

	tempDir, err := os.MkdirTemp("", "marketdata-client-test")
	suite.Require().NoError(err)
	suite.tempDir = tempDir

	suite.params = DownloadParams{
		Ticker:     "SPY",
		StartDate:  time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		Multiplier: 1,
		Timespan:   models.Day,
	}
}

func (suite *ClientTestSuite) TearDownTest() {
	suite.ctrl.Finish()
	os.RemoveAll(suite.tempDir)
}

func (suite *ClientTestSuite) newClient(maxRetries uint64) *Client {
	return &Client{
		provider: suite.mockProvider,
		config: ClientConfig{
			ProviderType: ProviderPolygon,
			WriterType:   WriterDuckDB,
			DataPath:     suite.tempDir,
			MaxRetries:   maxRetries,
		},
		validate:   validator.New(),
		onProgress: nil,
		log:        logger.NewNopLogger(),
		newBackOff: func() backoff.BackOff { return &backoff.ZeroBackOff{} },
	}
}

func (suite *ClientTestSuite) expectDownload(path string, err error) *gomock.Call {
	return suite.mockProvider.EXPECT().
		Download(gomock.Any(), "SPY", suite.params.StartDate, suite.params.EndDate, 1, models.Day, gomock.Any()).
		Return(path, err)
}

func (suite *ClientTestSuite) TestDownloadSuccess() {
	expected := filepath.Join(suite.tempDir, "SPY_2023-01-01_2023-12-31_1_day.parquet")

	suite.mockProvider.EXPECT().ConfigWriter(gomock.Any()).Do(func(w writer.MarketDataWriter) {
		suite.Equal(expected, w.GetOutputPath())
	})
	suite.expectDownload(expected, nil).Times(1)

	path, err := suite.newClient(3).Download(context.Background(), suite.params)
	suite.Require().NoError(err)
	suite.Equal(expected, path)
}

func (suite *ClientTestSuite) TestDownloadRetriesTransientErrors() {
	suite.mockProvider.EXPECT().ConfigWriter(gomock.Any())
	gomock.InOrder(
		suite.expectDownload("", errors.New(errors.ErrCodeMarketDataFetchFailed, "timeout")),
		suite.expectDownload("", errors.New(errors.ErrCodeMarketDataFetchFailed, "timeout")),
		suite.expectDownload("/data/spy.parquet", nil),
	)

	path, err := suite.newClient(3).Download(context.Background(), suite.params)
	suite.Require().NoError(err)
	suite.Equal("/data/spy.parquet", path)
}

func (suite *ClientTestSuite) TestDownloadGivesUpAfterMaxRetries() {
	suite.mockProvider.EXPECT().ConfigWriter(gomock.Any())
	suite.expectDownload("", errors.New(errors.ErrCodeMarketDataFetchFailed, "timeout")).Times(3)

	_, err := suite.newClient(2).Download(context.Background(), suite.params)
	suite.True(errors.HasCode(err, errors.ErrCodeMarketDataFetchFailed))
}

func (suite *ClientTestSuite) TestDownloadDoesNotRetryPermanentErrors() {
	testCases := []struct {
		name string
		err  error
	}{
		{name: "no data", err: errors.New(errors.ErrCodeDataNotFound, "provider returned no bars")},
		{name: "bad multiplier", err: errors.New(errors.ErrCodeInvalidMultiplier, "unsupported weekly multiplier")},
		{name: "cancelled", err: context.Canceled},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.mockProvider.EXPECT().ConfigWriter(gomock.Any())
			suite.expectDownload("", tc.err).Times(1)

			_, err := suite.newClient(3).Download(context.Background(), suite.params)
			suite.ErrorIs(err, tc.err)
		})
	}
}

func (suite *ClientTestSuite) TestDownloadInvalidParams() {
	params := suite.params
	params.EndDate = params.StartDate.AddDate(0, 0, -1)

	_, err := suite.newClient(3).Download(context.Background(), params)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func (suite *ClientTestSuite) TestNewClient() {
	testCases := []struct {
		name   string
		config ClientConfig
		code   errors.ErrorCode
	}{
		{
			name:   "polygon",
			config: ClientConfig{ProviderType: ProviderPolygon, WriterType: WriterDuckDB, DataPath: suite.tempDir, PolygonApiKey: "key"},
		},
		{
			name:   "binance",
			config: ClientConfig{ProviderType: ProviderBinance, WriterType: WriterDuckDB, DataPath: suite.tempDir},
		},
		{
			name:   "polygon without key",
			config: ClientConfig{ProviderType: ProviderPolygon, WriterType: WriterDuckDB, DataPath: suite.tempDir},
			code:   errors.ErrCodeInvalidConfiguration,
		},
		{
			name:   "unknown provider",
			config: ClientConfig{ProviderType: "yahoo", WriterType: WriterDuckDB, DataPath: suite.tempDir},
			code:   errors.ErrCodeInvalidConfiguration,
		},
		{
			name:   "missing data path",
			config: ClientConfig{ProviderType: ProviderBinance, WriterType: WriterDuckDB},
			code:   errors.ErrCodeInvalidConfiguration,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			client, err := NewClient(tc.config, logger.NewNopLogger(), nil)
			if tc.code != 0 {
				suite.True(errors.HasCode(err, tc.code))
				suite.Nil(client)

				return
			}

			suite.Require().NoError(err)
			suite.NotNil(client)
		})
	}
}

func (suite *ClientTestSuite) TestOutputFileName() {
	suite.Equal("SPY_2023-01-01_2023-12-31_1_day.parquet", OutputFileName(suite.params))
}
