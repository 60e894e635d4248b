package marketdata

import (
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-playground/validator/v10"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-signals/internal/logger"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"github.com/rxtech-lab/argo-signals/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-signals/pkg/marketdata/writer"
	"go.uber.org/zap"
)

// ProviderType defines the type of market data provider.
type ProviderType = provider.ProviderType

const (
	ProviderPolygon = provider.ProviderPolygon
	ProviderBinance = provider.ProviderBinance
)

// WriterType defines the type of market data writer.
type WriterType string

const (
	WriterDuckDB WriterType = "duckdb"
)

// DefaultMaxRetries is the number of retries after a failed download attempt.
const DefaultMaxRetries = 3

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType  ProviderType `validate:"required,oneof=polygon binance"`
	WriterType    WriterType   `validate:"required,oneof=duckdb"`
	DataPath      string       `validate:"required"`
	PolygonApiKey string       `validate:"required_if=ProviderType polygon"`
	// MaxRetries bounds the retries of a failed download. Zero disables retrying.
	MaxRetries uint64
}

// DownloadParams holds the parameters for a market data download request.
type DownloadParams struct {
	Ticker     string          `validate:"required"`
	StartDate  time.Time       `validate:"required"`
	EndDate    time.Time       `validate:"required,gtfield=StartDate"`
	Multiplier int             `validate:"required,min=1"`
	Timespan   models.Timespan `validate:"required"`
}

// Client downloads bars from a provider and stores them as parquet files the
// datasource can load.
type Client struct {
	provider   provider.Provider
	config     ClientConfig
	validate   *validator.Validate
	onProgress provider.OnDownloadProgress
	log        *logger.Logger
	newBackOff func() backoff.BackOff
}

// NewClient creates a new market data client with the given configuration.
func NewClient(config ClientConfig, log *logger.Logger, onProgress provider.OnDownloadProgress) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	var apiConfig any
	if config.ProviderType == ProviderPolygon {
		apiConfig = config.PolygonApiKey
	}

	marketProvider, err := provider.NewMarketDataProvider(config.ProviderType, apiConfig)
	if err != nil {
		return nil, err
	}

	return &Client{
		provider:   marketProvider,
		config:     config,
		validate:   validate,
		onProgress: onProgress,
		log:        log,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}, nil
}

// OutputFileName returns TICKER_START_END_MULTIPLIER_TIMESPAN.parquet for the params.
func OutputFileName(params DownloadParams) string {
	return fmt.Sprintf("%s_%s_%s_%d_%s.parquet",
		params.Ticker,
		params.StartDate.Format(time.DateOnly),
		params.EndDate.Format(time.DateOnly),
		params.Multiplier,
		params.Timespan)
}

// Download fetches the requested bars and returns the parquet path.
// Transient provider failures are retried with exponential backoff; invalid
// parameters, empty results and cancellation are not.
func (c *Client) Download(ctx context.Context, params DownloadParams) (string, error) {
	if err := c.validate.Struct(params); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidParameter, "invalid download parameters", err)
	}

	marketWriter, err := c.setupWriter(params)
	if err != nil {
		return "", err
	}

	c.provider.ConfigWriter(marketWriter)

	var path string

	operation := func() error {
		var downloadErr error

		path, downloadErr = c.provider.Download(
			ctx,
			params.Ticker,
			params.StartDate,
			params.EndDate,
			params.Multiplier,
			params.Timespan,
			c.onProgress,
		)
		if downloadErr != nil && !retryable(ctx, downloadErr) {
			return backoff.Permanent(downloadErr)
		}

		return downloadErr
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), c.config.MaxRetries), ctx)

	err = backoff.RetryNotify(operation, policy, func(err error, wait time.Duration) {
		c.log.Warn("Download attempt failed, retrying",
			zap.String("ticker", params.Ticker),
			zap.Duration("wait", wait),
			zap.Error(err))
	})
	if err != nil {
		return "", err
	}

	c.log.Info("Downloaded market data",
		zap.String("ticker", params.Ticker),
		zap.String("path", path))

	return path, nil
}

// retryable reports whether a failed attempt may succeed when repeated.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil || stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return false
	}

	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidParameter,
		errors.ErrCodeInvalidMultiplier,
		errors.ErrCodeMissingParameter,
		errors.ErrCodeInvalidConfiguration,
		errors.ErrCodeDataNotFound:
		return false
	default:
		return true
	}
}

// setupWriter creates the writer for the configured writer type. The provider
// initializes it on each attempt.
func (c *Client) setupWriter(params DownloadParams) (writer.MarketDataWriter, error) {
	switch c.config.WriterType {
	case WriterDuckDB:
		name := strings.ReplaceAll(OutputFileName(params), string(filepath.Separator), "_")

		return writer.NewDuckDBWriter(filepath.Join(c.config.DataPath, name)), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unsupported writer type: %s", c.config.WriterType)
	}
}
