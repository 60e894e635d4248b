package provider

import (
	"context"
	"fmt"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"github.com/rxtech-lab/argo-signals/pkg/marketdata/writer"
)

// binancePageSize is the default number of klines returned per request.
const binancePageSize = 500

// BinanceKlinesService builds a klines request.
type BinanceKlinesService interface {
	Symbol(symbol string) BinanceKlinesService
	Interval(interval string) BinanceKlinesService
	StartTime(startTime int64) BinanceKlinesService
	EndTime(endTime int64) BinanceKlinesService
	Do(ctx context.Context) ([]*binance.Kline, error)
}

// BinanceAPIClient creates klines requests.
type BinanceAPIClient interface {
	NewKlinesService() BinanceKlinesService
}

type binanceRESTClient struct {
	client *binance.Client
}

func (c *binanceRESTClient) NewKlinesService() BinanceKlinesService {
	return &binanceKlinesService{service: c.client.NewKlinesService()}
}

type binanceKlinesService struct {
	service *binance.KlinesService
}

func (s *binanceKlinesService) Symbol(symbol string) BinanceKlinesService {
	s.service.Symbol(symbol)

	return s
}

func (s *binanceKlinesService) Interval(interval string) BinanceKlinesService {
	s.service.Interval(interval)

	return s
}

func (s *binanceKlinesService) StartTime(startTime int64) BinanceKlinesService {
	s.service.StartTime(startTime)

	return s
}

func (s *binanceKlinesService) EndTime(endTime int64) BinanceKlinesService {
	s.service.EndTime(endTime)

	return s
}

func (s *binanceKlinesService) Do(ctx context.Context) ([]*binance.Kline, error) {
	return s.service.Do(ctx)
}

type BinanceClient struct {
	apiClient BinanceAPIClient
	writer    writer.MarketDataWriter
}

// NewBinanceClient creates a client for the public market data API, which needs no keys.
func NewBinanceClient() (Provider, error) {
	return NewBinanceClientWithAPI(&binanceRESTClient{client: binance.NewClient("", "")}), nil
}

// NewBinanceClientWithAPI creates a client over an existing API implementation.
func NewBinanceClientWithAPI(apiClient BinanceAPIClient) *BinanceClient {
	return &BinanceClient{
		apiClient: apiClient,
		writer:    nil,
	}
}

func (c *BinanceClient) ConfigWriter(w writer.MarketDataWriter) {
	c.writer = w
}

// Download pages through klines for the range, starting each page one millisecond after
// the previous page's last close time. Progress is reported in milliseconds.
func (c *BinanceClient) Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, multiplier int, timespan models.Timespan, onProgress OnDownloadProgress) (path string, err error) {
	interval, err := convertTimespanToBinanceInterval(timespan, multiplier)
	if err != nil {
		return "", err
	}

	if c.writer == nil {
		return "", errors.New(errors.ErrCodeMarketDataWriteFailed, "no writer configured for BinanceClient, call ConfigWriter first")
	}

	if err = c.writer.Initialize(); err != nil {
		return "", err
	}

	defer finish(c.writer, &err)

	startMillis := startDate.UnixMilli()
	endMillis := endDate.UnixMilli()
	message := fmt.Sprintf("Downloading %s klines from Binance", ticker)

	for current := startMillis; current < endMillis; {
		klines, fetchErr := c.apiClient.NewKlinesService().
			Symbol(ticker).
			Interval(interval).
			StartTime(current).
			EndTime(endMillis).
			Do(ctx)
		if fetchErr != nil {
			return "", errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, fetchErr, "failed to fetch klines for %s", ticker)
		}

		if err = processKlines(c.writer, ticker, klines); err != nil {
			return "", err
		}

		notify(onProgress, float64(current-startMillis), float64(endMillis-startMillis), message)

		if len(klines) < binancePageSize {
			break
		}

		current = klines[len(klines)-1].CloseTime + 1
	}

	notify(onProgress, float64(endMillis-startMillis), float64(endMillis-startMillis), message)

	return c.writer.Finalize()
}

// processKlines converts klines to price bars keyed by open time and writes them.
func processKlines(w writer.MarketDataWriter, ticker string, klines []*binance.Kline) error {
	for _, k := range klines {
		bar, err := klineToBar(k)
		if err != nil {
			return err
		}

		if err := w.Write(ticker, bar); err != nil {
			return err
		}
	}

	return nil
}

func klineToBar(k *binance.Kline) (types.PriceBar, error) {
	fields := []struct {
		name  string
		value string
	}{
		{"open", k.Open},
		{"high", k.High},
		{"low", k.Low},
		{"close", k.Close},
		{"volume", k.Volume},
	}

	values := make([]float64, len(fields))

	for i, field := range fields {
		v, err := strconv.ParseFloat(field.value, 64)
		if err != nil {
			return types.PriceBar{}, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "invalid kline %s %q", field.name, field.value)
		}

		values[i] = v
	}

	return types.PriceBar{
		Time:   time.UnixMilli(k.OpenTime).UTC(),
		Open:   values[0],
		High:   values[1],
		Low:    values[2],
		Close:  values[3],
		Volume: values[4],
	}, nil
}

// convertTimespanToBinanceInterval converts a polygon timespan and multiplier to a Binance interval.
// Binance intervals: 1m, 3m, 5m, 15m, 30m, 1h, 2h, 4h, 6h, 8h, 12h, 1d, 3d, 1w, 1M.
func convertTimespanToBinanceInterval(timespan models.Timespan, multiplier int) (string, error) {
	if multiplier <= 0 {
		return "", errors.Newf(errors.ErrCodeInvalidMultiplier, "multiplier must be positive, got %d", multiplier)
	}

	switch timespan {
	case models.Minute:
		return fmt.Sprintf("%dm", multiplier), nil
	case models.Hour:
		return fmt.Sprintf("%dh", multiplier), nil
	case models.Day:
		return fmt.Sprintf("%dd", multiplier), nil
	case models.Week:
		if multiplier == 1 {
			return "1w", nil
		}

		return "", errors.Newf(errors.ErrCodeInvalidMultiplier, "unsupported weekly multiplier for Binance: %d", multiplier)
	case models.Month:
		if multiplier == 1 {
			return "1M", nil
		}

		return "", errors.Newf(errors.ErrCodeInvalidMultiplier, "unsupported monthly multiplier for Binance: %d", multiplier)
	default:
		return "", errors.Newf(errors.ErrCodeInvalidParameter, "unsupported timespan for Binance: %s", timespan)
	}
}
