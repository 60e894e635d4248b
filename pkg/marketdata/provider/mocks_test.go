package provider

import (
	"context"
	"errors"

	binance "github.com/adshao/go-binance/v2"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-signals/internal/types"
)

var errBoom = errors.New("boom")

// mockWriter records bars and fails on demand.
type mockWriter struct {
	initializeErr  error
	writeErr       error
	writeErrAfterN int
	finalizeErr    error
	closeErr       error
	outputPath     string

	initializeCount int
	finalizeCount   int
	closeCount      int
	symbols         []string
	bars            []types.PriceBar
}

func (m *mockWriter) Initialize() error {
	m.initializeCount++

	return m.initializeErr
}

func (m *mockWriter) Write(symbol string, bar types.PriceBar) error {
	if m.writeErr != nil && len(m.bars) >= m.writeErrAfterN {
		return m.writeErr
	}

	m.symbols = append(m.symbols, symbol)
	m.bars = append(m.bars, bar)

	return nil
}

func (m *mockWriter) Finalize() (string, error) {
	m.finalizeCount++
	if m.finalizeErr != nil {
		return "", m.finalizeErr
	}

	return m.outputPath, nil
}

func (m *mockWriter) Close() error {
	m.closeCount++

	return m.closeErr
}

func (m *mockWriter) GetOutputPath() string {
	return m.outputPath
}

type mockPolygonAPIClient struct {
	iterator PolygonAggsIterator
	params   *models.ListAggsParams
}

func (m *mockPolygonAPIClient) ListAggs(_ context.Context, params *models.ListAggsParams, _ ...models.RequestOption) PolygonAggsIterator {
	m.params = params

	return m.iterator
}

type mockPolygonIterator struct {
	aggs  []models.Agg
	index int
	err   error
}

func (m *mockPolygonIterator) Next() bool {
	if m.index < len(m.aggs) {
		m.index++

		return true
	}

	return false
}

func (m *mockPolygonIterator) Item() models.Agg {
	return m.aggs[m.index-1]
}

func (m *mockPolygonIterator) Err() error {
	return m.err
}

// mockBinanceAPIClient serves one page per call.
type mockBinanceAPIClient struct {
	pages      [][]*binance.Kline
	errs       []error
	callCount  int
	startTimes []int64
}

func (m *mockBinanceAPIClient) NewKlinesService() BinanceKlinesService {
	return &mockBinanceKlinesService{client: m}
}

type mockBinanceKlinesService struct {
	client   *mockBinanceAPIClient
	symbol   string
	interval string
	start    int64
	end      int64
}

func (m *mockBinanceKlinesService) Symbol(symbol string) BinanceKlinesService {
	m.symbol = symbol

	return m
}

func (m *mockBinanceKlinesService) Interval(interval string) BinanceKlinesService {
	m.interval = interval

	return m
}

func (m *mockBinanceKlinesService) StartTime(startTime int64) BinanceKlinesService {
	m.start = startTime

	return m
}

func (m *mockBinanceKlinesService) EndTime(endTime int64) BinanceKlinesService {
	m.end = endTime

	return m
}

func (m *mockBinanceKlinesService) Do(_ context.Context) ([]*binance.Kline, error) {
	idx := m.client.callCount
	m.client.callCount++
	m.client.startTimes = append(m.client.startTimes, m.start)

	var err error
	if idx < len(m.client.errs) {
		err = m.client.errs[idx]
	}

	if idx < len(m.client.pages) {
		return m.client.pages[idx], err
	}

	return nil, err
}
