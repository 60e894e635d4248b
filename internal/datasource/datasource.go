// Package datasource loads daily price bars, and any precomputed signal or indicator columns
// stored next to them, from parquet or csv files.
package datasource

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signals/internal/types"
)

type DataSource interface {
	// Initialize initializes the data source with the given data path in parquet or csv format
	Initialize(path string) error
	// ReadAll reads all the bars in date order and yields them to the caller
	ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) func(yield func(types.PriceBar, error) bool)
	// ExtraColumns returns the numeric columns that are not part of the OHLCV schema
	ExtraColumns() ([]string, error)
	// ReadColumn reads a numeric column in date order. NULL reads as NaN
	ReadColumn(name string, start optional.Option[time.Time], end optional.Option[time.Time]) ([]float64, error)
	// Count returns the number of bars within the optional window
	Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// Close closes the data source and releases any resources
	Close() error
}
