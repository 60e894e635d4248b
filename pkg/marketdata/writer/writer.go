package writer

import (
	"github.com/rxtech-lab/argo-signals/internal/types"
)

// MarketDataWriter persists downloaded price bars to a destination the datasource can read.
type MarketDataWriter interface {
	// Initialize sets up the writer, creating tables or files as needed.
	Initialize() error
	// Write persists a single bar for the given symbol.
	Write(symbol string, bar types.PriceBar) error
	// Finalize commits pending rows and exports them. It returns the output path.
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer.
	Close() error
	// GetOutputPath returns the configured output file path.
	GetOutputPath() string
}
