package writer

import (
	"github.com/rxtech-lab/argo-signals/internal/types"
)

const (
	seriesStrategy  = "strategy"
	seriesBenchmark = "benchmark"
)

// EquityWriter writes equity curves and their buy-and-hold benchmark to a parquet file.
type EquityWriter struct {
	*tableWriter
}

// NewEquityWriter creates a new EquityWriter.
func NewEquityWriter(outputPath string) *EquityWriter {
	return &EquityWriter{
		tableWriter: newTableWriter(outputPath, "equity", `
			signal TEXT,
			series TEXT,
			date TIMESTAMP,
			equity DOUBLE
		`, "signal ASC, series DESC, date ASC"),
	}
}

// Write persists one curve. Strategy points and benchmark points are told apart by the series column.
func (w *EquityWriter) Write(curve types.EquityCurve) error {
	rows := make([][]any, 0, len(curve.Points)+len(curve.Benchmark))

	for _, p := range curve.Points {
		rows = append(rows, []any{curve.Signal, seriesStrategy, p.Date, p.Equity})
	}

	for _, p := range curve.Benchmark {
		rows = append(rows, []any{curve.Signal, seriesBenchmark, p.Date, p.Equity})
	}

	return w.insert([]string{"signal", "series", "date", "equity"}, rows)
}
