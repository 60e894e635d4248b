package writer

import (
	"strings"

	"github.com/rxtech-lab/argo-signals/internal/types"
)

// AccuracyWriter writes ranked accuracy tables to a parquet file. Undefined (NaN) ratios are stored as NULL.
type AccuracyWriter struct {
	*tableWriter
}

// NewAccuracyWriter creates a new AccuracyWriter.
func NewAccuracyWriter(outputPath string) *AccuracyWriter {
	return &AccuracyWriter{
		tableWriter: newTableWriter(outputPath, "accuracy", `
			horizon_days INTEGER,
			rank INTEGER,
			signal TEXT,
			indicators TEXT,
			buy_signals INTEGER,
			sell_signals INTEGER,
			total_signals INTEGER,
			buy_accuracy DOUBLE,
			sell_accuracy DOUBLE,
			total_accuracy DOUBLE,
			buy_return DOUBLE,
			sell_return DOUBLE
		`, "horizon_days ASC, indicators ASC, rank ASC"),
	}
}

var accuracyColumns = []string{
	"horizon_days", "rank", "signal", "indicators",
	"buy_signals", "sell_signals", "total_signals",
	"buy_accuracy", "sell_accuracy", "total_accuracy", "buy_return", "sell_return",
}

func accuracyRow(horizon, rank int, r types.AccuracyRecord, indicators string) []any {
	return []any{
		horizon, rank, r.Signal, indicators,
		r.BuySignals, r.SellSignals, r.TotalSignals,
		nullable(r.BuyAccuracy), nullable(r.SellAccuracy), nullable(r.TotalAccuracy),
		nullable(r.BuyReturn), nullable(r.SellReturn),
	}
}

// Write persists a ranked single-signal table for one horizon.
func (w *AccuracyWriter) Write(horizon int, records []types.AccuracyRecord) error {
	rows := make([][]any, 0, len(records))

	for i, r := range records {
		rows = append(rows, accuracyRow(horizon, i+1, r, ""))
	}

	return w.insert(accuracyColumns, rows)
}

// WriteCombos persists a ranked combination table for one horizon.
func (w *AccuracyWriter) WriteCombos(horizon int, combos []types.ComboRecord) error {
	rows := make([][]any, 0, len(combos))

	for i, c := range combos {
		rows = append(rows, accuracyRow(horizon, i+1, c.AccuracyRecord, strings.Join(c.Indicators, ",")))
	}

	return w.insert(accuracyColumns, rows)
}
