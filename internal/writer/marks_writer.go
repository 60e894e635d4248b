package writer

import (
	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-signals/internal/types"
)

// MarksWriter writes chart marks to a parquet file.
type MarksWriter struct {
	*tableWriter
}

// NewMarksWriter creates a new MarksWriter.
func NewMarksWriter(outputPath string) *MarksWriter {
	return &MarksWriter{
		tableWriter: newTableWriter(outputPath, "marks", `
			id TEXT PRIMARY KEY,
			date TIMESTAMP,
			price DOUBLE,
			color TEXT,
			shape TEXT,
			title TEXT,
			message TEXT,
			category TEXT,
			trade_kind TEXT
		`, "category ASC, date ASC"),
	}
}

// Write persists the marks and exports to parquet.
func (w *MarksWriter) Write(marks []types.Mark) error {
	rows := make([][]any, 0, len(marks))

	for _, mark := range marks {
		var tradeKind string
		if mark.Trade.IsSome() {
			tradeKind = string(mark.Trade.Unwrap().Kind)
		}

		rows = append(rows, []any{
			uuid.New().String(), mark.Date, mark.Price, string(mark.Color), string(mark.Shape),
			mark.Title, mark.Message, mark.Category, tradeKind,
		})
	}

	return w.insert([]string{"id", "date", "price", "color", "shape", "title", "message", "category", "trade_kind"}, rows)
}
