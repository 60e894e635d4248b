package writer

import (
	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-signals/internal/types"
)

// TradesWriter writes trade ledgers to a parquet file.
type TradesWriter struct {
	*tableWriter
}

// NewTradesWriter creates a new TradesWriter.
// outputPath is the full path to the parquet file.
func NewTradesWriter(outputPath string) *TradesWriter {
	return &TradesWriter{
		tableWriter: newTableWriter(outputPath, "trades", `
			id TEXT PRIMARY KEY,
			signal TEXT,
			seq INTEGER,
			date TIMESTAMP,
			kind TEXT,
			price DOUBLE,
			shares BIGINT,
			cash_flow DOUBLE,
			remaining_cash DOUBLE
		`, "signal ASC, seq ASC"),
	}
}

// Write persists the ledger of one signal column and exports to parquet.
func (w *TradesWriter) Write(signal string, ledger types.TradeLedger) error {
	rows := make([][]any, 0, len(ledger))

	for i, trade := range ledger {
		rows = append(rows, []any{
			uuid.New().String(), signal, i, trade.Date, string(trade.Kind),
			trade.Price, trade.Shares, trade.CashFlow, trade.RemainingCash,
		})
	}

	return w.insert([]string{"id", "signal", "seq", "date", "kind", "price", "shares", "cash_flow", "remaining_cash"}, rows)
}
