package writer

import (
	"github.com/rxtech-lab/argo-signals/internal/types"
)

// BacktestsWriter writes ranked backtest summaries to a parquet file.
// profit_factor keeps +Inf for a loss-free run; NULL only ever means undefined.
type BacktestsWriter struct {
	*tableWriter
}

// NewBacktestsWriter creates a new BacktestsWriter.
func NewBacktestsWriter(outputPath string) *BacktestsWriter {
	return &BacktestsWriter{
		tableWriter: newTableWriter(outputPath, "backtests", `
			horizon_days INTEGER,
			rank INTEGER,
			signal TEXT,
			initial_capital DOUBLE,
			final_capital DOUBLE,
			total_return_pct DOUBLE,
			round_trips INTEGER,
			win_rate DOUBLE,
			avg_holding_days DOUBLE,
			gross_profit DOUBLE,
			gross_loss DOUBLE,
			profit_factor DOUBLE
		`, "horizon_days ASC, rank ASC"),
	}
}

// Write persists the ranked summaries of one horizon.
func (w *BacktestsWriter) Write(horizon int, ranked []types.BacktestSummary) error {
	rows := make([][]any, 0, len(ranked))

	for i, s := range ranked {
		rows = append(rows, []any{
			horizon, i + 1, s.Signal,
			s.InitialCapital, s.FinalCapital, s.TotalReturnPct,
			s.RoundTrips, s.WinRate, s.AvgHoldingDays,
			s.GrossProfit, s.GrossLoss, nullable(s.ProfitFactor),
		})
	}

	return w.insert([]string{
		"horizon_days", "rank", "signal",
		"initial_capital", "final_capital", "total_return_pct",
		"round_trips", "win_rate", "avg_holding_days",
		"gross_profit", "gross_loss", "profit_factor",
	}, rows)
}
