package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rxtech-lab/argo-signals/internal/types"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle
			}

			return CellStyle
		})
}

// AccuracyTable renders a ranked accuracy table.
func AccuracyTable(horizon int, records []types.AccuracyRecord) string {
	t := newTable("#", "Signal", "Buys", "Sells", "Buy Acc", "Sell Acc", "Total Acc", "Buy Ret", "Sell Ret")

	for i, r := range records {
		t.Row(accuracyCells(i+1, r)...)
	}

	return section(fmt.Sprintf("Signal accuracy, %d-day horizon", horizon), t.String())
}

// ComboTable renders a ranked combination table.
func ComboTable(horizon int, combos []types.ComboRecord) string {
	t := newTable("#", "Combination", "Buys", "Sells", "Buy Acc", "Sell Acc", "Total Acc", "Buy Ret", "Sell Ret")

	for i, c := range combos {
		t.Row(accuracyCells(i+1, c.AccuracyRecord)...)
	}

	return section(fmt.Sprintf("Signal combinations, %d-day horizon", horizon), t.String())
}

func accuracyCells(rank int, r types.AccuracyRecord) []string {
	return []string{
		strconv.Itoa(rank),
		r.Signal,
		strconv.Itoa(r.BuySignals),
		strconv.Itoa(r.SellSignals),
		FormatPercent(r.BuyAccuracy),
		FormatPercent(r.SellAccuracy),
		FormatPercent(r.TotalAccuracy),
		FormatReturn(r.BuyReturn),
		FormatReturn(r.SellReturn),
	}
}

// BacktestTable renders ranked backtest summaries.
func BacktestTable(summaries []types.BacktestSummary) string {
	t := newTable("#", "Signal", "Final Capital", "Return", "Trades", "Win Rate", "Avg Hold", "Profit Factor")

	for i, s := range summaries {
		t.Row(
			strconv.Itoa(i+1),
			s.Signal,
			fmt.Sprintf("%.2f", s.FinalCapital),
			FormatReturn(s.TotalReturnPct),
			strconv.Itoa(s.RoundTrips),
			fmt.Sprintf("%.1f%%", s.WinRate),
			fmt.Sprintf("%.1fd", s.AvgHoldingDays),
			FormatRatio(s.ProfitFactor),
		)
	}

	return section("Backtest results", t.String())
}

// LedgerTable renders the trades of one signal column.
func LedgerTable(signal string, ledger types.TradeLedger) string {
	t := newTable("Date", "Kind", "Price", "Shares", "Cash Flow", "Cash")

	for _, trade := range ledger {
		t.Row(
			trade.Date.Format("2006-01-02"),
			string(trade.Kind),
			fmt.Sprintf("%.2f", trade.Price),
			strconv.FormatInt(trade.Shares, 10),
			fmt.Sprintf("%.2f", trade.CashFlow),
			fmt.Sprintf("%.2f", trade.RemainingCash),
		)
	}

	return section("Trades for "+signal, t.String())
}

// AdviceView renders the latest-bar advice.
func AdviceView(advice types.Advice) string {
	t := newTable("Signal", "Value", "Reading")

	for _, s := range advice.Signals {
		t.Row(s.Signal, strconv.Itoa(s.Value), string(s.Recommendation))
	}

	verdict := strings.ToUpper(string(advice.Verdict))

	switch advice.Verdict {
	case types.RecommendationBuy:
		verdict = BuyStyle.Render(verdict)
	case types.RecommendationSell:
		verdict = SellStyle.Render(verdict)
	case types.RecommendationHold:
	}

	title := "Current signals"
	if advice.HorizonDays > 0 {
		title += fmt.Sprintf(", %d-day ranking", advice.HorizonDays)
	}

	if !advice.Date.IsZero() {
		title += " on " + advice.Date.Format("2006-01-02")
	}

	return section(title, t.String()) + "Verdict: " + verdict + "\n" +
		HelpStyle.Render("Research output only, not investment advice.") + "\n"
}

// Render renders every table of a report.
func Render(r types.Report) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(fmt.Sprintf("%s: %d bars from %s to %s", r.Symbol, r.Bars,
		r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))))
	b.WriteString("\n\n")

	for _, h := range r.Horizons {
		b.WriteString(AccuracyTable(h.HorizonDays, h.Accuracy))

		if len(h.Combinations) > 0 {
			b.WriteString(ComboTable(h.HorizonDays, h.Combinations))
		}

		if len(h.Backtests) > 0 {
			b.WriteString(BacktestTable(h.Backtests))
		}

		for signal, reason := range h.Failures {
			b.WriteString(HelpStyle.Render(fmt.Sprintf("skipped %s: %s", signal, reason)))
			b.WriteString("\n")
		}

		if len(h.Advice.Signals) > 0 {
			b.WriteString(AdviceView(h.Advice))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func section(title, body string) string {
	return TitleStyle.Render(title) + "\n" + body + "\n\n"
}
