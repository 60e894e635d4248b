package browser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-signals/internal/report"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/internal/writer"
)

// listItem implements list.Item for reports and horizons.
type listItem struct {
	key         string
	name        string
	description string
}

func (i listItem) Title() string       { return i.name }
func (i listItem) Description() string { return i.description }
func (i listItem) FilterValue() string { return i.name }

func newList(title string, items []list.Item) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true

	l := list.New(items, delegate, 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

// NewReportList lists saved reports, newest first.
func NewReportList(summaries []writer.ReportSummary) list.Model {
	items := make([]list.Item, len(summaries))

	for i, s := range summaries {
		horizons := make([]string, len(s.Horizons))
		for j, h := range s.Horizons {
			horizons[j] = strconv.Itoa(h) + "d"
		}

		items[i] = listItem{
			key:  s.ID,
			name: fmt.Sprintf("%s  %s", s.Symbol, s.CreatedAt.Format(time.DateTime)),
			description: fmt.Sprintf("%d bars, horizons %s, %s",
				s.Bars, strings.Join(horizons, " "), s.ID),
		}
	}

	return newList("Saved Reports", items)
}

// NewHorizonList lists the horizons of a report with their best signal.
func NewHorizonList(r types.Report) list.Model {
	items := make([]list.Item, len(r.Horizons))

	for i, h := range r.Horizons {
		description := "no scored signals"
		if len(h.Accuracy) > 0 {
			best := h.Accuracy[0]
			description = fmt.Sprintf("%d signals, best %s at %s buy accuracy",
				len(h.Accuracy), best.Signal, report.FormatPercent(best.BuyAccuracy))
		}

		items[i] = listItem{
			key:         strconv.Itoa(h.HorizonDays),
			name:        fmt.Sprintf("%d-day horizon", h.HorizonDays),
			description: description,
		}
	}

	return newList(fmt.Sprintf("%s Horizons", r.Symbol), items)
}

// NewFilterInput creates the signal name filter.
func NewFilterInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "RSI"
	ti.CharLimit = 64
	ti.Width = 40
	ti.Prompt = "filter> "

	return ti
}

// NewAccuracyTable creates the table of accuracy records.
func NewAccuracyTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Signal", Width: 24},
		{Title: "Buys", Width: 6},
		{Title: "Sells", Width: 6},
		{Title: "Buy Acc", Width: 9},
		{Title: "Sell Acc", Width: 9},
		{Title: "Total Acc", Width: 9},
		{Title: "Buy Ret", Width: 9},
		{Title: "Sell Ret", Width: 9},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	t.SetStyles(s)

	return t
}

// AccuracyRows converts records to rows, keeping those whose signal contains filter
// (case-insensitive). Ranks stay those of the full ranking.
func AccuracyRows(records []types.AccuracyRecord, filter string) []table.Row {
	filter = strings.ToLower(strings.TrimSpace(filter))
	rows := make([]table.Row, 0, len(records))

	for i, r := range records {
		if filter != "" && !strings.Contains(strings.ToLower(r.Signal), filter) {
			continue
		}

		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			r.Signal,
			strconv.Itoa(r.BuySignals),
			strconv.Itoa(r.SellSignals),
			report.FormatPercent(r.BuyAccuracy),
			report.FormatPercent(r.SellAccuracy),
			report.FormatPercent(r.TotalAccuracy),
			report.FormatReturn(r.BuyReturn),
			report.FormatReturn(r.SellReturn),
		})
	}

	return rows
}
