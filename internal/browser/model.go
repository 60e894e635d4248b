// Package browser is an interactive terminal viewer for saved reports.
package browser

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/argo-signals/internal/report"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/internal/writer"
)

// Application states.
const (
	StateReportSelect = iota
	StateHorizonSelect
	StateAccuracyDisplay
)

// Model is the Bubble Tea model of the report browser.
type Model struct {
	state         int
	root          string
	reportList    list.Model
	horizonList   list.Model
	filterInput   textinput.Model
	accuracyTable table.Model
	report        types.Report
	horizon       types.HorizonReport
	err           error
	width         int
	height        int
}

// NewModel lists the reports saved under root.
func NewModel(root string) (Model, error) {
	summaries, _, err := writer.ListReports(root)
	if err != nil {
		return Model{}, err
	}

	return Model{
		state:         StateReportSelect,
		root:          root,
		reportList:    NewReportList(summaries),
		horizonList:   NewHorizonList(types.Report{}),
		filterInput:   NewFilterInput(),
		accuracyTable: NewAccuracyTable(),
	}, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if !m.filterInput.Focused() {
				return m, tea.Quit
			}
		case "esc":
			return m.handleEsc()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.reportList.SetSize(msg.Width, msg.Height-4)
		m.horizonList.SetSize(msg.Width, msg.Height-12)
		m.accuracyTable.SetWidth(msg.Width)
		m.accuracyTable.SetHeight(max(3, msg.Height-8))

		return m, nil

	case ReportLoadedMsg:
		m.report = msg.Report
		m.err = nil
		m.horizonList = NewHorizonList(msg.Report)

		if m.width > 0 {
			m.horizonList.SetSize(m.width, m.height-12)
		}

		m.state = StateHorizonSelect

		return m, nil

	case LoadErrorMsg:
		m.err = msg.Err

		return m, nil
	}

	switch m.state {
	case StateReportSelect:
		return m.updateReportSelect(msg)
	case StateHorizonSelect:
		return m.updateHorizonSelect(msg)
	case StateAccuracyDisplay:
		return m.updateAccuracyDisplay(msg)
	}

	return m, nil
}

func (m Model) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case StateHorizonSelect:
		m.state = StateReportSelect
		m.err = nil
	case StateAccuracyDisplay:
		if m.filterInput.Focused() {
			m.filterInput.Blur()
			m.accuracyTable.Focus()

			return m, nil
		}

		m.filterInput.Reset()
		m.state = StateHorizonSelect
	}

	return m, nil
}

func (m Model) updateReportSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if item, ok := m.reportList.SelectedItem().(listItem); ok {
			return m, loadReport(filepath.Join(m.root, item.key))
		}
	}

	var cmd tea.Cmd
	m.reportList, cmd = m.reportList.Update(msg)

	return m, cmd
}

func (m Model) updateHorizonSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if item, ok := m.horizonList.SelectedItem().(listItem); ok {
			days, _ := strconv.Atoi(item.key)

			for _, h := range m.report.Horizons {
				if h.HorizonDays == days {
					m.horizon = h
				}
			}

			m.accuracyTable.SetRows(AccuracyRows(m.horizon.Accuracy, ""))
			m.accuracyTable.GotoTop()
			m.state = StateAccuracyDisplay

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.horizonList, cmd = m.horizonList.Update(msg)

	return m, cmd
}

func (m Model) updateAccuracyDisplay(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.filterInput.Focused() {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
			m.filterInput.Blur()
			m.accuracyTable.Focus()

			return m, nil
		}

		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.accuracyTable.SetRows(AccuracyRows(m.horizon.Accuracy, m.filterInput.Value()))

		return m, cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "/" {
		m.accuracyTable.Blur()

		return m, m.filterInput.Focus()
	}

	var cmd tea.Cmd
	m.accuracyTable, cmd = m.accuracyTable.Update(msg)

	return m, cmd
}

// loadReport returns a command reading the report in dir.
func loadReport(dir string) tea.Cmd {
	return func() tea.Msg {
		r, err := writer.ReadReport(dir)
		if err != nil {
			return LoadErrorMsg{Err: err}
		}

		return ReportLoadedMsg{Report: r}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	switch m.state {
	case StateReportSelect:
		s.WriteString(m.reportList.View())
		s.WriteString("\n")

		if m.err != nil {
			s.WriteString(report.SellStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			s.WriteString("\n")
		}

		s.WriteString(report.HelpStyle.Render("Enter: open report | q: quit"))

	case StateHorizonSelect:
		s.WriteString(m.horizonList.View())
		s.WriteString("\n")
		s.WriteString(report.HelpStyle.Render("Enter: show accuracy | Esc: back | q: quit"))

	case StateAccuracyDisplay:
		s.WriteString(report.TitleStyle.Render(fmt.Sprintf("%s Signal Accuracy, %d-day horizon", m.report.Symbol, m.horizon.HorizonDays)))
		s.WriteString("\n\n")

		if m.filterInput.Focused() || m.filterInput.Value() != "" {
			s.WriteString(m.filterInput.View())
			s.WriteString("\n\n")
		}

		if len(m.horizon.Accuracy) == 0 {
			s.WriteString("No scored signals.\n")
		} else {
			s.WriteString(m.accuracyTable.View())
		}

		s.WriteString("\n")

		if len(m.horizon.Advice.Signals) > 0 {
			s.WriteString("\n")
			s.WriteString(report.AdviceView(m.horizon.Advice))
		}

		s.WriteString(report.HelpStyle.Render("/: filter | Esc: back | q: quit"))
	}

	return s.String()
}
