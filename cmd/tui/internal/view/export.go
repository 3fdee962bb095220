package view

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/safespend/internal/analytics"
	"github.com/MrJamesThe3rd/safespend/internal/export"
	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/period"
)

const defaultExportDir = "./exports"

type exportStep int

const (
	exportPickRange exportStep = iota
	exportConfirm
	exportRunning
	exportDone
)

// ExportModel writes the transactions of a chosen range, fixed-expense payments
// included, to a CSV file plus a text summary.
type ExportModel struct {
	CommonModel
	store   *ledger.Store
	service *export.Service

	step    exportStep
	picker  TimeframePicker
	form    *huh.Form
	spinner spinner.Model

	window  period.Window
	items   []export.Item
	dir     string
	outcome exportResultMsg
}

func NewExportModel(store *ledger.Store, svc *export.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = accentStyle

	return ExportModel{
		store:   store,
		service: svc,
		picker:  NewTimeframePicker(TimeframeThisMonth),
		spinner: s,
		dir:     defaultExportDir,
	}
}

func (m ExportModel) Title() string { return "Export Transactions" }

func (m ExportModel) ShortHelp() string {
	switch m.step {
	case exportRunning:
		return "Exporting..."
	case exportDone:
		return "Esc: back to menu"
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return nil
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		return m.confirm(msg)
	case exportResultMsg:
		m.step = exportDone
		m.outcome = msg

		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.back()
		}
	}

	var cmd tea.Cmd

	switch m.step {
	case exportPickRange:
		m.picker, cmd = m.picker.Update(msg)
	case exportConfirm:
		return m.updateForm(msg)
	case exportRunning:
		m.spinner, cmd = m.spinner.Update(msg)
	}

	return m, cmd
}

func (m ExportModel) back() (tea.Model, tea.Cmd) {
	switch m.step {
	case exportPickRange:
		if !m.picker.IsSelecting() {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(tea.KeyMsg{Type: tea.KeyEsc})

			return m, cmd
		}

		return m, Back
	case exportConfirm:
		m.step = exportPickRange
		m.picker.Reset()

		return m, nil
	case exportDone:
		return m, Back
	}

	return m, nil
}

func (m ExportModel) confirm(msg TimeframeSelectedMsg) (tea.Model, tea.Cmd) {
	m.window = msg.Window
	if msg.All {
		m.window = allTime(m.store.Transactions(), time.Now())
	}

	m.items = m.service.Items(m.window)
	m.form = m.confirmForm()
	m.step = exportConfirm

	return m, m.form.Init()
}

func (m ExportModel) confirmForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("dir").
				Title("Output directory").
				Description("Created if missing").
				Placeholder(defaultExportDir).
				Value(&m.dir),
			huh.NewConfirm().
				Key("go").
				Title(m.preview()).
				Affirmative("Export").
				Negative("Cancel"),
		),
	).WithWidth(60).WithShowHelp(false)
}

// preview describes what is about to be written.
func (m ExportModel) preview() string {
	txs := make([]ledger.Transaction, len(m.items))
	for i, item := range m.items {
		txs[i] = item.Transaction
	}

	income, expense := analytics.Totals(txs)
	f := Formatter(m.store)

	return fmt.Sprintf("%d transactions from %s to %s (+%s / -%s)",
		len(m.items), FormatDate(m.window.Start), FormatDate(m.window.End),
		f.FormatMoney(income), f.FormatMoney(expense))
}

func (m ExportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		return m, Back
	case huh.StateCompleted:
	default:
		return m, cmd
	}

	if ok, _ := m.form.Get("go").(bool); !ok {
		return m, Back
	}

	if dir := m.form.GetString("dir"); dir != "" {
		m.dir = dir
	}

	m.step = exportRunning

	return m, tea.Batch(m.spinner.Tick, runExport(m.service, m.window, m.dir))
}

type exportResultMsg struct {
	summary string
	count   int
	err     error
}

func runExport(svc *export.Service, w period.Window, dir string) tea.Cmd {
	return func() tea.Msg {
		items, err := svc.Export(w, dir)
		if err != nil {
			return exportResultMsg{err: err}
		}

		return exportResultMsg{summary: svc.Summary(items, w), count: len(items)}
	}
}

func (m ExportModel) View() string {
	pad := lipgloss.NewStyle().Padding(1)

	switch m.step {
	case exportPickRange:
		return pad.Render(m.picker.View())
	case exportConfirm:
		return pad.Render(m.form.View())
	case exportRunning:
		return pad.Render(m.spinner.View() + " Exporting transactions...")
	}

	if m.outcome.err != nil {
		return pad.Render(errorStyle.Render("Export failed: " + m.outcome.err.Error()))
	}

	return pad.Render(lipgloss.JoinVertical(lipgloss.Left,
		successStyle.Bold(true).Render("Export complete"),
		faintStyle.Render(fmt.Sprintf("%d transactions → %s", m.outcome.count, filepath.Join(m.dir, export.TransactionsFile))),
		"",
		m.outcome.summary,
	))
}

// allTime spans from the oldest transaction to the end of today.
func allTime(txs []ledger.Transaction, now time.Time) period.Window {
	start := now
	for _, tx := range txs {
		if tx.Date.Before(start) {
			start = tx.Date
		}
	}

	return period.Window{Start: period.StartOfDay(start), End: period.EndOfDay(now)}
}
