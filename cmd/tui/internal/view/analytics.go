package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/safespend/internal/analytics"
	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/period"
)

const barWidth = 30

// AnalyticsModel renders the category breakdown and daily series of a window.
type AnalyticsModel struct {
	CommonModel
	store *ledger.Store

	timeframePicker TimeframePicker
	report          *analytics.Report
}

func NewAnalyticsModel(store *ledger.Store) AnalyticsModel {
	return AnalyticsModel{
		store:           store,
		timeframePicker: NewTimeframePicker(TimeframeThisWeek),
	}
}

func (m AnalyticsModel) Title() string { return "Analytics" }

func (m AnalyticsModel) ShortHelp() string {
	if m.report == nil {
		return "Esc: back | Enter: select"
	}

	return "Esc: choose another timeframe"
}

func (m AnalyticsModel) Init() tea.Cmd {
	return nil
}

func (m AnalyticsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if tfMsg, ok := msg.(TimeframeSelectedMsg); ok {
		w := tfMsg.Window
		if tfMsg.All {
			w = allTime(m.store.Transactions(), time.Now())
		}

		doc := m.store.Snapshot()
		report := analytics.PeriodReport(doc, w, period.NewLabeler(doc.Settings.Language))
		m.report = &report

		return m, nil
	}

	keyMsg, isKey := msg.(tea.KeyMsg)

	if m.report != nil {
		if isKey && keyMsg.Type == tea.KeyEsc {
			m.report = nil
			m.timeframePicker.Reset()
		}

		return m, nil
	}

	if isKey && keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
		return m, Back
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m AnalyticsModel) View() string {
	if m.report == nil {
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())
	}

	r := m.report
	f := Formatter(m.store)

	var sb strings.Builder

	fmt.Fprintf(&sb, "%s - %s\n\n", FormatDate(r.Window.Start), FormatDate(r.Window.End))

	if len(r.Series) > 0 {
		last := r.Series[len(r.Series)-1]
		fmt.Fprintf(&sb, "Balance: %s | Spent: %s\n\n",
			activeStyle(f.FormatMoney(last.CumulativeBalance)),
			f.FormatMoney(last.CumulativeExpense),
		)
	}

	sb.WriteString("By category\n")

	for _, c := range r.Categories {
		bar := strings.Repeat("█", int(c.Share*barWidth/100))
		color := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Fill))

		fmt.Fprintf(&sb, "%-14s %s %5.1f%% %s\n", c.Name, color.Render(fmt.Sprintf("%-*s", barWidth, bar)), c.Share, f.FormatMoney(c.Total))
	}

	if len(r.Categories) == 0 {
		sb.WriteString(faintStyle.Render("No expenses in this period.") + "\n")
	}

	sb.WriteString("\nDaily\n")

	for _, b := range r.Series {
		if b.Income == 0 && b.Expense == 0 {
			continue
		}

		fmt.Fprintf(&sb, "%-8s +%-12s -%-12s %s\n", b.Label, f.FormatNumber(b.Income), f.FormatNumber(b.Expense), faintStyle.Render(f.FormatMoney(b.CumulativeBalance)))
	}

	fmt.Fprintf(&sb, "\nFixed %.0f%% · Variable %.0f%% · Saving %.0f%%",
		r.Health.FixedRatio, r.Health.VariableRatio, r.Health.SavingRate)

	return lipgloss.NewStyle().Padding(1, 2).Render(sb.String())
}
