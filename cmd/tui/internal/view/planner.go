package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/safespend/internal/analytics"
	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/money"
	"github.com/MrJamesThe3rd/safespend/internal/month"
)

type plannerState int

const (
	plannerStateBrowse plannerState = iota
	plannerStateAdd
)

// PlannerModel lists the fixed expenses of one month and toggles their payment.
type PlannerModel struct {
	CommonModel
	store *ledger.Store

	state  plannerState
	table  table.Model
	month  month.Key
	view   analytics.PlannerView
	form   *huh.Form
	status string

	// Form bindings
	formName   string
	formAmount string
	formDay    string
}

func NewPlannerModel(store *ledger.Store) PlannerModel {
	columns := []table.Column{
		{Title: "Day", Width: 5},
		{Title: "Name", Width: 30},
		{Title: "Amount", Width: 14},
		{Title: "Status", Width: 10},
		{Title: "Paid", Width: 12},
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
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := PlannerModel{
		store: store,
		table: t,
		month: month.Of(time.Now()),
	}
	m.refresh()

	return m
}

func (m PlannerModel) Title() string { return "Fixed Expenses" }

func (m PlannerModel) ShortHelp() string {
	if m.state == plannerStateAdd {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | p: toggle paid | a: add | d: delete | ←/→: month"
}

func (m PlannerModel) Init() tea.Cmd {
	return nil
}

func (m PlannerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.table.SetHeight(size.Height - 12)
		return m, nil
	}

	switch m.state {
	case plannerStateBrowse:
		return m.updateBrowse(msg)
	case plannerStateAdd:
		return m.updateAdd(msg)
	}

	return m, nil
}

func (m PlannerModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "left", "h":
			m.month = m.month.Prev()
			m.refresh()

			return m, nil
		case "right", "l":
			m.month = m.month.Next()
			m.refresh()

			return m, nil
		case "p":
			m.togglePaid()
			return m, nil
		case "d":
			m.deleteSelected()
			return m, nil
		case "a":
			return m.enterAddMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *PlannerModel) selected() (analytics.PlannerItem, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.view.Items) {
		return analytics.PlannerItem{}, false
	}

	return m.view.Items[idx], true
}

func (m *PlannerModel) togglePaid() {
	item, ok := m.selected()
	if !ok {
		return
	}

	var err error
	if item.Status == ledger.StatusPaid {
		_, err = m.store.MarkFixedExpenseUnpaid(item.ID, m.month)
	} else {
		_, err = m.store.MarkFixedExpensePaid(item.ID, m.month, time.Now())
	}

	m.status = ""
	if err != nil {
		m.status = fmt.Sprintf("Error: %v", err)
	}

	m.refresh()
}

func (m *PlannerModel) deleteSelected() {
	item, ok := m.selected()
	if !ok {
		return
	}

	m.status = fmt.Sprintf("Deleted %s.", item.Name)
	if err := m.store.DeleteFixedExpense(item.ID); err != nil {
		m.status = fmt.Sprintf("Error: %v", err)
	}

	m.refresh()
}

func (m PlannerModel) enterAddMode() (tea.Model, tea.Cmd) {
	m.formName = ""
	m.formAmount = ""
	m.formDay = "1"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&m.formName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Value(&m.formAmount).
				Validate(func(s string) error {
					if money.ParseFormattedNumber(s) <= 0 {
						return ledger.ErrInvalidAmount
					}
					return nil
				}),

			huh.NewInput().
				Key("day").
				Title("Day of month").
				Value(&m.formDay).
				Validate(func(s string) error {
					if d, err := strconv.Atoi(s); err != nil || d < 1 || d > 31 {
						return ledger.ErrInvalidDay
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = plannerStateAdd
	m.table.Blur()

	return m, m.form.Init()
}

func (m PlannerModel) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = plannerStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	day, _ := strconv.Atoi(m.form.GetString("day"))

	_, err := m.store.AddFixedExpense(ledger.FixedExpenseParams{
		Name:   strings.TrimSpace(m.form.GetString("name")),
		Amount: money.ParseFormattedNumber(m.form.GetString("amount")),
		Day:    day,
	})

	m.status = "Saved."
	if err != nil {
		m.status = fmt.Sprintf("Error saving: %v", err)
	}

	m.state = plannerStateBrowse
	m.form = nil
	m.table.Focus()
	m.refresh()

	return m, nil
}

func (m PlannerModel) View() string {
	f := Formatter(m.store)

	header := fmt.Sprintf(
		"Month: %s | Total: %s | Remaining: %s",
		activeStyle(m.month.String()),
		f.FormatMoney(m.view.Total),
		activeStyle(f.FormatMoney(m.view.Remaining)),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == plannerStateAdd && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("New Fixed Expense\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *PlannerModel) refresh() {
	m.view = analytics.Planner(m.store.FixedExpenses(), m.month, time.Now())

	f := Formatter(m.store)

	rows := make([]table.Row, 0, len(m.view.Items))
	for _, item := range m.view.Items {
		status := string(item.Status)
		if item.DueSoon {
			status += " !"
		}

		paid := ""
		if item.PaidAt != nil {
			paid = FormatDate(*item.PaidAt)
		}

		rows = append(rows, table.Row{
			strconv.Itoa(item.Day),
			item.Name,
			f.FormatMoney(item.Amount),
			status,
			paid,
		})
	}

	m.table.SetRows(rows)
}
