package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/money"
	"github.com/MrJamesThe3rd/safespend/internal/savings"
)

type savingsAction int

const (
	savingsActionNone savingsAction = iota
	savingsActionAllocate
	savingsActionWithdraw
	savingsActionPool
	savingsActionGoal
)

func (a savingsAction) String() string {
	switch a {
	case savingsActionAllocate:
		return "Allocate"
	case savingsActionWithdraw:
		return "Withdraw"
	case savingsActionPool:
		return "Savings Pool"
	case savingsActionGoal:
		return "New Goal"
	}

	return ""
}

// SavingsModel lists goals and moves money between them and the pool.
type SavingsModel struct {
	CommonModel
	store   *ledger.Store
	savings *savings.Service

	table  table.Model
	goals  []ledger.SavingsGoal
	action savingsAction
	goalID uuid.UUID
	form   *huh.Form
	status string

	// Form bindings
	formName   string
	formAmount string
}

func NewSavingsModel(store *ledger.Store, svc *savings.Service) SavingsModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Goal", Width: 24},
			{Title: "Saved", Width: 14},
			{Title: "Target", Width: 14},
			{Title: "Progress", Width: 9},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	m := SavingsModel{store: store, savings: svc, table: t}
	m.refresh()

	return m
}

func (m SavingsModel) Title() string { return "Savings" }

func (m SavingsModel) ShortHelp() string {
	if m.action != savingsActionNone {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | +: allocate | -: withdraw | g: new goal | p: set pool | d: delete goal"
}

func (m SavingsModel) Init() tea.Cmd {
	return nil
}

func (m SavingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.action != savingsActionNone {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "+":
			return m.openForm(savingsActionAllocate)
		case "-":
			return m.openForm(savingsActionWithdraw)
		case "g":
			return m.openForm(savingsActionGoal)
		case "p":
			return m.openForm(savingsActionPool)
		case "d":
			if goal, ok := m.selected(); ok {
				m.status = fmt.Sprintf("Deleted %s.", goal.Name)
				if err := m.store.DeleteSavingsGoal(goal.ID); err != nil {
					m.status = fmt.Sprintf("Error: %v", err)
				}

				m.refresh()
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m SavingsModel) selected() (ledger.SavingsGoal, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.goals) {
		return ledger.SavingsGoal{}, false
	}

	return m.goals[idx], true
}

func (m SavingsModel) openForm(action savingsAction) (tea.Model, tea.Cmd) {
	if action == savingsActionAllocate || action == savingsActionWithdraw {
		goal, ok := m.selected()
		if !ok {
			return m, nil
		}

		m.goalID = goal.ID
	}

	m.formName = ""
	m.formAmount = ""

	if action == savingsActionPool {
		m.formAmount = Formatter(m.store).FormatNumber(m.store.ManualSavingsPool())
	}

	amount := huh.NewInput().
		Key("amount").
		Title("Amount").
		Value(&m.formAmount).
		Validate(func(s string) error {
			if action != savingsActionPool && money.ParseFormattedNumber(s) <= 0 {
				return savings.ErrInvalidAmount
			}
			return nil
		})

	fields := []huh.Field{amount}
	if action == savingsActionGoal {
		amount.Title("Target")
		fields = []huh.Field{
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
			amount,
		}
	}

	m.form = huh.NewForm(huh.NewGroup(fields...)).WithWidth(40).WithShowHelp(false)
	m.action = action
	m.table.Blur()

	return m, m.form.Init()
}

func (m SavingsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	amount := money.ParseFormattedNumber(m.form.GetString("amount"))

	var err error

	switch m.action {
	case savingsActionAllocate:
		_, err = m.savings.Allocate(m.goalID, amount)
	case savingsActionWithdraw:
		_, err = m.savings.Withdraw(m.goalID, amount)
	case savingsActionPool:
		err = m.store.SetManualSavingsPool(amount)
	case savingsActionGoal:
		_, err = m.store.AddSavingsGoal(ledger.SavingsGoalParams{
			Name:         strings.TrimSpace(m.form.GetString("name")),
			TargetAmount: amount,
		})
	}

	m.status = m.action.String() + " saved."
	if err != nil {
		m.status = fmt.Sprintf("Error: %v", err)
	}

	m.closeForm()

	return m, nil
}

func (m *SavingsModel) closeForm() {
	m.action = savingsActionNone
	m.form = nil
	m.table.Focus()
	m.refresh()
}

func (m SavingsModel) View() string {
	f := Formatter(m.store)
	pool := m.savings.Status()

	header := fmt.Sprintf("Pool: %s | Allocated: %s | Free: %s",
		activeStyle(f.FormatMoney(pool.Pool)),
		f.FormatMoney(pool.TotalAllocated),
		f.FormatMoney(pool.Remaining),
	)

	if pool.OverAllocated {
		header += "\n" + errorStyle.Render(fmt.Sprintf("Over-allocated by %s", f.FormatMoney(pool.Excess)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		m.table.View(),
	)

	if m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Render(m.action.String() + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *SavingsModel) refresh() {
	m.goals = m.store.SavingsGoals()
	f := Formatter(m.store)

	rows := make([]table.Row, 0, len(m.goals))
	for _, g := range m.goals {
		rows = append(rows, table.Row{
			g.Name,
			f.FormatMoney(g.CurrentAmount),
			f.FormatMoney(g.TargetAmount),
			fmt.Sprintf("%.0f%%", g.Progress()),
		})
	}

	m.table.SetRows(rows)
}
