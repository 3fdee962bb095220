package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/safespend/internal/analytics"
	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/month"
	"github.com/MrJamesThe3rd/safespend/internal/savings"
)

// DashboardModel shows the monthly summary and the savings pool advisories.
type DashboardModel struct {
	CommonModel
	store   *ledger.Store
	savings *savings.Service

	month month.Key
}

func NewDashboardModel(store *ledger.Store, svc *savings.Service) DashboardModel {
	return DashboardModel{
		store:   store,
		savings: svc,
		month:   month.Of(time.Now()),
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string { return "Esc: back | ←/→: month" }

func (m DashboardModel) Init() tea.Cmd {
	return nil
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "left", "h":
		m.month = m.month.Prev()
	case "right", "l":
		m.month = m.month.Next()
	}

	return m, nil
}

func (m DashboardModel) View() string {
	doc := m.store.Snapshot()
	sum := analytics.Summarize(doc, m.month)
	pool := m.savings.Status()
	f := Formatter(m.store)

	var sb strings.Builder

	fmt.Fprintf(&sb, "Hello, %s\n", doc.Settings.UserName)
	fmt.Fprintf(&sb, "Month: %s\n\n", activeStyle(m.month.String()))

	rows := [][2]string{
		{"Income", f.FormatMoney(sum.Income)},
		{"Expense", f.FormatMoney(sum.Expense)},
		{"Balance", f.FormatMoney(sum.Balance)},
		{"Fixed paid", f.FormatMoney(sum.PaidFixed)},
		{"Fixed pending", f.FormatMoney(sum.PendingFixed)},
		{"Savings pool", f.FormatMoney(sum.SavingsPool)},
	}
	for _, r := range rows {
		fmt.Fprintf(&sb, "%-15s %s\n", r[0], r[1])
	}

	safe := successStyle
	if sum.SafeToSpend < 0 {
		safe = errorStyle
	}

	fmt.Fprintf(&sb, "\n%-15s %s\n", "Safe to spend", safe.Bold(true).Render(f.FormatMoney(sum.SafeToSpend)))

	fmt.Fprintf(&sb, "\nFixed %.0f%% · Variable %.0f%% · Saving %.0f%%\n",
		sum.Health.FixedRatio, sum.Health.VariableRatio, sum.Health.SavingRate)

	fmt.Fprintf(&sb, "\nAllocated %s of %s", f.FormatMoney(pool.TotalAllocated), f.FormatMoney(pool.Pool))

	switch {
	case pool.OverAllocated:
		sb.WriteString("\n" + errorStyle.Render(fmt.Sprintf("Goals exceed the pool by %s", f.FormatMoney(pool.Excess))))
	case pool.UnderAllocated:
		sb.WriteString("\n" + accentStyle.Render(fmt.Sprintf("You could set aside up to %s", f.FormatMoney(pool.Recommended))))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(sb.String())
}
