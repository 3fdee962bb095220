package view

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/money"
)

// Rule lookups may go to Postgres.
const rulesTimeout = 5 * time.Second

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// Formatter returns the money formatter for the store's current settings.
func Formatter(store *ledger.Store) *money.Formatter {
	return money.New(store.Settings())
}

// Signed returns tx's amount negated for expenses.
func Signed(tx ledger.Transaction) int64 {
	if tx.Type == ledger.TypeExpense {
		return -tx.Amount
	}

	return tx.Amount
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// RulesCtx returns a context with a standard timeout for category rule operations.
func RulesCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), rulesTimeout)
}

func activeStyle(s string) string {
	return accentStyle.Render(s)
}

func categoryNames(store *ledger.Store) map[string]string {
	names := make(map[string]string)
	for _, c := range store.Categories() {
		names[c.ID] = c.Name
	}

	return names
}
