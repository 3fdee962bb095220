package analytics

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/month"
	"github.com/MrJamesThe3rd/safespend/internal/period"
)

// Summary is the dashboard view of a month. Expense includes the fixed expenses paid
// in the month.
type Summary struct {
	Month        month.Key `json:"month"`
	Income       int64     `json:"income"`
	Expense      int64     `json:"expense"`
	Balance      int64     `json:"balance"`
	PaidFixed    int64     `json:"paid_fixed"`
	PendingFixed int64     `json:"pending_fixed"`
	SavingsPool  int64     `json:"savings_pool"`
	SafeToSpend  int64     `json:"safe_to_spend"`
	Health       Health    `json:"health"`
}

func Summarize(doc ledger.Document, m month.Key) Summary {
	income, expense := Totals(doc.Transactions)
	paid := PaidFixed(doc.FixedExpenses, m)

	return Summary{
		Month:        m,
		Income:       income,
		Expense:      expense + paid,
		Balance:      Balance(doc.Transactions, doc.FixedExpenses, m),
		PaidFixed:    paid,
		PendingFixed: PendingFixed(doc.FixedExpenses, m),
		SavingsPool:  doc.ManualSavingsPool,
		SafeToSpend:  SafeToSpend(doc.Transactions, doc.FixedExpenses, doc.ManualSavingsPool, m),
		Health:       FinancialHealth(doc.Transactions, doc.FixedExpenses, doc.ManualSavingsPool),
	}
}

type PlannerItem struct {
	ID      uuid.UUID     `json:"id"`
	Name    string        `json:"name"`
	Amount  int64         `json:"amount"`
	Day     int           `json:"day"`
	Status  ledger.Status `json:"status"`
	DueSoon bool          `json:"due_soon"`
	PaidAt  *time.Time    `json:"paid_at,omitempty"`
}

// PlannerView lists a month's fixed expenses by day of month.
type PlannerView struct {
	Month     month.Key     `json:"month"`
	Items     []PlannerItem `json:"items"`
	Total     int64         `json:"total"`
	Remaining int64         `json:"remaining"`
}

// Planner builds the view of viewed as seen on today.
func Planner(expenses []ledger.FixedExpense, viewed month.Key, today time.Time) PlannerView {
	sorted := slices.Clone(expenses)
	slices.SortStableFunc(sorted, func(a, b ledger.FixedExpense) int { return a.Day - b.Day })

	v := PlannerView{Month: viewed, Items: make([]PlannerItem, 0, len(sorted))}

	for _, e := range sorted {
		item := PlannerItem{
			ID:      e.ID,
			Name:    e.Name,
			Amount:  e.Amount,
			Day:     e.Day,
			Status:  DisplayStatus(e, viewed, today),
			DueSoon: DueSoon(e, viewed, today),
		}

		if at, ok := e.PaidAt(viewed); ok {
			item.PaidAt = &at
		}

		v.Total += e.Amount
		if item.Status != ledger.StatusPaid {
			v.Remaining += e.Amount
		}

		v.Items = append(v.Items, item)
	}

	return v
}

// Report is the analytics screen for one window.
type Report struct {
	Window     period.Window   `json:"window"`
	Series     []period.Bucket `json:"series"`
	Categories []CategoryTotal `json:"categories"`
	Health     Health          `json:"health"`
}

// PeriodReport buckets the window's real transactions together with paid fixed
// expenses. Health is computed over the same records; the category breakdown covers
// real transactions only.
func PeriodReport(doc ledger.Document, w period.Window, label period.Labeler) Report {
	inWindow := period.Filter(doc.Transactions, w)
	merged := period.Merge(doc.Transactions, doc.FixedExpenses, w)

	return Report{
		Window:     w,
		Series:     period.Partition(merged, w, label),
		Categories: CategoryAggregation(inWindow, doc.Categories),
		Health:     FinancialHealth(merged, doc.FixedExpenses, doc.ManualSavingsPool),
	}
}
