package analytics_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/safespend/internal/analytics"
	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/month"
	"github.com/MrJamesThe3rd/safespend/internal/period"
)

var (
	feb = month.New(2024, time.February)
	mar = month.New(2024, time.March)
)

func tx(amount int64, typ ledger.Type, category string, date time.Time) ledger.Transaction {
	return ledger.Transaction{ID: uuid.New(), Amount: amount, Type: typ, Category: category, Date: date}
}

func date(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 10, 0, 0, 0, time.UTC)
}

func fixed(name string, amount int64, day int, history map[month.Key]ledger.Status) ledger.FixedExpense {
	e := ledger.FixedExpense{ID: uuid.New(), Name: name, Amount: amount, Day: day}
	for k, s := range history {
		e.History.Set(k, s)
	}

	return e
}

func fixture() ([]ledger.Transaction, []ledger.FixedExpense) {
	txs := []ledger.Transaction{
		tx(3000, ledger.TypeIncome, "salary", date(time.February, 1)),
		tx(400, ledger.TypeExpense, "food", date(time.February, 10)),
		tx(3000, ledger.TypeIncome, "salary", date(time.March, 1)),
		tx(600, ledger.TypeExpense, "food", date(time.March, 12)),
	}

	expenses := []ledger.FixedExpense{
		fixed("Rent", 1000, 1, map[month.Key]ledger.Status{feb: ledger.StatusPaid}),
		fixed("Internet", 50, 15, nil),
	}

	return txs, expenses
}

func TestBalance_AllTimeTotalsMonthScopedFixed(t *testing.T) {
	txs, expenses := fixture()

	type testCase struct {
		name  string
		month month.Key
		want  int64
	}

	tests := []testCase{
		{name: "MonthWithPaidRent", month: feb, want: 6000 - 1000 - 1000},
		{name: "MonthWithoutPayments", month: mar, want: 6000 - 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analytics.Balance(txs, expenses, tt.month))
		})
	}
}

func TestSafeToSpend(t *testing.T) {
	txs, expenses := fixture()

	// Feb: rent paid, internet pending.
	assert.Equal(t, int64(4000-50-200), analytics.SafeToSpend(txs, expenses, 200, feb))
	// Mar: both pending.
	assert.Equal(t, int64(5000-1050), analytics.SafeToSpend(txs, expenses, 0, mar))
	// No clamping.
	assert.Equal(t, int64(5000-1050-10000), analytics.SafeToSpend(txs, expenses, 10000, mar))
}

func TestSafeToSpend_PoolIsSubtractedOneToOne(t *testing.T) {
	txs, expenses := fixture()

	for _, d := range []int64{0, 1, 250, 999999} {
		base := analytics.SafeToSpend(txs, expenses, 100, mar)
		assert.Equal(t, base-d, analytics.SafeToSpend(txs, expenses, 100+d, mar))
	}
}

func TestSafeToSpend_LateCountsAsPending(t *testing.T) {
	e := fixed("Phone", 80, 3, map[month.Key]ledger.Status{mar: ledger.StatusLate})
	assert.Equal(t, int64(-80), analytics.SafeToSpend(nil, []ledger.FixedExpense{e}, 0, mar))
}

func TestDisplayStatus(t *testing.T) {
	today := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)

	type testCase struct {
		name    string
		expense ledger.FixedExpense
		viewed  month.Key
		want    ledger.Status
		dueSoon bool
	}

	tests := []testCase{
		{name: "PastDayCurrentMonth", expense: fixed("a", 1, 5, nil), viewed: mar, want: ledger.StatusLate},
		{name: "SameDayNotLate", expense: fixed("a", 1, 10, nil), viewed: mar, want: ledger.StatusPending, dueSoon: true},
		{name: "UpcomingDueSoon", expense: fixed("a", 1, 14, nil), viewed: mar, want: ledger.StatusPending, dueSoon: true},
		{name: "Upcoming", expense: fixed("a", 1, 20, nil), viewed: mar, want: ledger.StatusPending},
		{name: "PaidNeverLate", expense: fixed("a", 1, 5, map[month.Key]ledger.Status{mar: ledger.StatusPaid}), viewed: mar, want: ledger.StatusPaid},
		{name: "OtherMonthNeverLate", expense: fixed("a", 1, 5, nil), viewed: feb, want: ledger.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analytics.DisplayStatus(tt.expense, tt.viewed, today))
			assert.Equal(t, tt.dueSoon, analytics.DueSoon(tt.expense, tt.viewed, today))
		})
	}
}

func TestFinancialHealth(t *testing.T) {
	txs, expenses := fixture()

	h := analytics.FinancialHealth(txs, expenses, 1200)
	assert.Equal(t, int64(6000), h.TotalIncome)
	assert.Equal(t, int64(1050), h.TotalFixed)
	assert.Equal(t, int64(1000), h.TotalVariable)
	assert.InDelta(t, 17.5, h.FixedRatio, 1e-9)
	assert.InDelta(t, 16.666666, h.VariableRatio, 1e-5)
	assert.InDelta(t, 20.0, h.SavingRate, 1e-9)
}

func TestFinancialHealth_NoIncome(t *testing.T) {
	_, expenses := fixture()

	h := analytics.FinancialHealth([]ledger.Transaction{tx(30, ledger.TypeExpense, "food", date(time.March, 1))}, expenses, 500)
	assert.Zero(t, h.TotalIncome)
	assert.InDelta(t, 105000.0, h.FixedRatio, 1e-9)
	assert.InDelta(t, 3000.0, h.VariableRatio, 1e-9)
	assert.Zero(t, h.SavingRate)
}

func TestCategoryAggregation(t *testing.T) {
	categories := ledger.DefaultCategories()

	txs := []ledger.Transaction{
		tx(100, ledger.TypeExpense, "food", date(time.March, 1)),
		tx(50, ledger.TypeExpense, "food", date(time.March, 2)),
		tx(300, ledger.TypeExpense, "deleted-cat", date(time.March, 3)),
		tx(20, ledger.TypeExpense, "transport", date(time.March, 4)),
		tx(999, ledger.TypeIncome, "salary", date(time.March, 5)),
	}

	got := analytics.CategoryAggregation(txs, categories)
	require.Len(t, got, 3)

	assert.Equal(t, "deleted-cat", got[0].ID)
	assert.Equal(t, "deleted-cat", got[0].Name)
	assert.Equal(t, analytics.FallbackFill, got[0].Fill)
	assert.Equal(t, int64(300), got[0].Total)

	assert.Equal(t, "Comida", got[1].Name)
	assert.Equal(t, "#f97316", got[1].Fill)
	assert.Equal(t, "orange-100", got[1].Color)
	assert.Equal(t, int64(150), got[1].Total)

	assert.Equal(t, "#3b82f6", got[2].Fill)
	assert.InDelta(t, 100.0, got[0].Share+got[1].Share+got[2].Share, 1e-9)
}

func TestCategoryAggregation_Empty(t *testing.T) {
	assert.Empty(t, analytics.CategoryAggregation(nil, ledger.DefaultCategories()))
}

func TestSummarize(t *testing.T) {
	txs, expenses := fixture()

	doc := ledger.NewDocument()
	doc.Transactions = txs
	doc.FixedExpenses = expenses
	doc.ManualSavingsPool = 300

	s := analytics.Summarize(doc, feb)
	assert.Equal(t, int64(6000), s.Income)
	assert.Equal(t, int64(2000), s.Expense)
	assert.Equal(t, int64(1000), s.PaidFixed)
	assert.Equal(t, int64(50), s.PendingFixed)
	assert.Equal(t, int64(4000), s.Balance)
	assert.Equal(t, int64(4000-50-300), s.SafeToSpend)
}

func TestPlanner(t *testing.T) {
	today := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	paidAt := time.Date(2024, time.March, 2, 9, 0, 0, 0, time.UTC)

	rent := fixed("Rent", 1000, 1, nil)
	rent.History.Set(mar, ledger.StatusPaid)
	rent.PaidDates.Set(mar, paidAt)

	expenses := []ledger.FixedExpense{
		fixed("Internet", 50, 15, nil),
		rent,
		fixed("Gym", 30, 5, nil),
	}

	v := analytics.Planner(expenses, mar, today)
	require.Len(t, v.Items, 3)

	assert.Equal(t, []int{1, 5, 15}, []int{v.Items[0].Day, v.Items[1].Day, v.Items[2].Day})
	assert.Equal(t, ledger.StatusPaid, v.Items[0].Status)
	require.NotNil(t, v.Items[0].PaidAt)
	assert.True(t, paidAt.Equal(*v.Items[0].PaidAt))
	assert.Equal(t, ledger.StatusLate, v.Items[1].Status)
	assert.Equal(t, ledger.StatusPending, v.Items[2].Status)
	assert.True(t, v.Items[2].DueSoon)

	assert.Equal(t, int64(1080), v.Total)
	assert.Equal(t, int64(80), v.Remaining)
}

func TestPeriodReport(t *testing.T) {
	txs, expenses := fixture()

	rent := expenses[0]
	rent.PaidDates.Set(mar, date(time.March, 1))
	expenses[0] = rent

	doc := ledger.NewDocument()
	doc.Transactions = txs
	doc.FixedExpenses = expenses

	w, err := period.Range(period.GranularityMonth, date(time.March, 20), time.Time{}, time.Time{})
	require.NoError(t, err)

	r := analytics.PeriodReport(doc, w, period.NewLabeler(ledger.LanguageEnglish))
	require.Len(t, r.Series, 31)

	last := r.Series[len(r.Series)-1]
	assert.Equal(t, int64(3000-600-1000), last.CumulativeBalance)
	assert.Equal(t, int64(1600), last.CumulativeExpense)

	require.Len(t, r.Categories, 1)
	assert.Equal(t, "food", r.Categories[0].ID)

	assert.Equal(t, int64(3000), r.Health.TotalIncome)
	assert.Equal(t, int64(1600), r.Health.TotalVariable)
}
