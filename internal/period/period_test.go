package period_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/month"
	"github.com/MrJamesThe3rd/safespend/internal/period"
)

func at(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func tx(amount int64, typ ledger.Type, date time.Time) ledger.Transaction {
	return ledger.Transaction{ID: uuid.New(), Amount: amount, Type: typ, Category: "food", Date: date}
}

func TestRange(t *testing.T) {
	// Wednesday.
	now := at(2024, time.March, 13, 15)

	type testCase struct {
		name      string
		g         period.Granularity
		from, to  time.Time
		wantStart time.Time
		wantEnd   time.Time
		wantErr   error
	}

	tests := []testCase{
		{
			name:      "Week",
			g:         period.GranularityWeek,
			wantStart: at(2024, time.March, 11, 0),
			wantEnd:   period.EndOfDay(at(2024, time.March, 17, 0)),
		},
		{
			name:      "Month",
			g:         period.GranularityMonth,
			wantStart: at(2024, time.March, 1, 0),
			wantEnd:   period.EndOfDay(at(2024, time.March, 31, 0)),
		},
		{
			name:      "Custom",
			g:         period.GranularityCustom,
			from:      at(2024, time.February, 27, 9),
			to:        at(2024, time.March, 2, 9),
			wantStart: at(2024, time.February, 27, 0),
			wantEnd:   period.EndOfDay(at(2024, time.March, 2, 0)),
		},
		{
			name:      "Custom at the span limit",
			g:         period.GranularityCustom,
			from:      at(2020, time.January, 1, 0),
			to:        at(2020, time.January, 1, 0).AddDate(0, 0, period.MaxCustomDays-1),
			wantStart: at(2020, time.January, 1, 0),
			wantEnd:   period.EndOfDay(at(2020, time.January, 1, 0).AddDate(0, 0, period.MaxCustomDays-1)),
		},
		{
			name:    "Custom one day over the span limit",
			g:       period.GranularityCustom,
			from:    at(2020, time.January, 1, 0),
			to:      at(2020, time.January, 1, 0).AddDate(0, 0, period.MaxCustomDays),
			wantErr: period.ErrRangeTooLong,
		},
		{
			name:    "Custom spanning millennia",
			g:       period.GranularityCustom,
			from:    at(1, time.January, 1, 0),
			to:      at(9999, time.December, 31, 0),
			wantErr: period.ErrRangeTooLong,
		},
		{
			name:    "Unknown",
			g:       "year",
			wantErr: period.ErrInvalidGranularity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := period.Range(tt.g, now, tt.from, tt.to)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.True(t, tt.wantStart.Equal(got.Start), "start %s", got.Start)
			assert.True(t, tt.wantEnd.Equal(got.End), "end %s", got.End)
		})
	}
}

func TestRange_WeekOnSunday(t *testing.T) {
	got, err := period.Range(period.GranularityWeek, at(2024, time.March, 17, 20), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, time.Monday, got.Start.Weekday())
	assert.Equal(t, 11, got.Start.Day())
}

func TestPartition_OneBucketPerDay(t *testing.T) {
	w := period.Window{Start: at(2024, time.March, 11, 0), End: period.EndOfDay(at(2024, time.March, 17, 0))}

	records := []ledger.Transaction{
		tx(100, ledger.TypeIncome, at(2024, time.March, 12, 9)),
		tx(30, ledger.TypeExpense, at(2024, time.March, 12, 18)),
		tx(20, ledger.TypeExpense, at(2024, time.March, 15, 10)),
		tx(999, ledger.TypeIncome, at(2024, time.March, 18, 10)),
	}

	got := period.Partition(records, w, period.NewLabeler(ledger.LanguageEnglish))
	require.Len(t, got, 7)

	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].Day.Before(got[i].Day))
	}

	assert.Equal(t, "11 Mar", got[0].Label)
	assert.Zero(t, got[0].Income)
	assert.Zero(t, got[0].Expense)

	assert.Equal(t, int64(100), got[1].Income)
	assert.Equal(t, int64(30), got[1].Expense)
	assert.Equal(t, int64(70), got[1].CumulativeBalance)
	assert.Equal(t, int64(30), got[1].CumulativeExpense)

	last := got[len(got)-1]
	assert.Equal(t, int64(50), last.CumulativeBalance)
	assert.Equal(t, int64(50), last.CumulativeExpense)
}

func TestPartition_CumulativeMatchesTotals(t *testing.T) {
	w := period.Window{Start: at(2024, time.January, 1, 0), End: period.EndOfDay(at(2024, time.January, 31, 0))}

	var records []ledger.Transaction

	for d := 1; d <= 31; d += 3 {
		records = append(records,
			tx(int64(d*10), ledger.TypeIncome, at(2024, time.January, d, 8)),
			tx(int64(d*7), ledger.TypeExpense, at(2024, time.January, d, 20)),
		)
	}

	got := period.Partition(records, w, period.NewLabeler(ledger.LanguageSpanish))
	require.Len(t, got, 31)

	var income, expense int64
	for _, b := range got {
		income += b.Income
		expense += b.Expense
	}

	assert.Equal(t, income-expense, got[30].CumulativeBalance)
	assert.Equal(t, expense, got[30].CumulativeExpense)
	assert.Equal(t, "01 ene", got[0].Label)
}

func TestPartition_EmptyWindow(t *testing.T) {
	w := period.Window{Start: at(2024, time.March, 10, 0), End: at(2024, time.March, 9, 0)}

	got := period.Partition([]ledger.Transaction{tx(1, ledger.TypeIncome, at(2024, time.March, 9, 0))}, w, period.NewLabeler(ledger.LanguageEnglish))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestVirtual(t *testing.T) {
	rent := ledger.FixedExpense{ID: uuid.New(), Name: "Rent", Amount: 800, Day: 1}
	rent.PaidDates.Set(month.New(2024, time.February), at(2024, time.February, 2, 10))
	rent.PaidDates.Set(month.New(2024, time.March), at(2024, time.March, 1, 10))

	unpaid := ledger.FixedExpense{ID: uuid.New(), Name: "Gym", Amount: 30, Day: 5}

	w := period.Window{Start: at(2024, time.March, 1, 0), End: period.EndOfDay(at(2024, time.March, 31, 0))}

	got := period.Virtual([]ledger.FixedExpense{rent, unpaid}, w)
	require.Len(t, got, 1)

	v := got[0]
	assert.Equal(t, int64(800), v.Amount)
	assert.Equal(t, ledger.TypeExpense, v.Type)
	assert.Equal(t, ledger.CategoryUtilities, v.Category)
	assert.Equal(t, "Payment: Rent", v.Title)
	require.NotNil(t, v.LinkedFixedExpenseID)
	assert.Equal(t, rent.ID, *v.LinkedFixedExpenseID)
	require.NotNil(t, v.PaymentMonth)
	assert.Equal(t, month.New(2024, time.March), *v.PaymentMonth)

	again := period.Virtual([]ledger.FixedExpense{rent}, w)
	assert.Equal(t, v.ID, again[0].ID)
}

func TestMerge_StableByDate(t *testing.T) {
	w := period.Window{Start: at(2024, time.March, 1, 0), End: period.EndOfDay(at(2024, time.March, 31, 0))}
	same := at(2024, time.March, 5, 12)

	first := tx(1, ledger.TypeIncome, same)
	second := tx(2, ledger.TypeExpense, same)
	earlier := tx(3, ledger.TypeExpense, at(2024, time.March, 2, 12))
	outside := tx(4, ledger.TypeExpense, at(2024, time.April, 2, 12))

	got := period.Merge([]ledger.Transaction{first, second, outside, earlier}, nil, w)
	require.Len(t, got, 3)
	assert.Equal(t, earlier.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
	assert.Equal(t, second.ID, got[2].ID)
}

func TestSeries_IncludesPaidFixedExpenses(t *testing.T) {
	w := period.Window{Start: at(2024, time.March, 1, 0), End: period.EndOfDay(at(2024, time.March, 3, 0))}

	e := ledger.FixedExpense{ID: uuid.New(), Name: "Internet", Amount: 50, Day: 2}
	e.PaidDates.Set(month.New(2024, time.March), at(2024, time.March, 2, 9))

	got := period.Series([]ledger.Transaction{tx(200, ledger.TypeIncome, at(2024, time.March, 1, 9))}, []ledger.FixedExpense{e}, w, period.NewLabeler(ledger.LanguageEnglish))
	require.Len(t, got, 3)
	assert.Equal(t, int64(50), got[1].Expense)
	assert.Equal(t, int64(150), got[2].CumulativeBalance)
}
