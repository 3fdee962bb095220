package period

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/month"
)

// Bucket aggregates one calendar day. Cumulative values include every earlier bucket
// of the same series.
type Bucket struct {
	Day               time.Time `json:"day"`
	Label             string    `json:"label"`
	Income            int64     `json:"income"`
	Expense           int64     `json:"expense"`
	CumulativeBalance int64     `json:"cumulative_balance"`
	CumulativeExpense int64     `json:"cumulative_expense"`
}

type civilDay struct {
	year  int
	month time.Month
	day   int
}

func civil(t time.Time) civilDay {
	y, m, d := t.Date()
	return civilDay{year: y, month: m, day: d}
}

var virtualNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("safespend:fixed-expense-payment"))

// VirtualID is the stable identifier of the synthesized payment of e for m.
func VirtualID(expenseID uuid.UUID, m month.Key) uuid.UUID {
	return uuid.NewSHA1(virtualNamespace, []byte(expenseID.String()+"/"+m.String()))
}

// Virtual synthesizes one expense transaction per recorded payment date inside w.
// The results are never stored.
func Virtual(expenses []ledger.FixedExpense, w Window) []ledger.Transaction {
	var out []ledger.Transaction

	for _, e := range expenses {
		for _, key := range e.PaidDates.Keys() {
			paidAt, _ := e.PaidDates.Get(key)
			if !w.Contains(paidAt) {
				continue
			}

			out = append(out, ledger.Transaction{
				ID:                   VirtualID(e.ID, key),
				Amount:               e.Amount,
				Type:                 ledger.TypeExpense,
				Category:             ledger.CategoryUtilities,
				Title:                "Payment: " + e.Name,
				Date:                 paidAt,
				LinkedFixedExpenseID: new(e.ID),
				PaymentMonth:         new(key),
			})
		}
	}

	return out
}

// Filter returns the transactions dated inside w, in their original order.
func Filter(txs []ledger.Transaction, w Window) []ledger.Transaction {
	out := make([]ledger.Transaction, 0, len(txs))

	for _, tx := range txs {
		if w.Contains(tx.Date) {
			out = append(out, tx)
		}
	}

	return out
}

// Merge filters txs to w, appends the virtual payments of expenses and sorts the result
// by date. Records sharing a timestamp keep their relative order.
func Merge(txs []ledger.Transaction, expenses []ledger.FixedExpense, w Window) []ledger.Transaction {
	out := append(Filter(txs, w), Virtual(expenses, w)...)
	slices.SortStableFunc(out, func(a, b ledger.Transaction) int { return a.Date.Compare(b.Date) })

	return out
}

// Partition builds one bucket per calendar day of w, in w.Start's location, and accumulates
// the records dated inside w. An empty window yields no buckets.
func Partition(records []ledger.Transaction, w Window, label Labeler) []Bucket {
	if w.Empty() {
		return []Bucket{}
	}

	loc := w.Start.Location()
	index := make(map[civilDay]int)

	var buckets []Bucket

	for d := StartOfDay(w.Start); !d.After(w.End); d = d.AddDate(0, 0, 1) {
		index[civil(d)] = len(buckets)
		buckets = append(buckets, Bucket{Day: d, Label: label(d)})
	}

	for _, tx := range records {
		if !w.Contains(tx.Date) {
			continue
		}

		i, ok := index[civil(tx.Date.In(loc))]
		if !ok {
			continue
		}

		if tx.Type == ledger.TypeIncome {
			buckets[i].Income += tx.Amount
		} else {
			buckets[i].Expense += tx.Amount
		}
	}

	var balance, expense int64

	for i := range buckets {
		balance += buckets[i].Income - buckets[i].Expense
		expense += buckets[i].Expense
		buckets[i].CumulativeBalance = balance
		buckets[i].CumulativeExpense = expense
	}

	return buckets
}

// Series buckets the real transactions and paid fixed expenses that fall inside w.
func Series(txs []ledger.Transaction, expenses []ledger.FixedExpense, w Window, label Labeler) []Bucket {
	return Partition(Merge(txs, expenses, w), w, label)
}
