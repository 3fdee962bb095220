// Package analytics derives the figures shown to the user from ledger state. Every
// function is pure: callers pass the records and the month or window of interest.
package analytics

import (
	"time"

	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/month"
)

// Totals sums income and expense amounts over txs.
func Totals(txs []ledger.Transaction) (income, expense int64) {
	for _, tx := range txs {
		switch tx.Type {
		case ledger.TypeIncome:
			income += tx.Amount
		case ledger.TypeExpense:
			expense += tx.Amount
		}
	}

	return income, expense
}

// PaidFixed sums the fixed expenses marked paid for m.
func PaidFixed(expenses []ledger.FixedExpense, m month.Key) int64 {
	var total int64

	for _, e := range expenses {
		if Status(e, m) == ledger.StatusPaid {
			total += e.Amount
		}
	}

	return total
}

// PendingFixed sums the fixed expenses still pending or late for m.
func PendingFixed(expenses []ledger.FixedExpense, m month.Key) int64 {
	var total int64

	for _, e := range expenses {
		if s := Status(e, m); s == ledger.StatusPending || s == ledger.StatusLate {
			total += e.Amount
		}
	}

	return total
}

// Balance is all-time income minus all-time expense minus the fixed expenses paid in m.
// Only the fixed deduction is scoped to the month.
func Balance(txs []ledger.Transaction, expenses []ledger.FixedExpense, m month.Key) int64 {
	income, expense := Totals(txs)

	return income - expense - PaidFixed(expenses, m)
}

// SafeToSpend is what remains of Balance once m's unpaid obligations and the savings
// pool are set aside. It may be negative.
func SafeToSpend(txs []ledger.Transaction, expenses []ledger.FixedExpense, pool int64, m month.Key) int64 {
	return Balance(txs, expenses, m) - PendingFixed(expenses, m) - pool
}

// Status returns the stored status of e for m, defaulting to pending.
func Status(e ledger.FixedExpense, m month.Key) ledger.Status {
	return e.StatusFor(m)
}

// DisplayStatus reports late for an unpaid expense whose day has passed, but only when
// viewed is the month containing today. The result is never stored.
func DisplayStatus(e ledger.FixedExpense, viewed month.Key, today time.Time) ledger.Status {
	s := Status(e, viewed)
	if s == ledger.StatusPaid {
		return s
	}

	if viewed == month.Of(today) && today.Day() > e.Day {
		return ledger.StatusLate
	}

	return ledger.StatusPending
}

// DueSoon reports whether an unpaid expense falls within the next five days of today.
func DueSoon(e ledger.FixedExpense, viewed month.Key, today time.Time) bool {
	if viewed != month.Of(today) || Status(e, viewed) == ledger.StatusPaid {
		return false
	}

	return e.Day >= today.Day() && e.Day <= today.Day()+5
}
