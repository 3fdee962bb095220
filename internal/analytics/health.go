package analytics

import "github.com/MrJamesThe3rd/safespend/internal/ledger"

// Health holds percentage ratios of obligations and savings against income. Ratios are
// not clamped and exceed 100 when spending outgrows income.
type Health struct {
	TotalIncome   int64   `json:"total_income"`
	TotalFixed    int64   `json:"total_fixed"`
	TotalVariable int64   `json:"total_variable"`
	FixedRatio    float64 `json:"fixed_ratio"`
	VariableRatio float64 `json:"variable_ratio"`
	SavingRate    float64 `json:"saving_rate"`
}

// FinancialHealth computes the ratios over txs. With no income the divisor is floored
// at 1 and the saving rate is 0.
func FinancialHealth(txs []ledger.Transaction, expenses []ledger.FixedExpense, pool int64) Health {
	income, variable := Totals(txs)

	var fixed int64
	for _, e := range expenses {
		fixed += e.Amount
	}

	effective := float64(max(income, 1))

	h := Health{
		TotalIncome:   income,
		TotalFixed:    fixed,
		TotalVariable: variable,
		FixedRatio:    float64(fixed) / effective * 100,
		VariableRatio: float64(variable) / effective * 100,
	}

	if income > 0 {
		h.SavingRate = float64(pool) / effective * 100
	}

	return h
}
