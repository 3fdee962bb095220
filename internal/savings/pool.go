package savings

import "github.com/MrJamesThe3rd/safespend/internal/ledger"

// PoolStatus compares goal allocations against the declared pool. Both flags are
// advisory and never block a movement.
type PoolStatus struct {
	Pool           int64 `json:"pool"`
	TotalAllocated int64 `json:"total_allocated"`
	Remaining      int64 `json:"remaining"`
	Excess         int64 `json:"excess"`
	Recommended    int64 `json:"recommended"`
	OverAllocated  bool  `json:"over_allocated"`
	UnderAllocated bool  `json:"under_allocated"`
}

// Pool evaluates the advisories. recommended is the amount the user could still set
// aside, normally the month's safe-to-spend.
func Pool(goals []ledger.SavingsGoal, pool, recommended int64) PoolStatus {
	total := TotalAllocated(goals)

	return PoolStatus{
		Pool:           pool,
		TotalAllocated: total,
		Remaining:      max(0, pool-total),
		Excess:         max(0, total-pool),
		Recommended:    recommended,
		OverAllocated:  total > pool,
		UnderAllocated: total >= pool && recommended > pool,
	}
}

// WouldExceed reports whether allocating amount more would be rejected.
func (p PoolStatus) WouldExceed(amount int64) bool {
	return p.TotalAllocated > p.Pool || amount > p.Pool-p.TotalAllocated
}
