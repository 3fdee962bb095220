// Package savings moves money between the manual savings pool and savings goals.
package savings

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/safespend/internal/analytics"
	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/month"
)

var (
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrExceedsPool   = errors.New("allocation exceeds the savings pool")
	ErrExceedsGoal   = errors.New("withdrawal exceeds the goal balance")
)

// Ledger is the part of the ledger store the service needs.
type Ledger interface {
	MoveSavings(goalID uuid.UUID, decide ledger.SavingsDecision) (ledger.Transaction, error)
	Snapshot() ledger.Document
}

type Service struct {
	ledger Ledger
	now    func() time.Time
}

func NewService(l Ledger) *Service {
	return &Service{ledger: l, now: time.Now}
}

// Allocate moves amount from the pool into the goal. It is rejected when the total
// allocated across all goals would exceed the pool.
func (s *Service) Allocate(goalID uuid.UUID, amount int64) (ledger.Transaction, error) {
	if amount <= 0 {
		return ledger.Transaction{}, ErrInvalidAmount
	}

	tx, err := s.ledger.MoveSavings(goalID, func(goal ledger.SavingsGoal, goals []ledger.SavingsGoal, pool int64) (int64, ledger.Transaction, error) {
		if allocated := TotalAllocated(goals); allocated > pool || amount > pool-allocated {
			return 0, ledger.Transaction{}, fmt.Errorf("%w: %d allocated, %d requested, pool %d", ErrExceedsPool, allocated, amount, pool)
		}

		return amount, s.record(goal, amount, ledger.TypeExpense, "Savings: "), nil
	})
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("allocating to goal %s: %w", goalID, err)
	}

	return tx, nil
}

// Withdraw moves amount out of the goal. It is rejected when the goal holds less.
func (s *Service) Withdraw(goalID uuid.UUID, amount int64) (ledger.Transaction, error) {
	if amount <= 0 {
		return ledger.Transaction{}, ErrInvalidAmount
	}

	tx, err := s.ledger.MoveSavings(goalID, func(goal ledger.SavingsGoal, _ []ledger.SavingsGoal, _ int64) (int64, ledger.Transaction, error) {
		if amount > goal.CurrentAmount {
			return 0, ledger.Transaction{}, fmt.Errorf("%w: goal holds %d, %d requested", ErrExceedsGoal, goal.CurrentAmount, amount)
		}

		return -amount, s.record(goal, amount, ledger.TypeIncome, "Withdrawal: "), nil
	})
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("withdrawing from goal %s: %w", goalID, err)
	}

	return tx, nil
}

func (s *Service) record(goal ledger.SavingsGoal, amount int64, typ ledger.Type, prefix string) ledger.Transaction {
	return ledger.Transaction{
		Amount:   amount,
		Type:     typ,
		Category: ledger.CategorySavings,
		Title:    prefix + goal.Name,
		Date:     s.now(),
	}
}

// Status reports the pool advisories for the current month.
func (s *Service) Status() PoolStatus {
	doc := s.ledger.Snapshot()
	recommended := analytics.SafeToSpend(doc.Transactions, doc.FixedExpenses, doc.ManualSavingsPool, month.Of(s.now()))

	return Pool(doc.SavingsGoals, doc.ManualSavingsPool, recommended)
}

func TotalAllocated(goals []ledger.SavingsGoal) int64 {
	var total int64
	for _, g := range goals {
		total += g.CurrentAmount
	}

	return total
}
