package ledger

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/safespend/internal/month"
)

// Store is the in-memory, authoritative ledger. Mutations apply immediately and are
// then announced to listeners; persistence and sync are listeners.
type Store struct {
	mu        sync.RWMutex
	doc       Document
	listeners []Listener
	now       func() time.Time
}

// New creates a store holding doc.
func New(doc Document) *Store {
	s := &Store{now: time.Now}
	s.doc = normalize(doc)

	return s
}

// Subscribe registers l for every subsequent change.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, l)
}

func (s *Store) publish(changes ...Change) {
	s.mu.RLock()
	listeners := slices.Clone(s.listeners)
	s.mu.RUnlock()

	for _, c := range changes {
		for _, l := range listeners {
			l.OnChange(c)
		}
	}
}

func (s *Store) change(op Op, entity Entity, id string) Change {
	return Change{Op: op, Entity: entity, ID: id, At: s.now()}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneDocument(s.doc)
}

// Restore replaces the whole state with doc. No changes are published.
func (s *Store) Restore(doc Document) {
	doc = normalize(doc)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc = doc
}

func normalize(doc Document) Document {
	doc = cloneDocument(doc)

	if doc.Transactions == nil {
		doc.Transactions = []Transaction{}
	}

	if doc.FixedExpenses == nil {
		doc.FixedExpenses = []FixedExpense{}
	}

	if doc.Categories == nil {
		doc.Categories = DefaultCategories()
	}

	if doc.SavingsGoals == nil {
		doc.SavingsGoals = []SavingsGoal{}
	}

	if doc.SavingsTransactions == nil {
		doc.SavingsTransactions = []Transaction{}
	}

	doc.Settings = mergeSettings(doc.Settings)

	return doc
}

func cloneDocument(doc Document) Document {
	out := doc
	out.Transactions = slices.Clone(doc.Transactions)
	out.Categories = slices.Clone(doc.Categories)
	out.SavingsGoals = slices.Clone(doc.SavingsGoals)
	out.SavingsTransactions = slices.Clone(doc.SavingsTransactions)

	if doc.FixedExpenses != nil {
		out.FixedExpenses = make([]FixedExpense, len(doc.FixedExpenses))
		for i, e := range doc.FixedExpenses {
			out.FixedExpenses[i] = e.clone()
		}
	}

	return out
}

func byDateDesc(a, b Transaction) int {
	return b.Date.Compare(a.Date)
}

// Transactions

// TransactionParams holds the fields of a new transaction.
type TransactionParams struct {
	Amount               int64
	Type                 Type
	Category             string
	Title                string
	Date                 time.Time
	Note                 string
	LinkedFixedExpenseID *uuid.UUID
	PaymentMonth         *month.Key
	LinkedGoalID         *uuid.UUID
}

// TransactionPatch lists the fields to change; nil fields are left as they are.
type TransactionPatch struct {
	Amount               *int64
	Type                 *Type
	Category             *string
	Title                *string
	Date                 *time.Time
	Note                 *string
	LinkedFixedExpenseID *uuid.UUID
	PaymentMonth         *month.Key
	LinkedGoalID         *uuid.UUID
}

func validateTransaction(tx Transaction) error {
	if tx.Amount <= 0 {
		return ErrInvalidAmount
	}

	if !tx.Type.Valid() {
		return ErrInvalidType
	}

	return nil
}

// Transactions returns all transactions, newest first.
func (s *Store) Transactions() []Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Clone(s.doc.Transactions)
	slices.SortStableFunc(out, byDateDesc)

	return out
}

// Transaction returns the transaction with id or ErrNotFound.
func (s *Store) Transaction(id uuid.UUID) (Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := slices.IndexFunc(s.doc.Transactions, func(t Transaction) bool { return t.ID == id })
	if i < 0 {
		return Transaction{}, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}

	return s.doc.Transactions[i], nil
}

// AddTransaction validates p and stores it under a fresh id.
func (s *Store) AddTransaction(p TransactionParams) (Transaction, error) {
	tx := Transaction{
		ID:                   uuid.New(),
		Amount:               p.Amount,
		Type:                 p.Type,
		Category:             p.Category,
		Title:                strings.TrimSpace(p.Title),
		Date:                 p.Date,
		Note:                 p.Note,
		LinkedFixedExpenseID: p.LinkedFixedExpenseID,
		PaymentMonth:         p.PaymentMonth,
		LinkedGoalID:         p.LinkedGoalID,
	}
	if err := validateTransaction(tx); err != nil {
		return Transaction{}, err
	}

	s.mu.Lock()
	s.doc.Transactions = append(s.doc.Transactions, tx)
	s.mu.Unlock()

	s.publish(s.change(OpUpsert, EntityTransaction, tx.ID.String()))

	return tx, nil
}

// UpdateTransaction applies the non-nil fields of patch and revalidates the result.
func (s *Store) UpdateTransaction(id uuid.UUID, patch TransactionPatch) (Transaction, error) {
	s.mu.Lock()

	i := slices.IndexFunc(s.doc.Transactions, func(t Transaction) bool { return t.ID == id })
	if i < 0 {
		s.mu.Unlock()
		return Transaction{}, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}

	tx := s.doc.Transactions[i]
	patch.apply(&tx)

	if err := validateTransaction(tx); err != nil {
		s.mu.Unlock()
		return Transaction{}, err
	}

	s.doc.Transactions[i] = tx
	s.mu.Unlock()

	s.publish(s.change(OpUpsert, EntityTransaction, id.String()))

	return tx, nil
}

func (p TransactionPatch) apply(tx *Transaction) {
	if p.Amount != nil {
		tx.Amount = *p.Amount
	}

	if p.Type != nil {
		tx.Type = *p.Type
	}

	if p.Category != nil {
		tx.Category = *p.Category
	}

	if p.Title != nil {
		tx.Title = strings.TrimSpace(*p.Title)
	}

	if p.Date != nil {
		tx.Date = *p.Date
	}

	if p.Note != nil {
		tx.Note = *p.Note
	}

	if p.LinkedFixedExpenseID != nil {
		tx.LinkedFixedExpenseID = p.LinkedFixedExpenseID
	}

	if p.PaymentMonth != nil {
		tx.PaymentMonth = p.PaymentMonth
	}

	if p.LinkedGoalID != nil {
		tx.LinkedGoalID = p.LinkedGoalID
	}
}

// DeleteTransaction removes the transaction or returns ErrNotFound.
func (s *Store) DeleteTransaction(id uuid.UUID) error {
	s.mu.Lock()

	n := len(s.doc.Transactions)
	s.doc.Transactions = slices.DeleteFunc(s.doc.Transactions, func(t Transaction) bool { return t.ID == id })
	deleted := len(s.doc.Transactions) < n
	s.mu.Unlock()

	if !deleted {
		return fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}

	s.publish(s.change(OpDelete, EntityTransaction, id.String()))

	return nil
}

// Fixed expenses

type FixedExpenseParams struct {
	Name   string
	Amount int64
	Day    int
}

type FixedExpensePatch struct {
	Name   *string
	Amount *int64
	Day    *int
}

func validateFixedExpense(e FixedExpense) error {
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}

	if e.Day < 1 || e.Day > 31 {
		return ErrInvalidDay
	}

	return nil
}

// FixedExpenses returns all fixed expenses ordered by day of month.
func (s *Store) FixedExpenses() []FixedExpense {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]FixedExpense, len(s.doc.FixedExpenses))
	for i, e := range s.doc.FixedExpenses {
		out[i] = e.clone()
	}

	slices.SortStableFunc(out, func(a, b FixedExpense) int { return cmp.Compare(a.Day, b.Day) })

	return out
}

// FixedExpense returns the fixed expense with id or ErrNotFound.
func (s *Store) FixedExpense(id uuid.UUID) (FixedExpense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.fixedExpenseIndex(id)
	if i < 0 {
		return FixedExpense{}, fmt.Errorf("fixed expense %s: %w", id, ErrNotFound)
	}

	return s.doc.FixedExpenses[i].clone(), nil
}

func (s *Store) fixedExpenseIndex(id uuid.UUID) int {
	return slices.IndexFunc(s.doc.FixedExpenses, func(e FixedExpense) bool { return e.ID == id })
}

// AddFixedExpense validates p and stores it with no months paid.
func (s *Store) AddFixedExpense(p FixedExpenseParams) (FixedExpense, error) {
	e := FixedExpense{
		ID:     uuid.New(),
		Name:   strings.TrimSpace(p.Name),
		Amount: p.Amount,
		Day:    p.Day,
	}
	if err := validateFixedExpense(e); err != nil {
		return FixedExpense{}, err
	}

	s.mu.Lock()
	s.doc.FixedExpenses = append(s.doc.FixedExpenses, e)
	s.mu.Unlock()

	s.publish(s.change(OpUpsert, EntityFixedExpense, e.ID.String()))

	return e, nil
}

// UpdateFixedExpense applies the non-nil fields of patch. Payment history is kept.
func (s *Store) UpdateFixedExpense(id uuid.UUID, patch FixedExpensePatch) (FixedExpense, error) {
	return s.mutateFixedExpense(id, func(e *FixedExpense) error {
		if patch.Name != nil {
			e.Name = strings.TrimSpace(*patch.Name)
		}

		if patch.Amount != nil {
			e.Amount = *patch.Amount
		}

		if patch.Day != nil {
			e.Day = *patch.Day
		}

		return validateFixedExpense(*e)
	})
}

// MarkFixedExpensePaid records the expense as paid for m at the given time.
func (s *Store) MarkFixedExpensePaid(id uuid.UUID, m month.Key, at time.Time) (FixedExpense, error) {
	return s.mutateFixedExpense(id, func(e *FixedExpense) error {
		e.History.Set(m, StatusPaid)
		e.PaidDates.Set(m, at)

		return nil
	})
}

// MarkFixedExpenseUnpaid reverts m to pending and forgets its paid date.
func (s *Store) MarkFixedExpenseUnpaid(id uuid.UUID, m month.Key) (FixedExpense, error) {
	return s.mutateFixedExpense(id, func(e *FixedExpense) error {
		e.History.Set(m, StatusPending)
		e.PaidDates.Delete(m)

		return nil
	})
}

func (s *Store) mutateFixedExpense(id uuid.UUID, fn func(*FixedExpense) error) (FixedExpense, error) {
	s.mu.Lock()

	i := s.fixedExpenseIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return FixedExpense{}, fmt.Errorf("fixed expense %s: %w", id, ErrNotFound)
	}

	e := s.doc.FixedExpenses[i].clone()
	if err := fn(&e); err != nil {
		s.mu.Unlock()
		return FixedExpense{}, err
	}

	s.doc.FixedExpenses[i] = e
	s.mu.Unlock()

	s.publish(s.change(OpUpsert, EntityFixedExpense, id.String()))

	return e.clone(), nil
}

// DeleteFixedExpense removes the fixed expense or returns ErrNotFound.
func (s *Store) DeleteFixedExpense(id uuid.UUID) error {
	s.mu.Lock()

	n := len(s.doc.FixedExpenses)
	s.doc.FixedExpenses = slices.DeleteFunc(s.doc.FixedExpenses, func(e FixedExpense) bool { return e.ID == id })
	deleted := len(s.doc.FixedExpenses) < n
	s.mu.Unlock()

	if !deleted {
		return fmt.Errorf("fixed expense %s: %w", id, ErrNotFound)
	}

	s.publish(s.change(OpDelete, EntityFixedExpense, id.String()))

	return nil
}

// Categories

// Categories returns all categories in insertion order.
func (s *Store) Categories() []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.doc.Categories)
}

// AddCategory stores c. The id is assigned by the caller and must be unique.
func (s *Store) AddCategory(c Category) (Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.ID == "" {
		c.ID = NewCategoryID(c.Name, s.now())
	}

	if !c.Type.Valid() {
		return Category{}, ErrInvalidType
	}

	s.mu.Lock()

	if slices.ContainsFunc(s.doc.Categories, func(x Category) bool { return x.ID == c.ID }) {
		s.mu.Unlock()
		return Category{}, fmt.Errorf("category %q: %w", c.ID, ErrDuplicateCategory)
	}

	s.doc.Categories = append(s.doc.Categories, c)
	s.mu.Unlock()

	s.publish(s.change(OpUpsert, EntityCategory, c.ID))

	return c, nil
}

// DeleteCategory removes the category. Transactions referencing it are kept.
func (s *Store) DeleteCategory(id string) error {
	s.mu.Lock()

	n := len(s.doc.Categories)
	s.doc.Categories = slices.DeleteFunc(s.doc.Categories, func(c Category) bool { return c.ID == id })
	deleted := len(s.doc.Categories) < n
	s.mu.Unlock()

	if !deleted {
		return fmt.Errorf("category %q: %w", id, ErrNotFound)
	}

	s.publish(s.change(OpDelete, EntityCategory, id))

	return nil
}

// Savings goals

type SavingsGoalParams struct {
	Name         string
	TargetAmount int64
	Deadline     *time.Time
	Color        string
	Icon         string
}

// SavingsGoalPatch has no CurrentAmount: balances only move through MoveSavings.
type SavingsGoalPatch struct {
	Name         *string
	TargetAmount *int64
	Deadline     *time.Time
	Color        *string
	Icon         *string
}

// SavingsGoals returns all savings goals.
func (s *Store) SavingsGoals() []SavingsGoal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.doc.SavingsGoals)
}

// SavingsGoal returns the goal with id or ErrNotFound.
func (s *Store) SavingsGoal(id uuid.UUID) (SavingsGoal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.goalIndex(id)
	if i < 0 {
		return SavingsGoal{}, fmt.Errorf("savings goal %s: %w", id, ErrNotFound)
	}

	return s.doc.SavingsGoals[i], nil
}

func (s *Store) goalIndex(id uuid.UUID) int {
	return slices.IndexFunc(s.doc.SavingsGoals, func(g SavingsGoal) bool { return g.ID == id })
}

// AddSavingsGoal validates p and stores a new goal.
func (s *Store) AddSavingsGoal(p SavingsGoalParams) (SavingsGoal, error) {
	if p.TargetAmount <= 0 {
		return SavingsGoal{}, ErrInvalidAmount
	}

	g := SavingsGoal{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(p.Name),
		TargetAmount: p.TargetAmount,
		Deadline:     p.Deadline,
		Color:        p.Color,
		Icon:         p.Icon,
	}

	s.mu.Lock()
	s.doc.SavingsGoals = append(s.doc.SavingsGoals, g)
	s.mu.Unlock()

	s.publish(s.change(OpUpsert, EntitySavingsGoal, g.ID.String()))

	return g, nil
}

// UpdateSavingsGoal applies the non-nil fields of patch.
func (s *Store) UpdateSavingsGoal(id uuid.UUID, patch SavingsGoalPatch) (SavingsGoal, error) {
	s.mu.Lock()

	i := s.goalIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return SavingsGoal{}, fmt.Errorf("savings goal %s: %w", id, ErrNotFound)
	}

	g := s.doc.SavingsGoals[i]

	if patch.Name != nil {
		g.Name = strings.TrimSpace(*patch.Name)
	}

	if patch.TargetAmount != nil {
		if *patch.TargetAmount <= 0 {
			s.mu.Unlock()
			return SavingsGoal{}, ErrInvalidAmount
		}

		g.TargetAmount = *patch.TargetAmount
	}

	if patch.Deadline != nil {
		g.Deadline = patch.Deadline
	}

	if patch.Color != nil {
		g.Color = *patch.Color
	}

	if patch.Icon != nil {
		g.Icon = *patch.Icon
	}

	s.doc.SavingsGoals[i] = g
	s.mu.Unlock()

	s.publish(s.change(OpUpsert, EntitySavingsGoal, id.String()))

	return g, nil
}

// DeleteSavingsGoal removes the goal. Its audit records stay in the history.
func (s *Store) DeleteSavingsGoal(id uuid.UUID) error {
	s.mu.Lock()

	n := len(s.doc.SavingsGoals)
	s.doc.SavingsGoals = slices.DeleteFunc(s.doc.SavingsGoals, func(g SavingsGoal) bool { return g.ID == id })
	deleted := len(s.doc.SavingsGoals) < n
	s.mu.Unlock()

	if !deleted {
		return fmt.Errorf("savings goal %s: %w", id, ErrNotFound)
	}

	s.publish(s.change(OpDelete, EntitySavingsGoal, id.String()))

	return nil
}

// SavingsDecision inspects the target goal, every goal and the pool, and returns the
// signed delta for the goal balance plus the audit record to append. A non-nil error
// aborts the movement.
type SavingsDecision func(goal SavingsGoal, goals []SavingsGoal, pool int64) (int64, Transaction, error)

// MoveSavings is the only way to change a goal's CurrentAmount. The decision runs
// under the write lock; the balance change and the audit record are stored together
// or not at all.
func (s *Store) MoveSavings(goalID uuid.UUID, decide SavingsDecision) (Transaction, error) {
	s.mu.Lock()

	i := s.goalIndex(goalID)
	if i < 0 {
		s.mu.Unlock()
		return Transaction{}, fmt.Errorf("savings goal %s: %w", goalID, ErrNotFound)
	}

	goal := s.doc.SavingsGoals[i]

	delta, record, err := decide(goal, slices.Clone(s.doc.SavingsGoals), s.doc.ManualSavingsPool)
	if err != nil {
		s.mu.Unlock()
		return Transaction{}, err
	}

	if goal.CurrentAmount+delta < 0 {
		s.mu.Unlock()
		return Transaction{}, ErrInvalidAmount
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	record.LinkedGoalID = &goal.ID

	if err := validateTransaction(record); err != nil {
		s.mu.Unlock()
		return Transaction{}, err
	}

	goal.CurrentAmount += delta
	s.doc.SavingsGoals[i] = goal
	s.doc.SavingsTransactions = append(s.doc.SavingsTransactions, record)
	s.mu.Unlock()

	s.publish(
		s.change(OpUpsert, EntitySavingsTransaction, record.ID.String()),
		s.change(OpUpsert, EntitySavingsGoal, goal.ID.String()),
	)

	return record, nil
}

// SavingsTransactions returns the savings audit trail, newest first.
func (s *Store) SavingsTransactions() []Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Clone(s.doc.SavingsTransactions)
	slices.SortStableFunc(out, byDateDesc)

	return out
}

// DeleteSavingsTransaction removes an audit record without touching the goal balance.
func (s *Store) DeleteSavingsTransaction(id uuid.UUID) error {
	s.mu.Lock()

	n := len(s.doc.SavingsTransactions)
	s.doc.SavingsTransactions = slices.DeleteFunc(s.doc.SavingsTransactions, func(t Transaction) bool { return t.ID == id })
	deleted := len(s.doc.SavingsTransactions) < n
	s.mu.Unlock()

	if !deleted {
		return fmt.Errorf("savings transaction %s: %w", id, ErrNotFound)
	}

	s.publish(s.change(OpDelete, EntitySavingsTransaction, id.String()))

	return nil
}

// Pool and settings

// ManualSavingsPool returns the user-entered savings pool.
func (s *Store) ManualSavingsPool() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.doc.ManualSavingsPool
}

// SetManualSavingsPool replaces the savings pool. Negative amounts are rejected.
func (s *Store) SetManualSavingsPool(amount int64) error {
	if amount < 0 {
		return ErrInvalidAmount
	}

	s.mu.Lock()
	s.doc.ManualSavingsPool = amount
	s.mu.Unlock()

	s.publish(s.change(OpUpsert, EntitySettings, ""))

	return nil
}

type SettingsPatch struct {
	Currency *string
	Language *Language
	UserName *string
	Theme    *Theme
}

// Settings returns the current settings.
func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.doc.Settings
}

// UpdateSettings applies the non-nil fields of patch.
func (s *Store) UpdateSettings(patch SettingsPatch) (Settings, error) {
	s.mu.Lock()

	next := s.doc.Settings

	if patch.Currency != nil {
		next.Currency = strings.ToUpper(strings.TrimSpace(*patch.Currency))
	}

	if patch.Language != nil {
		next.Language = *patch.Language
	}

	if patch.UserName != nil {
		next.UserName = strings.TrimSpace(*patch.UserName)
	}

	if patch.Theme != nil {
		next.Theme = *patch.Theme
	}

	if err := next.Validate(); err != nil {
		s.mu.Unlock()
		return Settings{}, err
	}

	s.doc.Settings = next
	s.mu.Unlock()

	s.publish(s.change(OpUpsert, EntitySettings, ""))

	return next, nil
}
