package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/safespend/internal/month"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidType       = errors.New("type must be income or expense")
	ErrInvalidDay        = errors.New("day must be between 1 and 31")
	ErrInvalidSettings   = errors.New("invalid settings")
)

// Type represents the direction of a transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Status is the payment state of a fixed expense for one month.
// Only pending and paid are written by this package; late is derived for display.
type Status string

const (
	StatusPending Status = "pending"
	StatusLate    Status = "late"
	StatusPaid    Status = "paid"
)

// Transaction is a single income or expense record. Amounts are whole units of the
// display currency.
type Transaction struct {
	ID                   uuid.UUID  `json:"id"`
	Amount               int64      `json:"amount"`
	Type                 Type       `json:"type"`
	Category             string     `json:"category"`
	Title                string     `json:"title"`
	Date                 time.Time  `json:"date"`
	Note                 string     `json:"note,omitempty"`
	LinkedFixedExpenseID *uuid.UUID `json:"linkedFixedExpenseId,omitempty"`
	PaymentMonth         *month.Key `json:"paymentMonth,omitempty"`
	LinkedGoalID         *uuid.UUID `json:"linkedGoalId,omitempty"`
}

// FixedExpense is a recurring monthly obligation with an independent status per month.
type FixedExpense struct {
	ID        uuid.UUID            `json:"id"`
	Name      string               `json:"name"`
	Amount    int64                `json:"amount"`
	Day       int                  `json:"day"`
	History   month.Map[Status]    `json:"history"`
	PaidDates month.Map[time.Time] `json:"paidDates"`
}

// StatusFor returns the stored status for m, defaulting to pending.
func (e FixedExpense) StatusFor(m month.Key) Status {
	if s, ok := e.History.Get(m); ok && s != "" {
		return s
	}

	return StatusPending
}

// PaidAt returns when the expense was marked paid for m.
func (e FixedExpense) PaidAt(m month.Key) (time.Time, bool) {
	return e.PaidDates.Get(m)
}

func (e FixedExpense) clone() FixedExpense {
	e.History = e.History.Clone()
	e.PaidDates = e.PaidDates.Clone()

	return e
}

// Category groups transactions. Transactions reference categories by ID without
// referential integrity.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
	Type  Type   `json:"type"`
}

// SavingsGoal is a named target funded from the manual savings pool.
type SavingsGoal struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	TargetAmount  int64      `json:"targetAmount"`
	CurrentAmount int64      `json:"currentAmount"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	Color         string     `json:"color"`
	Icon          string     `json:"icon"`
}

// Progress returns the funded percentage capped at 100.
func (g SavingsGoal) Progress() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}

	return min(100, float64(g.CurrentAmount)/float64(g.TargetAmount)*100)
}

// OverFunded reports whether the goal has reached or passed its target.
func (g SavingsGoal) OverFunded() bool {
	return g.CurrentAmount >= g.TargetAmount
}

type Language string

const (
	LanguageSpanish Language = "es"
	LanguageEnglish Language = "en"
)

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Settings affect formatting and display only.
type Settings struct {
	Currency string   `json:"currency"`
	Language Language `json:"language"`
	UserName string   `json:"userName"`
	Theme    Theme    `json:"theme"`
}

func DefaultSettings() Settings {
	return Settings{
		Currency: "USD",
		Language: LanguageSpanish,
		UserName: "Usuario",
		Theme:    ThemeSystem,
	}
}

func (s Settings) Validate() error {
	if s.Language != LanguageSpanish && s.Language != LanguageEnglish {
		return ErrInvalidSettings
	}

	switch s.Theme {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		return ErrInvalidSettings
	}

	if len(s.Currency) != 3 {
		return ErrInvalidSettings
	}

	return nil
}
