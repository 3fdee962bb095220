package remotesync

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/month"
)

// Remote rows use the backend's snake_case column names. Every row carries the owning
// user id; conversions in both directions keep every ledger field.

type TransactionRow struct {
	ID                   uuid.UUID  `json:"id"`
	UserID               uuid.UUID  `json:"user_id"`
	Amount               int64      `json:"amount"`
	Type                 string     `json:"type"`
	Category             string     `json:"category"`
	Title                string     `json:"title"`
	Date                 time.Time  `json:"date"`
	Note                 *string    `json:"note"`
	LinkedFixedExpenseID *uuid.UUID `json:"linked_fixed_expense_id"`
	PaymentMonth         *string    `json:"payment_month"`
	LinkedGoalID         *uuid.UUID `json:"linked_goal_id"`
}

func TransactionToRow(tx ledger.Transaction, userID uuid.UUID) TransactionRow {
	row := TransactionRow{
		ID:                   tx.ID,
		UserID:               userID,
		Amount:               tx.Amount,
		Type:                 string(tx.Type),
		Category:             tx.Category,
		Title:                tx.Title,
		Date:                 tx.Date,
		LinkedFixedExpenseID: tx.LinkedFixedExpenseID,
		LinkedGoalID:         tx.LinkedGoalID,
	}

	if tx.Note != "" {
		row.Note = new(tx.Note)
	}

	if tx.PaymentMonth != nil {
		row.PaymentMonth = new(tx.PaymentMonth.String())
	}

	return row
}

func (r TransactionRow) Transaction() (ledger.Transaction, error) {
	tx := ledger.Transaction{
		ID:                   r.ID,
		Amount:               r.Amount,
		Type:                 ledger.Type(r.Type),
		Category:             r.Category,
		Title:                r.Title,
		Date:                 r.Date,
		LinkedFixedExpenseID: r.LinkedFixedExpenseID,
		LinkedGoalID:         r.LinkedGoalID,
	}

	if r.Note != nil {
		tx.Note = *r.Note
	}

	if r.PaymentMonth != nil {
		k, err := month.Parse(*r.PaymentMonth)
		if err != nil {
			return ledger.Transaction{}, err
		}

		tx.PaymentMonth = &k
	}

	return tx, nil
}

type FixedExpenseRow struct {
	ID        uuid.UUID                `json:"id"`
	UserID    uuid.UUID                `json:"user_id"`
	Name      string                   `json:"name"`
	Amount    int64                    `json:"amount"`
	Day       int                      `json:"day"`
	History   month.Map[ledger.Status] `json:"history"`
	PaidDates month.Map[time.Time]     `json:"paid_dates"`
}

func FixedExpenseToRow(e ledger.FixedExpense, userID uuid.UUID) FixedExpenseRow {
	return FixedExpenseRow{
		ID:        e.ID,
		UserID:    userID,
		Name:      e.Name,
		Amount:    e.Amount,
		Day:       e.Day,
		History:   e.History.Clone(),
		PaidDates: e.PaidDates.Clone(),
	}
}

func (r FixedExpenseRow) FixedExpense() ledger.FixedExpense {
	return ledger.FixedExpense{
		ID:        r.ID,
		Name:      r.Name,
		Amount:    r.Amount,
		Day:       r.Day,
		History:   r.History.Clone(),
		PaidDates: r.PaidDates.Clone(),
	}
}

type CategoryRow struct {
	ID     string    `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Icon   string    `json:"icon"`
	Color  string    `json:"color"`
	Type   string    `json:"type"`
}

func CategoryToRow(c ledger.Category, userID uuid.UUID) CategoryRow {
	return CategoryRow{ID: c.ID, UserID: userID, Name: c.Name, Icon: c.Icon, Color: c.Color, Type: string(c.Type)}
}

func (r CategoryRow) Category() ledger.Category {
	return ledger.Category{ID: r.ID, Name: r.Name, Icon: r.Icon, Color: r.Color, Type: ledger.Type(r.Type)}
}

type SavingsGoalRow struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	Name          string     `json:"name"`
	TargetAmount  int64      `json:"target_amount"`
	CurrentAmount int64      `json:"current_amount"`
	Deadline      *time.Time `json:"deadline"`
	Color         string     `json:"color"`
	Icon          string     `json:"icon"`
}

func SavingsGoalToRow(g ledger.SavingsGoal, userID uuid.UUID) SavingsGoalRow {
	return SavingsGoalRow{
		ID:            g.ID,
		UserID:        userID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Deadline:      g.Deadline,
		Color:         g.Color,
		Icon:          g.Icon,
	}
}

func (r SavingsGoalRow) SavingsGoal() ledger.SavingsGoal {
	return ledger.SavingsGoal{
		ID:            r.ID,
		Name:          r.Name,
		TargetAmount:  r.TargetAmount,
		CurrentAmount: r.CurrentAmount,
		Deadline:      r.Deadline,
		Color:         r.Color,
		Icon:          r.Icon,
	}
}

// SettingsRow also carries the manual savings pool.
type SettingsRow struct {
	UserID            uuid.UUID `json:"user_id"`
	Currency          string    `json:"currency"`
	Language          string    `json:"language"`
	UserName          string    `json:"user_name"`
	Theme             string    `json:"theme"`
	ManualSavingsPool int64     `json:"manual_savings_pool"`
}

func SettingsToRow(s ledger.Settings, pool int64, userID uuid.UUID) SettingsRow {
	return SettingsRow{
		UserID:            userID,
		Currency:          s.Currency,
		Language:          string(s.Language),
		UserName:          s.UserName,
		Theme:             string(s.Theme),
		ManualSavingsPool: pool,
	}
}

func (r SettingsRow) Settings() (ledger.Settings, int64) {
	return ledger.Settings{
		Currency: r.Currency,
		Language: ledger.Language(r.Language),
		UserName: r.UserName,
		Theme:    ledger.Theme(r.Theme),
	}, r.ManualSavingsPool
}
