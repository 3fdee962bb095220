// Package store is the Postgres remote for ledger sync.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/remotesync"
)

var ErrMissingRow = errors.New("upsert mutation without a row")

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Apply writes one mutation. Upserts replace the whole row.
func (s *Store) Apply(ctx context.Context, m remotesync.Mutation) error {
	if m.Op == ledger.OpDelete {
		return s.delete(ctx, m)
	}

	var err error

	switch m.Entity {
	case ledger.EntityTransaction, ledger.EntitySavingsTransaction:
		if m.Transaction == nil {
			return ErrMissingRow
		}

		err = s.upsertTransaction(ctx, string(m.Entity), *m.Transaction)
	case ledger.EntityFixedExpense:
		if m.FixedExpense == nil {
			return ErrMissingRow
		}

		err = s.upsertFixedExpense(ctx, *m.FixedExpense)
	case ledger.EntityCategory:
		if m.Category == nil {
			return ErrMissingRow
		}

		err = s.upsertCategory(ctx, *m.Category)
	case ledger.EntitySavingsGoal:
		if m.SavingsGoal == nil {
			return ErrMissingRow
		}

		err = s.upsertSavingsGoal(ctx, *m.SavingsGoal)
	case ledger.EntitySettings:
		if m.Settings == nil {
			return ErrMissingRow
		}

		err = s.upsertSettings(ctx, *m.Settings)
	default:
		return fmt.Errorf("unknown entity %q", m.Entity)
	}

	if err != nil {
		return fmt.Errorf("upserting %s %s: %w", m.Entity, m.ID, err)
	}

	return nil
}

func (s *Store) upsertTransaction(ctx context.Context, table string, r remotesync.TransactionRow) error {
	// table is one of two fixed entity names, never user input.
	query := `
		INSERT INTO ` + table + ` (id, user_id, amount, type, category, title, date, note, linked_fixed_expense_id, payment_month, linked_goal_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			amount = EXCLUDED.amount,
			type = EXCLUDED.type,
			category = EXCLUDED.category,
			title = EXCLUDED.title,
			date = EXCLUDED.date,
			note = EXCLUDED.note,
			linked_fixed_expense_id = EXCLUDED.linked_fixed_expense_id,
			payment_month = EXCLUDED.payment_month,
			linked_goal_id = EXCLUDED.linked_goal_id
		WHERE ` + table + `.user_id = EXCLUDED.user_id
	`

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.UserID, r.Amount, r.Type, r.Category, r.Title, r.Date, r.Note,
		r.LinkedFixedExpenseID, r.PaymentMonth, r.LinkedGoalID,
	)

	return err
}

func (s *Store) upsertFixedExpense(ctx context.Context, r remotesync.FixedExpenseRow) error {
	history, err := json.Marshal(r.History)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}

	paidDates, err := json.Marshal(r.PaidDates)
	if err != nil {
		return fmt.Errorf("encoding paid dates: %w", err)
	}

	query := `
		INSERT INTO fixed_expenses (id, user_id, name, amount, day, history, paid_dates)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			amount = EXCLUDED.amount,
			day = EXCLUDED.day,
			history = EXCLUDED.history,
			paid_dates = EXCLUDED.paid_dates
		WHERE fixed_expenses.user_id = EXCLUDED.user_id
	`

	_, err = s.db.ExecContext(ctx, query, r.ID, r.UserID, r.Name, r.Amount, r.Day, string(history), string(paidDates))

	return err
}

func (s *Store) upsertCategory(ctx context.Context, r remotesync.CategoryRow) error {
	query := `
		INSERT INTO categories (id, user_id, name, icon, color, type)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, id) DO UPDATE SET
			name = EXCLUDED.name,
			icon = EXCLUDED.icon,
			color = EXCLUDED.color,
			type = EXCLUDED.type
	`

	_, err := s.db.ExecContext(ctx, query, r.ID, r.UserID, r.Name, r.Icon, r.Color, r.Type)

	return err
}

func (s *Store) upsertSavingsGoal(ctx context.Context, r remotesync.SavingsGoalRow) error {
	query := `
		INSERT INTO savings_goals (id, user_id, name, target_amount, current_amount, deadline, color, icon)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			target_amount = EXCLUDED.target_amount,
			current_amount = EXCLUDED.current_amount,
			deadline = EXCLUDED.deadline,
			color = EXCLUDED.color,
			icon = EXCLUDED.icon
		WHERE savings_goals.user_id = EXCLUDED.user_id
	`

	_, err := s.db.ExecContext(ctx, query, r.ID, r.UserID, r.Name, r.TargetAmount, r.CurrentAmount, r.Deadline, r.Color, r.Icon)

	return err
}

func (s *Store) upsertSettings(ctx context.Context, r remotesync.SettingsRow) error {
	query := `
		INSERT INTO user_settings (user_id, currency, language, user_name, theme, manual_savings_pool)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			currency = EXCLUDED.currency,
			language = EXCLUDED.language,
			user_name = EXCLUDED.user_name,
			theme = EXCLUDED.theme,
			manual_savings_pool = EXCLUDED.manual_savings_pool
	`

	_, err := s.db.ExecContext(ctx, query, r.UserID, r.Currency, r.Language, r.UserName, r.Theme, r.ManualSavingsPool)

	return err
}

var deleteQueries = map[ledger.Entity]string{
	ledger.EntityTransaction:        `DELETE FROM transactions WHERE id = $1::uuid AND user_id = $2`,
	ledger.EntitySavingsTransaction: `DELETE FROM savings_transactions WHERE id = $1::uuid AND user_id = $2`,
	ledger.EntityFixedExpense:       `DELETE FROM fixed_expenses WHERE id = $1::uuid AND user_id = $2`,
	ledger.EntityCategory:           `DELETE FROM categories WHERE id = $1 AND user_id = $2`,
	ledger.EntitySavingsGoal:        `DELETE FROM savings_goals WHERE id = $1::uuid AND user_id = $2`,
}

func (s *Store) delete(ctx context.Context, m remotesync.Mutation) error {
	query, ok := deleteQueries[m.Entity]
	if !ok {
		return fmt.Errorf("cannot delete entity %q", m.Entity)
	}

	if _, err := s.db.ExecContext(ctx, query, m.ID, m.UserID); err != nil {
		return fmt.Errorf("deleting %s %s: %w", m.Entity, m.ID, err)
	}

	return nil
}

// Pull loads every row owned by userID.
func (s *Store) Pull(ctx context.Context, userID uuid.UUID) (remotesync.Rows, error) {
	var (
		rows remotesync.Rows
		err  error
	)

	if rows.Transactions, err = s.transactions(ctx, "transactions", userID); err != nil {
		return remotesync.Rows{}, err
	}

	if rows.SavingsTransactions, err = s.transactions(ctx, "savings_transactions", userID); err != nil {
		return remotesync.Rows{}, err
	}

	if rows.FixedExpenses, err = s.fixedExpenses(ctx, userID); err != nil {
		return remotesync.Rows{}, err
	}

	if rows.Categories, err = s.categories(ctx, userID); err != nil {
		return remotesync.Rows{}, err
	}

	if rows.SavingsGoals, err = s.savingsGoals(ctx, userID); err != nil {
		return remotesync.Rows{}, err
	}

	if rows.Settings, err = s.settings(ctx, userID); err != nil {
		return remotesync.Rows{}, err
	}

	return rows, nil
}

func (s *Store) transactions(ctx context.Context, table string, userID uuid.UUID) ([]remotesync.TransactionRow, error) {
	query := `
		SELECT id, user_id, amount, type, category, title, date, note, linked_fixed_expense_id, payment_month, linked_goal_id
		FROM ` + table + `
		WHERE user_id = $1
		ORDER BY date DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", table, err)
	}
	defer rows.Close()

	var out []remotesync.TransactionRow

	for rows.Next() {
		var r remotesync.TransactionRow

		if err := rows.Scan(
			&r.ID, &r.UserID, &r.Amount, &r.Type, &r.Category, &r.Title, &r.Date, &r.Note,
			&r.LinkedFixedExpenseID, &r.PaymentMonth, &r.LinkedGoalID,
		); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", table, err)
		}

		out = append(out, r)
	}

	return out, rows.Err()
}

func (s *Store) fixedExpenses(ctx context.Context, userID uuid.UUID) ([]remotesync.FixedExpenseRow, error) {
	query := `
		SELECT id, user_id, name, amount, day, history, paid_dates
		FROM fixed_expenses
		WHERE user_id = $1
		ORDER BY day
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing fixed expenses: %w", err)
	}
	defer rows.Close()

	var out []remotesync.FixedExpenseRow

	for rows.Next() {
		var (
			r                  remotesync.FixedExpenseRow
			history, paidDates []byte
		)

		if err := rows.Scan(&r.ID, &r.UserID, &r.Name, &r.Amount, &r.Day, &history, &paidDates); err != nil {
			return nil, fmt.Errorf("scanning fixed expense: %w", err)
		}

		if err := json.Unmarshal(history, &r.History); err != nil {
			return nil, fmt.Errorf("decoding history of %s: %w", r.ID, err)
		}

		if err := json.Unmarshal(paidDates, &r.PaidDates); err != nil {
			return nil, fmt.Errorf("decoding paid dates of %s: %w", r.ID, err)
		}

		out = append(out, r)
	}

	return out, rows.Err()
}

func (s *Store) categories(ctx context.Context, userID uuid.UUID) ([]remotesync.CategoryRow, error) {
	query := `SELECT id, user_id, name, icon, color, type FROM categories WHERE user_id = $1 ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var out []remotesync.CategoryRow

	for rows.Next() {
		var r remotesync.CategoryRow
		if err := rows.Scan(&r.ID, &r.UserID, &r.Name, &r.Icon, &r.Color, &r.Type); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		out = append(out, r)
	}

	return out, rows.Err()
}

func (s *Store) savingsGoals(ctx context.Context, userID uuid.UUID) ([]remotesync.SavingsGoalRow, error) {
	query := `
		SELECT id, user_id, name, target_amount, current_amount, deadline, color, icon
		FROM savings_goals
		WHERE user_id = $1
		ORDER BY name
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing savings goals: %w", err)
	}
	defer rows.Close()

	var out []remotesync.SavingsGoalRow

	for rows.Next() {
		var r remotesync.SavingsGoalRow
		if err := rows.Scan(&r.ID, &r.UserID, &r.Name, &r.TargetAmount, &r.CurrentAmount, &r.Deadline, &r.Color, &r.Icon); err != nil {
			return nil, fmt.Errorf("scanning savings goal: %w", err)
		}

		out = append(out, r)
	}

	return out, rows.Err()
}

func (s *Store) settings(ctx context.Context, userID uuid.UUID) (*remotesync.SettingsRow, error) {
	query := `
		SELECT user_id, currency, language, user_name, theme, manual_savings_pool
		FROM user_settings
		WHERE user_id = $1
	`

	var r remotesync.SettingsRow

	err := s.db.QueryRowContext(ctx, query, userID).Scan(&r.UserID, &r.Currency, &r.Language, &r.UserName, &r.Theme, &r.ManualSavingsPool)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("getting settings: %w", err)
	}

	return &r, nil
}
