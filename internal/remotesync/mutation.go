package remotesync

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/safespend/internal/ledger"
)

// Mutation is one change as sent to the remote backend. Upserts carry exactly one row
// matching Entity; deletes carry none. Savings transactions travel in Transaction.
type Mutation struct {
	Op           ledger.Op        `json:"op"`
	Entity       ledger.Entity    `json:"entity"`
	ID           string           `json:"id"`
	UserID       uuid.UUID        `json:"user_id"`
	At           time.Time        `json:"at"`
	Transaction  *TransactionRow  `json:"transaction,omitempty"`
	FixedExpense *FixedExpenseRow `json:"fixed_expense,omitempty"`
	Category     *CategoryRow     `json:"category,omitempty"`
	SavingsGoal  *SavingsGoalRow  `json:"savings_goal,omitempty"`
	Settings     *SettingsRow     `json:"settings,omitempty"`
}

// Resolve turns c into a mutation using the current state in doc. It returns false for
// an upsert whose record no longer exists; the delete that removed it follows in the
// queue.
func Resolve(doc ledger.Document, c ledger.Change, userID uuid.UUID) (Mutation, bool) {
	m := Mutation{Op: c.Op, Entity: c.Entity, ID: c.ID, UserID: userID, At: c.At}

	if c.Op == ledger.OpDelete {
		return m, true
	}

	switch c.Entity {
	case ledger.EntityTransaction, ledger.EntitySavingsTransaction:
		txs := doc.Transactions
		if c.Entity == ledger.EntitySavingsTransaction {
			txs = doc.SavingsTransactions
		}

		i := slices.IndexFunc(txs, func(t ledger.Transaction) bool { return t.ID.String() == c.ID })
		if i < 0 {
			return Mutation{}, false
		}

		m.Transaction = new(TransactionToRow(txs[i], userID))
	case ledger.EntityFixedExpense:
		i := slices.IndexFunc(doc.FixedExpenses, func(e ledger.FixedExpense) bool { return e.ID.String() == c.ID })
		if i < 0 {
			return Mutation{}, false
		}

		m.FixedExpense = new(FixedExpenseToRow(doc.FixedExpenses[i], userID))
	case ledger.EntityCategory:
		i := slices.IndexFunc(doc.Categories, func(cat ledger.Category) bool { return cat.ID == c.ID })
		if i < 0 {
			return Mutation{}, false
		}

		m.Category = new(CategoryToRow(doc.Categories[i], userID))
	case ledger.EntitySavingsGoal:
		i := slices.IndexFunc(doc.SavingsGoals, func(g ledger.SavingsGoal) bool { return g.ID.String() == c.ID })
		if i < 0 {
			return Mutation{}, false
		}

		m.SavingsGoal = new(SavingsGoalToRow(doc.SavingsGoals[i], userID))
	case ledger.EntitySettings:
		m.Settings = new(SettingsToRow(doc.Settings, doc.ManualSavingsPool, userID))
	default:
		return Mutation{}, false
	}

	return m, true
}

// Rows is the complete remote state of one user.
type Rows struct {
	Transactions        []TransactionRow
	FixedExpenses       []FixedExpenseRow
	Categories          []CategoryRow
	SavingsGoals        []SavingsGoalRow
	SavingsTransactions []TransactionRow
	Settings            *SettingsRow
}

func RowsFromDocument(doc ledger.Document, userID uuid.UUID) Rows {
	rows := Rows{Settings: new(SettingsToRow(doc.Settings, doc.ManualSavingsPool, userID))}

	for _, tx := range doc.Transactions {
		rows.Transactions = append(rows.Transactions, TransactionToRow(tx, userID))
	}

	for _, e := range doc.FixedExpenses {
		rows.FixedExpenses = append(rows.FixedExpenses, FixedExpenseToRow(e, userID))
	}

	for _, c := range doc.Categories {
		rows.Categories = append(rows.Categories, CategoryToRow(c, userID))
	}

	for _, g := range doc.SavingsGoals {
		rows.SavingsGoals = append(rows.SavingsGoals, SavingsGoalToRow(g, userID))
	}

	for _, tx := range doc.SavingsTransactions {
		rows.SavingsTransactions = append(rows.SavingsTransactions, TransactionToRow(tx, userID))
	}

	return rows
}

// Document rebuilds the ledger document. Without categories the defaults are used, and
// without a settings row the default settings and an empty pool.
func (r Rows) Document() (ledger.Document, error) {
	doc := ledger.NewDocument()

	for _, row := range r.Transactions {
		tx, err := row.Transaction()
		if err != nil {
			return ledger.Document{}, fmt.Errorf("transaction %s: %w", row.ID, err)
		}

		doc.Transactions = append(doc.Transactions, tx)
	}

	for _, row := range r.FixedExpenses {
		doc.FixedExpenses = append(doc.FixedExpenses, row.FixedExpense())
	}

	if len(r.Categories) > 0 {
		doc.Categories = make([]ledger.Category, 0, len(r.Categories))
		for _, row := range r.Categories {
			doc.Categories = append(doc.Categories, row.Category())
		}
	}

	for _, row := range r.SavingsGoals {
		doc.SavingsGoals = append(doc.SavingsGoals, row.SavingsGoal())
	}

	for _, row := range r.SavingsTransactions {
		tx, err := row.Transaction()
		if err != nil {
			return ledger.Document{}, fmt.Errorf("savings transaction %s: %w", row.ID, err)
		}

		doc.SavingsTransactions = append(doc.SavingsTransactions, tx)
	}

	if r.Settings != nil {
		doc.Settings, doc.ManualSavingsPool = r.Settings.Settings()
	}

	return doc, nil
}
