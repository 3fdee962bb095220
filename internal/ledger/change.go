package ledger

import "time"

// Op is the kind of mutation a Change describes.
type Op string

const (
	OpUpsert Op = "upsert"
	OpDelete Op = "delete"
)

// Entity names the collection a Change belongs to.
type Entity string

const (
	EntityTransaction        Entity = "transactions"
	EntityFixedExpense       Entity = "fixed_expenses"
	EntityCategory           Entity = "categories"
	EntitySavingsGoal        Entity = "savings_goals"
	EntitySavingsTransaction Entity = "savings_transactions"
	EntitySettings           Entity = "user_settings"
)

// Change records one committed mutation. Settings and the savings pool share the
// EntitySettings entity with an empty ID.
type Change struct {
	Op     Op
	Entity Entity
	ID     string
	At     time.Time
}

// Listener receives changes after they are committed. Calls happen outside the
// store lock, in commit order.
type Listener interface {
	OnChange(Change)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Change)

func (f ListenerFunc) OnChange(c Change) { f(c) }
