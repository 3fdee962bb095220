package ledger

// Document is the serialized form of a ledger, as read and written by the
// persistence collaborators.
type Document struct {
	Transactions        []Transaction  `json:"transactions"`
	FixedExpenses       []FixedExpense `json:"fixedExpenses"`
	Categories          []Category     `json:"categories"`
	SavingsGoals        []SavingsGoal  `json:"savingsGoals"`
	SavingsTransactions []Transaction  `json:"savingsTransactions"`
	ManualSavingsPool   int64          `json:"manualSavingsPool"`
	Settings            Settings       `json:"settings"`
}

// NewDocument returns an empty ledger with the default categories and settings.
// Decoding JSON into it keeps the defaults for absent keys.
func NewDocument() Document {
	return Document{
		Transactions:        []Transaction{},
		FixedExpenses:       []FixedExpense{},
		Categories:          DefaultCategories(),
		SavingsGoals:        []SavingsGoal{},
		SavingsTransactions: []Transaction{},
		Settings:            DefaultSettings(),
	}
}

// mergeSettings overlays the non-empty fields of s on the defaults.
func mergeSettings(s Settings) Settings {
	out := DefaultSettings()

	if s.Currency != "" {
		out.Currency = s.Currency
	}

	if s.Language != "" {
		out.Language = s.Language
	}

	if s.UserName != "" {
		out.UserName = s.UserName
	}

	if s.Theme != "" {
		out.Theme = s.Theme
	}

	return out
}
