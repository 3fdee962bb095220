package ledger

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	CategoryUtilities = "utilities"
	CategorySavings   = "savings"
	CategoryUnknown   = "unknown"
)

// DefaultCategories is the seed set for a new ledger.
func DefaultCategories() []Category {
	return []Category{
		{ID: "food", Name: "Comida", Icon: "Utensils", Color: "bg-orange-100 text-orange-600", Type: TypeExpense},
		{ID: "transport", Name: "Transporte", Icon: "Bus", Color: "bg-blue-100 text-blue-600", Type: TypeExpense},
		{ID: "entertainment", Name: "Ocio", Icon: "Gamepad2", Color: "bg-purple-100 text-purple-600", Type: TypeExpense},
		{ID: "health", Name: "Salud", Icon: "HeartPulse", Color: "bg-red-100 text-red-600", Type: TypeExpense},
		{ID: "shopping", Name: "Compras", Icon: "ShoppingBag", Color: "bg-pink-100 text-pink-600", Type: TypeExpense},
		{ID: CategoryUtilities, Name: "Servicios", Icon: "Zap", Color: "bg-yellow-100 text-yellow-600", Type: TypeExpense},
		{ID: "salary", Name: "Salario", Icon: "Banknote", Color: "bg-green-100 text-green-600", Type: TypeIncome},
		{ID: "freelance", Name: "Freelance", Icon: "Laptop", Color: "bg-indigo-100 text-indigo-600", Type: TypeIncome},
		{ID: "gift", Name: "Regalo", Icon: "Gift", Color: "bg-teal-100 text-teal-600", Type: TypeIncome},
		{ID: "investment", Name: "Inversión", Icon: "TrendingUp", Color: "bg-emerald-100 text-emerald-600", Type: TypeIncome},
	}
}

// NewCategoryID derives a category id from its name and creation time,
// e.g. "Pet Food" at t -> "pet-food-lq2x9k1c".
func NewCategoryID(name string, t time.Time) string {
	var sb strings.Builder

	dash := false

	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)

			dash = false
		case !dash && sb.Len() > 0:
			sb.WriteByte('-')

			dash = true
		}
	}

	slug := strings.TrimSuffix(sb.String(), "-")
	if slug == "" {
		slug = "category"
	}

	return slug + "-" + strconv.FormatInt(t.UnixMilli(), 36)
}
