package analytics

import (
	"cmp"
	"slices"
	"strings"

	"github.com/MrJamesThe3rd/safespend/internal/ledger"
)

// FallbackFill colours a category whose own colour is missing or unparsable.
const FallbackFill = "#888888"

// CategoryTotal is the expense sum of one category with its display metadata.
type CategoryTotal struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Color string  `json:"color"`
	Fill  string  `json:"fill"`
	Total int64   `json:"total"`
	Share float64 `json:"share"`
}

var fills = []struct {
	family string
	hex    string
}{
	{"orange", "#f97316"},
	{"blue", "#3b82f6"},
	{"purple", "#a855f7"},
	{"red", "#ef4444"},
}

// Fill picks the chart colour for a category colour class such as
// "bg-orange-100 text-orange-600".
func Fill(color string) string {
	for _, f := range fills {
		if strings.Contains(color, f.family) {
			return f.hex
		}
	}

	return FallbackFill
}

func colorName(color string) string {
	first, _, _ := strings.Cut(color, " ")
	first = strings.TrimPrefix(strings.TrimPrefix(first, "bg-"), "text-")

	if first == "" {
		return FallbackFill
	}

	return first
}

// CategoryAggregation groups expense transactions by category and sorts the sums in
// descending order. Categories missing from categories are labelled with their id.
func CategoryAggregation(txs []ledger.Transaction, categories []ledger.Category) []CategoryTotal {
	sums := make(map[string]int64)

	var grand int64

	for _, tx := range txs {
		if tx.Type != ledger.TypeExpense {
			continue
		}

		sums[tx.Category] += tx.Amount
		grand += tx.Amount
	}

	out := make([]CategoryTotal, 0, len(sums))

	for id, total := range sums {
		ct := CategoryTotal{ID: id, Name: id, Color: FallbackFill, Fill: FallbackFill, Total: total}

		if i := slices.IndexFunc(categories, func(c ledger.Category) bool { return c.ID == id }); i >= 0 {
			c := categories[i]
			if c.Name != "" {
				ct.Name = c.Name
			}

			ct.Color = colorName(c.Color)
			ct.Fill = Fill(c.Color)
		}

		if grand > 0 {
			ct.Share = float64(total) / float64(grand) * 100
		}

		out = append(out, ct)
	}

	slices.SortFunc(out, func(a, b CategoryTotal) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})

	return out
}
