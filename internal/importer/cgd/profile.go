package cgd

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/MrJamesThe3rd/safespend/internal/ledger"
)

// columns maps normalized header names to their index in the row.
type columns map[string]int

// amountReader extracts the absolute amount and its direction from a data row.
type amountReader func(row []string, cols columns) (int64, ledger.Type, bool)

// layout describes the column layout of one CGD export format.
type layout struct {
	name        string
	date        string
	description string
	amount      amountReader
	required    []string
}

// signed reads one column whose sign gives the direction, e.g. "Montante" = "-10,00".
func signed(col string) (amountReader, []string) {
	key := normalize(col)

	read := func(row []string, cols columns) (int64, ledger.Type, bool) {
		units, ok := amountAt(row, cols, key)
		if !ok {
			return 0, "", false
		}

		if units < 0 {
			return -units, ledger.TypeExpense, true
		}

		return units, ledger.TypeIncome, true
	}

	return read, []string{key}
}

// split reads separate debit and credit columns, debit first.
func split(debit, credit string) (amountReader, []string) {
	debitKey, creditKey := normalize(debit), normalize(credit)

	read := func(row []string, cols columns) (int64, ledger.Type, bool) {
		if units, ok := amountAt(row, cols, debitKey); ok {
			return abs(units), ledger.TypeExpense, true
		}

		if units, ok := amountAt(row, cols, creditKey); ok {
			return abs(units), ledger.TypeIncome, true
		}

		return 0, "", false
	}

	return read, []string{debitKey, creditKey}
}

func newLayout(name, date, description string, amount func() (amountReader, []string)) layout {
	read, amountCols := amount()

	l := layout{
		name:        name,
		date:        normalize(date),
		description: normalize(description),
		amount:      read,
	}
	l.required = append([]string{l.date, l.description}, amountCols...)

	return l
}

// layouts is tried in order; the more specific formats come first.
var layouts = []layout{
	newLayout("cartão", "Data", "Descrição", func() (amountReader, []string) { return split("Débito", "Crédito") }),
	newLayout("extrato", "Data mov.", "Descrição", func() (amountReader, []string) { return signed("Movimento") }),
	newLayout("conta", "Data mov.", "Descrição", func() (amountReader, []string) { return signed("Montante") }),
}

func (l layout) matches(cols columns) bool {
	for _, name := range l.required {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

var foldAccents = runes.Remove(runes.In(unicode.Mn))

// normalize folds case and accents so "DESCRICAO " and "Descrição" compare equal.
func normalize(header string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, foldAccents, norm.NFC), header)
	if err != nil {
		folded = header
	}

	return strings.ToLower(strings.TrimSpace(folded))
}

func amountAt(row []string, cols columns, key string) (int64, bool) {
	s := cellValue(row, cols[key])
	if s == "" {
		return 0, false
	}

	units, err := parseEuropeanAmount(s)
	if err != nil || units == 0 {
		return 0, false
	}

	return units, true
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}
