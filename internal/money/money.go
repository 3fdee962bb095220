// Package money formats whole-unit amounts for display and parses user input back.
package money

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/MrJamesThe3rd/safespend/internal/ledger"
)

// Formatter renders amounts for one language and currency. The zero value is not usable;
// build one with New.
type Formatter struct {
	tag     language.Tag
	unit    currency.Unit
	printer *message.Printer
}

// New returns a formatter for the display settings. Unknown currency codes fall back to USD.
func New(s ledger.Settings) *Formatter {
	tag := Locale(s.Language)

	unit, err := currency.ParseISO(s.Currency)
	if err != nil {
		unit = currency.USD
	}

	return &Formatter{
		tag:     tag,
		unit:    unit,
		printer: message.NewPrinter(tag),
	}
}

// Locale maps an interface language to the regional conventions used for numbers.
func Locale(l ledger.Language) language.Tag {
	if l == ledger.LanguageEnglish {
		return language.AmericanEnglish
	}

	return language.MustParse("es-CO")
}

func (f *Formatter) Tag() language.Tag { return f.tag }

// FormatNumber renders amount with locale grouping and no fraction digits.
func (f *Formatter) FormatNumber(amount int64) string {
	return f.printer.Sprint(number.Decimal(amount, number.MaxFractionDigits(0)))
}

// FormatMoney renders amount with the currency symbol. English places the symbol
// directly before the number; Spanish separates them with a space.
func (f *Formatter) FormatMoney(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	symbol := f.Symbol()

	sep := " "
	if f.tag == language.AmericanEnglish {
		sep = ""
	}

	return sign + symbol + sep + f.FormatNumber(amount)
}

// Symbol returns the localized currency symbol, e.g. "$" or "€".
func (f *Formatter) Symbol() string {
	return strings.TrimSpace(f.printer.Sprint(currency.Symbol(f.unit)))
}

// ParseFormattedNumber keeps only the digits of s and parses them. Empty or
// unparseable input yields 0.
func ParseFormattedNumber(s string) int64 {
	digits := strings.Map(func(r rune) rune {
		if r <= unicode.MaxASCII && unicode.IsDigit(r) {
			return r
		}

		return -1
	}, s)

	if digits == "" {
		return 0
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}

	return n
}
