package money_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/money"
)

func TestParseFormattedNumber(t *testing.T) {
	type testCase struct {
		name  string
		input string
		want  int64
	}

	tests := []testCase{
		{name: "Empty", input: "", want: 0},
		{name: "Garbage", input: "abc", want: 0},
		{name: "Plain", input: "1500", want: 1500},
		{name: "SpanishGrouping", input: "1.234.567", want: 1234567},
		{name: "EnglishGrouping", input: "1,234,567", want: 1234567},
		{name: "WithSymbol", input: "$ 45.000", want: 45000},
		{name: "MinusIgnored", input: "-300", want: 300},
		{name: "MaxInt64", input: "9223372036854775807", want: math.MaxInt64},
		{name: "MaxInt64Grouped", input: "9.223.372.036.854.775.807", want: math.MaxInt64},
		{name: "OneAboveMaxInt64", input: "9223372036854775808", want: 0},
		{name: "Overflow", input: "99999999999999999999999", want: 0},
		{name: "ArabicIndicDigitsIgnored", input: "١٢٣", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, money.ParseFormattedNumber(tt.input))
		})
	}
}

func TestFormatter_RoundTrip(t *testing.T) {
	values := []int64{0, 1, 9, 10, 999, 1000, 1234, 45000, 1234567, 987654321, math.MaxInt32, math.MaxInt64 - 1, math.MaxInt64}

	for _, lang := range []ledger.Language{ledger.LanguageSpanish, ledger.LanguageEnglish} {
		f := money.New(ledger.Settings{Currency: "USD", Language: lang})

		for _, v := range values {
			assert.Equal(t, v, money.ParseFormattedNumber(f.FormatNumber(v)), "lang=%s value=%d", lang, v)
			assert.Equal(t, v, money.ParseFormattedNumber(f.FormatMoney(v)), "lang=%s value=%d", lang, v)
		}
	}
}

func TestFormatter_FormatNumber(t *testing.T) {
	f := money.New(ledger.Settings{Currency: "USD", Language: ledger.LanguageEnglish})

	assert.Equal(t, "1,234,567", f.FormatNumber(1234567))
	assert.Equal(t, "0", f.FormatNumber(0))
}

func TestFormatter_FormatMoney(t *testing.T) {
	type testCase struct {
		name     string
		settings ledger.Settings
		amount   int64
	}

	tests := []testCase{
		{name: "EnglishUSD", settings: ledger.Settings{Currency: "USD", Language: ledger.LanguageEnglish}, amount: 2500},
		{name: "SpanishCOP", settings: ledger.Settings{Currency: "COP", Language: ledger.LanguageSpanish}, amount: 1500000},
		{name: "UnknownCurrency", settings: ledger.Settings{Currency: "???", Language: ledger.LanguageEnglish}, amount: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := money.New(tt.settings)

			got := f.FormatMoney(tt.amount)
			assert.Contains(t, got, f.FormatNumber(tt.amount))
			assert.NotEqual(t, f.FormatNumber(tt.amount), got)

			neg := f.FormatMoney(-tt.amount)
			assert.Equal(t, "-"+got, neg)
		})
	}
}
