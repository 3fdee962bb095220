package period

import (
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/safespend/internal/ledger"
)

// Labeler renders the display label of a bucket day.
type Labeler func(time.Time) string

var spanishMonths = [...]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"}

// NewLabeler returns a "dd MMM" labeler for the language, e.g. "07 Mar" or "07 mar".
func NewLabeler(lang ledger.Language) Labeler {
	if lang == ledger.LanguageEnglish {
		return func(t time.Time) string { return t.Format("02 Jan") }
	}

	return func(t time.Time) string {
		return fmt.Sprintf("%02d %s", t.Day(), spanishMonths[t.Month()-1])
	}
}
