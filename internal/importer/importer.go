package importer

import (
	"io"
	"time"

	"github.com/MrJamesThe3rd/safespend/internal/ledger"
)

type Bank string

const (
	BankCGD Bank = "cgd"
)

// Draft is a parsed bank movement that has not been added to the ledger yet.
// Amount is in whole units of the display currency.
type Draft struct {
	Date           time.Time   `json:"date"`
	Amount         int64       `json:"amount"`
	Type           ledger.Type `json:"type"`
	Title          string      `json:"title"`
	RawDescription string      `json:"rawDescription"`
	Category       string      `json:"category"`
}

// Params converts the draft into the ledger's create params.
func (d Draft) Params() ledger.TransactionParams {
	category := d.Category
	if category == "" {
		category = ledger.CategoryUnknown
	}

	title := d.Title
	if title == "" {
		title = d.RawDescription
	}

	return ledger.TransactionParams{
		Amount:   d.Amount,
		Type:     d.Type,
		Category: category,
		Title:    title,
		Date:     d.Date,
	}
}

type Importer interface {
	Parse(r io.Reader) ([]Draft, error)
}
