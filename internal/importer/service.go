package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/MrJamesThe3rd/safespend/internal/ledger"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer

// Rules suggests and learns categories for raw bank descriptions.
type Rules interface {
	Suggest(ctx context.Context, rawDescription string) (string, error)
	Learn(ctx context.Context, rawPattern, categoryID string) error
}

// Ledger is the part of the ledger store the importer writes to.
type Ledger interface {
	Transactions() []ledger.Transaction
	AddTransaction(p ledger.TransactionParams) (ledger.Transaction, error)
}

type Service struct {
	ledger  Ledger
	rules   Rules
	parsers map[Bank]Importer
}

func NewService(l Ledger, rules Rules, parsers map[Bank]Importer) *Service {
	return &Service{
		ledger:  l,
		rules:   rules,
		parsers: parsers,
	}
}

// Banks lists the banks with a registered parser, sorted by name.
func (s *Service) Banks() []Bank {
	return slices.Sorted(maps.Keys(s.parsers))
}

// Preview parses a bank export and fills in suggested categories.
func (s *Service) Preview(ctx context.Context, bank Bank, r io.Reader) ([]Draft, error) {
	parser, ok := s.parsers[bank]
	if !ok {
		return nil, fmt.Errorf("unknown bank: %s", bank)
	}

	drafts, err := parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s export: %w", bank, err)
	}

	for i := range drafts {
		if drafts[i].Category != "" {
			continue
		}

		category, err := s.rules.Suggest(ctx, drafts[i].RawDescription)
		if err != nil {
			return nil, fmt.Errorf("suggesting category: %w", err)
		}

		drafts[i].Category = category
	}

	return drafts, nil
}

// Result reports what Commit did with each draft.
type Result struct {
	Imported   []ledger.Transaction `json:"imported"`
	Duplicates int                  `json:"duplicates"`
}

// Commit adds the drafts to the ledger, skipping any that match an existing
// transaction on day, amount, type and title. Chosen categories are learned for
// the draft's raw description.
func (s *Service) Commit(ctx context.Context, drafts []Draft) (Result, error) {
	seen := make(map[dupKey]bool)
	for _, tx := range s.ledger.Transactions() {
		seen[keyOf(tx.Date, tx.Amount, tx.Type, tx.Title)] = true
	}

	var res Result

	for _, d := range drafts {
		p := d.Params()

		key := keyOf(p.Date, p.Amount, p.Type, p.Title)
		if seen[key] {
			res.Duplicates++
			continue
		}

		tx, err := s.ledger.AddTransaction(p)
		if err != nil {
			return res, fmt.Errorf("adding %q: %w", p.Title, err)
		}

		seen[key] = true
		res.Imported = append(res.Imported, tx)

		if d.Category == "" || d.Category == ledger.CategoryUnknown || d.RawDescription == "" {
			continue
		}

		if err := s.rules.Learn(ctx, d.RawDescription, d.Category); err != nil {
			slog.Warn("failed to learn category rule", "pattern", d.RawDescription, "error", err)
		}
	}

	return res, nil
}

type dupKey struct {
	day    string
	amount int64
	typ    ledger.Type
	title  string
}

func keyOf(date time.Time, amount int64, typ ledger.Type, title string) dupKey {
	return dupKey{
		day:    date.Format(time.DateOnly),
		amount: amount,
		typ:    typ,
		title:  title,
	}
}
