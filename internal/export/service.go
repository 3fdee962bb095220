package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/safespend/internal/analytics"
	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/money"
	"github.com/MrJamesThe3rd/safespend/internal/period"
)

const (
	TransactionsFile = "transactions.csv"
	SummaryFile      = "summary.txt"
)

var header = []string{"date", "title", "category", "type", "amount", "formatted", "fixed"}

// Item is a single exported transaction. Virtual marks projected fixed-expense payments.
type Item struct {
	Transaction ledger.Transaction
	Virtual     bool
}

type Source interface {
	Snapshot() ledger.Document
}

// Service handles the export of transactions and summaries.
type Service struct {
	source Source
}

func NewService(source Source) *Service {
	return &Service{source: source}
}

// Items returns the real and virtual transactions inside w, oldest first.
func (s *Service) Items(w period.Window) []Item {
	doc := s.source.Snapshot()

	merged := period.Merge(doc.Transactions, doc.FixedExpenses, w)

	items := make([]Item, 0, len(merged))
	for _, tx := range merged {
		items = append(items, Item{
			Transaction: tx,
			Virtual:     isVirtual(tx),
		})
	}

	return items
}

func isVirtual(tx ledger.Transaction) bool {
	if tx.LinkedFixedExpenseID == nil || tx.PaymentMonth == nil {
		return false
	}

	return tx.ID == period.VirtualID(*tx.LinkedFixedExpenseID, *tx.PaymentMonth)
}

// Export writes the CSV and the text summary for w into outputDir.
func (s *Service) Export(w period.Window, outputDir string) ([]Item, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	items := s.Items(w)
	f := money.New(s.source.Snapshot().Settings)

	csvFile, err := os.Create(filepath.Join(outputDir, TransactionsFile))
	if err != nil {
		return nil, fmt.Errorf("creating csv: %w", err)
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, items, f); err != nil {
		return nil, err
	}

	if err := os.WriteFile(filepath.Join(outputDir, SummaryFile), []byte(s.Summary(items, w)), 0o644); err != nil {
		return nil, fmt.Errorf("writing summary: %w", err)
	}

	return items, nil
}

// WriteCSV writes items with a header row. Amounts are signed whole units.
func WriteCSV(w io.Writer, items []Item, f *money.Formatter) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, item := range items {
		tx := item.Transaction

		amount := tx.Amount
		if tx.Type == ledger.TypeExpense {
			amount = -amount
		}

		record := []string{
			tx.Date.Format(time.DateOnly),
			tx.Title,
			tx.Category,
			string(tx.Type),
			strconv.FormatInt(amount, 10),
			f.FormatMoney(amount),
			strconv.FormatBool(item.Virtual),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}

// Summary renders a plain-text report of items, one line per transaction
// followed by the window totals.
func (s *Service) Summary(items []Item, w period.Window) string {
	doc := s.source.Snapshot()
	f := money.New(doc.Settings)

	names := make(map[string]string, len(doc.Categories))
	for _, c := range doc.Categories {
		names[c.ID] = c.Name
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "%s - %s\n\n", w.Start.Format(time.DateOnly), w.End.Format(time.DateOnly))

	txs := make([]ledger.Transaction, 0, len(items))

	for _, item := range items {
		tx := item.Transaction
		txs = append(txs, tx)

		amount := tx.Amount
		if tx.Type == ledger.TypeExpense {
			amount = -amount
		}

		category := names[tx.Category]
		if category == "" {
			category = tx.Category
		}

		fmt.Fprintf(&sb, "* %s | %s | %s | %s\n", tx.Date.Format(time.DateOnly), tx.Title, f.FormatMoney(amount), category)
	}

	income, expense := analytics.Totals(txs)

	fmt.Fprintf(&sb, "\n+ %s\n- %s\n= %s\n", f.FormatMoney(income), f.FormatMoney(expense), f.FormatMoney(income-expense))

	return sb.String()
}
