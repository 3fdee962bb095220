package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/money"
	"github.com/MrJamesThe3rd/safespend/internal/month"
	"github.com/MrJamesThe3rd/safespend/internal/period"
)

type docSource ledger.Document

func (d docSource) Snapshot() ledger.Document { return ledger.Document(d) }

func fixture() (docSource, period.Window) {
	day := func(d int) time.Time { return time.Date(2026, 3, d, 12, 0, 0, 0, time.UTC) }

	rent := ledger.FixedExpense{
		ID:        uuid.New(),
		Name:      "Rent",
		Amount:    800,
		Day:       5,
		History:   month.Map[ledger.Status]{},
		PaidDates: month.Map[time.Time]{},
	}
	rent.History.Set(month.Key{Year: 2026, Month: time.March}, ledger.StatusPaid)
	rent.PaidDates.Set(month.Key{Year: 2026, Month: time.March}, day(4))

	doc := ledger.NewDocument()
	doc.Settings.Language = ledger.LanguageEnglish
	doc.FixedExpenses = []ledger.FixedExpense{rent}
	doc.Transactions = []ledger.Transaction{
		{ID: uuid.New(), Amount: 3000, Type: ledger.TypeIncome, Category: "salary", Title: "Salary", Date: day(1)},
		{ID: uuid.New(), Amount: 45, Type: ledger.TypeExpense, Category: "food", Title: "Groceries", Date: day(10)},
		{ID: uuid.New(), Amount: 99, Type: ledger.TypeExpense, Category: "food", Title: "April", Date: day(1).AddDate(0, 1, 0)},
	}

	w := period.Window{
		Start: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   period.EndOfDay(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)),
	}

	return docSource(doc), w
}

func TestService_Items(t *testing.T) {
	src, w := fixture()

	items := NewService(src).Items(w)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	if items[0].Transaction.Title != "Salary" || items[0].Virtual {
		t.Errorf("unexpected first item: %+v", items[0])
	}

	if items[1].Transaction.Title != "Payment: Rent" || !items[1].Virtual {
		t.Errorf("expected virtual rent payment second, got %+v", items[1])
	}

	if items[2].Transaction.Title != "Groceries" {
		t.Errorf("expected groceries last, got %q", items[2].Transaction.Title)
	}
}

func TestWriteCSV(t *testing.T) {
	src, w := fixture()

	var buf bytes.Buffer
	if err := WriteCSV(&buf, NewService(src).Items(w), money.New(src.Settings)); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}

	if len(records) != 4 {
		t.Fatalf("expected header and 3 rows, got %d", len(records))
	}

	want := []string{"2026-03-04", "Payment: Rent", "utilities", "expense", "-800", "-$800", "true"}
	for i, v := range want {
		if records[2][i] != v {
			t.Errorf("column %s: expected %q, got %q", header[i], v, records[2][i])
		}
	}

	if records[1][4] != "3000" || records[1][5] != "$3,000" {
		t.Errorf("unexpected income row: %v", records[1])
	}
}

func TestService_Export(t *testing.T) {
	src, w := fixture()
	dir := filepath.Join(t.TempDir(), "out")

	items, err := NewService(src).Export(w, dir)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	if _, err := os.Stat(filepath.Join(dir, TransactionsFile)); err != nil {
		t.Errorf("expected csv to exist: %v", err)
	}

	summary, err := os.ReadFile(filepath.Join(dir, SummaryFile))
	if err != nil {
		t.Fatalf("reading summary: %v", err)
	}

	body := string(summary)

	for _, line := range []string{
		"2026-03-01 - 2026-03-31",
		"* 2026-03-10 | Groceries | -$45 | Comida",
		"* 2026-03-04 | Payment: Rent | -$800 | Servicios",
		"+ $3,000",
		"- $845",
		"= $2,155",
	} {
		if !strings.Contains(body, line) {
			t.Errorf("summary missing %q:\n%s", line, body)
		}
	}
}
