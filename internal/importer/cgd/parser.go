package cgd

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/safespend/internal/encoding"
	"github.com/MrJamesThe3rd/safespend/internal/importer"
)

// Parser reads CGD bank CSV exports and produces import drafts. The export
// format (conta, extrato, cartão) is detected from the header row.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]importer.Draft, error) {
	utf8r, charset, err := enc.Detect(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	slog.Debug("reading CGD export", "charset", charset)

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	l, cols, headerIdx := detectLayout(rows)
	if l == nil {
		return nil, fmt.Errorf("no matching CGD format found: expected columns for conta, extrato, or cartão")
	}

	slog.Debug("detected CGD layout", "layout", l.name, "header_row", headerIdx+1)

	return parseRows(l, cols, rows[headerIdx+1:], headerIdx+1)
}

// dateLayouts are the date formats seen across CGD exports.
var dateLayouts = []string{"02-01-2006", "02/01/2006"}

// detectLayout scans rows for a header that matches a known layout and returns it
// with the column index and the header row index.
func detectLayout(rows [][]string) (*layout, columns, int) {
	for rowIdx, row := range rows {
		cols := make(columns)

		for i, cell := range row {
			if name := normalize(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range layouts {
			if layouts[i].matches(cols) {
				return &layouts[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// parseRows extracts drafts from the data rows. headerRowNum is the 0-based index of
// the header in the file, used for error messages.
func parseRows(l *layout, cols columns, rows [][]string, headerRowNum int) ([]importer.Draft, error) {
	dateIdx := cols[l.date]
	descIdx := cols[l.description]

	drafts := []importer.Draft{}

	for i, row := range rows {
		rowNum := headerRowNum + i + 2

		date, ok := parseDate(cellValue(row, dateIdx))
		if !ok {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		amount, txType, ok := l.amount(row, cols)
		if !ok {
			continue
		}

		drafts = append(drafts, importer.Draft{
			Date:           date,
			Amount:         amount,
			Type:           txType,
			Title:          strings.Join(strings.Fields(desc), " "),
			RawDescription: desc,
		})
	}

	return drafts, nil
}

// parseDate reports false for empty or unparseable cells, which covers footer rows.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, format := range dateLayouts {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
