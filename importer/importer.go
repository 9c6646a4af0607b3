// Package importer parses bank CSV exports using a per-account column
// mapping, since every bank names its date, amount, and description
// columns differently.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Mapping names the columns to read from a bank's CSV export.
type Mapping struct {
	DateHeader   string
	AmountHeader string
	DescHeader   string
}

// Row is one parsed transaction row.
type Row struct {
	Date        time.Time
	Amount      decimal.Decimal
	Description string
}

// dateLayouts are tried in order when parsing the date column.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"2006/01/02",
}

// Parse reads a CSV export and returns its transaction rows. The first
// record must be a header containing all three mapped column names;
// surrounding whitespace in header cells is ignored.
func Parse(r io.Reader, m Mapping) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV has no header row")
	}

	cols, err := columnIndexes(records[0], m)
	if err != nil {
		return nil, err
	}

	var rows []Row
	for i, rec := range records[1:] {
		row, err := parseRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type indexes struct {
	date, amount, desc int
}

func columnIndexes(header []string, m Mapping) (indexes, error) {
	ix := indexes{date: -1, amount: -1, desc: -1}
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case m.DateHeader:
			ix.date = i
		case m.AmountHeader:
			ix.amount = i
		case m.DescHeader:
			ix.desc = i
		}
	}
	if ix.date == -1 || ix.amount == -1 || ix.desc == -1 {
		return ix, fmt.Errorf("not all columns [%s %s %s] found in CSV header %v",
			m.DateHeader, m.AmountHeader, m.DescHeader, header)
	}
	return ix, nil
}

func parseRow(rec []string, ix indexes) (Row, error) {
	max := ix.date
	if ix.amount > max {
		max = ix.amount
	}
	if ix.desc > max {
		max = ix.desc
	}
	if len(rec) <= max {
		return Row{}, fmt.Errorf("record has %d fields, need at least %d", len(rec), max+1)
	}

	date, err := parseDate(strings.TrimSpace(rec[ix.date]))
	if err != nil {
		return Row{}, err
	}

	amtText := strings.ReplaceAll(strings.TrimSpace(rec[ix.amount]), ",", "")
	amount, err := decimal.NewFromString(amtText)
	if err != nil {
		return Row{}, fmt.Errorf("parsing amount %q: %w", rec[ix.amount], err)
	}

	return Row{
		Date:        date,
		Amount:      amount,
		Description: strings.TrimSpace(rec[ix.desc]),
	}, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q: unrecognized format", s)
}
