// Package backup encodes and decodes the transaction backup CSV. The
// class and category columns are informational; on restore the user's
// patterns reclassify everything, just like a fresh upload.
package backup

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// Fields is the backup CSV header.
var Fields = []string{"Account", "Class", "Category", "Date", "Amount", "Description"}

// Record is one backed-up transaction.
type Record struct {
	Account     string
	Class       string
	Category    string
	Date        string // YYYY-MM-DD
	Amount      decimal.Decimal
	Description string
}

// Write encodes records as a backup CSV.
func Write(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Fields); err != nil {
		return fmt.Errorf("writing backup header: %w", err)
	}
	for _, rec := range records {
		row := []string{rec.Account, rec.Class, rec.Category, rec.Date, rec.Amount.String(), rec.Description}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing backup row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read decodes a backup CSV.
func Read(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Fields)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading backup CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("backup CSV has no header row")
	}
	for i, name := range Fields {
		if records[0][i] != name {
			return nil, fmt.Errorf("unexpected backup header %v, want %v", records[0], Fields)
		}
	}

	var out []Record
	for i, rec := range records[1:] {
		amount, err := decimal.NewFromString(rec[4])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing amount %q: %w", i+2, rec[4], err)
		}
		out = append(out, Record{
			Account:     rec[0],
			Class:       rec[1],
			Category:    rec[2],
			Date:        rec[3],
			Amount:      amount,
			Description: rec[5],
		})
	}
	return out, nil
}
