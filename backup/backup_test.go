package backup

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRead_RoundTrip(t *testing.T) {
	records := []Record{
		{
			Account:     "Checking",
			Class:       "Discretionary",
			Category:    "Groceries",
			Date:        "2025-01-07",
			Amount:      decimal.RequireFromString("-52.17"),
			Description: "TRADER JOES #123",
		},
		{
			Account:     "Checking",
			Class:       "",
			Category:    "",
			Date:        "2025-01-15",
			Amount:      decimal.RequireFromString("3500"),
			Description: "ACME CONSULTING, INVOICE 1042",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, records))

	got, err := Read(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Checking", got[0].Account)
	assert.Equal(t, "Groceries", got[0].Category)
	assert.True(t, got[0].Amount.Equal(records[0].Amount))
	// Commas in descriptions survive quoting.
	assert.Equal(t, "ACME CONSULTING, INVOICE 1042", got[1].Description)
}

func TestRead_BadHeader(t *testing.T) {
	_, err := Read(strings.NewReader("Nope,Class,Category,Date,Amount,Description\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected backup header")
}

func TestRead_BadAmount(t *testing.T) {
	csv := "Account,Class,Category,Date,Amount,Description\nChecking,,,2025-01-07,NOTANUMBER,desc\n"
	_, err := Read(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))
	assert.Equal(t, "Account,Class,Category,Date,Amount,Description\n", buf.String())
}
