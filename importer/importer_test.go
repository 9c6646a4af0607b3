package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var chaseMapping = Mapping{
	DateHeader:   "Posting Date",
	AmountHeader: "Amount",
	DescHeader:   "Description",
}

const chaseCSV = `Details,Posting Date,Description,Amount,Type,Balance
DEBIT,01/03/2025,GITHUB *PRO SUBSCRIPTION,-4.00,ACH_DEBIT,996.00
DEBIT,01/07/2025,TRADER JOES #123,-52.17,DEBIT_CARD,943.83
CREDIT,01/15/2025,ACME CONSULTING INVOICE 1042,"3,500.00",ACH_CREDIT,4443.83
`

func TestParse(t *testing.T) {
	rows, err := Parse(strings.NewReader(chaseCSV), chaseMapping)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "GITHUB *PRO SUBSCRIPTION", rows[0].Description)
	assert.Equal(t, "-4.00", rows[0].Amount.StringFixed(2))
	assert.Equal(t, 2025, rows[0].Date.Year())
	assert.Equal(t, 1, int(rows[0].Date.Month()))
	assert.Equal(t, 3, rows[0].Date.Day())

	// Thousands separators in the amount column are tolerated.
	assert.Equal(t, "3500.00", rows[2].Amount.StringFixed(2))
	assert.True(t, rows[2].Amount.IsPositive())
}

func TestParse_ISODates(t *testing.T) {
	csv := "Date,Amount,Memo\n2024-12-31,-10.50,YEAR END FEE\n"
	rows, err := Parse(strings.NewReader(csv), Mapping{
		DateHeader: "Date", AmountHeader: "Amount", DescHeader: "Memo",
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2024, rows[0].Date.Year())
	assert.Equal(t, 12, int(rows[0].Date.Month()))
	assert.Equal(t, 31, rows[0].Date.Day())
}

func TestParse_HeaderWhitespace(t *testing.T) {
	csv := " Date , Amount , Memo \n2024-01-02,5.00,TEST\n"
	rows, err := Parse(strings.NewReader(csv), Mapping{
		DateHeader: "Date", AmountHeader: "Amount", DescHeader: "Memo",
	})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestParse_MissingColumn(t *testing.T) {
	csv := "Date,Amount\n2024-01-02,5.00\n"
	_, err := Parse(strings.NewReader(csv), Mapping{
		DateHeader: "Date", AmountHeader: "Amount", DescHeader: "Memo",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not all columns")
}

func TestParse_BadDate(t *testing.T) {
	csv := "Date,Amount,Memo\nNOTADATE,5.00,TEST\n"
	_, err := Parse(strings.NewReader(csv), Mapping{
		DateHeader: "Date", AmountHeader: "Amount", DescHeader: "Memo",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "parsing date")
}

func TestParse_BadAmount(t *testing.T) {
	csv := "Date,Amount,Memo\n2024-01-02,NOTANUMBER,TEST\n"
	_, err := Parse(strings.NewReader(csv), Mapping{
		DateHeader: "Date", AmountHeader: "Amount", DescHeader: "Memo",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing amount")
}

func TestParse_HeaderOnly(t *testing.T) {
	rows, err := Parse(strings.NewReader("Date,Amount,Memo\n"), Mapping{
		DateHeader: "Date", AmountHeader: "Amount", DescHeader: "Memo",
	})
	require.NoError(t, err)
	assert.Nil(t, rows)
}
