package forecast

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "0", groupThousands(0))
	assert.Equal(t, "374", groupThousands(374))
	assert.Equal(t, "1,235", groupThousands(1235))
	assert.Equal(t, "12,345,678", groupThousands(12345678))
	assert.Equal(t, "-1,234,567", groupThousands(-1234567))
}

func TestFormatAmount_RoundsAtBoundaryOnly(t *testing.T) {
	assert.Equal(t, "1,235", formatAmount(d("1234.56")))
	assert.Equal(t, "374", formatAmount(d("374.4")))
	assert.Equal(t, "0", formatAmount(d("0.4")))
}

func TestTabulate(t *testing.T) {
	a := payoffLine("Visa", 2, "0", "0", "0", "1250.75", ym(2025, 1))
	b := payoffLine("Amex", 1, "0", "0", "0", "500", ym(2025, 1))

	table := Tabulate([]CreditLine{a, b}, d("2000"), true, ym(2025, 1))

	// Columns in priority order, Total last.
	assert.Equal(t, []string{"Amex", "Visa", TotalColumn}, table.Columns)
	assert.Empty(t, table.Warnings)

	require.NotEmpty(t, table.Rows)
	first := table.Rows[0]
	assert.Equal(t, "Jan 2025", first[MonthKey])
	assert.Equal(t, "500", first["Amex"])
	assert.Equal(t, "1,251", first["Visa"])
	assert.Equal(t, "1,751", first[TotalColumn])

	// The budget clears everything the following month.
	last := table.Rows[len(table.Rows)-1]
	assert.Equal(t, "0", last[TotalColumn])
}

func TestTabulate_NoData(t *testing.T) {
	table := Tabulate(nil, decimal.Zero, true, ym(2025, 1))
	assert.Equal(t, []string{TotalColumn}, table.Columns)
	assert.Empty(t, table.Rows)
	assert.Equal(t, []string{WarnNoBudget, WarnNoStatementData}, table.Warnings)
}
