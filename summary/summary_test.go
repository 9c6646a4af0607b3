package summary

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWindowStart(t *testing.T) {
	assert.Equal(t, day(2024, time.February, 1), WindowStart(day(2025, time.March, 15)))
	// Year boundary
	assert.Equal(t, day(2023, time.December, 1), WindowStart(day(2025, time.January, 31)))
}

func TestMonths(t *testing.T) {
	months := Months(day(2025, time.March, 15))
	require.Len(t, months, 14) // thirteen months back through the current month
	assert.Equal(t, day(2024, time.February, 1), months[0])
	assert.Equal(t, day(2025, time.March, 1), months[len(months)-1])
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Jan_25", MonthLabel(day(2025, time.January, 1)))
	assert.Equal(t, "Nov_18", MonthLabel(day(2018, time.November, 1)))
}

func TestPivot(t *testing.T) {
	now := day(2025, time.March, 10)
	months := Months(now)
	cells := []Cell{
		{Group: "bills", Month: day(2025, time.February, 3), Amount: decimal.RequireFromString("-120.40")},
		{Group: "bills", Month: day(2025, time.February, 20), Amount: decimal.RequireFromString("-30.10")},
		{Group: "bills", Month: day(2025, time.March, 1), Amount: decimal.RequireFromString("-99.99")},
		{Group: "income", Month: day(2025, time.February, 1), Amount: decimal.RequireFromString("3500")},
	}

	rows := Pivot(cells, months, "class_")
	require.Len(t, rows, 3) // bills, income, Total

	bills := rows[0]
	assert.Equal(t, "Bills", bills["class_"])
	assert.Equal(t, int64(-151), bills["Feb_25"]) // -150.50 rounded
	assert.Equal(t, int64(-100), bills["Mar_25"])
	assert.Equal(t, int64(0), bills["Jan_25"])

	income := rows[1]
	assert.Equal(t, "Income", income["class_"])
	assert.Equal(t, int64(3500), income["Feb_25"])

	total := rows[2]
	assert.Equal(t, TotalRow, total["class_"])
	assert.Equal(t, int64(3350), total["Feb_25"]) // 3500 - 150.50 rounded
	assert.Equal(t, int64(-100), total["Mar_25"])
}

func TestPivot_Empty(t *testing.T) {
	rows := Pivot(nil, Months(day(2025, time.March, 1)), "category")
	assert.Empty(t, rows)
}
