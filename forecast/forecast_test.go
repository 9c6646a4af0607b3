package forecast

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ym(year, month int) YearMonth {
	return YearMonth{Year: year, Month: month}
}

// payoffLine builds a credit line with a single statement.
func payoffLine(name string, priority int, rate, pct, flr, balance string, stmt YearMonth) CreditLine {
	return CreditLine{
		Name:         name,
		Priority:     priority,
		InterestRate: d(rate),
		MinPayPct:    d(pct),
		MinPayDlr:    d(flr),
		CreditLimit:  d("10000"),
		Statements:   []Statement{{YearMonth: stmt, Balance: d(balance)}},
	}
}

func TestYearMonth_AfterAcrossYearBoundary(t *testing.T) {
	assert.True(t, ym(2019, 1).After(ym(2018, 12)))
	assert.False(t, ym(2018, 12).After(ym(2019, 1)))
	assert.False(t, ym(2018, 12).After(ym(2018, 12)))
	assert.True(t, ym(2018, 12).Before(ym(2019, 1)))
}

func TestYearMonth_Next(t *testing.T) {
	assert.Equal(t, ym(2018, 12), ym(2018, 11).Next())
	assert.Equal(t, ym(2019, 1), ym(2018, 12).Next())
}

func TestYearMonth_Label(t *testing.T) {
	assert.Equal(t, "Nov 2018", ym(2018, 11).Label())
	assert.Equal(t, "Jan 2025", ym(2025, 1).Label())
}

func TestCreditLine_MinPay(t *testing.T) {
	cl := payoffLine("Checking", 1, "12", "3", "30", "400", ym(2025, 1))

	// Floor wins over the percentage (3% of 400 = 12).
	assert.True(t, cl.MinPay(d("400")).Equal(d("30")), "got %s", cl.MinPay(d("400")))

	// Percentage wins on a large balance (3% of 2000 = 60).
	assert.True(t, cl.MinPay(d("2000")).Equal(d("60")))

	// Never more than the balance itself.
	assert.True(t, cl.MinPay(d("10")).Equal(d("10")))
	assert.True(t, cl.MinPay(decimal.Zero).Equal(decimal.Zero))
}

func TestCreditLine_ForecastNext(t *testing.T) {
	// 400 * (1 + 0.12/12) - 30 = 374
	cl := payoffLine("Checking", 1, "12", "3", "30", "400", ym(2025, 1))
	assert.True(t, cl.ForecastNext(d("400")).Equal(d("374")), "got %s", cl.ForecastNext(d("400")))

	// Payment exceeding accrued balance floors at zero.
	assert.True(t, cl.ForecastNext(d("10")).Equal(d("0.1")))
	clZero := payoffLine("X", 1, "0", "0", "50", "20", ym(2025, 1))
	assert.True(t, clZero.ForecastNext(d("20")).IsZero())
}

func TestProject_ExampleScenario(t *testing.T) {
	// Statement of 400 in Jan; Feb is forecast: 400*1.01 - 30 = 374.
	cl := payoffLine("Checking", 1, "12", "3", "30", "400", ym(2025, 1))
	rows, warnings := Project([]CreditLine{cl}, decimal.Zero, true, ym(2025, 1))

	require.NotEmpty(t, rows)
	assert.Contains(t, warnings, WarnNoBudget)
	assert.True(t, rows[0].Balances["Checking"].Equal(d("400")))
	require.True(t, len(rows) >= 2)
	assert.True(t, rows[1].Balances["Checking"].Equal(d("374")), "got %s", rows[1].Balances["Checking"])
}

func TestProject_HistoricalFidelity(t *testing.T) {
	cl := CreditLine{
		Name:         "Visa",
		Priority:     1,
		InterestRate: d("24"),
		MinPayPct:    d("3"),
		MinPayDlr:    d("25"),
		CreditLimit:  d("5000"),
		Statements: []Statement{
			{YearMonth: ym(2025, 1), Balance: d("500")},
			{YearMonth: ym(2025, 3), Balance: d("450")},
		},
	}
	rows, warnings := Project([]CreditLine{cl}, d("200"), false, ym(2025, 4))
	assert.Empty(t, warnings)
	require.Len(t, rows, 4) // Jan through Apr inclusive

	// Recorded statements are ground truth.
	assert.True(t, rows[0].Balances["Visa"].Equal(d("500")))
	assert.True(t, rows[2].Balances["Visa"].Equal(d("450")))

	// Feb has no statement but is before the latest: anchored to the
	// latest known balance, not forecast.
	assert.True(t, rows[1].Balances["Visa"].Equal(d("450")))

	// Apr is past the latest statement: forecast regime.
	assert.True(t, rows[3].Balances["Visa"].LessThan(d("450")))
}

func TestProject_HistoricalModeStopsAtNow(t *testing.T) {
	cl := payoffLine("Visa", 1, "0", "0", "0", "100", ym(2025, 1))
	rows, _ := Project([]CreditLine{cl}, d("50"), false, ym(2025, 2))
	require.Len(t, rows, 2)
	assert.Equal(t, ym(2025, 1), rows[0].YearMonth)
	assert.Equal(t, ym(2025, 2), rows[1].YearMonth)
}

func TestProject_WaterfallOrdering(t *testing.T) {
	a := payoffLine("A", 1, "0", "0", "0", "100", ym(2025, 1))
	b := payoffLine("B", 2, "0", "0", "0", "50", ym(2025, 1))

	rows, warnings := Project([]CreditLine{b, a}, d("120"), true, ym(2025, 1))
	assert.Empty(t, warnings)
	require.Len(t, rows, 3)

	// Jan: statements only.
	assert.True(t, rows[0].Total.Equal(d("150")))

	// Feb: waterfall zeroes the priority-1 line and spills the remaining
	// 20 into the priority-2 line.
	assert.True(t, rows[1].Balances["A"].IsZero())
	assert.True(t, rows[1].Balances["B"].Equal(d("30")), "got %s", rows[1].Balances["B"])
	assert.True(t, rows[1].Total.Equal(d("30")))

	// Mar: everything paid off; simulation stops on the zero total.
	assert.True(t, rows[2].Total.IsZero())
}

func TestProject_BudgetShortfall(t *testing.T) {
	// Minimum payments (20 + 20) already exceed the 30 budget, so no
	// extra paydown happens: balances equal post-minimum forecasts.
	a := payoffLine("A", 1, "0", "0", "20", "100", ym(2025, 1))
	b := payoffLine("B", 2, "0", "0", "20", "50", ym(2025, 1))

	rows, _ := Project([]CreditLine{a, b}, d("30"), true, ym(2025, 1))
	require.True(t, len(rows) >= 2)
	assert.True(t, rows[1].Balances["A"].Equal(d("80")))
	assert.True(t, rows[1].Balances["B"].Equal(d("30")))
}

func TestProject_MixedMonthNoAllocation(t *testing.T) {
	// In Feb line A is forecasting but line B still has a statement, so
	// the whole-portfolio budget is not spent.
	a := payoffLine("A", 1, "0", "0", "10", "100", ym(2025, 1))
	b := CreditLine{
		Name:        "B",
		Priority:    2,
		CreditLimit: d("5000"),
		Statements: []Statement{
			{YearMonth: ym(2025, 1), Balance: d("50")},
			{YearMonth: ym(2025, 2), Balance: d("45")},
		},
	}

	rows, _ := Project([]CreditLine{a, b}, d("1000"), false, ym(2025, 2))
	require.Len(t, rows, 2)
	assert.True(t, rows[1].Balances["A"].Equal(d("90")), "got %s", rows[1].Balances["A"])
	assert.True(t, rows[1].Balances["B"].Equal(d("45")))
}

func TestProject_PriorityTiesKeepInputOrder(t *testing.T) {
	a := payoffLine("First", 3, "0", "0", "0", "40", ym(2025, 1))
	b := payoffLine("Second", 3, "0", "0", "0", "40", ym(2025, 1))

	rows, _ := Project([]CreditLine{a, b}, d("40"), true, ym(2025, 1))
	require.True(t, len(rows) >= 2)
	assert.True(t, rows[1].Balances["First"].IsZero())
	assert.True(t, rows[1].Balances["Second"].Equal(d("40")))
}

func TestProject_TerminationCap(t *testing.T) {
	// 10%/month interest against a $50 payment never converges; the row
	// cap bounds the runtime.
	cl := payoffLine("Runaway", 1, "120", "0", "50", "1000", ym(2025, 1))
	rows, _ := Project([]CreditLine{cl}, decimal.Zero, true, ym(2025, 1))
	assert.Len(t, rows, MaxRows)
	assert.False(t, rows[len(rows)-1].Total.IsZero())
}

func TestProject_BalancesNeverNegative(t *testing.T) {
	a := payoffLine("A", 1, "18", "3", "25", "300", ym(2025, 1))
	b := payoffLine("B", 2, "24", "2", "35", "120", ym(2025, 1))

	rows, _ := Project([]CreditLine{a, b}, d("500"), true, ym(2025, 1))
	require.NotEmpty(t, rows)
	for _, row := range rows {
		for name, bal := range row.Balances {
			assert.False(t, bal.IsNegative(), "%s went negative in %s", name, row.Label())
		}
		assert.False(t, row.Total.IsNegative())
	}
}

func TestProject_NoStatementData(t *testing.T) {
	cl := CreditLine{Name: "Empty", Priority: 1, CreditLimit: d("1000")}

	rows, warnings := Project([]CreditLine{cl}, d("100"), true, ym(2025, 1))
	assert.Empty(t, rows)
	assert.Equal(t, []string{WarnNoStatementData}, warnings)

	// With no budget either, both warnings surface, budget first.
	rows, warnings = Project([]CreditLine{cl}, decimal.Zero, true, ym(2025, 1))
	assert.Empty(t, rows)
	assert.Equal(t, []string{WarnNoBudget, WarnNoStatementData}, warnings)
}

func TestProject_ZeroBudgetStillSimulates(t *testing.T) {
	cl := payoffLine("Visa", 1, "12", "3", "30", "400", ym(2025, 1))
	rows, warnings := Project([]CreditLine{cl}, decimal.Zero, true, ym(2025, 1))
	assert.NotEmpty(t, rows)
	assert.Contains(t, warnings, WarnNoBudget)
}

func TestProject_BudgetSignIgnored(t *testing.T) {
	a := payoffLine("A", 1, "0", "0", "0", "100", ym(2025, 1))
	pos, _ := Project([]CreditLine{a}, d("60"), true, ym(2025, 1))
	neg, _ := Project([]CreditLine{a}, d("-60"), true, ym(2025, 1))
	require.Equal(t, len(pos), len(neg))
	for i := range pos {
		assert.True(t, pos[i].Total.Equal(neg[i].Total))
	}
}

func TestProject_AtLeastOneRowInForecastMode(t *testing.T) {
	cl := payoffLine("Paid", 1, "0", "0", "0", "0", ym(2025, 1))
	rows, _ := Project([]CreditLine{cl}, d("100"), true, ym(2025, 1))
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Total.IsZero())
}

func TestProject_NegativeStatementFlooredToZero(t *testing.T) {
	cl := payoffLine("Overpaid", 1, "0", "0", "0", "-25", ym(2025, 1))
	rows, _ := Project([]CreditLine{cl}, d("100"), true, ym(2025, 1))
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Balances["Overpaid"].IsZero())
}

func TestProject_Idempotent(t *testing.T) {
	lines := []CreditLine{
		payoffLine("A", 1, "18", "3", "25", "750", ym(2024, 11)),
		payoffLine("B", 2, "24", "2", "35", "1200", ym(2024, 12)),
	}
	first := Tabulate(lines, d("400"), true, ym(2025, 2))
	second := Tabulate(lines, d("400"), true, ym(2025, 2))
	assert.Equal(t, first, second)
}
