package forecast

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Table is the rendered form of a projection: one column per credit
// line in priority order plus "Total", one row per simulated month with
// formatted currency strings. The simulation keeps full decimal
// precision; rounding happens only here.
type Table struct {
	Columns  []string            `json:"columns"`
	Rows     []map[string]string `json:"rows"`
	Warnings []string            `json:"warnings"`
}

// TotalColumn is the name of the running-total column.
const TotalColumn = "Total"

// MonthKey is the row key holding the month label.
const MonthKey = "month"

// Tabulate runs Project and formats the result for presentation.
func Tabulate(lines []CreditLine, debtBudget decimal.Decimal, forecastMode bool, now YearMonth) Table {
	rows, warnings := Project(lines, debtBudget, forecastMode, now)

	var cols []string
	for _, l := range prepare(lines) {
		cols = append(cols, l.Name)
	}
	cols = append(cols, TotalColumn)

	t := Table{Columns: cols, Warnings: warnings, Rows: []map[string]string{}}
	for _, row := range rows {
		fr := make(map[string]string, len(cols)+1)
		fr[MonthKey] = row.Label()
		for name, bal := range row.Balances {
			fr[name] = formatAmount(bal)
		}
		fr[TotalColumn] = formatAmount(row.Total)
		t.Rows = append(t.Rows, fr)
	}
	return t
}

// Label renders the month as e.g. "Nov 2018".
func (ym YearMonth) Label() string {
	return time.Month(ym.Month).String()[:3] + " " + strconv.Itoa(ym.Year)
}

// formatAmount rounds to whole currency units and groups thousands
// with commas.
func formatAmount(d decimal.Decimal) string {
	return groupThousands(d.Round(0).IntPart())
}

func groupThousands(n int64) string {
	if n < 0 {
		return "-" + groupThousands(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
