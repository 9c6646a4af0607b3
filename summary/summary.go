// Package summary pivots classified transactions into a
// months-as-columns spend table covering the last thirteen months.
package summary

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Cell is one grouped monthly sum, as produced by a GROUP BY over
// transactions.
type Cell struct {
	Group  string
	Month  time.Time // any day within the month
	Amount decimal.Decimal
}

// TotalRow is the label of the appended column-total row.
const TotalRow = "Total"

// WindowStart returns the first day of the month thirteen months before
// now's month.
func WindowStart(now time.Time) time.Time {
	return firstOfMonth(now).AddDate(0, -13, 0)
}

// Months returns the first day of every month from the window start
// through now's month, in order.
func Months(now time.Time) []time.Time {
	var months []time.Time
	last := firstOfMonth(now)
	for cur := WindowStart(now); !cur.After(last); cur = cur.AddDate(0, 1, 0) {
		months = append(months, cur)
	}
	return months
}

// MonthLabel renders a month column header, e.g. "Jan_25".
func MonthLabel(t time.Time) string {
	return t.Format("Jan_06")
}

// Pivot turns grouped monthly sums into table rows: one row per group
// (title-cased, sorted) with integer-rounded amounts under each month
// label, plus a final Total row summing every column. groupKey names
// the row-label field.
func Pivot(cells []Cell, months []time.Time, groupKey string) []map[string]any {
	sums := make(map[string]map[string]decimal.Decimal)
	for _, c := range cells {
		label := MonthLabel(c.Month)
		g := titleCase(c.Group)
		if sums[g] == nil {
			sums[g] = make(map[string]decimal.Decimal)
		}
		sums[g][label] = sums[g][label].Add(c.Amount)
	}

	groups := make([]string, 0, len(sums))
	for g := range sums {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	rows := make([]map[string]any, 0, len(groups)+1)
	totals := make(map[string]decimal.Decimal, len(months))
	for _, g := range groups {
		row := map[string]any{groupKey: g}
		for _, m := range months {
			label := MonthLabel(m)
			amt := sums[g][label]
			row[label] = amt.Round(0).IntPart()
			totals[label] = totals[label].Add(amt)
		}
		rows = append(rows, row)
	}

	if len(rows) > 0 {
		total := map[string]any{groupKey: TotalRow}
		for _, m := range months {
			label := MonthLabel(m)
			total[label] = totals[label].Round(0).IntPart()
		}
		rows = append(rows, total)
	}
	return rows
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
