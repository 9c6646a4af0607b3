// Package forecast implements the debt payoff projection engine: a
// month-by-month simulation that blends recorded statement balances with
// forward interest/minimum-payment forecasting and a priority-ordered
// waterfall allocation of the monthly debt budget.
//
// The engine is pure: it operates on an immutable snapshot of credit
// lines and performs no I/O. Concurrent projections over separate
// snapshots need no coordination.
package forecast

import (
	"sort"

	"github.com/shopspring/decimal"
)

// MaxRows caps a projection at ten years of monthly rows. An account
// whose minimum payment never outruns its interest accrual would
// otherwise loop forever.
const MaxRows = 120

// Warning messages surfaced alongside results. Both are advisory and
// never halt the simulation.
const (
	WarnNoBudget        = "No debt budget specified"
	WarnNoStatementData = "No statement data for debt summary table"
)

// YearMonth identifies one calendar month.
type YearMonth struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// After reports whether ym falls strictly after other. Comparison is on
// (year, month) pairs, never raw integers, so year boundaries order
// correctly.
func (ym YearMonth) After(other YearMonth) bool {
	return ym.Year > other.Year || (ym.Year == other.Year && ym.Month > other.Month)
}

// Before reports whether ym falls strictly before other.
func (ym YearMonth) Before(other YearMonth) bool {
	return other.After(ym)
}

// Next returns the following calendar month.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == 12 {
		return YearMonth{Year: ym.Year + 1, Month: 1}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// Statement is one posted monthly balance for a credit line. Statements
// are authoritative: the engine never overrides a recorded balance.
type Statement struct {
	YearMonth
	Balance decimal.Decimal
}

// CreditLine is a read-only snapshot of one revolving account. Callers
// are expected to pass only lines with a positive credit limit;
// Statements must be sorted chronologically.
type CreditLine struct {
	Name         string
	Priority     int             // lower pays off first
	InterestRate decimal.Decimal // annual %, e.g. 24 means 24%/yr
	MinPayPct    decimal.Decimal // e.g. 3 means 3%
	MinPayDlr    decimal.Decimal // minimum payment floor
	CreditLimit  decimal.Decimal
	Statements   []Statement
}

// MinPay returns the minimum payment due on a balance: the greater of
// the dollar floor and the percentage of balance, but never more than
// the balance itself.
func (cl *CreditLine) MinPay(bal decimal.Decimal) decimal.Decimal {
	pct := cl.MinPayPct.Div(decimal.NewFromInt(100)).Mul(bal)
	pay := decimal.Max(cl.MinPayDlr, pct)
	return decimal.Min(pay, bal)
}

// ForecastNext applies one month of simple interest (annual rate / 12)
// to a balance and deducts the minimum payment, floored at zero.
func (cl *CreditLine) ForecastNext(bal decimal.Decimal) decimal.Decimal {
	monthly := cl.InterestRate.Div(decimal.NewFromInt(1200))
	next := bal.Add(bal.Mul(monthly)).Sub(cl.MinPay(bal))
	return decimal.Max(next, decimal.Zero)
}

// Row is one simulated month of the projection: a balance per credit
// line plus the running total.
type Row struct {
	YearMonth
	Balances map[string]decimal.Decimal
	Total    decimal.Decimal
}

// line augments a CreditLine with the per-run statement index so the
// simulation loop never rescans statement history.
type line struct {
	*CreditLine
	byMonth   map[YearMonth]decimal.Decimal
	earliest  YearMonth
	latest    YearMonth
	latestBal decimal.Decimal
}

// prepare filters out lines without statement history, orders by
// priority (stable, so ties keep input order), and builds the
// month-keyed statement index. Negative statement balances are floored
// at zero.
func prepare(lines []CreditLine) []*line {
	var ls []*line
	for i := range lines {
		cl := &lines[i]
		if len(cl.Statements) == 0 {
			continue
		}
		l := &line{
			CreditLine: cl,
			byMonth:    make(map[YearMonth]decimal.Decimal, len(cl.Statements)),
			earliest:   cl.Statements[0].YearMonth,
			latest:     cl.Statements[0].YearMonth,
		}
		for _, s := range cl.Statements {
			bal := decimal.Max(s.Balance, decimal.Zero)
			l.byMonth[s.YearMonth] = bal
			if s.YearMonth.Before(l.earliest) {
				l.earliest = s.YearMonth
			}
			if !l.latest.After(s.YearMonth) {
				l.latest = s.YearMonth
				l.latestBal = bal
			}
		}
		ls = append(ls, l)
	}
	sort.SliceStable(ls, func(i, j int) bool { return ls[i].Priority < ls[j].Priority })
	return ls
}

// resolve computes the balance of a line for one month. Three mutually
// exclusive cases, in order:
//
//  1. A statement exists for the month: its balance is ground truth.
//  2. The month is on or before the line's latest statement but has no
//     statement of its own: a gap in history, anchored to the latest
//     known balance rather than forecast.
//  3. The month is after the latest statement: forecast from the
//     previous month's balance.
//
// forecasted reports whether case 3 applied; minPay is only meaningful
// then.
func (l *line) resolve(ym YearMonth, prevBal decimal.Decimal) (bal, minPay decimal.Decimal, forecasted bool) {
	if !ym.After(l.latest) {
		if b, ok := l.byMonth[ym]; ok {
			return b, decimal.Decimal{}, false
		}
		return l.latestBal, decimal.Decimal{}, false
	}
	return l.ForecastNext(prevBal), l.MinPay(prevBal), true
}

// Project simulates monthly balances for a set of credit lines, starting
// at the earliest statement month across all lines.
//
// debtBudget is the intended monthly paydown; its absolute value is
// used, and a zero budget is advisory-warned but still simulated (lines
// accrue interest and pay minimums, with no extra allocation). With
// forecastMode false the simulation stops once it passes now's month;
// with it true the simulation runs until the total hits zero or MaxRows.
//
// Warnings are returned alongside the rows and never as errors.
func Project(lines []CreditLine, debtBudget decimal.Decimal, forecastMode bool, now YearMonth) ([]Row, []string) {
	var warnings []string

	budget := debtBudget.Abs()
	if budget.IsZero() {
		warnings = append(warnings, WarnNoBudget)
	}

	ls := prepare(lines)
	if len(ls) == 0 {
		warnings = append(warnings, WarnNoStatementData)
		return nil, warnings
	}

	cur := ls[0].earliest
	for _, l := range ls[1:] {
		if l.earliest.Before(cur) {
			cur = l.earliest
		}
	}

	var rows []Row
	for !done(rows, forecastMode, cur, now) {
		rows = append(rows, nextRow(ls, rows, cur, budget))
		cur = cur.Next()
	}
	return rows, warnings
}

// done is the "stop simulating?" predicate, checked before each row. In
// forecast mode at least one row is always produced.
func done(rows []Row, forecastMode bool, cur, now YearMonth) bool {
	if forecastMode {
		if len(rows) == 0 {
			return false
		}
		return rows[len(rows)-1].Total.IsZero() || len(rows) >= MaxRows
	}
	return cur.After(now)
}

func nextRow(ls []*line, rows []Row, cur YearMonth, budget decimal.Decimal) Row {
	row := Row{YearMonth: cur, Balances: make(map[string]decimal.Decimal, len(ls))}

	minPays := make(map[string]decimal.Decimal, len(ls))
	for _, l := range ls {
		prev := l.latestBal
		if len(rows) > 0 {
			prev = rows[len(rows)-1].Balances[l.Name]
		}
		bal, minPay, forecasted := l.resolve(cur, prev)
		row.Balances[l.Name] = bal
		if forecasted {
			minPays[l.Name] = minPay
		}
	}

	// The budget is a whole-month, whole-portfolio policy: extra paydown
	// only applies when every line is in the forecast regime this month.
	if len(minPays) == len(ls) {
		available := budget
		for _, mp := range minPays {
			available = available.Sub(mp)
		}
		if available.IsPositive() {
			for _, l := range ls {
				bal := row.Balances[l.Name]
				if bal.LessThanOrEqual(available) {
					available = available.Sub(bal)
					row.Balances[l.Name] = decimal.Zero
					continue
				}
				row.Balances[l.Name] = bal.Sub(available)
				break
			}
		}
	}

	total := decimal.Zero
	for _, l := range ls {
		total = total.Add(row.Balances[l.Name])
	}
	row.Total = total
	return row
}
