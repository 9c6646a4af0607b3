package handlers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simplefi-dev/simplefi/forecast"
)

// GetDebtSummary projects debt payoff across all credit lines
// @Summary      Debt summary
// @Description  Project monthly balances for every revolving credit line. Historical
// @Description  months use recorded statements; with forecast=true the projection
// @Description  runs past today until all balances reach zero, allocating the debt
// @Description  budget to lines in priority order.
// @Tags         debt
// @Produce      json
// @Param        forecast  query     bool  false  "Project future months until payoff"
// @Success      200       {object}  Response{data=forecast.Table}
// @Router       /debt/summary [get]
// @Security     BasicAuth
func GetDebtSummary(w http.ResponseWriter, r *http.Request) {
	lines, err := loadForecastLines()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var budget decimal.Decimal
	err = DB.QueryRow("SELECT value FROM budgets WHERE class = 'debt'").Scan(&budget)
	if err != nil {
		// No debt budget row. The projection still runs, with a warning.
		budget = decimal.Zero
	}

	forecastMode := r.URL.Query().Get("forecast") == "true"
	now := time.Now()
	table := forecast.Tabulate(lines, budget, forecastMode,
		forecast.YearMonth{Year: now.Year(), Month: int(now.Month())})
	writeJSON(w, http.StatusOK, table)
}

// loadForecastLines snapshots every revolving credit line with its
// statements ordered chronologically. Lines with a zero credit limit are
// excluded from projections.
func loadForecastLines() ([]forecast.CreditLine, error) {
	rows, err := DB.Query(`SELECT id, name, priority, interest_rate, min_pay_pct, min_pay_dlr, credit_limit
		FROM credit_lines WHERE CAST(credit_limit AS REAL) > 0 ORDER BY priority, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []forecast.CreditLine{}
	ids := []int{}
	for rows.Next() {
		var id int
		var cl forecast.CreditLine
		if err := rows.Scan(&id, &cl.Name, &cl.Priority, &cl.InterestRate,
			&cl.MinPayPct, &cl.MinPayDlr, &cl.CreditLimit); err != nil {
			return nil, err
		}
		lines = append(lines, cl)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		srows, err := DB.Query(`SELECT year, month, balance FROM statements
			WHERE credit_line_id = ? ORDER BY year, month`, id)
		if err != nil {
			return nil, err
		}
		for srows.Next() {
			var s forecast.Statement
			if err := srows.Scan(&s.Year, &s.Month, &s.Balance); err != nil {
				srows.Close()
				return nil, err
			}
			lines[i].Statements = append(lines[i].Statements, s)
		}
		srows.Close()
	}
	return lines, nil
}
