package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/simplefi-dev/simplefi/models"
	"github.com/simplefi-dev/simplefi/summary"
)

// summaryData is a pivoted spend table: months as columns, one row per
// class or category plus a Total row.
type summaryData struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// GetSummary retrieves monthly spend by class
// @Summary      Monthly spend by class
// @Description  Pivot of classified transactions over the last thirteen months, one row per transaction class plus a Total row.
// @Tags         summary
// @Produce      json
// @Success      200  {object}  Response{data=summaryData}
// @Router       /summary [get]
// @Security     BasicAuth
func GetSummary(w http.ResponseWriter, r *http.Request) {
	data, err := pivotSummary("class_", `SELECT c.class, t.date, t.amount
		FROM transactions t
		JOIN patterns p ON t.pattern_id = p.id
		JOIN categories c ON p.category_id = c.id
		WHERE t.date >= ?`)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// GetClassSummary retrieves monthly spend by category within a class
// @Summary      Monthly spend by category
// @Description  Pivot of one class's transactions over the last thirteen months, one row per category plus a Total row.
// @Tags         summary
// @Produce      json
// @Param        class  path      string  true  "Transaction class"
// @Success      200    {object}  Response{data=summaryData}
// @Failure      400    {object}  Response{error=string}
// @Router       /summary/classes/{class} [get]
// @Security     BasicAuth
func GetClassSummary(w http.ResponseWriter, r *http.Request) {
	class := chi.URLParam(r, "class")
	if !models.ValidClass(class) {
		writeError(w, http.StatusBadRequest, "unknown transaction class")
		return
	}

	data, err := pivotSummary("category", `SELECT c.name, t.date, t.amount
		FROM transactions t
		JOIN patterns p ON t.pattern_id = p.id
		JOIN categories c ON p.category_id = c.id
		WHERE c.class = ? AND t.date >= ?`, class)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func pivotSummary(groupKey, query string, args ...any) (summaryData, error) {
	now := time.Now()
	start := summary.WindowStart(now).Format("2006-01-02")
	args = append(args, start)

	rows, err := DB.Query(query, args...)
	if err != nil {
		return summaryData{}, err
	}
	defer rows.Close()

	var cells []summary.Cell
	for rows.Next() {
		var group, date string
		var amount decimal.Decimal
		if err := rows.Scan(&group, &date, &amount); err != nil {
			return summaryData{}, err
		}
		month, err := time.Parse("2006-01-02", date)
		if err != nil {
			continue
		}
		cells = append(cells, summary.Cell{Group: group, Month: month, Amount: amount})
	}
	if err := rows.Err(); err != nil {
		return summaryData{}, err
	}

	months := summary.Months(now)
	columns := []string{groupKey}
	for _, m := range months {
		columns = append(columns, summary.MonthLabel(m))
	}
	return summaryData{
		Columns: columns,
		Rows:    summary.Pivot(cells, months, groupKey),
	}, nil
}
