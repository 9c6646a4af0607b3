package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/simplefi-dev/simplefi/models"
)

// ListBudgets lists the budget for every class
// @Summary      List budgets
// @Description  Get the monthly budget amount per transaction class. Classes without a stored budget are omitted.
// @Tags         budgets
// @Produce      json
// @Success      200  {object}  Response{data=[]models.Budget}
// @Router       /budgets [get]
// @Security     BasicAuth
func ListBudgets(w http.ResponseWriter, r *http.Request) {
	rows, err := DB.Query("SELECT class, value FROM budgets ORDER BY class")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.Class, &b.Value); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		budgets = append(budgets, b)
	}
	writeJSON(w, http.StatusOK, budgets)
}

// UpsertBudget sets the budget for a class
// @Summary      Set class budget
// @Description  Create or replace the monthly budget amount for one transaction class. The debt class budget drives the payoff projection.
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Param        class   path      string              true  "Transaction class"
// @Param        budget  body      models.BudgetInput  true  "Budget amount"
// @Success      200     {object}  Response{data=models.Budget}
// @Failure      400     {object}  Response{error=string}
// @Router       /budgets/{class} [put]
// @Security     BasicAuth
func UpsertBudget(w http.ResponseWriter, r *http.Request) {
	class := chi.URLParam(r, "class")
	if !models.ValidClass(class) {
		writeError(w, http.StatusBadRequest, "class must be one of: income, discretionary, bills, debt, savings")
		return
	}

	var input models.BudgetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	_, err := DB.Exec(`INSERT INTO budgets (class, value) VALUES (?, ?)
		ON CONFLICT(class) DO UPDATE SET value = excluded.value`,
		class, input.Value.String())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, models.Budget{Class: class, Value: input.Value})
}
