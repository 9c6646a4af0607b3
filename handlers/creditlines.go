package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/simplefi-dev/simplefi/models"
)

const creditLineSelectQuery = `SELECT cl.id, cl.name, cl.holder, cl.statement_day, cl.date_opened,
	cl.annual_fee, cl.interest_rate, cl.credit_limit, cl.min_pay_pct, cl.min_pay_dlr, cl.priority,
	cl.created_at, cl.updated_at,
	COALESCE((SELECT s.balance FROM statements s WHERE s.credit_line_id = cl.id
		ORDER BY s.year DESC, s.month DESC LIMIT 1), cl.credit_limit),
	(SELECT COUNT(*) FROM statements s WHERE s.credit_line_id = cl.id)
	FROM credit_lines cl`

func scanCreditLine(scanner interface{ Scan(...any) error }) (models.CreditLine, error) {
	var cl models.CreditLine
	err := scanner.Scan(&cl.ID, &cl.Name, &cl.Holder, &cl.StatementDay, &cl.DateOpened,
		&cl.AnnualFee, &cl.InterestRate, &cl.CreditLimit, &cl.MinPayPct, &cl.MinPayDlr, &cl.Priority,
		&cl.CreatedAt, &cl.UpdatedAt, &cl.Balance, &cl.NumStatements)
	cl.AvailableCredit = cl.CreditLimit.Sub(cl.Balance)
	return cl, err
}

// ListCreditLines lists all credit lines
// @Summary      List credit lines
// @Description  Get all credit lines ordered by payoff priority, with current balances.
// @Tags         credit-lines
// @Produce      json
// @Success      200  {object}  Response{data=[]models.CreditLine}
// @Router       /credit-lines [get]
// @Security     BasicAuth
func ListCreditLines(w http.ResponseWriter, r *http.Request) {
	rows, err := DB.Query(creditLineSelectQuery + " ORDER BY cl.priority, cl.id")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	lines := []models.CreditLine{}
	for rows.Next() {
		cl, err := scanCreditLine(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		lines = append(lines, cl)
	}
	writeJSON(w, http.StatusOK, lines)
}

// GetCreditLine retrieves a single credit line by ID
// @Summary      Get credit line
// @Tags         credit-lines
// @Produce      json
// @Param        id   path      int  true  "Credit line ID"
// @Success      200  {object}  Response{data=models.CreditLine}
// @Failure      404  {object}  Response{error=string}
// @Router       /credit-lines/{id} [get]
// @Security     BasicAuth
func GetCreditLine(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	cl, err := scanCreditLine(DB.QueryRow(creditLineSelectQuery+" WHERE cl.id = ?", id))
	if err != nil {
		writeError(w, http.StatusNotFound, "credit line not found")
		return
	}
	writeJSON(w, http.StatusOK, cl)
}

// CreateCreditLine creates a new credit line
// @Summary      Create credit line
// @Tags         credit-lines
// @Accept       json
// @Produce      json
// @Param        credit_line  body      models.CreditLineInput  true  "Credit line contents"
// @Success      201          {object}  Response{data=models.CreditLine}
// @Failure      400          {object}  Response{error=string}
// @Router       /credit-lines [post]
// @Security     BasicAuth
func CreateCreditLine(w http.ResponseWriter, r *http.Request) {
	var input models.CreditLineInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var id int
	err := DB.QueryRow(`INSERT INTO credit_lines
		(name, holder, statement_day, date_opened, annual_fee, interest_rate, credit_limit, min_pay_pct, min_pay_dlr, priority)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		input.Name, input.Holder, input.StatementDay, input.DateOpened,
		input.AnnualFee.String(), input.InterestRate.String(), input.CreditLimit.String(),
		input.MinPayPct.String(), input.MinPayDlr.String(), input.Priority).Scan(&id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	cl, err := scanCreditLine(DB.QueryRow(creditLineSelectQuery+" WHERE cl.id = ?", id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created credit line: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, cl)
}

// UpdateCreditLine updates an existing credit line
// @Summary      Update credit line
// @Tags         credit-lines
// @Accept       json
// @Produce      json
// @Param        id           path      int                    true  "Credit line ID"
// @Param        credit_line  body      models.CreditLineInput true  "Updated credit line contents"
// @Success      200          {object}  Response{data=models.CreditLine}
// @Failure      400          {object}  Response{error=string}
// @Failure      404          {object}  Response{error=string}
// @Router       /credit-lines/{id} [put]
// @Security     BasicAuth
func UpdateCreditLine(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	var input models.CreditLineInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := DB.Exec(`UPDATE credit_lines SET name = ?, holder = ?, statement_day = ?, date_opened = ?,
		annual_fee = ?, interest_rate = ?, credit_limit = ?, min_pay_pct = ?, min_pay_dlr = ?, priority = ?,
		updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		input.Name, input.Holder, input.StatementDay, input.DateOpened,
		input.AnnualFee.String(), input.InterestRate.String(), input.CreditLimit.String(),
		input.MinPayPct.String(), input.MinPayDlr.String(), input.Priority, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "credit line not found")
		return
	}

	cl, err := scanCreditLine(DB.QueryRow(creditLineSelectQuery+" WHERE cl.id = ?", id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated credit line: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cl)
}

// DeleteCreditLine deletes a credit line
// @Summary      Delete credit line
// @Description  Remove a credit line and its statements.
// @Tags         credit-lines
// @Produce      json
// @Param        id   path      int  true  "Credit line ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /credit-lines/{id} [delete]
// @Security     BasicAuth
func DeleteCreditLine(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	res, err := DB.Exec("DELETE FROM credit_lines WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "credit line not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
