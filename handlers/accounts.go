package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/simplefi-dev/simplefi/models"
)

const accountSelectQuery = `SELECT id, name, date_header, amount_header, desc_header, created_at, updated_at,
	(SELECT COUNT(*) FROM transactions t JOIN uploads u ON t.upload_id = u.id WHERE u.account_id = accounts.id)
	FROM accounts`

func scanAccount(scanner interface{ Scan(...any) error }) (models.Account, error) {
	var a models.Account
	err := scanner.Scan(&a.ID, &a.Name, &a.DateHeader, &a.AmountHeader, &a.DescHeader,
		&a.CreatedAt, &a.UpdatedAt, &a.NumTransactions)
	return a, err
}

// ListAccounts lists all accounts
// @Summary      List accounts
// @Description  Get all bank accounts with their CSV column mappings and transaction counts.
// @Tags         accounts
// @Produce      json
// @Param        search  query     string  false  "Search by name"
// @Success      200  {object}  Response{data=[]models.Account}
// @Router       /accounts [get]
// @Security     BasicAuth
func ListAccounts(w http.ResponseWriter, r *http.Request) {
	query := accountSelectQuery
	var args []any
	if search := r.URL.Query().Get("search"); search != "" {
		query += " WHERE name LIKE ?"
		args = append(args, "%"+search+"%")
	}
	query += " ORDER BY name"

	rows, err := DB.Query(query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		accounts = append(accounts, a)
	}
	writeJSON(w, http.StatusOK, accounts)
}

// GetAccount retrieves a single account by ID
// @Summary      Get account
// @Tags         accounts
// @Produce      json
// @Param        id   path      int  true  "Account ID"
// @Success      200  {object}  Response{data=models.Account}
// @Failure      404  {object}  Response{error=string}
// @Router       /accounts/{id} [get]
// @Security     BasicAuth
func GetAccount(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	a, err := scanAccount(DB.QueryRow(accountSelectQuery+" WHERE accounts.id = ?", id))
	if err != nil {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// CreateAccount creates a new account
// @Summary      Create account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        account  body      models.AccountInput  true  "Account contents"
// @Success      201      {object}  Response{data=models.Account}
// @Failure      400      {object}  Response{error=string}
// @Router       /accounts [post]
// @Security     BasicAuth
func CreateAccount(w http.ResponseWriter, r *http.Request) {
	var input models.AccountInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var id int
	err := DB.QueryRow("INSERT INTO accounts (name, date_header, amount_header, desc_header) VALUES (?, ?, ?, ?) RETURNING id",
		input.Name, input.DateHeader, input.AmountHeader, input.DescHeader).Scan(&id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	a, err := scanAccount(DB.QueryRow(accountSelectQuery+" WHERE accounts.id = ?", id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created account: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// UpdateAccount updates an existing account
// @Summary      Update account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        id       path      int                 true  "Account ID"
// @Param        account  body      models.AccountInput true  "Updated account contents"
// @Success      200      {object}  Response{data=models.Account}
// @Failure      400      {object}  Response{error=string}
// @Failure      404      {object}  Response{error=string}
// @Router       /accounts/{id} [put]
// @Security     BasicAuth
func UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	var input models.AccountInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := DB.Exec("UPDATE accounts SET name = ?, date_header = ?, amount_header = ?, desc_header = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		input.Name, input.DateHeader, input.AmountHeader, input.DescHeader, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}

	a, err := scanAccount(DB.QueryRow(accountSelectQuery+" WHERE accounts.id = ?", id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated account: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// DeleteAccount deletes an account
// @Summary      Delete account
// @Description  Remove an account along with its uploads and transactions.
// @Tags         accounts
// @Produce      json
// @Param        id   path      int  true  "Account ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /accounts/{id} [delete]
// @Security     BasicAuth
func DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	res, err := DB.Exec("DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
