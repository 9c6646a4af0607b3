package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/simplefi-dev/simplefi/models"
)

const statementSelectQuery = `SELECT s.id, s.credit_line_id, s.year, s.month, s.balance,
	cl.name, cl.statement_day
	FROM statements s JOIN credit_lines cl ON cl.id = s.credit_line_id`

func scanStatement(scanner interface{ Scan(...any) error }) (models.Statement, error) {
	var s models.Statement
	err := scanner.Scan(&s.ID, &s.CreditLineID, &s.Year, &s.Month, &s.Balance,
		&s.AccountName, &s.StatementDay)
	return s, err
}

// ListStatements lists statements
// @Summary      List statements
// @Description  Get statements, optionally filtered by credit line, newest first.
// @Tags         statements
// @Produce      json
// @Param        credit_line_id  query     int  false  "Filter by credit line"
// @Success      200             {object}  Response{data=[]models.Statement}
// @Router       /statements [get]
// @Security     BasicAuth
func ListStatements(w http.ResponseWriter, r *http.Request) {
	query := statementSelectQuery
	args := []any{}
	if v := r.URL.Query().Get("credit_line_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid credit_line_id")
			return
		}
		query += " WHERE s.credit_line_id = ?"
		args = append(args, id)
	}
	query += " ORDER BY s.year DESC, s.month DESC, cl.priority"

	rows, err := DB.Query(query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	statements := []models.Statement{}
	for rows.Next() {
		s, err := scanStatement(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		statements = append(statements, s)
	}
	writeJSON(w, http.StatusOK, statements)
}

// GetStatement retrieves a single statement by ID
// @Summary      Get statement
// @Tags         statements
// @Produce      json
// @Param        id   path      int  true  "Statement ID"
// @Success      200  {object}  Response{data=models.Statement}
// @Failure      404  {object}  Response{error=string}
// @Router       /statements/{id} [get]
// @Security     BasicAuth
func GetStatement(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	s, err := scanStatement(DB.QueryRow(statementSelectQuery+" WHERE s.id = ?", id))
	if err != nil {
		writeError(w, http.StatusNotFound, "statement not found")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// CreateStatement creates a new statement
// @Summary      Create statement
// @Description  Record a monthly balance. Only one statement may exist per credit line and month.
// @Tags         statements
// @Accept       json
// @Produce      json
// @Param        statement  body      models.StatementInput  true  "Statement contents"
// @Success      201        {object}  Response{data=models.Statement}
// @Failure      400        {object}  Response{error=string}
// @Router       /statements [post]
// @Security     BasicAuth
func CreateStatement(w http.ResponseWriter, r *http.Request) {
	var input models.StatementInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var id int
	err := DB.QueryRow(`INSERT INTO statements (credit_line_id, year, month, balance)
		VALUES (?, ?, ?, ?) RETURNING id`,
		input.CreditLineID, input.Year, input.Month, input.Balance.String()).Scan(&id)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to create statement: "+err.Error())
		return
	}

	s, err := scanStatement(DB.QueryRow(statementSelectQuery+" WHERE s.id = ?", id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created statement: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

// UpdateStatement updates an existing statement
// @Summary      Update statement
// @Tags         statements
// @Accept       json
// @Produce      json
// @Param        id         path      int                    true  "Statement ID"
// @Param        statement  body      models.StatementInput  true  "Updated statement contents"
// @Success      200        {object}  Response{data=models.Statement}
// @Failure      400        {object}  Response{error=string}
// @Failure      404        {object}  Response{error=string}
// @Router       /statements/{id} [put]
// @Security     BasicAuth
func UpdateStatement(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	var input models.StatementInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := DB.Exec(`UPDATE statements SET credit_line_id = ?, year = ?, month = ?, balance = ?
		WHERE id = ?`,
		input.CreditLineID, input.Year, input.Month, input.Balance.String(), id)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to update statement: "+err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "statement not found")
		return
	}

	s, err := scanStatement(DB.QueryRow(statementSelectQuery+" WHERE s.id = ?", id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated statement: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// DeleteStatement deletes a statement
// @Summary      Delete statement
// @Tags         statements
// @Produce      json
// @Param        id   path      int  true  "Statement ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /statements/{id} [delete]
// @Security     BasicAuth
func DeleteStatement(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	res, err := DB.Exec("DELETE FROM statements WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "statement not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// ExportStatements exports all statements to CSV
// @Summary      Export statements
// @Description  Download all statements as CSV with columns Account, Date, Balance.
// @Tags         statements
// @Produce      text/csv
// @Success      200  {string}  string  "CSV file"
// @Router       /statements/export [get]
// @Security     BasicAuth
func ExportStatements(w http.ResponseWriter, r *http.Request) {
	rows, err := DB.Query(statementSelectQuery + " ORDER BY cl.name, s.year, s.month")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="statements.csv"`)
	cw := csv.NewWriter(w)
	cw.Write([]string{"Account", "Date", "Balance"})
	for rows.Next() {
		s, err := scanStatement(rows)
		if err != nil {
			slog.Error("export: scan statement", "error", err)
			return
		}
		name := ""
		if s.AccountName != nil {
			name = *s.AccountName
		}
		cw.Write([]string{name, s.Date(), s.Balance.String()})
	}
	cw.Flush()
}

// ImportStatements imports statements from a CSV file
// @Summary      Import statements
// @Description  Upload a CSV with columns Account, Date, Balance. Rows for unknown
// @Description  accounts are skipped, and existing statements are kept unchanged.
// @Tags         statements
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "CSV file"
// @Success      200   {object}  Response{data=map[string]int}
// @Failure      400   {object}  Response{error=string}
// @Router       /statements/import [post]
// @Security     BasicAuth
func ImportStatements(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	cr := csv.NewReader(file)
	records, err := cr.ReadAll()
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse CSV: "+err.Error())
		return
	}
	if len(records) == 0 {
		writeError(w, http.StatusBadRequest, "CSV file is empty")
		return
	}

	// Map credit line names to IDs once up front.
	lineIDs := map[string]int{}
	rows, err := DB.Query("SELECT id, name FROM credit_lines")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			rows.Close()
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		lineIDs[name] = id
	}
	rows.Close()

	added, existing, unknown := 0, 0, 0
	for i, rec := range records {
		if i == 0 || len(rec) < 3 {
			continue
		}
		id, ok := lineIDs[rec[0]]
		if !ok {
			unknown++
			continue
		}
		date, err := time.Parse("2006-01-02", rec[1])
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("row %d: invalid date %q", i+1, rec[1]))
			return
		}
		balance, err := decimal.NewFromString(rec[2])
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("row %d: invalid balance %q", i+1, rec[2]))
			return
		}

		res, err := DB.Exec(`INSERT OR IGNORE INTO statements (credit_line_id, year, month, balance)
			VALUES (?, ?, ?, ?)`,
			id, date.Year(), int(date.Month()), balance.String())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		} else {
			existing++
		}
	}

	slog.Info("imported statements", "added", added, "existing", existing, "unknown_accounts", unknown)
	writeJSON(w, http.StatusOK, map[string]int{
		"added":            added,
		"existing":         existing,
		"unknown_accounts": unknown,
	})
}

// PurgeStatements deletes all statements
// @Summary      Purge statements
// @Description  Delete every statement for every credit line.
// @Tags         statements
// @Produce      json
// @Success      200  {object}  Response{data=map[string]int64}
// @Router       /statements/purge [post]
// @Security     BasicAuth
func PurgeStatements(w http.ResponseWriter, r *http.Request) {
	res, err := DB.Exec("DELETE FROM statements")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	n, _ := res.RowsAffected()
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}
