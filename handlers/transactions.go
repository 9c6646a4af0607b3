package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/simplefi-dev/simplefi/models"
)

const txnSelectQuery = `SELECT t.id, t.upload_id, t.date, t.amount, t.description, t.pattern_id, t.created_at,
	a.name, c.name, c.class
	FROM transactions t
	LEFT JOIN uploads u ON t.upload_id = u.id
	LEFT JOIN accounts a ON u.account_id = a.id
	LEFT JOIN patterns p ON t.pattern_id = p.id
	LEFT JOIN categories c ON p.category_id = c.id`

func scanTransaction(scanner interface{ Scan(...any) error }) (models.Transaction, error) {
	var t models.Transaction
	err := scanner.Scan(&t.ID, &t.UploadID, &t.Date, &t.Amount, &t.Description, &t.PatternID,
		&t.CreatedAt, &t.AccountName, &t.CategoryName, &t.ClassName)
	return t, err
}

// ListTransactions lists transactions
// @Summary      List transactions
// @Description  Get transactions with their classification, filterable by account, category, class, date range, or unclassified only.
// @Tags         transactions
// @Produce      json
// @Param        account_id    query  int     false  "Filter by account"
// @Param        category_id   query  int     false  "Filter by category"
// @Param        class         query  string  false  "Filter by transaction class"
// @Param        unclassified  query  bool    false  "Only unclassified transactions"
// @Param        from          query  string  false  "Earliest date (YYYY-MM-DD)"
// @Param        to             query  string  false  "Latest date (YYYY-MM-DD)"
// @Success      200  {object}  Response{data=[]models.Transaction}
// @Router       /transactions [get]
// @Security     BasicAuth
func ListTransactions(w http.ResponseWriter, r *http.Request) {
	query := txnSelectQuery
	var conditions []string
	var args []any

	if aid := r.URL.Query().Get("account_id"); aid != "" {
		conditions = append(conditions, "u.account_id = ?")
		args = append(args, aid)
	}
	if cid := r.URL.Query().Get("category_id"); cid != "" {
		conditions = append(conditions, "p.category_id = ?")
		args = append(args, cid)
	}
	if class := r.URL.Query().Get("class"); class != "" {
		conditions = append(conditions, "c.class = ?")
		args = append(args, class)
	}
	if r.URL.Query().Get("unclassified") == "true" {
		conditions = append(conditions, "t.pattern_id IS NULL")
	}
	if from := r.URL.Query().Get("from"); from != "" {
		conditions = append(conditions, "t.date >= ?")
		args = append(args, from)
	}
	if to := r.URL.Query().Get("to"); to != "" {
		conditions = append(conditions, "t.date <= ?")
		args = append(args, to)
	}

	for i, c := range conditions {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY t.date DESC, t.id DESC"

	rows, err := DB.Query(query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	txns := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		txns = append(txns, t)
	}
	writeJSON(w, http.StatusOK, txns)
}

// GetTransaction retrieves a single transaction by ID
// @Summary      Get transaction
// @Tags         transactions
// @Produce      json
// @Param        id   path      int  true  "Transaction ID"
// @Success      200  {object}  Response{data=models.Transaction}
// @Failure      404  {object}  Response{error=string}
// @Router       /transactions/{id} [get]
// @Security     BasicAuth
func GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	t, err := scanTransaction(DB.QueryRow(txnSelectQuery+" WHERE t.id = ?", id))
	if err != nil {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// DeleteTransaction deletes a transaction
// @Summary      Delete transaction
// @Tags         transactions
// @Produce      json
// @Param        id   path      int  true  "Transaction ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /transactions/{id} [delete]
// @Security     BasicAuth
func DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	res, err := DB.Exec("DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// PurgeTransactions deletes all transactions and uploads
// @Summary      Purge transactions
// @Description  Delete every transaction and upload. Accounts, patterns, and categories are kept. Intended for use before a backup restore.
// @Tags         transactions
// @Produce      json
// @Success      200  {object}  Response{data=map[string]int64}
// @Router       /transactions/purge [post]
// @Security     BasicAuth
func PurgeTransactions(w http.ResponseWriter, r *http.Request) {
	res, err := DB.Exec("DELETE FROM transactions")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	n, _ := res.RowsAffected()
	if _, err := DB.Exec("DELETE FROM uploads"); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}
