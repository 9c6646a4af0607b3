package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/simplefi-dev/simplefi/models"
)

const patternSelectQuery = `SELECT p.id, p.pattern, p.category_id, c.name, c.class,
	(SELECT COUNT(*) FROM transactions t WHERE t.pattern_id = p.id)
	FROM patterns p LEFT JOIN categories c ON p.category_id = c.id`

func scanPattern(scanner interface{ Scan(...any) error }) (models.Pattern, error) {
	var p models.Pattern
	err := scanner.Scan(&p.ID, &p.Pattern, &p.CategoryID, &p.CategoryName, &p.ClassName, &p.NumTransactions)
	return p, err
}

// ListPatterns lists all patterns
// @Summary      List patterns
// @Tags         patterns
// @Produce      json
// @Success      200  {object}  Response{data=[]models.Pattern}
// @Router       /patterns [get]
// @Security     BasicAuth
func ListPatterns(w http.ResponseWriter, r *http.Request) {
	rows, err := DB.Query(patternSelectQuery + " ORDER BY p.pattern")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	patterns := []models.Pattern{}
	for rows.Next() {
		p, err := scanPattern(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		patterns = append(patterns, p)
	}
	writeJSON(w, http.StatusOK, patterns)
}

// GetPattern retrieves a single pattern by ID
// @Summary      Get pattern
// @Tags         patterns
// @Produce      json
// @Param        id   path      int  true  "Pattern ID"
// @Success      200  {object}  Response{data=models.Pattern}
// @Failure      404  {object}  Response{error=string}
// @Router       /patterns/{id} [get]
// @Security     BasicAuth
func GetPattern(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	p, err := scanPattern(DB.QueryRow(patternSelectQuery+" WHERE p.id = ?", id))
	if err != nil {
		writeError(w, http.StatusNotFound, "pattern not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreatePattern creates a new pattern
// @Summary      Create pattern
// @Description  Create a classification pattern and immediately match it against unclassified transactions.
// @Tags         patterns
// @Accept       json
// @Produce      json
// @Param        pattern  body      models.PatternInput  true  "Pattern contents"
// @Success      201      {object}  Response{data=models.Pattern}
// @Failure      400      {object}  Response{error=string}
// @Router       /patterns [post]
// @Security     BasicAuth
func CreatePattern(w http.ResponseWriter, r *http.Request) {
	var input models.PatternInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var id int
	err := DB.QueryRow("INSERT INTO patterns (pattern, category_id) VALUES (?, ?) RETURNING id",
		input.Pattern, input.CategoryID).Scan(&id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if _, err := classifyUnmatched(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	p, err := scanPattern(DB.QueryRow(patternSelectQuery+" WHERE p.id = ?", id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created pattern: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// UpdatePattern updates an existing pattern
// @Summary      Update pattern
// @Description  Update a pattern and re-match unclassified transactions.
// @Tags         patterns
// @Accept       json
// @Produce      json
// @Param        id       path      int                 true  "Pattern ID"
// @Param        pattern  body      models.PatternInput true  "Updated pattern contents"
// @Success      200      {object}  Response{data=models.Pattern}
// @Failure      400      {object}  Response{error=string}
// @Failure      404      {object}  Response{error=string}
// @Router       /patterns/{id} [put]
// @Security     BasicAuth
func UpdatePattern(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	var input models.PatternInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := DB.Exec("UPDATE patterns SET pattern = ?, category_id = ? WHERE id = ?",
		input.Pattern, input.CategoryID, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "pattern not found")
		return
	}

	if _, err := classifyUnmatched(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	p, err := scanPattern(DB.QueryRow(patternSelectQuery+" WHERE p.id = ?", id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated pattern: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeletePattern deletes a pattern
// @Summary      Delete pattern
// @Description  Remove a pattern; its transactions become unclassified.
// @Tags         patterns
// @Produce      json
// @Param        id   path      int  true  "Pattern ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /patterns/{id} [delete]
// @Security     BasicAuth
func DeletePattern(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	res, err := DB.Exec("DELETE FROM patterns WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "pattern not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
