package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/simplefi-dev/simplefi/models"
)

const categorySelectQuery = `SELECT c.id, c.class, c.name,
	(SELECT COUNT(*) FROM transactions t JOIN patterns p ON t.pattern_id = p.id WHERE p.category_id = c.id)
	FROM categories c`

func scanCategory(scanner interface{ Scan(...any) error }) (models.Category, error) {
	var c models.Category
	err := scanner.Scan(&c.ID, &c.Class, &c.Name, &c.NumTransactions)
	return c, err
}

// ListCategories lists all categories
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Param        class  query     string  false  "Filter by transaction class"
// @Success      200  {object}  Response{data=[]models.Category}
// @Router       /categories [get]
// @Security     BasicAuth
func ListCategories(w http.ResponseWriter, r *http.Request) {
	query := categorySelectQuery
	var args []any
	if class := r.URL.Query().Get("class"); class != "" {
		query += " WHERE c.class = ?"
		args = append(args, class)
	}
	query += " ORDER BY c.class, c.name"

	rows, err := DB.Query(query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		categories = append(categories, c)
	}
	writeJSON(w, http.StatusOK, categories)
}

// GetCategory retrieves a single category by ID
// @Summary      Get category
// @Tags         categories
// @Produce      json
// @Param        id   path      int  true  "Category ID"
// @Success      200  {object}  Response{data=models.Category}
// @Failure      404  {object}  Response{error=string}
// @Router       /categories/{id} [get]
// @Security     BasicAuth
func GetCategory(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	c, err := scanCategory(DB.QueryRow(categorySelectQuery+" WHERE c.id = ?", id))
	if err != nil {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CreateCategory creates a new category
// @Summary      Create category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        category  body      models.CategoryInput  true  "Category contents"
// @Success      201       {object}  Response{data=models.Category}
// @Failure      400       {object}  Response{error=string}
// @Router       /categories [post]
// @Security     BasicAuth
func CreateCategory(w http.ResponseWriter, r *http.Request) {
	var input models.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var id int
	err := DB.QueryRow("INSERT INTO categories (class, name) VALUES (?, ?) RETURNING id",
		input.Class, input.Name).Scan(&id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	c, err := scanCategory(DB.QueryRow(categorySelectQuery+" WHERE c.id = ?", id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created category: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// UpdateCategory updates an existing category
// @Summary      Update category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id        path      int                  true  "Category ID"
// @Param        category  body      models.CategoryInput true  "Updated category contents"
// @Success      200       {object}  Response{data=models.Category}
// @Failure      400       {object}  Response{error=string}
// @Failure      404       {object}  Response{error=string}
// @Router       /categories/{id} [put]
// @Security     BasicAuth
func UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	var input models.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := DB.Exec("UPDATE categories SET class = ?, name = ? WHERE id = ?",
		input.Class, input.Name, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}

	c, err := scanCategory(DB.QueryRow(categorySelectQuery+" WHERE c.id = ?", id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated category: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteCategory deletes a category
// @Summary      Delete category
// @Description  Remove a category and its patterns; their transactions become unclassified.
// @Tags         categories
// @Produce      json
// @Param        id   path      int  true  "Category ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /categories/{id} [delete]
// @Security     BasicAuth
func DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	res, err := DB.Exec("DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
