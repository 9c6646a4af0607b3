package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/simplefi-dev/simplefi/importer"
	"github.com/simplefi-dev/simplefi/models"
)

const uploadSelectQuery = `SELECT u.id, u.account_id, u.file_name, u.uploaded_at, a.name,
	(SELECT COUNT(*) FROM transactions t WHERE t.upload_id = u.id)
	FROM uploads u LEFT JOIN accounts a ON u.account_id = a.id`

func scanUpload(scanner interface{ Scan(...any) error }) (models.Upload, error) {
	var u models.Upload
	err := scanner.Scan(&u.ID, &u.AccountID, &u.FileName, &u.UploadedAt, &u.AccountName, &u.NumTransactions)
	return u, err
}

// ListUploads lists all uploads
// @Summary      List uploads
// @Tags         uploads
// @Produce      json
// @Success      200  {object}  Response{data=[]models.Upload}
// @Router       /uploads [get]
// @Security     BasicAuth
func ListUploads(w http.ResponseWriter, r *http.Request) {
	rows, err := DB.Query(uploadSelectQuery + " ORDER BY u.uploaded_at DESC")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	uploads := []models.Upload{}
	for rows.Next() {
		u, err := scanUpload(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		uploads = append(uploads, u)
	}
	writeJSON(w, http.StatusOK, uploads)
}

// GetUpload retrieves a single upload by ID
// @Summary      Get upload
// @Tags         uploads
// @Produce      json
// @Param        id   path      int  true  "Upload ID"
// @Success      200  {object}  Response{data=models.Upload}
// @Failure      404  {object}  Response{error=string}
// @Router       /uploads/{id} [get]
// @Security     BasicAuth
func GetUpload(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	u, err := scanUpload(DB.QueryRow(uploadSelectQuery+" WHERE u.id = ?", id))
	if err != nil {
		writeError(w, http.StatusNotFound, "upload not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// CreateUpload uploads and parses a bank CSV
// @Summary      Upload bank CSV
// @Description  Parse a bank CSV export using the account's column mapping, create its transactions (exact duplicates skipped), and classify them against the stored patterns.
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        account_id  formData  int   true  "Account ID"
// @Param        csv         formData  file  true  "CSV export file"
// @Success      201  {object}  Response{data=models.Upload}
// @Failure      400  {object}  Response{error=string}
// @Router       /uploads [post]
// @Security     BasicAuth
func CreateUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	accountID, _ := strconv.Atoi(r.FormValue("account_id"))
	if accountID <= 0 {
		writeError(w, http.StatusBadRequest, "account_id is required")
		return
	}

	var a models.Account
	err := DB.QueryRow("SELECT id, name, date_header, amount_header, desc_header FROM accounts WHERE id = ?", accountID).
		Scan(&a.ID, &a.Name, &a.DateHeader, &a.AmountHeader, &a.DescHeader)
	if err != nil {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}

	file, header, err := r.FormFile("csv")
	if err != nil {
		writeError(w, http.StatusBadRequest, "csv file is required")
		return
	}
	defer file.Close()

	parsed, err := importer.Parse(file, importer.Mapping{
		DateHeader:   a.DateHeader,
		AmountHeader: a.AmountHeader,
		DescHeader:   a.DescHeader,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Keep the raw file for reference.
	fileName := fmt.Sprintf("%s_%s", time.Now().Format("060102_150405"), filepath.Base(header.Filename))
	if err := saveUploadFile(file, fileName); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var uploadID int
	err = DB.QueryRow("INSERT INTO uploads (account_id, file_name) VALUES (?, ?) RETURNING id",
		accountID, fileName).Scan(&uploadID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	for _, row := range parsed {
		_, err := DB.Exec("INSERT OR IGNORE INTO transactions (upload_id, date, amount, description) VALUES (?, ?, ?, ?)",
			uploadID, row.Date.Format("2006-01-02"), row.Amount.String(), row.Description)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	if _, err := classifyUnmatched(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	u, err := scanUpload(DB.QueryRow(uploadSelectQuery+" WHERE u.id = ?", uploadID))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created upload: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// DeleteUpload deletes an upload and its transactions
// @Summary      Delete upload
// @Tags         uploads
// @Produce      json
// @Param        id   path      int  true  "Upload ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /uploads/{id} [delete]
// @Security     BasicAuth
func DeleteUpload(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	res, err := DB.Exec("DELETE FROM uploads WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "upload not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func saveUploadFile(file io.ReadSeeker, fileName string) error {
	dir := filepath.Join(DataDir(), "csvs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating upload dir: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding upload: %w", err)
	}
	dst, err := os.Create(filepath.Join(dir, fileName))
	if err != nil {
		return fmt.Errorf("saving upload: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		return fmt.Errorf("saving upload: %w", err)
	}
	return nil
}
