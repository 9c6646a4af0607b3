package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/simplefi-dev/simplefi/backup"
	"github.com/simplefi-dev/simplefi/models"
)

func backupDir() string {
	return filepath.Join(DataDir(), "backups")
}

// RunBackup writes every transaction to a timestamped CSV under the
// data directory and records it in the backups table. It is shared by
// the create endpoint and the scheduled backup job.
func RunBackup() (models.Backup, error) {
	rows, err := DB.Query(`SELECT a.name, COALESCE(c.class, ''), COALESCE(c.name, ''),
		t.date, t.amount, t.description
		FROM transactions t
		JOIN uploads u ON u.id = t.upload_id
		JOIN accounts a ON a.id = u.account_id
		LEFT JOIN patterns p ON p.id = t.pattern_id
		LEFT JOIN categories c ON c.id = p.category_id
		ORDER BY t.date, t.id`)
	if err != nil {
		return models.Backup{}, err
	}
	defer rows.Close()

	records := []backup.Record{}
	for rows.Next() {
		var rec backup.Record
		if err := rows.Scan(&rec.Account, &rec.Class, &rec.Category,
			&rec.Date, &rec.Amount, &rec.Description); err != nil {
			return models.Backup{}, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return models.Backup{}, err
	}

	if err := os.MkdirAll(backupDir(), 0o755); err != nil {
		return models.Backup{}, fmt.Errorf("creating backup directory: %w", err)
	}
	fileName := fmt.Sprintf("transactions_%s.csv", time.Now().Format("20060102_150405"))
	f, err := os.Create(filepath.Join(backupDir(), fileName))
	if err != nil {
		return models.Backup{}, err
	}
	defer f.Close()
	if err := backup.Write(f, records); err != nil {
		return models.Backup{}, err
	}

	var b models.Backup
	err = DB.QueryRow(`INSERT INTO backups (file_name) VALUES (?) RETURNING id, file_name, created_at`,
		fileName).Scan(&b.ID, &b.FileName, &b.CreatedAt)
	if err != nil {
		return models.Backup{}, err
	}
	slog.Info("created backup", "file", fileName, "transactions", len(records))
	return b, nil
}

// ListBackups lists all backups
// @Summary      List backups
// @Tags         backups
// @Produce      json
// @Success      200  {object}  Response{data=[]models.Backup}
// @Router       /backups [get]
// @Security     BasicAuth
func ListBackups(w http.ResponseWriter, r *http.Request) {
	rows, err := DB.Query("SELECT id, file_name, created_at FROM backups ORDER BY created_at DESC, id DESC")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	backups := []models.Backup{}
	for rows.Next() {
		var b models.Backup
		if err := rows.Scan(&b.ID, &b.FileName, &b.CreatedAt); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		backups = append(backups, b)
	}
	writeJSON(w, http.StatusOK, backups)
}

// CreateBackup backs up all transactions to a CSV file
// @Summary      Create backup
// @Description  Write every transaction to a timestamped CSV under the data directory.
// @Tags         backups
// @Produce      json
// @Success      201  {object}  Response{data=models.Backup}
// @Router       /backups [post]
// @Security     BasicAuth
func CreateBackup(w http.ResponseWriter, r *http.Request) {
	b, err := RunBackup()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// DownloadBackup serves a backup CSV file
// @Summary      Download backup
// @Tags         backups
// @Produce      text/csv
// @Param        id   path      int     true  "Backup ID"
// @Success      200  {string}  string  "CSV file"
// @Failure      404  {object}  Response{error=string}
// @Router       /backups/{id}/download [get]
// @Security     BasicAuth
func DownloadBackup(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	var fileName string
	if err := DB.QueryRow("SELECT file_name FROM backups WHERE id = ?", id).Scan(&fileName); err != nil {
		writeError(w, http.StatusNotFound, "backup not found")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	http.ServeFile(w, r, filepath.Join(backupDir(), fileName))
}

// RestoreBackup restores transactions from a backup file
// @Summary      Restore backup
// @Description  Re-import transactions from a backup CSV. Missing accounts are
// @Description  created with default column mappings, duplicates are skipped, and
// @Description  everything is reclassified against the current patterns.
// @Tags         backups
// @Produce      json
// @Param        id   path      int  true  "Backup ID"
// @Success      200  {object}  Response{data=map[string]int}
// @Failure      404  {object}  Response{error=string}
// @Router       /backups/{id}/restore [post]
// @Security     BasicAuth
func RestoreBackup(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	var fileName string
	if err := DB.QueryRow("SELECT file_name FROM backups WHERE id = ?", id).Scan(&fileName); err != nil {
		writeError(w, http.StatusNotFound, "backup not found")
		return
	}

	f, err := os.Open(filepath.Join(backupDir(), fileName))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to open backup file: "+err.Error())
		return
	}
	defer f.Close()

	records, err := backup.Read(f)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// One restore upload per account named in the backup.
	uploadIDs := map[string]int{}
	restored := 0
	for _, rec := range records {
		uploadID, ok := uploadIDs[rec.Account]
		if !ok {
			uploadID, err = restoreUpload(rec.Account, fileName)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			uploadIDs[rec.Account] = uploadID
		}

		res, err := DB.Exec(`INSERT OR IGNORE INTO transactions (upload_id, date, amount, description)
			VALUES (?, ?, ?, ?)`,
			uploadID, rec.Date, rec.Amount.String(), rec.Description)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if n, _ := res.RowsAffected(); n > 0 {
			restored++
		}
	}

	classified, err := classifyUnmatched()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	slog.Info("restored backup", "file", fileName, "restored", restored, "classified", classified)
	writeJSON(w, http.StatusOK, map[string]int{
		"restored":   restored,
		"skipped":    len(records) - restored,
		"classified": classified,
	})
}

// restoreUpload finds or creates the named account and opens a new
// upload for restored rows.
func restoreUpload(account, fileName string) (int, error) {
	var accountID int
	err := DB.QueryRow("SELECT id FROM accounts WHERE name = ?", account).Scan(&accountID)
	if err != nil {
		err = DB.QueryRow(`INSERT INTO accounts (name, date_header, amount_header, desc_header)
			VALUES (?, 'Date', 'Amount', 'Description') RETURNING id`, account).Scan(&accountID)
		if err != nil {
			return 0, fmt.Errorf("creating account %q: %w", account, err)
		}
	}

	var uploadID int
	err = DB.QueryRow(`INSERT INTO uploads (account_id, file_name) VALUES (?, ?) RETURNING id`,
		accountID, fileName).Scan(&uploadID)
	if err != nil {
		return 0, err
	}
	return uploadID, nil
}

// DeleteBackup deletes a backup record and its file
// @Summary      Delete backup
// @Tags         backups
// @Produce      json
// @Param        id   path      int  true  "Backup ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /backups/{id} [delete]
// @Security     BasicAuth
func DeleteBackup(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	var fileName string
	if err := DB.QueryRow("SELECT file_name FROM backups WHERE id = ?", id).Scan(&fileName); err != nil {
		writeError(w, http.StatusNotFound, "backup not found")
		return
	}
	if _, err := DB.Exec("DELETE FROM backups WHERE id = ?", id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := os.Remove(filepath.Join(backupDir(), fileName)); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove backup file", "file", fileName, "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
