package models

import "time"

// Backup records one transaction backup CSV written to the data
// directory.
type Backup struct {
	ID        int       `json:"id"`
	FileName  string    `json:"file_name"`
	CreatedAt time.Time `json:"created_at"`
}
