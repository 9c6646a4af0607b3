package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents one parsed bank CSV row. Transactions are
// created by uploads or backup restores, never edited by hand.
type Transaction struct {
	ID          int             `json:"id"`
	UploadID    int             `json:"upload_id"`
	Date        string          `json:"date"` // YYYY-MM-DD
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	PatternID   *int            `json:"pattern_id"`
	CreatedAt   time.Time       `json:"created_at"`
	// Computed fields
	AccountName  *string `json:"account_name,omitempty"`
	CategoryName *string `json:"category_name,omitempty"`
	ClassName    *string `json:"class_name,omitempty"`
}

// Upload records one processed CSV file.
type Upload struct {
	ID         int       `json:"id"`
	AccountID  int       `json:"account_id"`
	FileName   string    `json:"file_name"`
	UploadedAt time.Time `json:"uploaded_at"`
	// Computed fields
	AccountName     *string `json:"account_name,omitempty"`
	NumTransactions int     `json:"num_transactions"`
}
