package models

import "time"

// Account represents a bank account whose CSV exports can be uploaded.
// The header fields name the columns to read from that bank's export.
type Account struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	DateHeader   string    `json:"date_header"`
	AmountHeader string    `json:"amount_header"`
	DescHeader   string    `json:"desc_header"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	// Computed fields
	NumTransactions int `json:"num_transactions"`
}

// AccountInput is used for creating/updating accounts.
type AccountInput struct {
	Name         string `json:"name"`
	DateHeader   string `json:"date_header"`
	AmountHeader string `json:"amount_header"`
	DescHeader   string `json:"desc_header"`
}

func (a *AccountInput) Validate() string {
	if a.Name == "" {
		return "name is required"
	}
	if a.DateHeader == "" || a.AmountHeader == "" || a.DescHeader == "" {
		return "date_header, amount_header and desc_header are required"
	}
	return ""
}
