package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Statement is one posted monthly balance for a credit line. At most
// one statement exists per (credit_line, year, month).
type Statement struct {
	ID           int             `json:"id"`
	CreditLineID int             `json:"credit_line_id"`
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	Balance      decimal.Decimal `json:"balance"`
	// Computed fields
	AccountName  *string `json:"account_name,omitempty"`
	StatementDay int     `json:"statement_day,omitempty"`
}

// Date renders the statement's posting date from its credit line's
// statement day.
func (s *Statement) Date() string {
	day := s.StatementDay
	if day == 0 {
		day = 1
	}
	return fmt.Sprintf("%04d-%02d-%02d", s.Year, s.Month, day)
}

// StatementInput is used for creating/updating statements.
type StatementInput struct {
	CreditLineID int             `json:"credit_line_id"`
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	Balance      decimal.Decimal `json:"balance"`
}

func (s *StatementInput) Validate() string {
	if s.CreditLineID <= 0 {
		return "credit_line_id is required"
	}
	if s.Year < 1900 || s.Year > 2200 {
		return "year is out of range"
	}
	if s.Month < 1 || s.Month > 12 {
		return "month must be between 1 and 12"
	}
	return ""
}
