package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditLine represents one revolving credit account. A zero credit
// limit marks a non-revolving line, which is excluded from payoff
// projections.
type CreditLine struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Holder       string          `json:"holder"`
	StatementDay int             `json:"statement_day"` // day of month a statement posts
	DateOpened   string          `json:"date_opened"`   // YYYY-MM-DD
	AnnualFee    decimal.Decimal `json:"annual_fee"`
	InterestRate decimal.Decimal `json:"interest_rate"` // annual %
	CreditLimit  decimal.Decimal `json:"credit_limit"`
	MinPayPct    decimal.Decimal `json:"min_pay_pct"`
	MinPayDlr    decimal.Decimal `json:"min_pay_dlr"`
	Priority     int             `json:"priority"` // lower pays off first
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	// Computed fields
	Balance         decimal.Decimal `json:"balance"`          // latest statement balance, or credit_limit with no statements
	AvailableCredit decimal.Decimal `json:"available_credit"` // credit_limit - balance
	NumStatements   int             `json:"num_statements"`
}

// CreditLineInput is used for creating/updating credit lines.
type CreditLineInput struct {
	Name         string          `json:"name"`
	Holder       string          `json:"holder"`
	StatementDay int             `json:"statement_day"`
	DateOpened   string          `json:"date_opened"`
	AnnualFee    decimal.Decimal `json:"annual_fee"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	CreditLimit  decimal.Decimal `json:"credit_limit"`
	MinPayPct    decimal.Decimal `json:"min_pay_pct"`
	MinPayDlr    decimal.Decimal `json:"min_pay_dlr"`
	Priority     int             `json:"priority"`
}

func (c *CreditLineInput) Validate() string {
	if c.Name == "" {
		return "name is required"
	}
	if c.StatementDay < 1 || c.StatementDay > 28 {
		return "statement_day must be between 1 and 28"
	}
	if c.InterestRate.IsNegative() {
		return "interest_rate cannot be negative"
	}
	if c.MinPayPct.IsNegative() || c.MinPayDlr.IsNegative() {
		return "minimum payment fields cannot be negative"
	}
	if c.CreditLimit.IsNegative() {
		return "credit_limit cannot be negative"
	}
	if c.Priority < 0 {
		return "priority cannot be negative"
	}
	if c.DateOpened != "" {
		if _, err := time.Parse("2006-01-02", c.DateOpened); err != nil {
			return "date_opened must be YYYY-MM-DD"
		}
	}
	return ""
}
