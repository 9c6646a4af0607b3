package models

import "regexp"

// Pattern is a regex rule that assigns uploaded transactions to a
// category by matching their descriptions, case-insensitively.
type Pattern struct {
	ID         int    `json:"id"`
	Pattern    string `json:"pattern"`
	CategoryID int    `json:"category_id"`
	// Computed fields
	CategoryName    *string `json:"category_name,omitempty"`
	ClassName       *string `json:"class_name,omitempty"`
	NumTransactions int     `json:"num_transactions"`
}

// PatternInput is used for creating/updating patterns.
type PatternInput struct {
	Pattern    string `json:"pattern"`
	CategoryID int    `json:"category_id"`
}

func (p *PatternInput) Validate() string {
	if p.Pattern == "" {
		return "pattern is required"
	}
	if _, err := regexp.Compile(p.Pattern); err != nil {
		return "pattern is not a valid regular expression: " + err.Error()
	}
	if p.CategoryID <= 0 {
		return "category_id is required"
	}
	return ""
}
