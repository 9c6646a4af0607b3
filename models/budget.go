package models

import "github.com/shopspring/decimal"

// Budget is the intended monthly amount for one transaction class. The
// debt class budget feeds the payoff projection.
type Budget struct {
	Class string          `json:"class"`
	Value decimal.Decimal `json:"value"`
}

// BudgetInput is used for upserting a class budget.
type BudgetInput struct {
	Value decimal.Decimal `json:"value"`
}
