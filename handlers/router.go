package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the API router. Mounted under /api/v1 by main and by
// the handler tests.
func NewRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(BasicAuth)

	// Accounts
	r.Get("/accounts", ListAccounts)
	r.Post("/accounts", CreateAccount)
	r.Get("/accounts/{id}", GetAccount)
	r.Put("/accounts/{id}", UpdateAccount)
	r.Delete("/accounts/{id}", DeleteAccount)

	// Uploads
	r.Get("/uploads", ListUploads)
	r.Post("/uploads", CreateUpload)
	r.Get("/uploads/{id}", GetUpload)
	r.Delete("/uploads/{id}", DeleteUpload)

	// Transactions
	r.Get("/transactions", ListTransactions)
	r.Get("/transactions/{id}", GetTransaction)
	r.Delete("/transactions/{id}", DeleteTransaction)
	r.Post("/transactions/purge", PurgeTransactions)

	// Categories
	r.Get("/categories", ListCategories)
	r.Post("/categories", CreateCategory)
	r.Get("/categories/{id}", GetCategory)
	r.Put("/categories/{id}", UpdateCategory)
	r.Delete("/categories/{id}", DeleteCategory)

	// Patterns
	r.Get("/patterns", ListPatterns)
	r.Post("/patterns", CreatePattern)
	r.Get("/patterns/{id}", GetPattern)
	r.Put("/patterns/{id}", UpdatePattern)
	r.Delete("/patterns/{id}", DeletePattern)

	// Budgets
	r.Get("/budgets", ListBudgets)
	r.Put("/budgets/{class}", UpsertBudget)

	// Spend summary
	r.Get("/summary", GetSummary)
	r.Get("/summary/classes/{class}", GetClassSummary)

	// Credit lines
	r.Get("/credit-lines", ListCreditLines)
	r.Post("/credit-lines", CreateCreditLine)
	r.Get("/credit-lines/{id}", GetCreditLine)
	r.Put("/credit-lines/{id}", UpdateCreditLine)
	r.Delete("/credit-lines/{id}", DeleteCreditLine)

	// Statements
	r.Get("/statements", ListStatements)
	r.Post("/statements", CreateStatement)
	r.Get("/statements/{id}", GetStatement)
	r.Put("/statements/{id}", UpdateStatement)
	r.Delete("/statements/{id}", DeleteStatement)
	r.Get("/statements/export", ExportStatements)
	r.Post("/statements/import", ImportStatements)
	r.Post("/statements/purge", PurgeStatements)

	// Debt payoff projection
	r.Get("/debt/summary", GetDebtSummary)

	// Backups
	r.Get("/backups", ListBackups)
	r.Post("/backups", CreateBackup)
	r.Get("/backups/{id}/download", DownloadBackup)
	r.Post("/backups/{id}/restore", RestoreBackup)
	r.Delete("/backups/{id}", DeleteBackup)

	return r
}
