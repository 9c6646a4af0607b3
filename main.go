package main

//go:generate swag init

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/robfig/cron/v3"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/simplefi-dev/simplefi/db"
	_ "github.com/simplefi-dev/simplefi/docs"
	"github.com/simplefi-dev/simplefi/handlers"
)

//go:embed static/*
var staticFiles embed.FS

// @title           SimpleFi API
// @version         1.0.0
// @description     Personal finance API: transaction uploads, spend classification,
// @description     budgets, and debt payoff projections.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.basic  BasicAuth

func main() {
	// Configure structured logging
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	// Open database
	database, err := db.Open()
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	// Run migrations
	if err := db.Migrate(database); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Set shared DB for handlers
	handlers.DB = database

	// Scheduled backups, e.g. BACKUP_CRON="0 3 * * *"
	if spec := os.Getenv("BACKUP_CRON"); spec != "" {
		c := cron.New()
		_, err := c.AddFunc(spec, func() {
			if _, err := handlers.RunBackup(); err != nil {
				slog.Error("scheduled backup failed", "error", err)
			}
		})
		if err != nil {
			slog.Error("invalid BACKUP_CRON expression", "spec", spec, "error", err)
			os.Exit(1)
		}
		c.Start()
		defer c.Stop()
		slog.Info("scheduled backups enabled", "spec", spec)
	}

	// Router setup
	r := chi.NewRouter()
	r.Mount("/api/v1", handlers.NewRouter())

	// Serve static files (UI)
	staticFS, _ := fs.Sub(staticFiles, "static")
	r.Handle("/*", http.FileServer(http.FS(staticFS)))

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := fmt.Sprintf(":%s", port)
	slog.Info("server starting", "address", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
