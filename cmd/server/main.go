// Package main implements the entry point for the lexread API server,
// which schedules spaced-repetition reviews for vocabulary decks extracted
// from books.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/lexread/lexread-api/internal/config"
	"github.com/lexread/lexread-api/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

// run loads configuration, connects to the database, applies migrations,
// wires the application, and serves HTTP until shutdown.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"due_limit", cfg.Session.DueLimit)

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	if err := runMigrations(db, appLogger); err != nil {
		return err
	}

	app := newApplication(cfg, appLogger, db)
	router := app.setupRouter()

	return app.startHTTPServer(context.Background(), router)
}
