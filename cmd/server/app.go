package main

import (
	"database/sql"
	"log/slog"

	"github.com/lexread/lexread-api/internal/config"
	"github.com/lexread/lexread-api/internal/domain/srs"
	"github.com/lexread/lexread-api/internal/platform/postgres"
	"github.com/lexread/lexread-api/internal/service/catalog"
	"github.com/lexread/lexread-api/internal/service/review"
	"github.com/lexread/lexread-api/internal/session"
)

// application holds the assembled dependency graph for the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	reviewService  review.ReviewService
	catalogService catalog.CatalogService
}

// newApplication wires stores, the scheduling engine, the session manager,
// and the services together. It does not start anything.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) *application {
	cardStore := postgres.NewPostgresCardStore(db, logger)
	deckStore := postgres.NewPostgresDeckStore(db, logger)

	scheduler := srs.NewDefaultService()
	clock := session.SystemClock{}
	manager := session.NewManager(
		scheduler,
		clock,
		review.NewStoreCardWriter(cardStore),
		logger,
	)

	return &application{
		config: cfg,
		logger: logger,
		db:     db,
		reviewService: review.NewReviewService(
			db,
			cardStore,
			deckStore,
			manager,
			clock,
			cfg.Session.DueLimit,
			logger,
		),
		catalogService: catalog.NewCatalogService(db, cardStore, deckStore, logger),
	}
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
