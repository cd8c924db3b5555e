package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lexread/lexread-api/internal/api"
	apiMiddleware "github.com/lexread/lexread-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	deckHandler := api.NewDeckHandler(app.reviewService, app.catalogService, app.logger)
	cardHandler := api.NewCardHandler(app.reviewService, app.catalogService, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Deck endpoints
		r.Post("/decks", deckHandler.CreateDeck)
		r.Get("/decks/{id}", deckHandler.GetDeck)
		r.Delete("/decks/{id}", deckHandler.DeleteDeck)
		r.Post("/decks/{id}/cards", deckHandler.CreateCard)

		// Review endpoints
		r.Get("/decks/{id}/due", deckHandler.GetDueCards)
		r.Post("/decks/{id}/session", deckHandler.RunSession)
		r.Post("/cards/{id}/review", cardHandler.SubmitReview)

		// Card endpoints
		r.Get("/cards/{id}", cardHandler.GetCard)
		r.Delete("/cards/{id}", cardHandler.DeleteCard)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
