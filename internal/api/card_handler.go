// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lexread/lexread-api/internal/api/shared"
	"github.com/lexread/lexread-api/internal/domain"
	"github.com/lexread/lexread-api/internal/platform/logger"
	"github.com/lexread/lexread-api/internal/service/catalog"
	"github.com/lexread/lexread-api/internal/service/review"
)

// ReviewRequest represents the request body for rating a card. Quality is a
// pointer so a legitimate rating of 0 is distinguishable from a missing
// field.
type ReviewRequest struct {
	Quality *int `json:"quality" validate:"required"`
}

// CardHandler handles card-scoped HTTP requests.
type CardHandler struct {
	reviewService  review.ReviewService
	catalogService catalog.CatalogService
	logger         *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(
	reviewService review.ReviewService,
	catalogService catalog.CatalogService,
	logger *slog.Logger,
) *CardHandler {
	if reviewService == nil {
		panic("reviewService cannot be nil")
	}
	if catalogService == nil {
		panic("catalogService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CardHandler{
		reviewService:  reviewService,
		catalogService: catalogService,
		logger:         logger.With(slog.String("component", "card_handler")),
	}
}

// GetCard handles GET /api/cards/{id} requests.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	cardID, ok := parseIDParam(w, r, "card ID")
	if !ok {
		return
	}

	card, err := h.catalogService.GetCard(r.Context(), cardID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// SubmitReview handles POST /api/cards/{id}/review requests. It applies one
// quality rating to the card and returns the rescheduled card.
func (h *CardHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID, ok := parseIDParam(w, r, "card ID")
	if !ok {
		return
	}

	var req ReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	// Range checking is the engine's job; an out-of-range rating comes back
	// as a typed error and maps to 400 below.
	card, err := h.reviewService.SubmitReview(r.Context(), cardID, domain.ReviewQuality(*req.Quality))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("review submitted",
		slog.String("card_id", cardID.String()),
		slog.Int("quality", *req.Quality))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// DeleteCard handles DELETE /api/cards/{id} requests.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	cardID, ok := parseIDParam(w, r, "card ID")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteCard(r.Context(), cardID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseIDParam extracts and parses the {id} URL parameter, writing a 400
// response when it is not a UUID.
func parseIDParam(w http.ResponseWriter, r *http.Request, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+label)
		return uuid.Nil, false
	}
	return id, true
}
