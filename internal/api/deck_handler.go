package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/lexread/lexread-api/internal/api/shared"
	"github.com/lexread/lexread-api/internal/domain"
	"github.com/lexread/lexread-api/internal/platform/logger"
	"github.com/lexread/lexread-api/internal/service/catalog"
	"github.com/lexread/lexread-api/internal/service/review"
)

// CreateDeckRequest represents the request body for creating a deck.
type CreateDeckRequest struct {
	Name      string `json:"name" validate:"required,min=1"`
	SourceRef string `json:"source_ref"`
}

// CreateCardRequest represents the request body for adding a card to a deck.
type CreateCardRequest struct {
	Content json.RawMessage `json:"content" validate:"required"`
}

// SessionRating is one pre-collected rating inside a session request.
type SessionRating struct {
	CardID  string `json:"card_id" validate:"required,uuid"`
	Quality *int   `json:"quality" validate:"required"`
}

// SessionRequest represents the request body for running a study session.
// Ratings may cover only part of the due queue; the session stops cleanly at
// the first due card without a rating.
type SessionRequest struct {
	Ratings []SessionRating `json:"ratings" validate:"dive"`
}

// DeckHandler handles deck-scoped HTTP requests.
type DeckHandler struct {
	reviewService  review.ReviewService
	catalogService catalog.CatalogService
	logger         *slog.Logger
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(
	reviewService review.ReviewService,
	catalogService catalog.CatalogService,
	logger *slog.Logger,
) *DeckHandler {
	if reviewService == nil {
		panic("reviewService cannot be nil")
	}
	if catalogService == nil {
		panic("catalogService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DeckHandler{
		reviewService:  reviewService,
		catalogService: catalogService,
		logger:         logger.With(slog.String("component", "deck_handler")),
	}
}

// CreateDeck handles POST /api/decks requests.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var req CreateDeckRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	deck, err := h.catalogService.CreateDeck(r.Context(), req.Name, req.SourceRef)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, deckToResponse(deck))
}

// GetDeck handles GET /api/decks/{id} requests.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	deckID, ok := parseIDParam(w, r, "deck ID")
	if !ok {
		return
	}

	deck, err := h.catalogService.GetDeck(r.Context(), deckID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, deckToResponse(deck))
}

// DeleteDeck handles DELETE /api/decks/{id} requests.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	deckID, ok := parseIDParam(w, r, "deck ID")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteDeck(r.Context(), deckID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateCard handles POST /api/decks/{id}/cards requests.
func (h *DeckHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	deckID, ok := parseIDParam(w, r, "deck ID")
	if !ok {
		return
	}

	var req CreateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	card, err := h.catalogService.CreateCard(r.Context(), deckID, req.Content)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, cardToResponse(card))
}

// GetDueCards handles GET /api/decks/{id}/due requests. The optional limit
// query parameter truncates the queue; the configured session bound applies
// when it is absent or out of range.
func (h *DeckHandler) GetDueCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	deckID, ok := parseIDParam(w, r, "deck ID")
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	cards, err := h.reviewService.GetDueCards(r.Context(), deckID, limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("due queue served",
		slog.String("deck_id", deckID.String()),
		slog.Int("count", len(cards)))
	shared.RespondWithJSON(w, r, http.StatusOK, DueCardsResponse{
		DeckID: deckID.String(),
		Count:  len(cards),
		Cards:  cardsToResponse(cards),
	})
}

// RunSession handles POST /api/decks/{id}/session requests. The body carries
// pre-collected ratings; the session walks the deck's current due queue in
// order and stops at the first card without a rating. Already-rated cards
// stay rescheduled even when the session ends early.
func (h *DeckHandler) RunSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	deckID, ok := parseIDParam(w, r, "deck ID")
	if !ok {
		return
	}

	var req SessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	events := make([]domain.ReviewEvent, 0, len(req.Ratings))
	for _, rating := range req.Ratings {
		cardID, err := uuid.Parse(rating.CardID)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID in ratings")
			return
		}
		events = append(events, domain.ReviewEvent{
			CardID:  cardID,
			Quality: domain.ReviewQuality(*rating.Quality),
		})
	}

	stats, err := h.reviewService.RunDeckSession(r.Context(), deckID, events)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("session finished",
		slog.String("deck_id", deckID.String()),
		slog.Int("reviewed", stats.Reviewed))
	shared.RespondWithJSON(w, r, http.StatusOK, SessionResponse{
		DeckID: deckID.String(),
		Stats:  *stats,
	})
}
