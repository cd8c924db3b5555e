package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexread/lexread-api/internal/domain"
	"github.com/lexread/lexread-api/internal/service/catalog"
	"github.com/lexread/lexread-api/internal/service/review"
	"github.com/lexread/lexread-api/internal/session"
)

func deckRouter(reviews review.ReviewService, catalogs catalog.CatalogService) http.Handler {
	h := NewDeckHandler(reviews, catalogs, nil)
	r := chi.NewRouter()
	r.Post("/api/decks", h.CreateDeck)
	r.Get("/api/decks/{id}", h.GetDeck)
	r.Delete("/api/decks/{id}", h.DeleteDeck)
	r.Post("/api/decks/{id}/cards", h.CreateCard)
	r.Get("/api/decks/{id}/due", h.GetDueCards)
	r.Post("/api/decks/{id}/session", h.RunSession)
	return r
}

func testDeck(t *testing.T) *domain.Deck {
	t.Helper()
	deck, err := domain.NewDeck("Cien Años de Soledad", "cien-anos-1967")
	require.NoError(t, err)
	return deck
}

func TestCreateDeckEndpoint(t *testing.T) {
	t.Parallel()

	deck := testDeck(t)
	router := deckRouter(&fakeReviewService{}, &fakeCatalogService{deck: deck})

	body := bytes.NewBufferString(`{"name": "Cien Años de Soledad", "source_ref": "cien-anos-1967"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/decks", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp DeckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, deck.ID.String(), resp.ID)
	assert.Equal(t, "Cien Años de Soledad", resp.Name)
}

func TestCreateDeckRequiresName(t *testing.T) {
	t.Parallel()

	router := deckRouter(&fakeReviewService{}, &fakeCatalogService{})

	body := bytes.NewBufferString(`{"source_ref": "x"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/decks", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDeckNotFoundEndpoint(t *testing.T) {
	t.Parallel()

	router := deckRouter(&fakeReviewService{}, &fakeCatalogService{err: catalog.ErrDeckNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/decks/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Deck not found")
}

func TestCreateCardEndpoint(t *testing.T) {
	t.Parallel()

	card := reviewedCard(t)
	router := deckRouter(&fakeReviewService{}, &fakeCatalogService{card: card})

	body := bytes.NewBufferString(`{"content": {"front": "luna", "back": "moon"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/decks/"+card.DeckID.String()+"/cards", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestGetDueCardsEndpoint(t *testing.T) {
	t.Parallel()

	deckID := uuid.New()
	a := reviewedCard(t)
	b := reviewedCard(t)
	reviews := &fakeReviewService{dueCards: []*domain.Card{a, b}}
	router := deckRouter(reviews, &fakeCatalogService{})

	req := httptest.NewRequest(http.MethodGet, "/api/decks/"+deckID.String()+"/due?limit=5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp DueCardsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, deckID.String(), resp.DeckID)
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Cards, 2)
	assert.Equal(t, a.ID.String(), resp.Cards[0].ID, "queue order is preserved")
}

func TestGetDueCardsRejectsBadLimit(t *testing.T) {
	t.Parallel()

	router := deckRouter(&fakeReviewService{}, &fakeCatalogService{})

	req := httptest.NewRequest(http.MethodGet, "/api/decks/"+uuid.NewString()+"/due?limit=abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunSessionEndpoint(t *testing.T) {
	t.Parallel()

	cardID := uuid.New()
	reviews := &fakeReviewService{stats: &session.Stats{Reviewed: 1, Successes: 1}}
	router := deckRouter(reviews, &fakeCatalogService{})

	body := bytes.NewBufferString(`{"ratings": [{"card_id": "` + cardID.String() + `", "quality": 5}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/decks/"+uuid.NewString()+"/session", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, reviews.gotEvents, 1)
	assert.Equal(t, cardID, reviews.gotEvents[0].CardID)
	assert.Equal(t, domain.ReviewQuality(5), reviews.gotEvents[0].Quality)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Stats.Reviewed)
	assert.Equal(t, 1, resp.Stats.Successes)
}

func TestRunSessionEmptyRatings(t *testing.T) {
	t.Parallel()

	reviews := &fakeReviewService{stats: &session.Stats{}}
	router := deckRouter(reviews, &fakeCatalogService{})

	body := bytes.NewBufferString(`{"ratings": []}`)
	req := httptest.NewRequest(http.MethodPost, "/api/decks/"+uuid.NewString()+"/session", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Stats.Reviewed)
}

func TestRunSessionRejectsMalformedRating(t *testing.T) {
	t.Parallel()

	router := deckRouter(&fakeReviewService{}, &fakeCatalogService{})

	body := bytes.NewBufferString(`{"ratings": [{"card_id": "nope", "quality": 3}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/decks/"+uuid.NewString()+"/session", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
