package api

import (
	"encoding/json"
	"time"

	"github.com/lexread/lexread-api/internal/domain"
	"github.com/lexread/lexread-api/internal/session"
)

// SchedulingState is the wire form of a card's scheduling fields. The
// timestamps are epoch milliseconds, null until the card's first review,
// so any client or store can consume the layout without parsing RFC 3339.
type SchedulingState struct {
	CardID       string  `json:"cardId"`
	Interval     int     `json:"interval"`
	EaseFactor   float64 `json:"easeFactor"`
	Repetitions  int     `json:"repetitions"`
	LastReviewed *int64  `json:"lastReviewed"`
	NextReview   *int64  `json:"nextReview"`
}

// CardResponse represents the response data for a card.
type CardResponse struct {
	ID         string          `json:"id"`
	DeckID     string          `json:"deck_id"`
	Content    json.RawMessage `json:"content"`
	Scheduling SchedulingState `json:"scheduling"`
	Stage      string          `json:"stage"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// DeckResponse represents the response data for a deck.
type DeckResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SourceRef string    `json:"source_ref,omitempty"`
	CardCount int       `json:"card_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DueCardsResponse wraps a deck's due queue.
type DueCardsResponse struct {
	DeckID string         `json:"deck_id"`
	Count  int            `json:"count"`
	Cards  []CardResponse `json:"cards"`
}

// SessionResponse reports the outcome of a study session.
type SessionResponse struct {
	DeckID string        `json:"deck_id"`
	Stats  session.Stats `json:"stats"`
}

// cardToResponse converts a domain.Card to a CardResponse.
func cardToResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:      card.ID.String(),
		DeckID:  card.DeckID.String(),
		Content: card.Content,
		Scheduling: SchedulingState{
			CardID:       card.ID.String(),
			Interval:     card.Interval,
			EaseFactor:   card.EaseFactor,
			Repetitions:  card.Repetitions,
			LastReviewed: timeToMillis(card.LastReviewedAt),
			NextReview:   timeToMillis(card.NextReviewAt),
		},
		Stage:     string(card.Stage()),
		CreatedAt: card.CreatedAt,
		UpdatedAt: card.UpdatedAt,
	}
}

// cardsToResponse converts a slice of cards, preserving order.
func cardsToResponse(cards []*domain.Card) []CardResponse {
	out := make([]CardResponse, 0, len(cards))
	for _, card := range cards {
		out = append(out, cardToResponse(card))
	}
	return out
}

// deckToResponse converts a domain.Deck to a DeckResponse.
func deckToResponse(deck *domain.Deck) DeckResponse {
	return DeckResponse{
		ID:        deck.ID.String(),
		Name:      deck.Name,
		SourceRef: deck.SourceRef,
		CardCount: deck.CardCount,
		CreatedAt: deck.CreatedAt,
		UpdatedAt: deck.UpdatedAt,
	}
}

// timeToMillis converts an optional timestamp to epoch milliseconds.
func timeToMillis(t *time.Time) *int64 {
	if t == nil || t.IsZero() {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}
