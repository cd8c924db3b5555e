package session

import (
	"context"

	"github.com/google/uuid"
	"github.com/lexread/lexread-api/internal/domain"
)

// EventRatings is a RatingsProvider backed by review events collected ahead
// of time, keyed by card ID. It serves the batch session endpoint, where
// the client submits the ratings for a prefix of the due queue in one
// request. The first due card without a rating ends the session, matching
// a learner who stopped partway through.
type EventRatings struct {
	byCard map[uuid.UUID]domain.ReviewQuality
}

// NewEventRatings builds an EventRatings provider from the given events.
// Later events for the same card win.
func NewEventRatings(events []domain.ReviewEvent) *EventRatings {
	byCard := make(map[uuid.UUID]domain.ReviewQuality, len(events))
	for _, event := range events {
		byCard[event.CardID] = event.Quality
	}
	return &EventRatings{byCard: byCard}
}

// Rate implements RatingsProvider.
func (p *EventRatings) Rate(_ context.Context, card *domain.Card) (domain.ReviewQuality, error) {
	quality, ok := p.byCard[card.ID]
	if !ok {
		return 0, ErrNoMoreRatings
	}
	return quality, nil
}

// ScriptedRatings is a RatingsProvider that replays a fixed sequence of
// qualities in queue order. Intended for tests and automated harnesses.
type ScriptedRatings struct {
	qualities []domain.ReviewQuality
	next      int
}

// NewScriptedRatings creates a provider replaying the given sequence.
func NewScriptedRatings(qualities ...domain.ReviewQuality) *ScriptedRatings {
	return &ScriptedRatings{qualities: qualities}
}

// Rate implements RatingsProvider.
func (p *ScriptedRatings) Rate(_ context.Context, _ *domain.Card) (domain.ReviewQuality, error) {
	if p.next >= len(p.qualities) {
		return 0, ErrNoMoreRatings
	}
	quality := p.qualities[p.next]
	p.next++
	return quality, nil
}
