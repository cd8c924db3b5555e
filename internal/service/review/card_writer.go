package review

import (
	"context"

	"github.com/lexread/lexread-api/internal/domain"
	"github.com/lexread/lexread-api/internal/session"
	"github.com/lexread/lexread-api/internal/store"
)

// Verify interface compliance at compile time
var _ session.CardWriter = (*storeCardWriter)(nil)

// storeCardWriter adapts a CardStore to the session.CardWriter interface so
// session runs commit each rescheduled card as it is rated.
type storeCardWriter struct {
	cards store.CardStore
}

// NewStoreCardWriter returns a session.CardWriter that persists rescheduled
// cards through the given store.
func NewStoreCardWriter(cards store.CardStore) session.CardWriter {
	if cards == nil {
		panic("cards cannot be nil")
	}
	return &storeCardWriter{cards: cards}
}

// SaveCard implements session.CardWriter.
func (w *storeCardWriter) SaveCard(ctx context.Context, card *domain.Card) error {
	return w.cards.UpdateScheduling(ctx, card)
}
