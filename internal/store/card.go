package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lexread/lexread-api/internal/domain"
)

// CardStore defines the interface for card persistence. It owns
// concurrency control over stored card state; the review core assumes
// at most one writer at a time per card ID.
type CardStore interface {
	// Create saves a new card and bumps the owning deck's card count in
	// the same transaction. Returns validation errors if the card data is
	// invalid and ErrDeckNotFound if the deck does not exist.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// GetForUpdate retrieves a card with a row-level lock (SELECT ... FOR
	// UPDATE). Use inside a transaction when the card will be rescheduled,
	// so concurrent reviews of the same card serialize at the store.
	// Returns ErrCardNotFound if the card does not exist.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListByDeck returns a snapshot of all cards in the deck. The snapshot
	// is what due-set selection runs over; ordering is unspecified here
	// because the session manager sorts explicitly.
	ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error)

	// ListDueByDeck returns the cards in the deck due at the given
	// instant, ordered never-reviewed first, then ascending next-review
	// time, ties by card ID, truncated to limit. Mirrors the session
	// manager's in-memory ordering so either path yields the same queue.
	ListDueByDeck(ctx context.Context, deckID uuid.UUID, now time.Time, limit int) ([]*domain.Card, error)

	// UpdateScheduling replaces the card's five scheduling fields with the
	// values carried by the given card, as one atomic write.
	// Returns ErrCardNotFound if the card does not exist.
	UpdateScheduling(ctx context.Context, card *domain.Card) error

	// Delete removes a card and decrements the owning deck's card count in
	// the same transaction. Returns ErrCardNotFound if the card does not
	// exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a CardStore bound to the given transaction so
	// multiple operations can share one atomic scope.
	WithTx(tx *sql.Tx) CardStore
}
