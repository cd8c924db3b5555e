package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lexread/lexread-api/internal/domain"
)

// DeckStore defines the interface for deck persistence.
type DeckStore interface {
	// Create saves a new deck.
	// Returns validation errors if the deck data is invalid.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID retrieves a deck by its unique ID.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	// Delete removes a deck. Associated cards are removed by the schema's
	// ON DELETE CASCADE constraint. Returns ErrDeckNotFound if the deck
	// does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a DeckStore bound to the given transaction.
	WithTx(tx *sql.Tx) DeckStore
}
