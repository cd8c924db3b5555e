// Package catalog manages the deck and card inventory: creating decks from
// a source book, adding and removing cards, and looking either up. Review
// scheduling lives elsewhere; this package only maintains what there is to
// study.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lexread/lexread-api/internal/domain"
)

// Common error types for CatalogService
var (
	// ErrCardNotFound indicates that the card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrDeckNotFound indicates that the deck does not exist.
	ErrDeckNotFound = errors.New("deck not found")
)

// CatalogService manages decks and their cards.
type CatalogService interface {
	// CreateDeck creates a new empty deck with the given name and source
	// book reference.
	CreateDeck(ctx context.Context, name, sourceRef string) (*domain.Deck, error)

	// GetDeck retrieves a deck by ID. Returns ErrDeckNotFound if absent.
	GetDeck(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	// DeleteDeck removes a deck and all of its cards.
	// Returns ErrDeckNotFound if absent.
	DeleteDeck(ctx context.Context, id uuid.UUID) error

	// CreateCard adds a card with the given content document to the deck
	// and bumps the deck's card count atomically. Returns ErrDeckNotFound
	// if the deck does not exist.
	CreateCard(ctx context.Context, deckID uuid.UUID, content []byte) (*domain.Card, error)

	// GetCard retrieves a card by ID. Returns ErrCardNotFound if absent.
	GetCard(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// DeleteCard removes a card and decrements its deck's card count
	// atomically. Returns ErrCardNotFound if absent.
	DeleteCard(ctx context.Context, id uuid.UUID) error
}

// ServiceError wraps errors from the catalog service with operation context.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}
