// Package review wires the scheduling core to persistence: it loads due
// queues, runs reviews and whole sessions inside the right transaction
// scopes, and maps store failures onto service-level errors.
package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lexread/lexread-api/internal/domain"
	"github.com/lexread/lexread-api/internal/session"
)

// Common error types for ReviewService
var (
	// ErrCardNotFound indicates that the card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrDeckNotFound indicates that the deck does not exist.
	ErrDeckNotFound = errors.New("deck not found")
)

// ReviewService exposes the review core's operations against stored decks.
type ReviewService interface {
	// GetDueCards returns the deck's due queue at the current instant,
	// ordered for presentation and truncated to limit (the configured
	// session bound applies when limit is non-positive or larger).
	// An empty queue is a normal result, not an error.
	GetDueCards(ctx context.Context, deckID uuid.UUID, limit int) ([]*domain.Card, error)

	// SubmitReview applies one rated review to a card and persists the
	// rescheduled card atomically. The card row is locked for the
	// duration, serializing concurrent reviews of the same card.
	SubmitReview(ctx context.Context, cardID uuid.UUID, quality domain.ReviewQuality) (*domain.Card, error)

	// RunDeckSession runs a study session over the deck's current due
	// queue using the given pre-collected ratings. Each resolved card is
	// committed as it is rated, so an aborted session keeps its partial
	// progress. Returns the session statistics.
	RunDeckSession(ctx context.Context, deckID uuid.UUID, events []domain.ReviewEvent) (*session.Stats, error)
}

// ServiceError wraps errors from the review service with operation
// context, so consumers can branch with errors.As instead of string
// matching.
type ServiceError struct {
	Operation string // the operation that failed, e.g. "submit_review"
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
