package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Deck-specific validation errors
var (
	// ErrDeckIDEmpty is returned when a deck ID is empty or nil.
	ErrDeckIDEmpty = errors.New("deck ID cannot be empty")

	// ErrDeckNameEmpty is returned when a deck's name is empty.
	ErrDeckNameEmpty = errors.New("deck name cannot be empty")

	// ErrDeckCardCountInvalid is returned when a deck's card count is negative.
	ErrDeckCardCountInvalid = errors.New("deck card count cannot be negative")
)

// Deck is a named collection of cards drawn from one source book. It holds
// no scheduling logic of its own; CardCount is a denormalized display
// counter maintained by the store alongside card writes.
type Deck struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SourceRef string    `json:"source_ref,omitempty"` // identifier of the originating book
	CardCount int       `json:"card_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDeck creates a new empty Deck with the given name and source reference.
func NewDeck(name, sourceRef string) (*Deck, error) {
	now := time.Now().UTC()
	deck := &Deck{
		ID:        uuid.New(),
		Name:      name,
		SourceRef: sourceRef,
		CardCount: 0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDeckIDEmpty
	}

	if d.Name == "" {
		return ErrDeckNameEmpty
	}

	if d.CardCount < 0 {
		return ErrDeckCardCountInvalid
	}

	return nil
}
