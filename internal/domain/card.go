package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardDeckIDEmpty is returned when a card's deck ID is empty or nil.
	ErrCardDeckIDEmpty = errors.New("card deck ID cannot be empty")

	// ErrCardContentEmpty is returned when a card's content is empty.
	ErrCardContentEmpty = errors.New("card content cannot be empty")

	// ErrCardIntervalInvalid is returned when a card's interval is below the
	// starting interval.
	ErrCardIntervalInvalid = errors.New("card interval must be at least 1")

	// ErrCardEaseFactorInvalid is returned when a card's ease factor is below
	// the algorithm floor.
	ErrCardEaseFactorInvalid = errors.New("card ease factor must be at least 1.3")

	// ErrCardRepetitionsInvalid is returned when a card's repetition count is
	// negative.
	ErrCardRepetitionsInvalid = errors.New("card repetitions cannot be negative")
)

// Stage describes where a card sits in its review lifecycle. It is derived
// from the repetition count and never stored.
type Stage string

const (
	StageUnseen   Stage = "unseen"
	StageLearning Stage = "learning"
	StageMature   Stage = "mature"
)

// Card is a single learnable fact within a deck, together with its
// spaced-repetition scheduling state. Content (front/back text, optional
// usage context) is stored as an opaque JSON document; the scheduler never
// inspects it. The scheduling fields are replaced as one atomic value by a
// review and are never partially updated.
type Card struct {
	ID             uuid.UUID       `json:"id"`
	DeckID         uuid.UUID       `json:"deck_id"`
	Content        json.RawMessage `json:"content"`
	Interval       int             `json:"interval"`
	EaseFactor     float64         `json:"ease_factor"`
	Repetitions    int             `json:"repetitions"`
	LastReviewedAt *time.Time      `json:"last_reviewed_at,omitempty"`
	NextReviewAt   *time.Time      `json:"next_review_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CardContent is the conventional shape of the content document. Cards may
// carry additional fields; this struct exists for producers, not for the
// scheduler, which treats content as raw bytes.
type CardContent struct {
	Front   string `json:"front"`
	Back    string `json:"back"`
	Context string `json:"context,omitempty"`
}

// NewCard creates a card in the given deck with default scheduling state:
// starting interval, default ease factor, zero repetitions, and no review
// history, so the card is due immediately.
func NewCard(deckID uuid.UUID, content json.RawMessage) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:          uuid.New(),
		DeckID:      deckID,
		Content:     content,
		Interval:    1,
		EaseFactor:  2.5,
		Repetitions: 0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.DeckID == uuid.Nil {
		return ErrCardDeckIDEmpty
	}

	if len(c.Content) == 0 {
		return ErrCardContentEmpty
	}

	if c.Interval < 1 {
		return ErrCardIntervalInvalid
	}

	if c.EaseFactor < 1.3 {
		return ErrCardEaseFactorInvalid
	}

	if c.Repetitions < 0 {
		return ErrCardRepetitionsInvalid
	}

	return nil
}

// Seen reports whether the card has ever been reviewed.
func (c *Card) Seen() bool {
	return c.LastReviewedAt != nil && !c.LastReviewedAt.IsZero()
}

// Due reports whether the card is eligible for review at the given instant.
// A card that has never been reviewed is always due.
func (c *Card) Due(now time.Time) bool {
	if c.NextReviewAt == nil || c.NextReviewAt.IsZero() {
		return true
	}
	return !c.NextReviewAt.After(now)
}

// Stage derives the card's lifecycle stage from its review history.
func (c *Card) Stage() Stage {
	switch {
	case !c.Seen():
		return StageUnseen
	case c.Repetitions >= 3:
		return StageMature
	default:
		return StageLearning
	}
}
