package domain

import (
	"github.com/google/uuid"
)

// ReviewQuality is the learner's self-reported recall score for one review,
// on the SM-2 scale: 0 (total blackout) through 5 (perfect recall).
type ReviewQuality int

// Bounds of the quality scale.
const (
	MinQuality ReviewQuality = 0
	MaxQuality ReviewQuality = 5
)

// Valid reports whether the quality value is within the 0..5 scale.
func (q ReviewQuality) Valid() bool {
	return q >= MinQuality && q <= MaxQuality
}

// Lapse reports whether the quality counts as a failed recall. Anything
// below 3 resets the card's repetition progress.
func (q ReviewQuality) Lapse() bool {
	return q < 3
}

// ReviewEvent is the ephemeral input to one scheduling step. It is consumed
// by the session manager and never persisted.
type ReviewEvent struct {
	CardID  uuid.UUID     `json:"card_id"`
	Quality ReviewQuality `json:"quality"`
}
