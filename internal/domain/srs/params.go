package srs

// Algorithm constants. These are the classic SM-2 values; the review data
// model and stored state assume the same floor, so changing them is a
// migration, not a tuning knob.
const (
	// InitialInterval is the interval in days after the first successful
	// review, and the interval a card falls back to after a lapse.
	InitialInterval = 1

	// SecondInterval is the fixed interval in days after the second
	// consecutive successful review.
	SecondInterval = 6

	// InitialEaseFactor is the ease factor assigned to a new card.
	InitialEaseFactor = 2.5

	// MinEaseFactor is the floor the ease factor can never drop below.
	MinEaseFactor = 1.3
)

// Params defines the configurable parameters of the scheduling algorithm.
type Params struct {
	InitialInterval   int
	SecondInterval    int
	InitialEaseFactor float64
	MinEaseFactor     float64
}

// NewDefaultParams creates a new Params instance with the standard SM-2
// values.
func NewDefaultParams() *Params {
	return &Params{
		InitialInterval:   InitialInterval,
		SecondInterval:    SecondInterval,
		InitialEaseFactor: InitialEaseFactor,
		MinEaseFactor:     MinEaseFactor,
	}
}
