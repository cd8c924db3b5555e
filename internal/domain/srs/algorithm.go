package srs

import (
	"math"

	"github.com/lexread/lexread-api/internal/domain"
)

// nextEaseFactor computes the updated ease factor for a review of the given
// quality. The adjustment is applied on every review, pass or fail, using
// the SM-2 formula:
//
//	ef' = ef + (0.1 - (5-q) * (0.08 + (5-q) * 0.02))
//
// The result is clamped to the configured floor so a long run of poor
// reviews cannot drive intervals to zero.
func nextEaseFactor(ease float64, quality domain.ReviewQuality, params *Params) float64 {
	q := float64(quality)
	next := ease + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if next < params.MinEaseFactor {
		next = params.MinEaseFactor
	}
	return next
}

// nextInterval computes the interval in days until the next review, given
// the repetition count after this review and the already-updated ease
// factor.
//
// The first two successful steps use fixed intervals; from the third
// consecutive success onward the interval grows multiplicatively by the
// ease factor, rounded half-up and never below one day.
func nextInterval(oldInterval, repetitions int, ease float64, params *Params) int {
	switch repetitions {
	case 1:
		return params.InitialInterval
	case 2:
		return params.SecondInterval
	}

	interval := int(math.Round(float64(oldInterval) * ease))
	if interval < 1 {
		interval = 1
	}
	return interval
}

// schedule applies one review of the given quality to the state and returns
// the resulting state. It assumes inputs have already been validated.
func schedule(state State, quality domain.ReviewQuality, params *Params) State {
	next := State{
		EaseFactor: nextEaseFactor(state.EaseFactor, quality, params),
	}

	if quality.Lapse() {
		// Failed recall: repetition progress restarts and the card comes
		// back after the initial interval, keeping the (lowered) ease.
		next.Repetitions = 0
		next.Interval = params.InitialInterval
		return next
	}

	next.Repetitions = state.Repetitions + 1
	next.Interval = nextInterval(state.Interval, next.Repetitions, next.EaseFactor, params)
	return next
}
