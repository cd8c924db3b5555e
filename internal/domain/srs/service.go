// Package srs implements the SM-2 spaced-repetition scheduling algorithm
// as a pure, deterministic state transformation. It never touches the
// clock, storage, or randomness; converting an interval into an actual
// next-review timestamp is the session manager's job.
package srs

import (
	"errors"
	"fmt"
	"math"

	"github.com/lexread/lexread-api/internal/domain"
)

// Common errors
var (
	// ErrInvalidQuality is returned when a review quality is outside the
	// 0..5 scale. The caller should re-prompt rather than guess a default.
	ErrInvalidQuality = errors.New("review quality must be between 0 and 5")

	// ErrInvalidSchedulingState is returned when the input state violates
	// the algorithm's invariants (ease below floor, non-finite ease,
	// interval below 1, negative repetitions). This indicates corrupted
	// stored state and is never silently repaired.
	ErrInvalidSchedulingState = errors.New("invalid scheduling state")
)

// State is a card's scheduling state as seen by the algorithm: the interval
// in days until the next review, the ease factor controlling interval
// growth, and the count of consecutive successful reviews since the last
// lapse.
type State struct {
	Interval    int
	EaseFactor  float64
	Repetitions int
}

// NewState returns the scheduling state assigned to a card that has never
// been reviewed.
func NewState() State {
	return State{
		Interval:    InitialInterval,
		EaseFactor:  InitialEaseFactor,
		Repetitions: 0,
	}
}

// Service defines the interface for scheduling operations.
type Service interface {
	// Schedule computes the state a card moves to after one review of the
	// given quality. Same inputs always produce identical outputs.
	Schedule(state State, quality domain.ReviewQuality) (State, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a scheduling service with the standard SM-2
// parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a scheduling service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// Schedule implements the Service interface. Inputs are validated before
// any computation; invalid state surfaces immediately instead of
// compounding across reviews.
func (s *defaultService) Schedule(state State, quality domain.ReviewQuality) (State, error) {
	if !quality.Valid() {
		return State{}, fmt.Errorf("%w: got %d", ErrInvalidQuality, quality)
	}

	if err := s.validateState(state); err != nil {
		return State{}, err
	}

	return schedule(state, quality, s.params), nil
}

// validateState rejects state that violates the algorithm's invariants.
func (s *defaultService) validateState(state State) error {
	if math.IsNaN(state.EaseFactor) || math.IsInf(state.EaseFactor, 0) {
		return fmt.Errorf("%w: ease factor is not finite", ErrInvalidSchedulingState)
	}
	if state.EaseFactor < s.params.MinEaseFactor {
		return fmt.Errorf("%w: ease factor %.4f below floor %.2f",
			ErrInvalidSchedulingState, state.EaseFactor, s.params.MinEaseFactor)
	}
	if state.Interval < 1 {
		return fmt.Errorf("%w: interval %d below 1", ErrInvalidSchedulingState, state.Interval)
	}
	if state.Repetitions < 0 {
		return fmt.Errorf("%w: repetitions %d negative", ErrInvalidSchedulingState, state.Repetitions)
	}
	return nil
}
