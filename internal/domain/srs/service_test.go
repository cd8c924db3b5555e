package srs

import (
	"errors"
	"math"
	"testing"

	"github.com/lexread/lexread-api/internal/domain"
)

func TestScheduleValidScenarios(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()

	testCases := []struct {
		name     string
		state    State
		quality  domain.ReviewQuality
		expected State
	}{
		{
			name:    "never-reviewed card answered perfectly",
			state:   NewState(),
			quality: 5,
			expected: State{
				Interval:    1,
				EaseFactor:  2.6,
				Repetitions: 1,
			},
		},
		{
			name:    "second-step card graduates to ease-scaled interval",
			state:   State{Interval: 6, EaseFactor: 2.5, Repetitions: 2},
			quality: 4,
			expected: State{
				Interval:    15, // round(6 * 2.5)
				EaseFactor:  2.5,
				Repetitions: 3,
			},
		},
		{
			name:    "first success after reset uses initial interval",
			state:   State{Interval: 1, EaseFactor: 1.7, Repetitions: 0},
			quality: 3,
			expected: State{
				Interval:    1,
				EaseFactor:  1.56, // 1.7 - 0.14
				Repetitions: 1,
			},
		},
		{
			name:    "mature card lapses back to the start",
			state:   State{Interval: 30, EaseFactor: 2.3, Repetitions: 5},
			quality: 1,
			expected: State{
				Interval:    1,
				EaseFactor:  1.76, // 2.3 - 0.54
				Repetitions: 0,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.Schedule(tc.state, tc.quality)
			if err != nil {
				t.Fatalf("Schedule returned unexpected error: %v", err)
			}

			if got.Interval != tc.expected.Interval {
				t.Errorf("Expected interval %d, got %d", tc.expected.Interval, got.Interval)
			}
			if got.Repetitions != tc.expected.Repetitions {
				t.Errorf("Expected repetitions %d, got %d", tc.expected.Repetitions, got.Repetitions)
			}
			if math.Abs(got.EaseFactor-tc.expected.EaseFactor) > 0.01 {
				t.Errorf("Expected ease factor %f, got %f", tc.expected.EaseFactor, got.EaseFactor)
			}
		})
	}
}

func TestScheduleIsDeterministic(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()

	states := []State{
		NewState(),
		{Interval: 6, EaseFactor: 2.5, Repetitions: 2},
		{Interval: 73, EaseFactor: 1.3, Repetitions: 9},
		{Interval: 15, EaseFactor: 2.21, Repetitions: 3},
	}

	for _, state := range states {
		for q := domain.MinQuality; q <= domain.MaxQuality; q++ {
			first, err1 := svc.Schedule(state, q)
			second, err2 := svc.Schedule(state, q)

			if err1 != nil || err2 != nil {
				t.Fatalf("unexpected error for state %+v quality %d: %v / %v", state, q, err1, err2)
			}

			// Bit-identical, not approximately equal.
			if first != second {
				t.Errorf("state %+v quality %d: results differ: %+v vs %+v", state, q, first, second)
			}
		}
	}
}

func TestScheduleRejectsInvalidQuality(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()

	for _, quality := range []domain.ReviewQuality{-1, 6, 100} {
		_, err := svc.Schedule(NewState(), quality)
		if !errors.Is(err, ErrInvalidQuality) {
			t.Errorf("quality %d: expected ErrInvalidQuality, got %v", quality, err)
		}
	}
}

func TestScheduleRejectsCorruptState(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()

	testCases := []struct {
		name  string
		state State
	}{
		{
			name:  "ease below floor",
			state: State{Interval: 1, EaseFactor: 1.1, Repetitions: 0},
		},
		{
			name:  "ease NaN",
			state: State{Interval: 1, EaseFactor: math.NaN(), Repetitions: 0},
		},
		{
			name:  "ease positive infinity",
			state: State{Interval: 1, EaseFactor: math.Inf(1), Repetitions: 0},
		},
		{
			name:  "interval zero",
			state: State{Interval: 0, EaseFactor: 2.5, Repetitions: 0},
		},
		{
			name:  "interval negative",
			state: State{Interval: -3, EaseFactor: 2.5, Repetitions: 1},
		},
		{
			name:  "repetitions negative",
			state: State{Interval: 1, EaseFactor: 2.5, Repetitions: -1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Schedule(tc.state, 4)
			if !errors.Is(err, ErrInvalidSchedulingState) {
				t.Errorf("expected ErrInvalidSchedulingState, got %v", err)
			}
		})
	}
}
