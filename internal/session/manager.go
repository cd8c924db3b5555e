package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/lexread/lexread-api/internal/domain"
	"github.com/lexread/lexread-api/internal/domain/srs"
)

// DefaultDueLimit bounds the due queue when the caller does not supply a
// limit, keeping a single study session to a UI-sized batch.
const DefaultDueLimit = 20

// Common errors
var (
	// ErrNoMoreRatings is returned by a RatingsProvider when the learner has
	// stopped rating. RunSession treats it as a clean early end of the
	// session, keeping the progress made so far.
	ErrNoMoreRatings = errors.New("no more ratings")
)

// RatingsProvider supplies the quality rating for each card presented
// during a session. Typically backed by the study UI; tests use a scripted
// provider.
type RatingsProvider interface {
	Rate(ctx context.Context, card *domain.Card) (domain.ReviewQuality, error)
}

// CardWriter persists a rescheduled card. The session manager calls it once
// per resolved card, so a cancelled session leaves every already-rated card
// durably rescheduled.
type CardWriter interface {
	SaveCard(ctx context.Context, card *domain.Card) error
}

// Stats summarizes one study session.
type Stats struct {
	Reviewed      int     `json:"reviewed"`       // cards resolved during the session
	Successes     int     `json:"successes"`      // reviews with quality >= 3
	Lapses        int     `json:"lapses"`         // reviews with quality < 3
	EaseDrift     float64 `json:"ease_drift"`     // net ease factor change across the session
	IntervalDrift int     `json:"interval_drift"` // net interval change in days
}

// Manager runs study sessions against a deck's card collection.
type Manager struct {
	scheduler srs.Service
	clock     Clock
	writer    CardWriter
	logger    *slog.Logger
}

// NewManager creates a session Manager. The writer may be nil when the
// caller persists cards itself (for example when reviews are recorded one
// at a time over the API).
func NewManager(scheduler srs.Service, clock Clock, writer CardWriter, logger *slog.Logger) *Manager {
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		scheduler: scheduler,
		clock:     clock,
		writer:    writer,
		logger:    logger.With(slog.String("component", "session_manager")),
	}
}

// SelectDueCards filters the snapshot to cards due at the given instant and
// orders them for presentation: never-reviewed cards first, then ascending
// next-review time, ties broken by card ID so the ordering is identical
// across calls with the same input. The result is truncated to limit;
// a non-positive limit falls back to DefaultDueLimit.
//
// The input slice is not modified and no card with a future next-review
// time is ever returned.
func (m *Manager) SelectDueCards(cards []*domain.Card, now time.Time, limit int) []*domain.Card {
	if limit <= 0 {
		limit = DefaultDueLimit
	}

	due := make([]*domain.Card, 0, len(cards))
	for _, card := range cards {
		if card.Due(now) {
			due = append(due, card)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		a, b := due[i], due[j]
		aSeen := a.NextReviewAt != nil && !a.NextReviewAt.IsZero()
		bSeen := b.NextReviewAt != nil && !b.NextReviewAt.IsZero()

		switch {
		case !aSeen && !bSeen:
			return a.ID.String() < b.ID.String()
		case !aSeen:
			return true
		case !bSeen:
			return false
		case a.NextReviewAt.Equal(*b.NextReviewAt):
			return a.ID.String() < b.ID.String()
		default:
			return a.NextReviewAt.Before(*b.NextReviewAt)
		}
	})

	if len(due) > limit {
		due = due[:limit]
	}
	return due
}

// RecordReview applies one review to the card and returns a new Card value
// with the scheduling fields replaced as a unit: interval, ease factor, and
// repetitions from the engine, last-reviewed stamped at now, and the next
// review scheduled interval days out. Identity and content are never
// touched, and the input card is not mutated.
//
// Nothing is persisted; writing the returned card back is the caller's
// responsibility.
func (m *Manager) RecordReview(card *domain.Card, quality domain.ReviewQuality, now time.Time) (*domain.Card, error) {
	next, err := m.scheduler.Schedule(srs.State{
		Interval:    card.Interval,
		EaseFactor:  card.EaseFactor,
		Repetitions: card.Repetitions,
	}, quality)
	if err != nil {
		return nil, err
	}

	reviewedAt := now
	nextReviewAt := now.AddDate(0, 0, next.Interval)

	updated := *card
	updated.Interval = next.Interval
	updated.EaseFactor = next.EaseFactor
	updated.Repetitions = next.Repetitions
	updated.LastReviewedAt = &reviewedAt
	updated.NextReviewAt = &nextReviewAt
	updated.UpdatedAt = now

	return &updated, nil
}

// RunSession walks the due queue strictly in order, one card at a time:
// rate, reschedule, persist, advance. Cancellation is cooperative and
// checked between cards; an abort after card N leaves cards 1..N
// rescheduled and the rest untouched.
//
// The returned Stats always reflect the progress actually made, including
// when an error cut the session short.
func (m *Manager) RunSession(ctx context.Context, dueCards []*domain.Card, ratings RatingsProvider) (*Stats, error) {
	if ratings == nil {
		panic("ratings provider cannot be nil")
	}

	stats := &Stats{}

	for _, card := range dueCards {
		if err := ctx.Err(); err != nil {
			m.logger.Debug("session cancelled",
				slog.Int("reviewed", stats.Reviewed),
				slog.Int("remaining", len(dueCards)-stats.Reviewed))
			return stats, err
		}

		quality, err := ratings.Rate(ctx, card)
		if err != nil {
			if errors.Is(err, ErrNoMoreRatings) {
				m.logger.Debug("session ended by learner",
					slog.Int("reviewed", stats.Reviewed))
				return stats, nil
			}
			return stats, fmt.Errorf("failed to obtain rating: %w", err)
		}

		now := m.clock.Now()
		updated, err := m.RecordReview(card, quality, now)
		if err != nil {
			return stats, err
		}

		if m.writer != nil {
			if err := m.writer.SaveCard(ctx, updated); err != nil {
				return stats, fmt.Errorf("failed to persist card %s: %w", card.ID, err)
			}
		}

		stats.Reviewed++
		if quality.Lapse() {
			stats.Lapses++
		} else {
			stats.Successes++
		}
		stats.EaseDrift += updated.EaseFactor - card.EaseFactor
		stats.IntervalDrift += updated.Interval - card.Interval

		m.logger.Debug("card reviewed",
			slog.String("card_id", card.ID.String()),
			slog.Int("quality", int(quality)),
			slog.Int("interval", updated.Interval),
			slog.Float64("ease_factor", updated.EaseFactor))
	}

	return stats, nil
}
