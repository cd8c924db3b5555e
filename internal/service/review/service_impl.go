package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lexread/lexread-api/internal/domain"
	"github.com/lexread/lexread-api/internal/domain/srs"
	"github.com/lexread/lexread-api/internal/platform/logger"
	"github.com/lexread/lexread-api/internal/session"
	"github.com/lexread/lexread-api/internal/store"
)

// Verify interface compliance at compile time
var _ ReviewService = (*reviewServiceImpl)(nil)

// txRunner executes fn inside a transaction scope. Tests substitute a
// pass-through runner; production uses store.RunInTransaction.
type txRunner func(ctx context.Context, db *sql.DB, fn store.TxFn) error

// reviewServiceImpl implements the ReviewService interface.
type reviewServiceImpl struct {
	db        *sql.DB
	cardStore store.CardStore
	deckStore store.DeckStore
	manager   *session.Manager
	clock     session.Clock
	dueLimit  int
	logger    *slog.Logger
	runTx     txRunner
}

// NewReviewService creates a new ReviewService implementation. dueLimit
// bounds every session queue; non-positive values fall back to the session
// package default.
func NewReviewService(
	db *sql.DB,
	cardStore store.CardStore,
	deckStore store.DeckStore,
	manager *session.Manager,
	clock session.Clock,
	dueLimit int,
	logger *slog.Logger,
) ReviewService {
	if db == nil {
		panic("db cannot be nil")
	}
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if deckStore == nil {
		panic("deckStore cannot be nil")
	}
	if manager == nil {
		panic("manager cannot be nil")
	}
	if clock == nil {
		clock = session.SystemClock{}
	}
	if dueLimit <= 0 {
		dueLimit = session.DefaultDueLimit
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &reviewServiceImpl{
		db:        db,
		cardStore: cardStore,
		deckStore: deckStore,
		manager:   manager,
		clock:     clock,
		dueLimit:  dueLimit,
		logger:    logger.With(slog.String("component", "review_service")),
		runTx:     store.RunInTransaction,
	}
}

// GetDueCards implements ReviewService.GetDueCards.
func (s *reviewServiceImpl) GetDueCards(
	ctx context.Context,
	deckID uuid.UUID,
	limit int,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 || limit > s.dueLimit {
		limit = s.dueLimit
	}

	if _, err := s.deckStore.GetByID(ctx, deckID); err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			return nil, ErrDeckNotFound
		}
		return nil, fmt.Errorf("failed to load deck: %w", err)
	}

	now := s.clock.Now()
	due, err := s.cardStore.ListDueByDeck(ctx, deckID, now, limit)
	if err != nil {
		log.Error("failed to list due cards",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, &ServiceError{Operation: "get_due_cards", Message: "failed to load due queue", Err: err}
	}

	log.Debug("due queue loaded",
		slog.String("deck_id", deckID.String()),
		slog.Int("count", len(due)))
	return due, nil
}

// SubmitReview implements ReviewService.SubmitReview.
// The load, reschedule, and write happen inside one transaction with the
// card row locked, so two concurrent reviews of the same card cannot both
// read the same prior state.
func (s *reviewServiceImpl) SubmitReview(
	ctx context.Context,
	cardID uuid.UUID,
	quality domain.ReviewQuality,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Card
	err := s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txCards := s.cardStore.WithTx(tx)

		card, err := txCards.GetForUpdate(ctx, cardID)
		if err != nil {
			if errors.Is(err, store.ErrCardNotFound) {
				return ErrCardNotFound
			}
			return fmt.Errorf("failed to load card: %w", err)
		}

		updated, err = s.manager.RecordReview(card, quality, s.clock.Now())
		if err != nil {
			return err
		}

		return txCards.UpdateScheduling(ctx, updated)
	})
	if err != nil {
		// Typed errors pass through untouched so the transport layer can
		// map them; everything else gets operation context.
		if errors.Is(err, ErrCardNotFound) ||
			errors.Is(err, srs.ErrInvalidQuality) ||
			errors.Is(err, srs.ErrInvalidSchedulingState) {
			return nil, err
		}

		log.Error("failed to submit review",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, &ServiceError{Operation: "submit_review", Message: "failed to apply review", Err: err}
	}

	log.Debug("review recorded",
		slog.String("card_id", cardID.String()),
		slog.Int("quality", int(quality)),
		slog.Int("interval", updated.Interval),
		slog.Float64("ease_factor", updated.EaseFactor))
	return updated, nil
}

// RunDeckSession implements ReviewService.RunDeckSession.
func (s *reviewServiceImpl) RunDeckSession(
	ctx context.Context,
	deckID uuid.UUID,
	events []domain.ReviewEvent,
) (*session.Stats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.deckStore.GetByID(ctx, deckID); err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			return nil, ErrDeckNotFound
		}
		return nil, fmt.Errorf("failed to load deck: %w", err)
	}

	// The queue is selected in memory by the session manager so the batch
	// path runs through the same ordering code an interactive session would.
	cards, err := s.cardStore.ListByDeck(ctx, deckID)
	if err != nil {
		log.Error("failed to list deck cards",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, &ServiceError{Operation: "run_session", Message: "failed to load deck cards", Err: err}
	}
	due := s.manager.SelectDueCards(cards, s.clock.Now(), s.dueLimit)

	ratings := session.NewEventRatings(events)
	stats, err := s.manager.RunSession(ctx, due, ratings)
	if err != nil {
		log.Error("session aborted",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()),
			slog.Int("reviewed", stats.Reviewed))
		return stats, err
	}

	log.Info("session completed",
		slog.String("deck_id", deckID.String()),
		slog.Int("reviewed", stats.Reviewed),
		slog.Int("successes", stats.Successes),
		slog.Int("lapses", stats.Lapses))
	return stats, nil
}
