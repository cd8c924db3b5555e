package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lexread/lexread-api/internal/domain"
	"github.com/lexread/lexread-api/internal/platform/logger"
	"github.com/lexread/lexread-api/internal/store"
)

// PostgresCardStore implements the store.CardStore interface using a
// PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the
// CardStore interface. It accepts a database connection or transaction
// managed by the caller. If logger is nil, the default logger is used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx implements store.CardStore.WithTx
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}

const cardColumns = `id, deck_id, content, interval_days, ease_factor, repetitions,
	last_reviewed_at, next_review_at, created_at, updated_at`

// Create implements store.CardStore.Create
// It inserts the card and increments the owning deck's denormalized card
// count. Run it through WithTx inside store.RunInTransaction so both
// writes commit or roll back together.
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	query := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		card.ID,
		card.DeckID,
		card.Content,
		card.Interval,
		card.EaseFactor,
		card.Repetitions,
		nullableTime(card.LastReviewedAt),
		nullableTime(card.NextReviewAt),
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("deck not found during card creation",
				slog.String("card_id", card.ID.String()),
				slog.String("deck_id", card.DeckID.String()))
			return fmt.Errorf("%w: deck %s", store.ErrDeckNotFound, card.DeckID)
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: card %s", store.ErrDuplicate, card.ID)
		}

		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	// Keep the deck's display counter in step with the insert.
	_, err = s.db.ExecContext(ctx,
		`UPDATE decks SET card_count = card_count + 1, updated_at = $1 WHERE id = $2`,
		time.Now().UTC(), card.DeckID,
	)
	if err != nil {
		log.Error("failed to increment deck card count",
			slog.String("error", err.Error()),
			slog.String("deck_id", card.DeckID.String()))
		return err
	}

	log.Info("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("deck_id", card.DeckID.String()))
	return nil
}

// GetByID implements store.CardStore.GetByID
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`
	return s.scanCard(ctx, s.db.QueryRowContext(ctx, query, id), id)
}

// GetForUpdate implements store.CardStore.GetForUpdate
// It locks the card row for the duration of the surrounding transaction so
// concurrent reviews of the same card serialize here.
func (s *PostgresCardStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1 FOR UPDATE`
	return s.scanCard(ctx, s.db.QueryRowContext(ctx, query, id), id)
}

// scanCard maps one row onto a domain.Card.
func (s *PostgresCardStore) scanCard(ctx context.Context, row *sql.Row, id uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var card domain.Card
	var lastReviewed, nextReview sql.NullTime

	err := row.Scan(
		&card.ID,
		&card.DeckID,
		&card.Content,
		&card.Interval,
		&card.EaseFactor,
		&card.Repetitions,
		&lastReviewed,
		&nextReview,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, err
	}

	if lastReviewed.Valid {
		card.LastReviewedAt = &lastReviewed.Time
	}
	if nextReview.Valid {
		card.NextReviewAt = &nextReview.Time
	}

	return &card, nil
}

// ListByDeck implements store.CardStore.ListByDeck
func (s *PostgresCardStore) ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE deck_id = $1`
	return s.queryCards(ctx, query, deckID)
}

// ListDueByDeck implements store.CardStore.ListDueByDeck
// The ORDER BY reproduces the session manager's queue ordering:
// never-reviewed cards (NULL next_review_at) first, then ascending
// next-review time, ties broken by card ID.
func (s *PostgresCardStore) ListDueByDeck(
	ctx context.Context,
	deckID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE deck_id = $1 AND (next_review_at IS NULL OR next_review_at <= $2)
		ORDER BY next_review_at ASC NULLS FIRST, id ASC
		LIMIT $3
	`
	return s.queryCards(ctx, query, deckID, now, limit)
}

// queryCards runs a multi-row card query and scans the results.
func (s *PostgresCardStore) queryCards(ctx context.Context, query string, args ...any) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query cards", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var cards []*domain.Card
	for rows.Next() {
		var card domain.Card
		var lastReviewed, nextReview sql.NullTime

		err := rows.Scan(
			&card.ID,
			&card.DeckID,
			&card.Content,
			&card.Interval,
			&card.EaseFactor,
			&card.Repetitions,
			&lastReviewed,
			&nextReview,
			&card.CreatedAt,
			&card.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan card row", slog.String("error", err.Error()))
			return nil, err
		}

		if lastReviewed.Valid {
			card.LastReviewedAt = &lastReviewed.Time
		}
		if nextReview.Valid {
			card.NextReviewAt = &nextReview.Time
		}

		cards = append(cards, &card)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if cards == nil {
		cards = []*domain.Card{}
	}

	return cards, nil
}

// UpdateScheduling implements store.CardStore.UpdateScheduling
// The five scheduling fields are written in a single statement so a card's
// schedule is never observable half-updated.
func (s *PostgresCardStore) UpdateScheduling(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during scheduling update",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	query := `
		UPDATE cards
		SET interval_days = $1,
		    ease_factor = $2,
		    repetitions = $3,
		    last_reviewed_at = $4,
		    next_review_at = $5,
		    updated_at = $6
		WHERE id = $7
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		card.Interval,
		card.EaseFactor,
		card.Repetitions,
		nullableTime(card.LastReviewedAt),
		nullableTime(card.NextReviewAt),
		card.UpdatedAt,
		card.ID,
	)
	if err != nil {
		log.Error("failed to update card scheduling",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	if rowsAffected == 0 {
		return store.ErrCardNotFound
	}

	log.Debug("card scheduling updated",
		slog.String("card_id", card.ID.String()),
		slog.Int("interval", card.Interval),
		slog.Float64("ease_factor", card.EaseFactor))
	return nil
}

// Delete implements store.CardStore.Delete
// Like Create, it adjusts the deck counter in the same statement scope;
// run it inside a transaction.
func (s *PostgresCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var deckID uuid.UUID
	err := s.db.QueryRowContext(ctx,
		`DELETE FROM cards WHERE id = $1 RETURNING deck_id`, id,
	).Scan(&deckID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrCardNotFound
		}
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE decks SET card_count = card_count - 1, updated_at = $1 WHERE id = $2`,
		time.Now().UTC(), deckID,
	)
	if err != nil {
		log.Error("failed to decrement deck card count",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return err
	}

	log.Info("card deleted",
		slog.String("card_id", id.String()),
		slog.String("deck_id", deckID.String()))
	return nil
}

// nullableTime converts an optional timestamp to its SQL representation.
func nullableTime(t *time.Time) sql.NullTime {
	if t == nil || t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
