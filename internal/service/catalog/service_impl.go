package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lexread/lexread-api/internal/domain"
	"github.com/lexread/lexread-api/internal/platform/logger"
	"github.com/lexread/lexread-api/internal/store"
)

// Verify interface compliance at compile time
var _ CatalogService = (*catalogServiceImpl)(nil)

// txRunner executes fn inside a transaction scope. Tests substitute a
// pass-through runner; production uses store.RunInTransaction.
type txRunner func(ctx context.Context, db *sql.DB, fn store.TxFn) error

// catalogServiceImpl implements the CatalogService interface.
type catalogServiceImpl struct {
	db        *sql.DB
	cardStore store.CardStore
	deckStore store.DeckStore
	logger    *slog.Logger
	runTx     txRunner
}

// NewCatalogService creates a new CatalogService implementation.
func NewCatalogService(
	db *sql.DB,
	cardStore store.CardStore,
	deckStore store.DeckStore,
	logger *slog.Logger,
) CatalogService {
	if db == nil {
		panic("db cannot be nil")
	}
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if deckStore == nil {
		panic("deckStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &catalogServiceImpl{
		db:        db,
		cardStore: cardStore,
		deckStore: deckStore,
		logger:    logger.With(slog.String("component", "catalog_service")),
		runTx:     store.RunInTransaction,
	}
}

// CreateDeck implements CatalogService.CreateDeck.
func (s *catalogServiceImpl) CreateDeck(ctx context.Context, name, sourceRef string) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := domain.NewDeck(name, sourceRef)
	if err != nil {
		return nil, err
	}

	if err := s.deckStore.Create(ctx, deck); err != nil {
		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.String("deck_name", name))
		return nil, &ServiceError{Operation: "create_deck", Message: "failed to save deck", Err: err}
	}

	log.Info("deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.String("deck_name", deck.Name))
	return deck, nil
}

// GetDeck implements CatalogService.GetDeck.
func (s *catalogServiceImpl) GetDeck(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	deck, err := s.deckStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			return nil, ErrDeckNotFound
		}
		return nil, &ServiceError{Operation: "get_deck", Message: "failed to load deck", Err: err}
	}
	return deck, nil
}

// DeleteDeck implements CatalogService.DeleteDeck.
func (s *catalogServiceImpl) DeleteDeck(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.deckStore.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			return ErrDeckNotFound
		}
		log.Error("failed to delete deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", id.String()))
		return &ServiceError{Operation: "delete_deck", Message: "failed to delete deck", Err: err}
	}

	log.Info("deck deleted", slog.String("deck_id", id.String()))
	return nil
}

// CreateCard implements CatalogService.CreateCard.
// The card insert and the deck count bump share one transaction.
func (s *catalogServiceImpl) CreateCard(ctx context.Context, deckID uuid.UUID, content []byte) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := domain.NewCard(deckID, json.RawMessage(content))
	if err != nil {
		return nil, err
	}

	err = s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.cardStore.WithTx(tx).Create(ctx, card)
	})
	if err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			return nil, ErrDeckNotFound
		}
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, &ServiceError{Operation: "create_card", Message: "failed to save card", Err: err}
	}

	log.Info("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("deck_id", deckID.String()))
	return card, nil
}

// GetCard implements CatalogService.GetCard.
func (s *catalogServiceImpl) GetCard(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	card, err := s.cardStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, &ServiceError{Operation: "get_card", Message: "failed to load card", Err: err}
	}
	return card, nil
}

// DeleteCard implements CatalogService.DeleteCard.
// The card delete and the deck count decrement share one transaction.
func (s *catalogServiceImpl) DeleteCard(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.cardStore.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return ErrCardNotFound
		}
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return &ServiceError{Operation: "delete_card", Message: "failed to delete card", Err: err}
	}

	log.Info("card deleted", slog.String("card_id", id.String()))
	return nil
}
