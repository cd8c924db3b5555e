package review

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexread/lexread-api/internal/domain"
	"github.com/lexread/lexread-api/internal/domain/srs"
	"github.com/lexread/lexread-api/internal/session"
	"github.com/lexread/lexread-api/internal/store"
)

// fakeCardStore is an in-memory CardStore for service tests. It records the
// limit passed to ListDueByDeck and every card written through
// UpdateScheduling.
type fakeCardStore struct {
	cards          map[uuid.UUID]*domain.Card
	dueCards       []*domain.Card
	requestedLimit int
	saved          []*domain.Card
}

var _ store.CardStore = (*fakeCardStore)(nil)

func newFakeCardStore() *fakeCardStore {
	return &fakeCardStore{cards: make(map[uuid.UUID]*domain.Card)}
}

func (f *fakeCardStore) Create(_ context.Context, card *domain.Card) error {
	f.cards[card.ID] = card
	return nil
}

func (f *fakeCardStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Card, error) {
	card, ok := f.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	copied := *card
	return &copied, nil
}

func (f *fakeCardStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeCardStore) ListByDeck(_ context.Context, _ uuid.UUID) ([]*domain.Card, error) {
	return f.dueCards, nil
}

func (f *fakeCardStore) ListDueByDeck(_ context.Context, _ uuid.UUID, _ time.Time, limit int) ([]*domain.Card, error) {
	f.requestedLimit = limit
	if len(f.dueCards) > limit {
		return f.dueCards[:limit], nil
	}
	return f.dueCards, nil
}

func (f *fakeCardStore) UpdateScheduling(_ context.Context, card *domain.Card) error {
	if _, ok := f.cards[card.ID]; !ok {
		return store.ErrCardNotFound
	}
	copied := *card
	f.cards[card.ID] = &copied
	f.saved = append(f.saved, &copied)
	return nil
}

func (f *fakeCardStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.cards[id]; !ok {
		return store.ErrCardNotFound
	}
	delete(f.cards, id)
	return nil
}

func (f *fakeCardStore) WithTx(_ *sql.Tx) store.CardStore {
	return f
}

// fakeDeckStore knows a fixed set of deck IDs.
type fakeDeckStore struct {
	decks map[uuid.UUID]*domain.Deck
}

var _ store.DeckStore = (*fakeDeckStore)(nil)

func newFakeDeckStore(ids ...uuid.UUID) *fakeDeckStore {
	decks := make(map[uuid.UUID]*domain.Deck, len(ids))
	for _, id := range ids {
		decks[id] = &domain.Deck{ID: id, Name: "deck " + id.String()[:8]}
	}
	return &fakeDeckStore{decks: decks}
}

func (f *fakeDeckStore) Create(_ context.Context, deck *domain.Deck) error {
	f.decks[deck.ID] = deck
	return nil
}

func (f *fakeDeckStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Deck, error) {
	deck, ok := f.decks[id]
	if !ok {
		return nil, store.ErrDeckNotFound
	}
	return deck, nil
}

func (f *fakeDeckStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.decks[id]; !ok {
		return store.ErrDeckNotFound
	}
	delete(f.decks, id)
	return nil
}

func (f *fakeDeckStore) WithTx(_ *sql.Tx) store.DeckStore {
	return f
}

// passthroughTx runs the transaction body directly with a nil *sql.Tx; the
// fake stores ignore the transaction handle.
func passthroughTx(ctx context.Context, _ *sql.DB, fn store.TxFn) error {
	return fn(ctx, nil)
}

func testService(t *testing.T, cards *fakeCardStore, decks *fakeDeckStore, now time.Time, dueLimit int) *reviewServiceImpl {
	t.Helper()

	clock := session.FixedClock{Time: now}
	manager := session.NewManager(
		srs.NewDefaultService(),
		clock,
		NewStoreCardWriter(cards),
		slog.Default(),
	)

	return &reviewServiceImpl{
		cardStore: cards,
		deckStore: decks,
		manager:   manager,
		clock:     clock,
		dueLimit:  dueLimit,
		logger:    slog.Default(),
		runTx:     passthroughTx,
	}
}

func testCard(t *testing.T, deckID uuid.UUID) *domain.Card {
	t.Helper()
	card, err := domain.NewCard(deckID, json.RawMessage(`{"front":"hola","back":"hello"}`))
	require.NoError(t, err)
	return card
}

func TestGetDueCards(t *testing.T) {
	t.Parallel()

	deckID := uuid.New()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("returns the store's due queue", func(t *testing.T) {
		t.Parallel()

		cards := newFakeCardStore()
		a := testCard(t, deckID)
		b := testCard(t, deckID)
		cards.dueCards = []*domain.Card{a, b}

		svc := testService(t, cards, newFakeDeckStore(deckID), now, 20)

		due, err := svc.GetDueCards(context.Background(), deckID, 10)
		require.NoError(t, err)
		assert.Len(t, due, 2)
		assert.Equal(t, 10, cards.requestedLimit)
	})

	t.Run("clamps the limit to the configured bound", func(t *testing.T) {
		t.Parallel()

		cards := newFakeCardStore()
		svc := testService(t, cards, newFakeDeckStore(deckID), now, 20)

		_, err := svc.GetDueCards(context.Background(), deckID, 500)
		require.NoError(t, err)
		assert.Equal(t, 20, cards.requestedLimit)

		_, err = svc.GetDueCards(context.Background(), deckID, 0)
		require.NoError(t, err)
		assert.Equal(t, 20, cards.requestedLimit)
	})

	t.Run("unknown deck", func(t *testing.T) {
		t.Parallel()

		svc := testService(t, newFakeCardStore(), newFakeDeckStore(), now, 20)

		_, err := svc.GetDueCards(context.Background(), uuid.New(), 10)
		assert.ErrorIs(t, err, ErrDeckNotFound)
	})

	t.Run("empty queue is not an error", func(t *testing.T) {
		t.Parallel()

		svc := testService(t, newFakeCardStore(), newFakeDeckStore(deckID), now, 20)

		due, err := svc.GetDueCards(context.Background(), deckID, 10)
		require.NoError(t, err)
		assert.Empty(t, due)
	})
}

func TestSubmitReview(t *testing.T) {
	t.Parallel()

	deckID := uuid.New()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("perfect recall on an unseen card", func(t *testing.T) {
		t.Parallel()

		cards := newFakeCardStore()
		card := testCard(t, deckID)
		require.NoError(t, cards.Create(context.Background(), card))

		svc := testService(t, cards, newFakeDeckStore(deckID), now, 20)

		updated, err := svc.SubmitReview(context.Background(), card.ID, 5)
		require.NoError(t, err)

		assert.Equal(t, 1, updated.Interval)
		assert.InDelta(t, 2.6, updated.EaseFactor, 1e-9)
		assert.Equal(t, 1, updated.Repetitions)
		require.NotNil(t, updated.LastReviewedAt)
		assert.Equal(t, now, *updated.LastReviewedAt)
		require.NotNil(t, updated.NextReviewAt)
		assert.Equal(t, now.AddDate(0, 0, 1), *updated.NextReviewAt)

		// The rescheduled card must be what was persisted.
		require.Len(t, cards.saved, 1)
		assert.Equal(t, *updated, *cards.saved[0])
	})

	t.Run("lapse resets progress and persists it", func(t *testing.T) {
		t.Parallel()

		cards := newFakeCardStore()
		card := testCard(t, deckID)
		card.Interval = 30
		card.EaseFactor = 2.0
		card.Repetitions = 5
		require.NoError(t, cards.Create(context.Background(), card))

		svc := testService(t, cards, newFakeDeckStore(deckID), now, 20)

		updated, err := svc.SubmitReview(context.Background(), card.ID, 1)
		require.NoError(t, err)

		assert.Equal(t, 1, updated.Interval)
		assert.Equal(t, 0, updated.Repetitions)
		assert.Less(t, updated.EaseFactor, 2.0)

		stored, err := cards.GetByID(context.Background(), card.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.Interval)
	})

	t.Run("unknown card", func(t *testing.T) {
		t.Parallel()

		svc := testService(t, newFakeCardStore(), newFakeDeckStore(deckID), now, 20)

		_, err := svc.SubmitReview(context.Background(), uuid.New(), 4)
		assert.ErrorIs(t, err, ErrCardNotFound)
	})

	t.Run("invalid quality leaves the card untouched", func(t *testing.T) {
		t.Parallel()

		cards := newFakeCardStore()
		card := testCard(t, deckID)
		require.NoError(t, cards.Create(context.Background(), card))

		svc := testService(t, cards, newFakeDeckStore(deckID), now, 20)

		_, err := svc.SubmitReview(context.Background(), card.ID, 6)
		assert.ErrorIs(t, err, srs.ErrInvalidQuality)
		assert.Empty(t, cards.saved)
	})
}

func TestRunDeckSession(t *testing.T) {
	t.Parallel()

	deckID := uuid.New()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("rates and persists the whole queue", func(t *testing.T) {
		t.Parallel()

		cards := newFakeCardStore()
		a := testCard(t, deckID)
		b := testCard(t, deckID)
		a.ID = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
		b.ID = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
		require.NoError(t, cards.Create(context.Background(), a))
		require.NoError(t, cards.Create(context.Background(), b))
		cards.dueCards = []*domain.Card{a, b}

		svc := testService(t, cards, newFakeDeckStore(deckID), now, 20)

		stats, err := svc.RunDeckSession(context.Background(), deckID, []domain.ReviewEvent{
			{CardID: a.ID, Quality: 5},
			{CardID: b.ID, Quality: 2},
		})
		require.NoError(t, err)

		assert.Equal(t, 2, stats.Reviewed)
		assert.Equal(t, 1, stats.Successes)
		assert.Equal(t, 1, stats.Lapses)
		assert.Len(t, cards.saved, 2)
	})

	t.Run("stops cleanly at the first unrated card", func(t *testing.T) {
		t.Parallel()

		// Deterministic IDs: both cards are unseen, so the queue orders
		// them by ID and a is presented first.
		cards := newFakeCardStore()
		a := testCard(t, deckID)
		b := testCard(t, deckID)
		a.ID = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
		b.ID = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
		require.NoError(t, cards.Create(context.Background(), a))
		require.NoError(t, cards.Create(context.Background(), b))
		cards.dueCards = []*domain.Card{a, b}

		svc := testService(t, cards, newFakeDeckStore(deckID), now, 20)

		stats, err := svc.RunDeckSession(context.Background(), deckID, []domain.ReviewEvent{
			{CardID: a.ID, Quality: 4},
		})
		require.NoError(t, err)

		assert.Equal(t, 1, stats.Reviewed)
		assert.Len(t, cards.saved, 1)
		assert.Equal(t, a.ID, cards.saved[0].ID)
	})

	t.Run("unknown deck", func(t *testing.T) {
		t.Parallel()

		svc := testService(t, newFakeCardStore(), newFakeDeckStore(), now, 20)

		_, err := svc.RunDeckSession(context.Background(), uuid.New(), nil)
		assert.ErrorIs(t, err, ErrDeckNotFound)
	})
}
