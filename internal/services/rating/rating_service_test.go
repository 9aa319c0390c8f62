package rating

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/skillswap-api/internal/apperrors"
	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/storage/memory"
)

func newService(t *testing.T) (*RatingService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	cfg := &config.Config{JWTSecret: "test-secret"}
	return NewRatingService(cfg, store, store), store
}

func createUser(t *testing.T, store *memory.Store, email string) models.User {
	t.Helper()
	user, err := store.CreateUser(context.Background(), models.User{Name: "user", Email: email})
	require.NoError(t, err)
	return user
}

func completeSwapBetween(t *testing.T, store *memory.Store, a, b models.User) {
	t.Helper()
	_, err := store.CreateSwap(context.Background(), models.Swap{
		SenderID:   a.ID,
		ReceiverID: b.ID,
		Status:     models.SwapStatusCompleted,
	})
	require.NoError(t, err)
}

func TestSubmitSelfRating(t *testing.T) {
	s, store := newService(t)
	a := createUser(t, store, "a@example.com")

	_, err := s.Submit(context.Background(), a.ID, a.ID, 5)
	assert.ErrorIs(t, err, apperrors.ErrSelfRating)
}

func TestSubmitScoreOutOfRange(t *testing.T) {
	s, store := newService(t)
	a := createUser(t, store, "a@example.com")
	b := createUser(t, store, "b@example.com")
	completeSwapBetween(t, store, a, b)

	for _, score := range []int{0, 6, -1} {
		_, err := s.Submit(context.Background(), b.ID, a.ID, score)
		assert.ErrorIs(t, err, apperrors.ErrValidation, "score %d", score)
	}
}

func TestSubmitWithoutCompletedSwap(t *testing.T) {
	s, store := newService(t)
	a := createUser(t, store, "a@example.com")
	b := createUser(t, store, "b@example.com")

	_, err := s.Submit(context.Background(), b.ID, a.ID, 5)
	assert.ErrorIs(t, err, apperrors.ErrNoCompletedSwap)

	// Незавершенный обмен не дает права на оценку
	_, err = store.CreateSwap(context.Background(), models.Swap{
		SenderID:   a.ID,
		ReceiverID: b.ID,
		Status:     models.SwapStatusActive,
	})
	require.NoError(t, err)

	_, err = s.Submit(context.Background(), b.ID, a.ID, 5)
	assert.ErrorIs(t, err, apperrors.ErrNoCompletedSwap)
}

func TestSubmitEitherRoleQualifies(t *testing.T) {
	ctx := context.Background()
	s, store := newService(t)
	a := createUser(t, store, "a@example.com")
	b := createUser(t, store, "b@example.com")
	completeSwapBetween(t, store, a, b)

	// Оба участника могут оценить друг друга
	_, err := s.Submit(ctx, a.ID, b.ID, 4)
	require.NoError(t, err)
	_, err = s.Submit(ctx, b.ID, a.ID, 3)
	require.NoError(t, err)
}

func TestSubmitWeightedAverage(t *testing.T) {
	ctx := context.Background()
	s, store := newService(t)
	a := createUser(t, store, "a@example.com")
	b := createUser(t, store, "b@example.com")
	completeSwapBetween(t, store, a, b)

	// Доводим пользователя A до состояния rating=4.0, swaps_done=3
	_, err := store.ApplyRating(ctx, a.ID, 4)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.IncrementSwapsDone(ctx, a.ID))
	}

	updated, err := s.Submit(ctx, b.ID, a.ID, 5)
	require.NoError(t, err)

	// round2((4.0*3 + 5) / 4) == 4.25
	assert.InDelta(t, 4.25, updated.Rating, 1e-9)

	// Счетчик обменов оценкой не меняется
	assert.Equal(t, 3, updated.SwapsDone)
}

func TestSubmitFirstRating(t *testing.T) {
	ctx := context.Background()
	s, store := newService(t)
	a := createUser(t, store, "a@example.com")
	b := createUser(t, store, "b@example.com")
	completeSwapBetween(t, store, a, b)

	require.NoError(t, store.IncrementSwapsDone(ctx, a.ID))

	updated, err := s.Submit(ctx, b.ID, a.ID, 5)
	require.NoError(t, err)

	// round2((0*1 + 5) / 2) == 2.5
	assert.InDelta(t, 2.5, updated.Rating, 1e-9)
}
