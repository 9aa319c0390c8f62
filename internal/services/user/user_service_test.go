package user

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

func newService(t *testing.T) (*UserService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	cfg := &config.Config{JWTSecret: "test-secret"}
	return NewUserService(cfg, store), store
}

func createUser(t *testing.T, store *memory.Store, email string, teach, learn []string) models.User {
	t.Helper()
	user, err := store.CreateUser(context.Background(), models.User{
		Name:        "user",
		Email:       email,
		SkillsTeach: teach,
		SkillsLearn: learn,
	})
	require.NoError(t, err)
	return user
}

func TestFeedAnnotatesOverlap(t *testing.T) {
	ctx := context.Background()
	s, store := newService(t)

	a := createUser(t, store, "a@example.com", []string{"python", "guitar"}, nil)
	b := createUser(t, store, "b@example.com", nil, []string{"python"})

	feed, err := s.Feed(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, a.ID, feed[0].ID)
	assert.Equal(t, 1, feed[0].Overlap)

	// Зритель в собственную ленту не попадает
	feed, err = s.Feed(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, b.ID, feed[0].ID)
	assert.Equal(t, 0, feed[0].Overlap)
}

func TestMatchesFiltersZeroOverlap(t *testing.T) {
	ctx := context.Background()
	s, store := newService(t)

	a := createUser(t, store, "a@example.com", []string{"python", "guitar"}, nil)
	b := createUser(t, store, "b@example.com", nil, []string{"python"})
	createUser(t, store, "c@example.com", []string{"cooking"}, nil)

	matches, err := s.Matches(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, a.ID, matches[0].ID)
	assert.Equal(t, 1, matches[0].Overlap)

	// Для A совпадений нет: A ничему не хочет учиться
	matches, err = s.Matches(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFeedSortOrder(t *testing.T) {
	ctx := context.Background()
	s, store := newService(t)

	viewer := createUser(t, store, "viewer@example.com", nil, []string{"python", "guitar", "cooking"})

	// Один общий навык, без рейтинга
	one := createUser(t, store, "one@example.com", []string{"python"}, nil)
	// Два общих навыка
	two := createUser(t, store, "two@example.com", []string{"python", "guitar"}, nil)
	// Один общий навык и высокий рейтинг
	rated := createUser(t, store, "rated@example.com", []string{"cooking"}, nil)
	_, err := store.ApplyRating(ctx, rated.ID, 5)
	require.NoError(t, err)

	feed, err := s.Feed(ctx, viewer.ID)
	require.NoError(t, err)
	require.Len(t, feed, 3)

	// Совпадения важнее рейтинга, рейтинг разрешает равенство совпадений
	assert.Equal(t, two.ID, feed[0].ID)
	assert.Equal(t, rated.ID, feed[1].ID)
	assert.Equal(t, one.ID, feed[2].ID)
}

func TestFeedDeterministicTiebreak(t *testing.T) {
	ctx := context.Background()
	s, store := newService(t)

	viewer := createUser(t, store, "viewer@example.com", nil, nil)
	x := createUser(t, store, "x@example.com", nil, nil)
	y := createUser(t, store, "y@example.com", nil, nil)

	// Полностью равные пары (overlap, rating) упорядочиваются по ID
	want := []string{x.ID.String(), y.ID.String()}
	if want[0] > want[1] {
		want[0], want[1] = want[1], want[0]
	}

	for i := 0; i < 5; i++ {
		feed, err := s.Feed(ctx, viewer.ID)
		require.NoError(t, err)
		require.Len(t, feed, 2)
		assert.Equal(t, want[0], feed[0].ID.String())
		assert.Equal(t, want[1], feed[1].ID.String())
	}
}

func TestUpdateProfileNormalizesSkills(t *testing.T) {
	ctx := context.Background()
	s, store := newService(t)
	u := createUser(t, store, "a@example.com", nil, nil)

	updated, err := s.UpdateProfile(ctx, u.ID, ProfileInput{
		SkillsTeach: []string{" Python", "python", "GUITAR", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"python", "guitar"}, updated.SkillsTeach)
}

func TestUpdateProfileValidation(t *testing.T) {
	ctx := context.Background()
	s, store := newService(t)
	u := createUser(t, store, "a@example.com", nil, nil)

	// Пустое обновление отклоняется
	_, err := s.UpdateProfile(ctx, u.ID, ProfileInput{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// Слишком короткое имя
	short := "x"
	_, err = s.UpdateProfile(ctx, u.ID, ProfileInput{Name: &short})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// Слишком длинный список навыков
	tooMany := make([]string, 21)
	for i := range tooMany {
		tooMany[i] = string(rune('a' + i))
	}
	_, err = s.UpdateProfile(ctx, u.ID, ProfileInput{SkillsLearn: tooMany})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUpdateProfilePartial(t *testing.T) {
	ctx := context.Background()
	s, store := newService(t)
	u := createUser(t, store, "a@example.com", []string{"python"}, nil)

	bio := "преподаю питон"
	updated, err := s.UpdateProfile(ctx, u.ID, ProfileInput{Bio: &bio})
	require.NoError(t, err)

	assert.Equal(t, bio, updated.Bio)
	// Нетронутые поля сохраняются
	assert.Equal(t, []string{"python"}, updated.SkillsTeach)
}
