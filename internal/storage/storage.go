// Package storage определяет контракты хранилищ, которыми пользуется ядро.
// Реализации обязаны сериализовать read-modify-write по записи пользователя
// (rating, swaps_done) и смену статуса по записи обмена: условное обновление
// читает текущий статус и пишет новый в одной атомарной операции.
package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// ProfileUpdate описывает частичное обновление профиля. Nil-поле означает
// «не менять». Поля rating и swaps_done через профиль не изменяются —
// ими владеет исключительно леджер репутации.
type ProfileUpdate struct {
	Name        *string
	Bio         *string
	AvatarURL   *string
	SkillsTeach []string
	SkillsLearn []string
}

// IsEmpty сообщает, что обновление не содержит ни одного изменения
func (u ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Bio == nil && u.AvatarURL == nil &&
		u.SkillsTeach == nil && u.SkillsLearn == nil
}

// UserStore описывает операции хранилища пользователей.
// IncrementSwapsDone и ApplyRating атомарны в пределах одного вызова:
// конкурентные вызовы по одному пользователю не теряют обновлений.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	ListUsersExcept(ctx context.Context, id uuid.UUID) ([]models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (models.User, error)
	IncrementSwapsDone(ctx context.Context, id uuid.UUID) error
	ApplyRating(ctx context.Context, id uuid.UUID, score int) (models.User, error)
}

// SwapStore описывает операции хранилища обменов. Записи append-only:
// удаления нет, меняется только статус. UpdateSwapStatus выполняет переход
// условно — при несовпадении текущего статуса возвращает
// apperrors.ErrInvalidState, при отсутствии записи apperrors.ErrNotFound.
type SwapStore interface {
	CreateSwap(ctx context.Context, swap models.Swap) (models.Swap, error)
	GetSwap(ctx context.Context, id uuid.UUID) (models.Swap, error)
	ListSwapsByUser(ctx context.Context, userID uuid.UUID) ([]models.Swap, error)
	UpdateSwapStatus(ctx context.Context, id uuid.UUID, from, to models.SwapStatus) (models.Swap, error)
	HasCompletedSwapBetween(ctx context.Context, a, b uuid.UUID) (bool, error)
}
