// Package memory содержит хранилище в памяти с той же семантикой
// атомарности, что и у Postgres-реализации. Используется в тестах и для
// локального запуска без базы данных.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/apperrors"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/storage"
)

// Проверяем соответствие интерфейсам на этапе компиляции
var (
	_ storage.UserStore = (*Store)(nil)
	_ storage.SwapStore = (*Store)(nil)
)

// Store хранит пользователей и обмены в памяти под одним мьютексом,
// что дает сериализацию read-modify-write по любой записи.
type Store struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
	swaps map[uuid.UUID]*models.Swap
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		users: make(map[uuid.UUID]*models.User),
		swaps: make(map[uuid.UUID]*models.Swap),
	}
}

// CreateUser добавляет нового пользователя. Email должен быть уникальным.
func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return models.User{}, apperrors.ErrAlreadyExists
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := user
	s.users[user.ID] = &stored
	return copyUser(&stored), nil
}

// GetUser возвращает пользователя по ID
func (s *Store) GetUser(_ context.Context, id uuid.UUID) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, apperrors.ErrNotFound
	}
	return copyUser(user), nil
}

// GetUserByEmail возвращает пользователя по email
func (s *Store) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}
	return models.User{}, apperrors.ErrNotFound
}

// ListUsersExcept возвращает всех пользователей, кроме указанного.
// Порядок детерминирован: по возрастанию ID.
func (s *Store) ListUsersExcept(_ context.Context, id uuid.UUID) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		if user.ID == id {
			continue
		}
		users = append(users, copyUser(user))
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].ID.String() < users[j].ID.String()
	})

	return users, nil
}

// UpdateProfile применяет частичное обновление профиля.
// Поля rating и swaps_done здесь не изменяются.
func (s *Store) UpdateProfile(_ context.Context, id uuid.UUID, update storage.ProfileUpdate) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, apperrors.ErrNotFound
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.AvatarURL != nil {
		user.AvatarURL = *update.AvatarURL
	}
	if update.SkillsTeach != nil {
		user.SkillsTeach = append([]string(nil), update.SkillsTeach...)
	}
	if update.SkillsLearn != nil {
		user.SkillsLearn = append([]string(nil), update.SkillsLearn...)
	}
	user.UpdatedAt = time.Now()

	return copyUser(user), nil
}

// IncrementSwapsDone атомарно увеличивает счетчик завершенных обменов
func (s *Store) IncrementSwapsDone(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	user.SwapsDone++
	user.UpdatedAt = time.Now()
	return nil
}

// ApplyRating атомарно пересчитывает рейтинг пользователя, используя текущий
// счетчик завершенных обменов как вес. Счетчик при этом не меняется.
func (s *Store) ApplyRating(_ context.Context, id uuid.UUID, score int) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, apperrors.ErrNotFound
	}

	user.Rating = models.NextRating(user.Rating, user.SwapsDone, score)
	user.UpdatedAt = time.Now()
	return copyUser(user), nil
}

// CreateSwap добавляет новую запись обмена
func (s *Store) CreateSwap(_ context.Context, swap models.Swap) (models.Swap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if swap.ID == uuid.Nil {
		swap.ID = uuid.New()
	}
	if swap.CreatedAt.IsZero() {
		swap.CreatedAt = time.Now()
	}
	swap.UpdatedAt = swap.CreatedAt

	stored := swap
	s.swaps[swap.ID] = &stored
	return stored, nil
}

// GetSwap возвращает обмен по ID
func (s *Store) GetSwap(_ context.Context, id uuid.UUID) (models.Swap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	swap, ok := s.swaps[id]
	if !ok {
		return models.Swap{}, apperrors.ErrNotFound
	}
	return *swap, nil
}

// ListSwapsByUser возвращает обмены, где пользователь отправитель или
// получатель, от новых к старым
func (s *Store) ListSwapsByUser(_ context.Context, userID uuid.UUID) ([]models.Swap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	swaps := make([]models.Swap, 0)
	for _, swap := range s.swaps {
		if swap.SenderID == userID || swap.ReceiverID == userID {
			swaps = append(swaps, *swap)
		}
	}

	sort.Slice(swaps, func(i, j int) bool {
		return swaps[i].CreatedAt.After(swaps[j].CreatedAt)
	})

	return swaps, nil
}

// UpdateSwapStatus выполняет условный переход статуса: проверка текущего
// статуса и запись нового происходят под одним мьютексом, поэтому из двух
// конкурентных переходов выигрывает ровно один.
func (s *Store) UpdateSwapStatus(_ context.Context, id uuid.UUID, from, to models.SwapStatus) (models.Swap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	swap, ok := s.swaps[id]
	if !ok {
		return models.Swap{}, apperrors.ErrNotFound
	}
	if swap.Status != from {
		return models.Swap{}, apperrors.ErrInvalidState
	}

	swap.Status = to
	swap.UpdatedAt = time.Now()
	return *swap, nil
}

// HasCompletedSwapBetween проверяет наличие завершенного обмена между двумя
// пользователями в любой комбинации ролей
func (s *Store) HasCompletedSwapBetween(_ context.Context, a, b uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, swap := range s.swaps {
		if swap.Status != models.SwapStatusCompleted {
			continue
		}
		if (swap.SenderID == a && swap.ReceiverID == b) ||
			(swap.SenderID == b && swap.ReceiverID == a) {
			return true, nil
		}
	}
	return false, nil
}

func copyUser(u *models.User) models.User {
	out := *u
	out.SkillsTeach = append([]string(nil), u.SkillsTeach...)
	out.SkillsLearn = append([]string(nil), u.SkillsLearn...)
	return out
}
