package apperrors

import "errors"

// Семантические ошибки ядра. Обработчики HTTP преобразуют их в коды ответов,
// само ядро их не ретраит.
var (
	// общие ошибки
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation error")
	ErrAlreadyExists = errors.New("already exists")

	// ошибки жизненного цикла обмена
	ErrSelfReference = errors.New("sender and receiver must be different users")
	ErrForbidden     = errors.New("actor lacks required role")
	ErrInvalidState  = errors.New("transition not allowed from current status")

	// ошибки рейтинга
	ErrSelfRating      = errors.New("cannot rate yourself")
	ErrNoCompletedSwap = errors.New("no completed swap between users")
)
