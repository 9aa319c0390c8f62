// Package postgres реализует хранилища поверх pgx. Гонки read-modify-write
// закрыты на уровне SQL: счетчик обменов увеличивается одним UPDATE,
// пересчет рейтинга идет под блокировкой строки, переход статуса обмена —
// условным UPDATE по текущему статусу.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rajivgeraev/skillswap-api/internal/apperrors"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/storage"
)

// Проверяем соответствие интерфейсам на этапе компиляции
var (
	_ storage.UserStore = (*Store)(nil)
	_ storage.SwapStore = (*Store)(nil)
)

const userColumns = `id, name, email, password_hash, bio, avatar_url,
	skills_teach, skills_learn, rating, swaps_done, created_at, updated_at`

const swapColumns = `id, sender_id, receiver_id, skill_offered,
	skill_requested, status, created_at, updated_at`

// Store предоставляет Postgres-хранилище пользователей и обменов
type Store struct {
	pool *pgxpool.Pool
}

// NewStore создает хранилище поверх переданного пула и применяет миграции
func NewStore(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		return nil, fmt.Errorf("ошибка при применении миграций: %w", err)
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			bio TEXT NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT '',
			skills_teach TEXT[] NOT NULL DEFAULT '{}',
			skills_learn TEXT[] NOT NULL DEFAULT '{}',
			rating DOUBLE PRECISION NOT NULL DEFAULT 0,
			swaps_done INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS swaps (
			id UUID PRIMARY KEY,
			sender_id UUID NOT NULL REFERENCES users(id),
			receiver_id UUID NOT NULL REFERENCES users(id),
			skill_offered TEXT NOT NULL,
			skill_requested TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (sender_id <> receiver_id)
		);`,
		`CREATE INDEX IF NOT EXISTS swaps_sender_idx ON swaps (sender_id);`,
		`CREATE INDEX IF NOT EXISTS swaps_receiver_idx ON swaps (receiver_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// CreateUser вставляет нового пользователя
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password_hash, bio, avatar_url, skills_teach, skills_learn, rating, swaps_done)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, 0)
		RETURNING `+userColumns,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Bio,
		user.AvatarURL, user.SkillsTeach, user.SkillsLearn)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, apperrors.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// GetUser возвращает пользователя по ID
func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetUserByEmail возвращает пользователя по email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// ListUsersExcept возвращает всех пользователей, кроме указанного,
// по возрастанию ID для детерминированного порядка
func (s *Store) ListUsersExcept(ctx context.Context, id uuid.UUID) ([]models.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id <> $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateProfile применяет частичное обновление профиля. Поля rating и
// swaps_done этим запросом не затрагиваются.
func (s *Store) UpdateProfile(ctx context.Context, id uuid.UUID, update storage.ProfileUpdate) (models.User, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE users SET
			name = COALESCE($2, name),
			bio = COALESCE($3, bio),
			avatar_url = COALESCE($4, avatar_url),
			skills_teach = COALESCE($5, skills_teach),
			skills_learn = COALESCE($6, skills_learn),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns,
		id, update.Name, update.Bio, update.AvatarURL, update.SkillsTeach, update.SkillsLearn)
	return scanUser(row)
}

// IncrementSwapsDone атомарно увеличивает счетчик завершенных обменов.
// Один UPDATE без предварительного чтения, поэтому конкурентные вызовы
// не теряют инкрементов.
func (s *Store) IncrementSwapsDone(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET swaps_done = swaps_done + 1, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ApplyRating пересчитывает рейтинг под блокировкой строки пользователя:
// чтение текущих rating и swaps_done и запись нового значения выполняются
// в одной транзакции
func (s *Store) ApplyRating(ctx context.Context, id uuid.UUID, score int) (models.User, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("ошибка при начале транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var rating float64
	var swapsDone int
	err = tx.QueryRow(ctx, `
		SELECT rating, swaps_done FROM users WHERE id = $1 FOR UPDATE
	`, id).Scan(&rating, &swapsDone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, apperrors.ErrNotFound
		}
		return models.User{}, err
	}

	next := models.NextRating(rating, swapsDone, score)

	row := tx.QueryRow(ctx, `
		UPDATE users SET rating = $2, updated_at = NOW() WHERE id = $1
		RETURNING `+userColumns, id, next)
	user, err := scanUser(row)
	if err != nil {
		return models.User{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.User{}, fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}
	return user, nil
}

// CreateSwap вставляет новую запись обмена
func (s *Store) CreateSwap(ctx context.Context, swap models.Swap) (models.Swap, error) {
	if swap.ID == uuid.Nil {
		swap.ID = uuid.New()
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO swaps (id, sender_id, receiver_id, skill_offered, skill_requested, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+swapColumns,
		swap.ID, swap.SenderID, swap.ReceiverID, swap.SkillOffered,
		swap.SkillRequested, swap.Status)
	return scanSwap(row)
}

// GetSwap возвращает обмен по ID
func (s *Store) GetSwap(ctx context.Context, id uuid.UUID) (models.Swap, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+swapColumns+` FROM swaps WHERE id = $1`, id)
	return scanSwap(row)
}

// ListSwapsByUser возвращает обмены пользователя в любой роли,
// от новых к старым
func (s *Store) ListSwapsByUser(ctx context.Context, userID uuid.UUID) ([]models.Swap, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+swapColumns+` FROM swaps
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	swaps := make([]models.Swap, 0)
	for rows.Next() {
		swap, err := scanSwap(rows)
		if err != nil {
			return nil, err
		}
		swaps = append(swaps, swap)
	}
	return swaps, rows.Err()
}

// UpdateSwapStatus выполняет условный переход статуса. UPDATE срабатывает
// только если текущий статус совпадает с ожидаемым, поэтому из двух
// конкурентных переходов выигрывает ровно один, второй получает
// ErrInvalidState.
func (s *Store) UpdateSwapStatus(ctx context.Context, id uuid.UUID, from, to models.SwapStatus) (models.Swap, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE swaps SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING `+swapColumns, id, from, to)

	swap, err := scanSwap(row)
	if err == nil {
		return swap, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return models.Swap{}, err
	}

	// UPDATE ничего не затронул: различаем отсутствие записи и
	// несовпадение статуса
	if _, getErr := s.GetSwap(ctx, id); getErr != nil {
		return models.Swap{}, getErr
	}
	return models.Swap{}, apperrors.ErrInvalidState
}

// HasCompletedSwapBetween проверяет наличие завершенного обмена между двумя
// пользователями в любой комбинации ролей
func (s *Store) HasCompletedSwapBetween(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM swaps
		WHERE status = 'completed'
		  AND ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
	`, a, b).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Bio,
		&user.AvatarURL, &user.SkillsTeach, &user.SkillsLearn,
		&user.Rating, &user.SwapsDone, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, apperrors.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func scanSwap(row pgx.Row) (models.Swap, error) {
	var swap models.Swap
	err := row.Scan(
		&swap.ID, &swap.SenderID, &swap.ReceiverID, &swap.SkillOffered,
		&swap.SkillRequested, &swap.Status, &swap.CreatedAt, &swap.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Swap{}, apperrors.ErrNotFound
		}
		return models.Swap{}, err
	}
	return swap, nil
}
