package rating

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/apperrors"
	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/respond"
	"github.com/rajivgeraev/skillswap-api/internal/storage"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

// RatingService представляет леджер репутации: только он изменяет рейтинг
// пользователя, счетчик завершенных обменов изменяется хранилищем по
// запросу сервиса обменов.
type RatingService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	users      storage.UserStore
	swaps      storage.SwapStore
}

// NewRatingService создает новый экземпляр RatingService
func NewRatingService(cfg *config.Config, users storage.UserStore, swaps storage.SwapStore) *RatingService {
	return &RatingService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		users:      users,
		swaps:      swaps,
	}
}

// Submit применяет оценку к пользователю. Оценить можно только партнера по
// завершенному обмену (в любой роли), оценка — целое число от 1 до 5.
// Новый рейтинг — скользящее среднее, взвешенное по текущему счетчику
// завершенных обменов; сам счетчик при этом не меняется. Одна пара может
// оценивать друг друга повторно после единственного завершенного обмена —
// наблюдаемое поведение исходной системы сохранено намеренно.
func (s *RatingService) Submit(ctx context.Context, raterID, targetID uuid.UUID, score int) (models.User, error) {
	if raterID == targetID {
		return models.User{}, apperrors.ErrSelfRating
	}

	// Диапазон проверяет и схема запроса, здесь — защитная проверка
	if score < 1 || score > 5 {
		return models.User{}, apperrors.ErrValidation
	}

	completed, err := s.swaps.HasCompletedSwapBetween(ctx, raterID, targetID)
	if err != nil {
		return models.User{}, err
	}
	if !completed {
		return models.User{}, apperrors.ErrNoCompletedSwap
	}

	return s.users.ApplyRating(ctx, targetID, score)
}

// RateUser обрабатывает выставление оценки пользователю
func (s *RatingService) RateUser(c fiber.Ctx) error {
	raterID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	var requestData struct {
		TargetUserID string `json:"target_user_id"`
		Rating       int    `json:"rating"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	targetID, err := uuid.Parse(requestData.TargetUserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	if requestData.Rating < 1 || requestData.Rating > 5 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Оценка должна быть целым числом от 1 до 5"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	user, err := s.Submit(ctx, raterID, targetID, requestData.Rating)
	if err != nil {
		return respond.Error(c, err)
	}

	return c.JSON(fiber.Map{"user": user})
}
