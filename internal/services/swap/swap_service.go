package swap

import (
	"context"
	"log"
	"strings"
	"time"

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

// SwapService представляет сервис жизненного цикла обменов.
// Все переходы статуса проходят через него, записи обменов append-only.
type SwapService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	users      storage.UserStore
	swaps      storage.SwapStore
}

// NewSwapService создает новый экземпляр SwapService
func NewSwapService(cfg *config.Config, users storage.UserStore, swaps storage.SwapStore) *SwapService {
	return &SwapService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		users:      users,
		swaps:      swaps,
	}
}

// Request создает предложение обмена в статусе pending.
// Обмен с самим собой запрещен, получатель должен существовать,
// названия навыков приводятся к нижнему регистру до сохранения.
func (s *SwapService) Request(ctx context.Context, senderID, receiverID uuid.UUID, skillOffered, skillRequested string) (models.Swap, error) {
	if senderID == receiverID {
		return models.Swap{}, apperrors.ErrSelfReference
	}

	skillOffered = strings.ToLower(strings.TrimSpace(skillOffered))
	skillRequested = strings.ToLower(strings.TrimSpace(skillRequested))
	if skillOffered == "" || skillRequested == "" {
		return models.Swap{}, apperrors.ErrValidation
	}

	// Проверяем, что получатель существует
	if _, err := s.users.GetUser(ctx, receiverID); err != nil {
		return models.Swap{}, err
	}

	return s.swaps.CreateSwap(ctx, models.Swap{
		ID:             uuid.New(),
		SenderID:       senderID,
		ReceiverID:     receiverID,
		SkillOffered:   skillOffered,
		SkillRequested: skillRequested,
		Status:         models.SwapStatusPending,
		CreatedAt:      time.Now(),
	})
}

// Respond принимает или отклоняет предложение обмена. Отвечать может только
// получатель, и только пока обмен в статусе pending. Сам переход выполняется
// условным обновлением, поэтому из двух конкурентных ответов выигрывает
// ровно один.
func (s *SwapService) Respond(ctx context.Context, swapID, actorID uuid.UUID, action string) (models.Swap, error) {
	var next models.SwapStatus
	switch action {
	case "accept":
		next = models.SwapStatusActive
	case "reject":
		next = models.SwapStatusRejected
	default:
		return models.Swap{}, apperrors.ErrValidation
	}

	swap, err := s.swaps.GetSwap(ctx, swapID)
	if err != nil {
		return models.Swap{}, err
	}

	// Отправитель не может принять или отклонить собственное предложение
	if swap.ReceiverID != actorID {
		return models.Swap{}, apperrors.ErrForbidden
	}

	if !swap.Status.CanTransitionTo(next) {
		return models.Swap{}, apperrors.ErrInvalidState
	}

	return s.swaps.UpdateSwapStatus(ctx, swapID, models.SwapStatusPending, next)
}

// Complete переводит активный обмен в завершенное состояние. Завершить может
// любой из двух участников. После перехода счетчик завершенных обменов
// увеличивается у обоих участников; частичный сбой инкремента логируется,
// повторный вызов безопасен на уровне отдельного инкремента.
func (s *SwapService) Complete(ctx context.Context, swapID, actorID uuid.UUID) (models.Swap, error) {
	swap, err := s.swaps.GetSwap(ctx, swapID)
	if err != nil {
		return models.Swap{}, err
	}

	if !swap.IsParticipant(actorID) {
		return models.Swap{}, apperrors.ErrForbidden
	}

	if !swap.Status.CanTransitionTo(models.SwapStatusCompleted) {
		return models.Swap{}, apperrors.ErrInvalidState
	}

	updated, err := s.swaps.UpdateSwapStatus(ctx, swapID, models.SwapStatusActive, models.SwapStatusCompleted)
	if err != nil {
		return models.Swap{}, err
	}

	// Увеличиваем счетчик завершенных обменов у обоих участников
	for _, participantID := range []uuid.UUID{updated.SenderID, updated.ReceiverID} {
		if err := s.users.IncrementSwapsDone(ctx, participantID); err != nil {
			log.Printf("Ошибка инкремента счетчика обменов для %s: %v", participantID, err)
		}
	}

	return updated, nil
}

// ListForUser возвращает обмены пользователя в любой роли, от новых к старым,
// с краткой информацией об участниках
func (s *SwapService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Swap, error) {
	swaps, err := s.swaps.ListSwapsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range swaps {
		swaps[i].Sender = s.userInfo(ctx, swaps[i].SenderID)
		swaps[i].Receiver = s.userInfo(ctx, swaps[i].ReceiverID)
	}

	return swaps, nil
}

// userInfo загружает краткую информацию об участнике обмена
func (s *SwapService) userInfo(ctx context.Context, userID uuid.UUID) *models.User {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		log.Printf("Ошибка получения пользователя %s: %v", userID, err)
		return nil
	}
	return &user
}

// CreateSwap обрабатывает создание предложения обмена
func (s *SwapService) CreateSwap(c fiber.Ctx) error {
	senderID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	// Извлекаем данные из запроса
	var requestData struct {
		ReceiverID     string `json:"receiver_id"`
		SkillOffered   string `json:"skill_offered"`
		SkillRequested string `json:"skill_requested"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	receiverID, err := uuid.Parse(requestData.ReceiverID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID получателя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	swap, err := s.Request(ctx, senderID, receiverID, requestData.SkillOffered, requestData.SkillRequested)
	if err != nil {
		return respond.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"swap": swap})
}

// GetMySwaps возвращает список входящих и исходящих предложений обмена
func (s *SwapService) GetMySwaps(c fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	swaps, err := s.ListForUser(ctx, userID)
	if err != nil {
		return respond.Error(c, err)
	}

	return c.JSON(fiber.Map{
		"swaps": swaps,
		"count": len(swaps),
	})
}

// RespondSwap обрабатывает принятие или отклонение предложения обмена
func (s *SwapService) RespondSwap(c fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	swapID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID обмена"})
	}

	var requestData struct {
		Action string `json:"action"` // accept, reject
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	swap, err := s.Respond(ctx, swapID, userID, requestData.Action)
	if err != nil {
		return respond.Error(c, err)
	}

	return c.JSON(fiber.Map{"swap": swap})
}

// CompleteSwap обрабатывает завершение активного обмена
func (s *SwapService) CompleteSwap(c fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	swapID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID обмена"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	swap, err := s.Complete(ctx, swapID, userID)
	if err != nil {
		return respond.Error(c, err)
	}

	return c.JSON(fiber.Map{"swap": swap})
}

// actorID извлекает ID авторизованного пользователя из контекста запроса
func actorID(c fiber.Ctx) (uuid.UUID, error) {
	userID, _ := c.Locals("userID").(string)
	return uuid.Parse(userID)
}
