package user

import (
	"context"
	"log"
	"sort"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/apperrors"
	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/respond"
	"github.com/rajivgeraev/skillswap-api/internal/skills"
	"github.com/rajivgeraev/skillswap-api/internal/storage"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

// UserService представляет сервис профилей и ленты подбора партнеров
type UserService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	users      storage.UserStore
}

// NewUserService создает новый экземпляр UserService
func NewUserService(cfg *config.Config, users storage.UserStore) *UserService {
	return &UserService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		users:      users,
	}
}

// ProfileInput описывает частичное обновление профиля.
// Nil-поле означает «не менять».
type ProfileInput struct {
	Name        *string  `json:"name"`
	Bio         *string  `json:"bio"`
	AvatarURL   *string  `json:"avatar_url"`
	SkillsTeach []string `json:"skills_teach"`
	SkillsLearn []string `json:"skills_learn"`
}

// Feed строит ленту: все остальные пользователи с количеством совпадений
// между их преподаваемыми навыками и желаемыми навыками зрителя.
// Сортировка: совпадения по убыванию, рейтинг по убыванию, ID по возрастанию.
func (s *UserService) Feed(ctx context.Context, viewerID uuid.UUID) ([]models.FeedUser, error) {
	viewer, err := s.users.GetUser(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.users.ListUsersExcept(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	feed := make([]models.FeedUser, 0, len(candidates))
	for _, candidate := range candidates {
		feed = append(feed, models.FeedUser{
			User:    candidate,
			Overlap: skills.Overlap(candidate.SkillsTeach, viewer.SkillsLearn),
		})
	}

	sortFeed(feed)
	return feed, nil
}

// Matches возвращает ленту, отфильтрованную до пользователей хотя бы с одним
// совпадением навыков
func (s *UserService) Matches(ctx context.Context, viewerID uuid.UUID) ([]models.FeedUser, error) {
	feed, err := s.Feed(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	matches := make([]models.FeedUser, 0, len(feed))
	for _, entry := range feed {
		if entry.Overlap > 0 {
			matches = append(matches, entry)
		}
	}
	return matches, nil
}

// UpdateProfile проверяет и применяет частичное обновление профиля.
// Списки навыков нормализуются перед сохранением; rating и swaps_done
// через профиль не изменяются.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (models.User, error) {
	update := storage.ProfileUpdate{
		Name:      input.Name,
		Bio:       input.Bio,
		AvatarURL: input.AvatarURL,
	}

	if input.Name != nil && len(*input.Name) < 2 {
		return models.User{}, apperrors.ErrValidation
	}
	if input.Bio != nil && len(*input.Bio) > 200 {
		return models.User{}, apperrors.ErrValidation
	}
	if len(input.SkillsTeach) > skills.MaxSkills || len(input.SkillsLearn) > skills.MaxSkills {
		return models.User{}, apperrors.ErrValidation
	}

	if input.SkillsTeach != nil {
		update.SkillsTeach = skills.Normalize(input.SkillsTeach)
	}
	if input.SkillsLearn != nil {
		update.SkillsLearn = skills.Normalize(input.SkillsLearn)
	}

	if update.IsEmpty() {
		return models.User{}, apperrors.ErrValidation
	}

	return s.users.UpdateProfile(ctx, userID, update)
}

// sortFeed сортирует ленту по убыванию совпадений, затем по убыванию
// рейтинга; равные пары упорядочиваются по возрастанию ID, чтобы порядок
// был детерминированным
func sortFeed(feed []models.FeedUser) {
	sort.Slice(feed, func(i, j int) bool {
		if feed[i].Overlap != feed[j].Overlap {
			return feed[i].Overlap > feed[j].Overlap
		}
		if feed[i].Rating != feed[j].Rating {
			return feed[i].Rating > feed[j].Rating
		}
		return feed[i].ID.String() < feed[j].ID.String()
	})
}

// GetAllUsers возвращает ленту всех пользователей с совпадениями навыков
func (s *UserService) GetAllUsers(c fiber.Ctx) error {
	viewerID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	feed, err := s.Feed(ctx, viewerID)
	if err != nil {
		return respond.Error(c, err)
	}

	return c.JSON(fiber.Map{"users": feed})
}

// GetMatches возвращает пользователей хотя бы с одним совпадением навыков
func (s *UserService) GetMatches(c fiber.Ctx) error {
	viewerID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	matches, err := s.Matches(ctx, viewerID)
	if err != nil {
		return respond.Error(c, err)
	}

	return c.JSON(fiber.Map{"users": matches})
}

// GetProfile возвращает профиль авторизованного пользователя
func (s *UserService) GetProfile(c fiber.Ctx) error {
	userID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return respond.Error(c, err)
	}

	return c.JSON(fiber.Map{"user": user})
}

// PatchProfile обрабатывает частичное обновление профиля
func (s *UserService) PatchProfile(c fiber.Ctx) error {
	userID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	var input ProfileInput
	if err := c.Bind().Body(&input); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	user, err := s.UpdateProfile(ctx, userID, input)
	if err != nil {
		return respond.Error(c, err)
	}

	return c.JSON(fiber.Map{"user": user})
}
