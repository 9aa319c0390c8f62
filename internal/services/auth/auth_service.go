package auth

import (
	"errors"
	"log"
	"net/mail"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/crypto/bcrypt"

	"github.com/rajivgeraev/skillswap-api/internal/apperrors"
	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/respond"
	"github.com/rajivgeraev/skillswap-api/internal/skills"
	"github.com/rajivgeraev/skillswap-api/internal/storage"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

// AuthService – структура для обработки регистрации и входа
type AuthService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	users      storage.UserStore
}

// NewAuthService – конструктор AuthService
func NewAuthService(cfg *config.Config, users storage.UserStore) *AuthService {
	return &AuthService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		users:      users,
	}
}

// GetJWTService возвращает JWT-сервис для использования в middleware
func (s *AuthService) GetJWTService() *utils.JWTService {
	return s.jwtService
}

// RegisterHandler создает нового пользователя и возвращает JWT
func (s *AuthService) RegisterHandler(c fiber.Ctx) error {
	var payload struct {
		Name        string   `json:"name"`
		Email       string   `json:"email"`
		Password    string   `json:"password"`
		Bio         string   `json:"bio"`
		AvatarURL   string   `json:"avatar_url"`
		SkillsTeach []string `json:"skills_teach"`
		SkillsLearn []string `json:"skills_learn"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	// Проверяем форму входных данных
	if len(payload.Name) < 2 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Имя должно содержать не менее 2 символов"})
	}
	if _, err := mail.ParseAddress(payload.Email); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат email"})
	}
	if len(payload.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Пароль должен содержать не менее 6 символов"})
	}
	if len(payload.Bio) > 200 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Описание не должно превышать 200 символов"})
	}
	if len(payload.SkillsTeach) > skills.MaxSkills || len(payload.SkillsLearn) > skills.MaxSkills {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Не более 20 навыков в списке"})
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Ошибка хеширования пароля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Внутренняя ошибка сервера"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	user, err := s.users.CreateUser(ctx, models.User{
		Name:         payload.Name,
		Email:        payload.Email,
		PasswordHash: string(passwordHash),
		Bio:          payload.Bio,
		AvatarURL:    payload.AvatarURL,
		SkillsTeach:  skills.Normalize(payload.SkillsTeach),
		SkillsLearn:  skills.Normalize(payload.SkillsLearn),
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email уже зарегистрирован"})
		}
		return respond.Error(c, err)
	}

	jwtToken, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		log.Printf("Ошибка генерации JWT: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate JWT"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": jwtToken,
		"user":  user,
	})
}

// LoginHandler проверяет учетные данные и возвращает JWT
func (s *AuthService) LoginHandler(c fiber.Ctx) error {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	user, err := s.users.GetUserByEmail(ctx, payload.Email)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Неверный email или пароль"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Неверный email или пароль"})
	}

	jwtToken, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		log.Printf("Ошибка генерации JWT: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate JWT"})
	}

	return c.JSON(fiber.Map{
		"token": jwtToken,
		"user":  user,
	})
}
