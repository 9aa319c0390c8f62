package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/services/auth"
	"github.com/rajivgeraev/skillswap-api/internal/services/cloudinary"
	"github.com/rajivgeraev/skillswap-api/internal/services/rating"
	"github.com/rajivgeraev/skillswap-api/internal/services/swap"
	"github.com/rajivgeraev/skillswap-api/internal/services/user"
	"github.com/rajivgeraev/skillswap-api/internal/storage"
	"github.com/rajivgeraev/skillswap-api/internal/storage/memory"
	"github.com/rajivgeraev/skillswap-api/internal/storage/postgres"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.LoadConfig()

	// Выбираем хранилище: Postgres по умолчанию, память для локального запуска
	var users storage.UserStore
	var swaps storage.SwapStore

	if cfg.UseMemoryStore {
		log.Println("⚠️ Используется хранилище в памяти, данные не сохраняются")
		store := memory.NewStore()
		users, swaps = store, store
	} else {
		pool, err := db.Connect(cfg)
		if err != nil {
			log.Fatalf("❌ Ошибка при инициализации базы данных: %v", err)
		}
		defer pool.Close()

		store, err := postgres.NewStore(context.Background(), pool)
		if err != nil {
			log.Fatalf("❌ Ошибка при инициализации хранилища: %v", err)
		}
		users, swaps = store, store
	}

	// Создаём экземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:      "SkillSwap API",
		ErrorHandler: errorHandler,
	})

	// Добавляем middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	// Проверка доступности
	app.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "message": "SkillSwap API ready"})
	})

	// Создаём сервисы
	authService := auth.NewAuthService(cfg, users)
	userService := user.NewUserService(cfg, users)
	swapService := swap.NewSwapService(cfg, users, swaps)
	ratingService := rating.NewRatingService(cfg, users, swaps)
	cloudinaryService := cloudinary.NewCloudinaryService(cfg)

	// Регистрируем маршруты
	authService.SetupRoutes(app)
	userService.SetupRoutes(app)
	swapService.SetupRoutes(app)
	ratingService.SetupRoutes(app)
	cloudinaryService.SetupRoutes(app)

	// Запускаем сервер
	log.Printf("✅ SkillSwap API запущен на порту %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

// errorHandler обрабатывает ошибки Fiber
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	// Проверяем, является ли ошибка из Fiber
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Отправляем ошибку в JSON
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
