// Package respond преобразует семантические ошибки ядра в HTTP-ответы.
package respond

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/apperrors"
)

// Error отправляет JSON с ошибкой и кодом, соответствующим виду ошибки
func Error(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrSelfReference):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Нельзя предложить обмен самому себе"})
	case errors.Is(err, apperrors.ErrSelfRating):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Нельзя оценить самого себя"})
	case errors.Is(err, apperrors.ErrNoCompletedSwap):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Между пользователями нет завершенного обмена"})
	case errors.Is(err, apperrors.ErrInvalidState):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Недопустимое действие для текущего статуса обмена"})
	case errors.Is(err, apperrors.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	case errors.Is(err, apperrors.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Недостаточно прав для этого действия"})
	case errors.Is(err, apperrors.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Запись не найдена"})
	case errors.Is(err, apperrors.ErrAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Запись уже существует"})
	default:
		log.Printf("Внутренняя ошибка: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Внутренняя ошибка сервера"})
	}
}
