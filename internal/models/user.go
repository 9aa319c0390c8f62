package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// User представляет пользователя в системе
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Bio          string    `json:"bio"`
	AvatarURL    string    `json:"avatar_url"`
	SkillsTeach  []string  `json:"skills_teach"`
	SkillsLearn  []string  `json:"skills_learn"`
	Rating       float64   `json:"rating"`
	SwapsDone    int       `json:"swaps_done"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FeedUser представляет пользователя в ленте с количеством совпадений навыков
type FeedUser struct {
	User
	Overlap int `json:"overlap"`
}

// NextRating вычисляет новое среднее значение рейтинга пользователя.
// Весом выступает текущий счетчик завершенных обменов (до применения оценки),
// результат округляется до двух знаков после запятой.
func NextRating(current float64, swapsDone, score int) float64 {
	next := (current*float64(swapsDone) + float64(score)) / float64(swapsDone+1)
	return math.Round(next*100) / 100
}
