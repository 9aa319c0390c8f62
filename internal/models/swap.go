package models

import (
	"time"

	"github.com/google/uuid"
)

// SwapStatus представляет статус предложения обмена
type SwapStatus string

const (
	SwapStatusPending   SwapStatus = "pending"
	SwapStatusActive    SwapStatus = "active"
	SwapStatusRejected  SwapStatus = "rejected"
	SwapStatusCompleted SwapStatus = "completed"
)

// swapTransitions — таблица допустимых переходов статуса.
// rejected и completed — терминальные статусы, из них переходов нет.
var swapTransitions = map[SwapStatus][]SwapStatus{
	SwapStatusPending: {SwapStatusActive, SwapStatusRejected},
	SwapStatusActive:  {SwapStatusCompleted},
}

// IsValid проверяет, что статус является одним из известных значений
func (s SwapStatus) IsValid() bool {
	switch s {
	case SwapStatusPending, SwapStatusActive, SwapStatusRejected, SwapStatusCompleted:
		return true
	}
	return false
}

// IsTerminal сообщает, является ли статус терминальным
func (s SwapStatus) IsTerminal() bool {
	return len(swapTransitions[s]) == 0
}

// CanTransitionTo проверяет допустимость перехода в следующий статус
func (s SwapStatus) CanTransitionTo(next SwapStatus) bool {
	for _, allowed := range swapTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Swap представляет предложение об обмене навыками между двумя пользователями
type Swap struct {
	ID             uuid.UUID  `json:"id"`
	SenderID       uuid.UUID  `json:"sender_id"`
	ReceiverID     uuid.UUID  `json:"receiver_id"`
	SkillOffered   string     `json:"skill_offered"`
	SkillRequested string     `json:"skill_requested"`
	Status         SwapStatus `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Дополнительные поля для API
	Sender   *User `json:"sender,omitempty"`
	Receiver *User `json:"receiver,omitempty"`
}

// IsParticipant проверяет, участвует ли пользователь в обмене
func (sw *Swap) IsParticipant(userID uuid.UUID) bool {
	return sw.SenderID == userID || sw.ReceiverID == userID
}
