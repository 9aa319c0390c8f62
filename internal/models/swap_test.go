package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSwapStatusTransitions(t *testing.T) {
	tests := []struct {
		from    SwapStatus
		to      SwapStatus
		allowed bool
	}{
		{SwapStatusPending, SwapStatusActive, true},
		{SwapStatusPending, SwapStatusRejected, true},
		{SwapStatusActive, SwapStatusCompleted, true},

		{SwapStatusPending, SwapStatusCompleted, false},
		{SwapStatusActive, SwapStatusPending, false},
		{SwapStatusActive, SwapStatusRejected, false},
		{SwapStatusRejected, SwapStatusActive, false},
		{SwapStatusRejected, SwapStatusPending, false},
		{SwapStatusCompleted, SwapStatusActive, false},
		{SwapStatusCompleted, SwapStatusPending, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestSwapStatusTerminal(t *testing.T) {
	assert.False(t, SwapStatusPending.IsTerminal())
	assert.False(t, SwapStatusActive.IsTerminal())
	assert.True(t, SwapStatusRejected.IsTerminal())
	assert.True(t, SwapStatusCompleted.IsTerminal())
}

func TestSwapIsParticipant(t *testing.T) {
	sender := uuid.New()
	receiver := uuid.New()
	swap := &Swap{SenderID: sender, ReceiverID: receiver}

	assert.True(t, swap.IsParticipant(sender))
	assert.True(t, swap.IsParticipant(receiver))
	assert.False(t, swap.IsParticipant(uuid.New()))
}
