package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBetState(t *testing.T) {
	tests := []struct {
		name     string
		bet      Bet
		expected BetState
	}{
		{
			name:     "active without proof",
			bet:      Bet{Status: BetStatusActive},
			expected: Active{},
		},
		{
			name:     "active awaiting proof votes",
			bet:      Bet{Status: BetStatusActive, VerificationRequired: true},
			expected: Active{AwaitingVotes: true},
		},
		{
			name:     "completed",
			bet:      Bet{Status: BetStatusCompleted, Result: ResultLost},
			expected: Completed{Result: ResultLost},
		},
		{
			name:     "cancelled",
			bet:      Bet{Status: BetStatusCancelled},
			expected: Cancelled{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.bet.State())
		})
	}
}

func TestChoiceWins(t *testing.T) {
	assert.True(t, ChoiceFor.Wins(ResultWon))
	assert.False(t, ChoiceFor.Wins(ResultLost))
	assert.True(t, ChoiceAgainst.Wins(ResultLost))
	assert.False(t, ChoiceAgainst.Wins(ResultWon))
	assert.False(t, ChoiceFor.Wins(ResultNone))
}

func TestDeadlinePassed(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	bet := Bet{Deadline: now.Add(time.Hour)}
	assert.False(t, bet.DeadlinePassed(now))

	bet.Deadline = now.Add(-time.Second)
	assert.True(t, bet.DeadlinePassed(now))
}

func TestPowerupExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := Powerup{ExpiresAt: now}
	assert.True(t, p.Expired(now))
	assert.False(t, p.Expired(now.Add(-time.Minute)))
}
