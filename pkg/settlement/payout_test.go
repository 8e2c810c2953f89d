package settlement

import (
	"math/rand"
	"testing"

	"github.com/fadedpez/friendbet/pkg/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePayout(t *testing.T) {
	tests := []struct {
		name        string
		stake       int64
		choice      entities.Choice
		result      entities.BetResult
		totalPool   int64
		winningPool int64
		expected    int64
	}{
		{
			name:        "sole winner takes the losing pool",
			stake:       20,
			choice:      entities.ChoiceFor,
			result:      entities.ResultWon,
			totalPool:   50,
			winningPool: 20,
			expected:    30,
		},
		{
			name:        "fractional share is floored",
			stake:       20,
			choice:      entities.ChoiceFor,
			result:      entities.ResultWon,
			totalPool:   100,
			winningPool: 60,
			expected:    13,
		},
		{
			name:        "against wins on lost",
			stake:       25,
			choice:      entities.ChoiceAgainst,
			result:      entities.ResultLost,
			totalPool:   100,
			winningPool: 50,
			expected:    25,
		},
		{
			name:        "wrong side forfeits stake",
			stake:       20,
			choice:      entities.ChoiceAgainst,
			result:      entities.ResultWon,
			totalPool:   100,
			winningPool: 60,
			expected:    -20,
		},
		{
			name:        "for loses on lost",
			stake:       35,
			choice:      entities.ChoiceFor,
			result:      entities.ResultLost,
			totalPool:   35,
			winningPool: 0,
			expected:    -35,
		},
		{
			name:        "empty winning pool returns stake",
			stake:       50,
			choice:      entities.ChoiceAgainst,
			result:      entities.ResultLost,
			totalPool:   50,
			winningPool: 0,
			expected:    50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculatePayout(tt.stake, tt.choice, tt.result, tt.totalPool, tt.winningPool)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCalculatePayoutLoserAlwaysForfeits(t *testing.T) {
	for stake := int64(10); stake <= 1000; stake += 37 {
		assert.Equal(t, -stake, CalculatePayout(stake, entities.ChoiceFor, entities.ResultLost, 5000, 1200))
		assert.Equal(t, -stake, CalculatePayout(stake, entities.ChoiceAgainst, entities.ResultWon, 5000, 1200))
	}
}

func TestNewPools(t *testing.T) {
	pools := NewPools(samplePredictions())

	assert.Equal(t, Pools{Total: 100, For: 60, Against: 40}, pools)
	assert.Equal(t, int64(60), pools.Winning(entities.ResultWon))
	assert.Equal(t, int64(40), pools.Losing(entities.ResultWon))
	assert.Equal(t, int64(40), pools.Winning(entities.ResultLost))
	assert.Equal(t, int64(60), pools.Losing(entities.ResultLost))
}

func TestCreatorBonus(t *testing.T) {
	pools := Pools{Total: 105, For: 60, Against: 45}

	assert.Equal(t, int64(4), CreatorBonus(pools, entities.ResultWon, 10))
	assert.Equal(t, int64(0), CreatorBonus(pools, entities.ResultLost, 10))
	assert.Equal(t, int64(0), CreatorBonus(pools, entities.ResultWon, 0))
	assert.Equal(t, int64(22), CreatorBonus(pools, entities.ResultWon, 50))
}

func TestPoolCreditsNeverExceedPool(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		n := 1 + r.Intn(8)
		predictions := make([]*entities.Prediction, 0, n)
		for j := 0; j < n; j++ {
			choice := entities.ChoiceFor
			if r.Intn(2) == 0 {
				choice = entities.ChoiceAgainst
			}
			predictions = append(predictions, &entities.Prediction{
				ID:     string(rune('a' + j)),
				UserID: string(rune('A' + j)),
				Choice: choice,
				Stake:  int64(10 + r.Intn(991)),
			})
		}

		for _, result := range []entities.BetResult{entities.ResultWon, entities.ResultLost} {
			s, err := Settle("bet", predictions, result, PoolModel{})
			require.NoError(t, err)
			assert.LessOrEqual(t, s.TotalCredits(), s.Pools.Total)
			for _, line := range s.Lines {
				assert.GreaterOrEqual(t, line.Credit, int64(0))
				if !line.Won {
					assert.Equal(t, -line.Stake, line.Payout)
				}
			}
		}
	}
}

func samplePredictions() []*entities.Prediction {
	return []*entities.Prediction{
		{ID: "p1", UserID: "alice", Choice: entities.ChoiceFor, Stake: 20},
		{ID: "p2", UserID: "bob", Choice: entities.ChoiceFor, Stake: 40},
		{ID: "p3", UserID: "carol", Choice: entities.ChoiceAgainst, Stake: 40},
	}
}
