// Package settlement computes bet payouts and proof verification tallies.
// Everything here is pure; persistence lives in the ledger repository.
package settlement

import (
	"math"

	"github.com/fadedpez/friendbet/pkg/entities"
)

// CalculatePayout returns the signed payout for one prediction under the
// parimutuel pool rules. A losing prediction forfeits its stake. A winning
// prediction receives its proportional share of the pool minus its own stake.
// When the winning pool is empty the stake itself is returned.
func CalculatePayout(stake int64, choice entities.Choice, result entities.BetResult, totalPool, winningPool int64) int64 {
	if !choice.Wins(result) {
		return -stake
	}

	if winningPool == 0 {
		return stake
	}

	share := float64(stake) / float64(winningPool) * float64(totalPool)
	return int64(math.Floor(share - float64(stake)))
}

// Pools holds the staked totals of a bet
type Pools struct {
	Total   int64 `json:"total"`
	For     int64 `json:"for"`
	Against int64 `json:"against"`
}

// NewPools partitions predictions into FOR and AGAINST stake totals
func NewPools(predictions []*entities.Prediction) Pools {
	var p Pools
	for _, pred := range predictions {
		p.Total += pred.Stake
		switch pred.Choice {
		case entities.ChoiceFor:
			p.For += pred.Stake
		case entities.ChoiceAgainst:
			p.Against += pred.Stake
		}
	}
	return p
}

// Winning returns the pool of the side that wins for result
func (p Pools) Winning(result entities.BetResult) int64 {
	if result == entities.ResultWon {
		return p.For
	}
	return p.Against
}

// Losing returns the pool of the side that loses for result
func (p Pools) Losing(result entities.BetResult) int64 {
	if result == entities.ResultWon {
		return p.Against
	}
	return p.For
}

// CreatorBonus is the share of the losing pool awarded to a creator who won
// their own bet. A non-positive percent disables the bonus.
func CreatorBonus(pools Pools, result entities.BetResult, percent int64) int64 {
	if result != entities.ResultWon || percent <= 0 {
		return 0
	}
	return pools.Losing(result) * percent / 100
}
