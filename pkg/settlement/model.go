package settlement

import (
	"fmt"
	"math"

	"github.com/fadedpez/friendbet/pkg/entities"
)

const (
	ModelPool       = "pool"
	ModelFlat       = "flat"
	ModelStakeShare = "stake-share"

	// FlatReward is what every correct predictor receives under the flat model
	FlatReward int64 = 40
)

// Outcome is what a model decides for one prediction. Payout is the value
// recorded on the prediction; Credit is what the ledger adds to the bettor's
// balance. Stakes are already escrowed at placement, so Credit is never
// negative.
type Outcome struct {
	Payout int64
	Credit int64
	Won    bool
}

// Model computes per-prediction outcomes for a resolved bet
type Model interface {
	Name() string
	Outcome(p *entities.Prediction, result entities.BetResult, pools Pools) Outcome
}

// ModelByName returns the payout model configured under name
func ModelByName(name string) (Model, error) {
	switch name {
	case "", ModelPool:
		return PoolModel{}, nil
	case ModelFlat:
		return FlatModel{Reward: FlatReward}, nil
	case ModelStakeShare:
		return StakeShareModel{}, nil
	default:
		return nil, fmt.Errorf("unknown payout model %q", name)
	}
}

// PoolModel is the parimutuel model built on CalculatePayout. Winners get
// their stake back plus their payout; losers get nothing back.
type PoolModel struct{}

func (PoolModel) Name() string { return ModelPool }

func (PoolModel) Outcome(p *entities.Prediction, result entities.BetResult, pools Pools) Outcome {
	payout := CalculatePayout(p.Stake, p.Choice, result, pools.Total, pools.Winning(result))
	return Outcome{
		Payout: payout,
		Credit: p.Stake + payout,
		Won:    p.Choice.Wins(result),
	}
}

// FlatModel pays a fixed reward to every correct predictor and records 0 for
// everyone else.
type FlatModel struct {
	Reward int64
}

func (FlatModel) Name() string { return ModelFlat }

func (m FlatModel) Outcome(p *entities.Prediction, result entities.BetResult, _ Pools) Outcome {
	if !p.Choice.Wins(result) {
		return Outcome{}
	}
	return Outcome{Payout: m.Reward, Credit: m.Reward, Won: true}
}

// StakeShareModel splits the whole pool among winners in proportion to their
// stakes. Losers record 0.
type StakeShareModel struct{}

func (StakeShareModel) Name() string { return ModelStakeShare }

func (StakeShareModel) Outcome(p *entities.Prediction, result entities.BetResult, pools Pools) Outcome {
	winning := pools.Winning(result)
	if !p.Choice.Wins(result) || winning == 0 {
		return Outcome{}
	}
	share := int64(math.Floor(float64(p.Stake) / float64(winning) * float64(pools.Total)))
	return Outcome{Payout: share, Credit: share, Won: true}
}
