package settlement

import (
	"errors"

	"github.com/fadedpez/friendbet/pkg/entities"
)

var (
	ErrInvalidResult  = errors.New("result must be WON or LOST")
	ErrAlreadySettled = errors.New("prediction already has a payout")
)

// Line is the settlement of a single prediction
type Line struct {
	PredictionID string          `json:"predictionId"`
	UserID       string          `json:"userId"`
	Choice       entities.Choice `json:"choice"`
	Stake        int64           `json:"stake"`
	Payout       int64           `json:"payout"`
	Credit       int64           `json:"credit"`
	Won          bool            `json:"won"`
}

// Settlement is the full set of payouts for a resolved bet
type Settlement struct {
	BetID  string             `json:"betId"`
	Result entities.BetResult `json:"result"`
	Model  string             `json:"model"`
	Pools  Pools              `json:"pools"`
	Lines  []Line             `json:"payouts"`
}

// Settle computes the settlement of predictions for result under model.
// Predictions that already carry a payout are rejected.
func Settle(betID string, predictions []*entities.Prediction, result entities.BetResult, model Model) (*Settlement, error) {
	if !result.Valid() {
		return nil, ErrInvalidResult
	}

	pools := NewPools(predictions)
	s := &Settlement{
		BetID:  betID,
		Result: result,
		Model:  model.Name(),
		Pools:  pools,
		Lines:  make([]Line, 0, len(predictions)),
	}

	for _, p := range predictions {
		if p.Settled() {
			return nil, ErrAlreadySettled
		}
		out := model.Outcome(p, result, pools)
		s.Lines = append(s.Lines, Line{
			PredictionID: p.ID,
			UserID:       p.UserID,
			Choice:       p.Choice,
			Stake:        p.Stake,
			Payout:       out.Payout,
			Credit:       out.Credit,
			Won:          out.Won,
		})
	}

	return s, nil
}

// TotalCredits is the sum of balance credits the settlement applies
func (s *Settlement) TotalCredits() int64 {
	var total int64
	for _, l := range s.Lines {
		total += l.Credit
	}
	return total
}

// TotalPayouts is the sum of recorded payouts
func (s *Settlement) TotalPayouts() int64 {
	var total int64
	for _, l := range s.Lines {
		total += l.Payout
	}
	return total
}
