package entities

import "time"

// Choice is the side a bettor takes
type Choice string

const (
	ChoiceFor     Choice = "FOR"
	ChoiceAgainst Choice = "AGAINST"
)

// WinningChoice returns the side that wins for a result
func WinningChoice(result BetResult) Choice {
	if result == ResultWon {
		return ChoiceFor
	}
	return ChoiceAgainst
}

// Wins reports whether c is the winning side for result
func (c Choice) Wins(result BetResult) bool {
	return result.Valid() && c == WinningChoice(result)
}

// Prediction is a user's staked choice on a bet
type Prediction struct {
	ID        string    `json:"id"`
	BetID     string    `json:"betId"`
	UserID    string    `json:"userId"`
	Choice    Choice    `json:"choice"`
	Stake     int64     `json:"stake"`
	Payout    *int64    `json:"payout,omitempty"` // nil until the bet settles
	CreatedAt time.Time `json:"createdAt"`
}

// Settled reports whether a payout has been written
func (p *Prediction) Settled() bool {
	return p.Payout != nil
}

// Vote is a bettor's verdict on submitted proof
type Vote string

const (
	VoteAccept Vote = "ACCEPT"
	VoteReject Vote = "REJECT"
)

// ProofVote records one bettor's current vote on a bet's proof
type ProofVote struct {
	ID        string    `json:"id"`
	BetID     string    `json:"betId"`
	UserID    string    `json:"userId"`
	Vote      Vote      `json:"vote"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
