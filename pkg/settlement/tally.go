package settlement

import "github.com/fadedpez/friendbet/pkg/entities"

// Tally counts proof votes against the number of bettors on a bet
type Tally struct {
	Accept  int `json:"accept"`
	Reject  int `json:"reject"`
	Total   int `json:"total"`
	Bettors int `json:"bettors"`
}

// NewTally counts votes for a bet with the given number of bettors
func NewTally(votes []*entities.ProofVote, bettors int) Tally {
	t := Tally{Bettors: bettors}
	for _, v := range votes {
		switch v.Vote {
		case entities.VoteAccept:
			t.Accept++
		case entities.VoteReject:
			t.Reject++
		}
	}
	t.Total = len(votes)
	return t
}

// QuorumReached reports whether more than half of the bettors, or all of
// them, have voted. Total > Bettors/2 is evaluated without integer division.
func (t Tally) QuorumReached() bool {
	if t.Total == 0 {
		return false
	}
	return t.Total*2 > t.Bettors || t.Total == t.Bettors
}

// Accepted reports whether accept votes strictly outnumber reject votes.
// A tie rejects the proof.
func (t Tally) Accepted() bool {
	return t.Accept > t.Reject
}

// Result maps the vote outcome to the bet result
func (t Tally) Result() entities.BetResult {
	if t.Accepted() {
		return entities.ResultWon
	}
	return entities.ResultLost
}

// Required is the number of votes shown as needed, ceil(bettors/2)
func (t Tally) Required() int {
	return (t.Bettors + 1) / 2
}
