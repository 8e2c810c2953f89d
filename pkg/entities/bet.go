package entities

import "time"

// BetStatus is the lifecycle status stored on a bet
type BetStatus string

const (
	BetStatusActive    BetStatus = "ACTIVE"
	BetStatusCompleted BetStatus = "COMPLETED"
	BetStatusCancelled BetStatus = "CANCELLED"
)

// BetResult is the outcome of a resolved bet. The empty value means unresolved.
type BetResult string

const (
	ResultNone BetResult = ""
	ResultWon  BetResult = "WON"
	ResultLost BetResult = "LOST"
)

// Valid reports whether r is one of the two resolved outcomes
func (r BetResult) Valid() bool {
	return r == ResultWon || r == ResultLost
}

// Category groups bets in the feed
type Category string

const (
	CategoryFitness   Category = "FITNESS"
	CategoryStudy     Category = "STUDY"
	CategoryGaming    Category = "GAMING"
	CategorySocial    Category = "SOCIAL"
	CategoryWork      Category = "WORK"
	CategoryFood      Category = "FOOD"
	CategoryChallenge Category = "CHALLENGE"
	CategoryOther     Category = "OTHER"
)

// ProofRequirement describes what kind of proof the creator promised
type ProofRequirement string

const (
	ProofNone  ProofRequirement = "NONE"
	ProofImage ProofRequirement = "IMAGE"
	ProofVideo ProofRequirement = "VIDEO"
	ProofText  ProofRequirement = "TEXT"
)

// Bet is a challenge created by a user that friends predict on
type Bet struct {
	ID                   string           `json:"id"`
	CreatorID            string           `json:"creatorId"`
	Title                string           `json:"title"`
	Description          string           `json:"description"`
	Category             Category         `json:"category"`
	ProofRequired        ProofRequirement `json:"proofRequired"`
	Deadline             time.Time        `json:"deadline"`
	Status               BetStatus        `json:"status"`
	Result               BetResult        `json:"result,omitempty"`
	ProofURL             string           `json:"proofUrl,omitempty"`
	ProofSubmittedAt     *time.Time       `json:"proofSubmittedAt,omitempty"`
	VerificationRequired bool             `json:"verificationRequired"`
	CreatedAt            time.Time        `json:"createdAt"`
	ResolvedAt           *time.Time       `json:"resolvedAt,omitempty"`
}

// HasProof reports whether the creator has submitted proof
func (b *Bet) HasProof() bool {
	return b.ProofURL != ""
}

// DeadlinePassed reports whether predictions are closed at now
func (b *Bet) DeadlinePassed(now time.Time) bool {
	return !b.Deadline.IsZero() && now.After(b.Deadline)
}
