package entities

// BetState is the tagged lifecycle state of a bet. Exactly one of Active,
// Completed or Cancelled.
type BetState interface {
	isBetState()
}

// Active bets accept predictions. AwaitingVotes is set once proof has been
// submitted and bettors are verifying it.
type Active struct {
	AwaitingVotes bool
}

// Completed bets carry their result and never change again
type Completed struct {
	Result BetResult
}

// Cancelled bets had every stake refunded
type Cancelled struct{}

func (Active) isBetState()    {}
func (Completed) isBetState() {}
func (Cancelled) isBetState() {}

// State derives the tagged state from the stored row
func (b *Bet) State() BetState {
	switch b.Status {
	case BetStatusCompleted:
		return Completed{Result: b.Result}
	case BetStatusCancelled:
		return Cancelled{}
	default:
		return Active{AwaitingVotes: b.VerificationRequired}
	}
}
