// Package activity keeps a feed of closed bets for the activity page
package activity

import (
	"context"
	"time"

	"github.com/fadedpez/friendbet/pkg/entities"
	"github.com/fadedpez/friendbet/pkg/settlement"
)

// Participant is one bettor's line in an archived bet
type Participant struct {
	UserID string `json:"user_id"`
	Choice string `json:"choice"`
	Stake  int64  `json:"stake"`
	Payout int64  `json:"payout"`
	Won    bool   `json:"won"`

	// Refunded is the stake returned when the bet was cancelled
	Refunded int64 `json:"refunded,omitempty"`
}

// Record is the archived form of a closed bet
type Record struct {
	BetID        string        `json:"bet_id"`
	CreatorID    string        `json:"creator_id"`
	Title        string        `json:"title"`
	Category     string        `json:"category"`
	Status       string        `json:"status"`
	Result       string        `json:"result,omitempty"`
	Model        string        `json:"model,omitempty"`
	TotalPool    int64         `json:"total_pool"`
	ForPool      int64         `json:"for_pool"`
	AgainstPool  int64         `json:"against_pool"`
	Participants []Participant `json:"participants"`
	ClosedAt     time.Time     `json:"closed_at"`
}

// NewRecord builds the archive record of a settled bet
func NewRecord(bet *entities.Bet, s *settlement.Settlement) *Record {
	rec := newRecord(bet)
	rec.Model = s.Model
	rec.TotalPool = s.Pools.Total
	rec.ForPool = s.Pools.For
	rec.AgainstPool = s.Pools.Against
	for _, line := range s.Lines {
		rec.Participants = append(rec.Participants, Participant{
			UserID: line.UserID,
			Choice: string(line.Choice),
			Stake:  line.Stake,
			Payout: line.Payout,
			Won:    line.Won,
		})
	}
	return rec
}

// NewCancelledRecord builds the archive record of a cancelled bet. Every
// prediction is listed with its refunded stake.
func NewCancelledRecord(bet *entities.Bet, predictions []*entities.Prediction) *Record {
	rec := newRecord(bet)
	pools := settlement.NewPools(predictions)
	rec.TotalPool = pools.Total
	rec.ForPool = pools.For
	rec.AgainstPool = pools.Against
	for _, p := range predictions {
		rec.Participants = append(rec.Participants, Participant{
			UserID:   p.UserID,
			Choice:   string(p.Choice),
			Stake:    p.Stake,
			Refunded: p.Stake,
		})
	}
	return rec
}

func newRecord(bet *entities.Bet) *Record {
	rec := &Record{
		BetID:        bet.ID,
		CreatorID:    bet.CreatorID,
		Title:        bet.Title,
		Category:     string(bet.Category),
		Status:       string(bet.Status),
		Result:       string(bet.Result),
		Participants: []Participant{},
	}
	if bet.ResolvedAt != nil {
		rec.ClosedAt = *bet.ResolvedAt
	}

	return rec
}

// Archive stores closed bets and serves the most recent ones
type Archive interface {
	// Archive stores or replaces the record for a bet
	Archive(ctx context.Context, rec *Record) error

	// Recent returns the most recently closed bets, newest first
	Recent(ctx context.Context, limit int) ([]*Record, error)

	// RecentBy returns the most recently closed bets created by any of
	// creatorIDs, newest first. No creators means no records.
	RecentBy(ctx context.Context, creatorIDs []string, limit int) ([]*Record, error)
}
