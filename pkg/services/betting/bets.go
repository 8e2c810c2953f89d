package betting

import (
	"context"
	"fmt"

	"github.com/fadedpez/friendbet/internal/types"
	"github.com/fadedpez/friendbet/pkg/entities"
	"github.com/fadedpez/friendbet/pkg/repositories/activity"
	"github.com/fadedpez/friendbet/pkg/repositories/ledger"
	"github.com/fadedpez/friendbet/pkg/settlement"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BetDetails is a bet with everything attached to it
type BetDetails struct {
	Bet         *entities.Bet          `json:"bet"`
	Predictions []*entities.Prediction `json:"predictions"`
	ProofVotes  []*entities.ProofVote  `json:"proofVotes"`
	Punishments []*entities.Punishment `json:"punishments"`
	Pools       settlement.Pools       `json:"pools"`
}

// CreateBet opens a new bet owned by the caller
func (s *Service) CreateBet(ctx context.Context, userID string, req *CreateBetRequest) (*entities.Bet, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.clock()
	if !req.Deadline.After(now) {
		return nil, types.NewBetError(types.ErrValidation, "deadline must be in the future")
	}

	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, storeError(err, "error loading creator")
	}

	proof := req.ProofRequired
	if proof == "" {
		proof = entities.ProofNone
	}

	bet := &entities.Bet{
		ID:            uuid.New().String(),
		CreatorID:     userID,
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		ProofRequired: proof,
		Deadline:      req.Deadline.UTC(),
		Status:        entities.BetStatusActive,
		CreatedAt:     now,
	}

	if err := s.repo.CreateBet(ctx, bet); err != nil {
		return nil, storeError(err, "error creating bet")
	}

	s.logger.Info("Bet created", zap.String("bet_id", bet.ID), zap.String("creator_id", userID))
	return bet, nil
}

// ListBets returns the most recent bets
func (s *Service) ListBets(ctx context.Context, limit int) ([]*entities.Bet, error) {
	bets, err := s.repo.ListBets(ctx, listLimit(limit))
	if err != nil {
		return nil, storeError(err, "error listing bets")
	}
	return bets, nil
}

// GetBet returns a bet with its predictions, votes, punishments and pools
func (s *Service) GetBet(ctx context.Context, betID string) (*BetDetails, error) {
	bet, err := s.repo.GetBet(ctx, betID)
	if err != nil {
		return nil, storeError(err, "error loading bet")
	}

	predictions, err := s.repo.GetPredictions(ctx, betID)
	if err != nil {
		return nil, storeError(err, "error loading predictions")
	}
	votes, err := s.repo.GetProofVotes(ctx, betID)
	if err != nil {
		return nil, storeError(err, "error loading proof votes")
	}
	punishments, err := s.repo.GetPunishments(ctx, betID)
	if err != nil {
		return nil, storeError(err, "error loading punishments")
	}

	return &BetDetails{
		Bet:         bet,
		Predictions: predictions,
		ProofVotes:  votes,
		Punishments: punishments,
		Pools:       settlement.NewPools(predictions),
	}, nil
}

// CancelBet closes an active bet and refunds every stake. Only the creator may
// cancel.
func (s *Service) CancelBet(ctx context.Context, userID, betID string) (*entities.Bet, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	started := s.now()
	var (
		cancelled   *entities.Bet
		predictions []*entities.Prediction
	)

	err := s.repo.UpdateBet(ctx, betID, func(snap *ledger.Snapshot) (*ledger.Mutation, error) {
		bet := snap.Bet
		if bet.CreatorID != userID {
			return nil, types.NewBetError(types.ErrForbidden, "only the bet creator can cancel this bet")
		}
		if _, ok := bet.State().(entities.Active); !ok {
			return nil, types.NewBetError(types.ErrInvalidState, "only active bets can be cancelled")
		}

		closure := &ledger.Closure{
			Status:  entities.BetStatusCancelled,
			At:      s.clock(),
			Entries: make([]ledger.Entry, 0, len(snap.Predictions)),
		}
		for _, p := range snap.Predictions {
			closure.Entries = append(closure.Entries, ledger.Entry{
				PredictionID: p.ID,
				UserID:       p.UserID,
				Credit:       p.Stake,
				Type:         entities.TransactionTypeRefund,
				Description:  "Refund for " + bet.Title,
			})
		}

		cancelled = closedBet(bet, closure)
		predictions = snap.Predictions
		return &ledger.Mutation{Closure: closure}, nil
	})
	if err != nil {
		return nil, storeError(err, "error cancelling bet")
	}

	s.metrics.BetSettled("cancel", string(entities.BetStatusCancelled), s.now().Sub(started))
	s.logger.Info("Bet cancelled", zap.String("bet_id", betID), zap.Int("refunds", len(predictions)))

	for _, p := range predictions {
		s.send(ctx, p.UserID, entities.NotificationBetResolved, "Bet Cancelled",
			fmt.Sprintf("\"%s\" was cancelled. Your stake of %d points was refunded.", cancelled.Title, p.Stake),
			betLink(betID))
	}
	s.archiveBet(ctx, activity.NewCancelledRecord(cancelled, predictions))

	return cancelled, nil
}

// closedBet returns a copy of bet with the closure applied
func closedBet(bet *entities.Bet, c *ledger.Closure) *entities.Bet {
	closed := *bet
	at := c.At
	closed.Status = c.Status
	closed.Result = c.Result
	if c.ProofURL != "" {
		closed.ProofURL = c.ProofURL
	}
	closed.VerificationRequired = false
	closed.ResolvedAt = &at
	return &closed
}

func (s *Service) archiveBet(ctx context.Context, rec *activity.Record) {
	if err := s.archive.Archive(ctx, rec); err != nil {
		s.logger.Warn("Failed to archive bet", zap.String("bet_id", rec.BetID), zap.Error(err))
	}
}
