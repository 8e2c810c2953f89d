package betting

import (
	"context"
	"strings"

	"github.com/fadedpez/friendbet/internal/types"
	"github.com/fadedpez/friendbet/pkg/entities"
	"github.com/fadedpez/friendbet/pkg/repositories/ledger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlacePrediction stakes the caller's points on one side of a bet. The stake
// is debited immediately and held until the bet closes.
func (s *Service) PlacePrediction(ctx context.Context, userID, betID string, req *PlacePredictionRequest) (*entities.Prediction, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	bet, err := s.repo.GetBet(ctx, betID)
	if err != nil {
		return nil, storeError(err, "error loading bet")
	}
	if err := s.checkOpen(bet, userID); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, storeError(err, "error loading user")
	}
	if user.Points < req.Stake {
		return nil, types.NewBetError(types.ErrInsufficientBalance, "insufficient points")
	}

	var placed *entities.Prediction
	err = s.repo.UpdateBet(ctx, betID, func(snap *ledger.Snapshot) (*ledger.Mutation, error) {
		if err := s.checkOpen(snap.Bet, userID); err != nil {
			return nil, err
		}
		if snap.PredictionBy(userID) != nil {
			return nil, types.NewBetError(types.ErrConflict, "you have already placed a prediction on this bet")
		}

		now := s.clock()
		placed = &entities.Prediction{
			ID:        uuid.New().String(),
			BetID:     betID,
			UserID:    userID,
			Choice:    req.Choice,
			Stake:     req.Stake,
			CreatedAt: now,
		}
		m := &ledger.Mutation{Prediction: placed}

		if req.Choice == entities.ChoiceAgainst && strings.TrimSpace(req.Punishment) != "" {
			m.Punishments = []*entities.Punishment{{
				ID:           uuid.New().String(),
				BetID:        betID,
				ReceiverID:   snap.Bet.CreatorID,
				AssignedByID: userID,
				Description:  strings.TrimSpace(req.Punishment),
				Type:         entities.PunishmentChallenge,
				CreatedAt:    now,
			}}
		}
		return m, nil
	})
	if err != nil {
		return nil, storeError(err, "error placing prediction")
	}

	s.metrics.PredictionPlaced(string(placed.Choice))
	s.logger.Info("Prediction placed",
		zap.String("bet_id", betID),
		zap.String("user_id", userID),
		zap.String("choice", string(placed.Choice)),
		zap.Int64("stake", placed.Stake))

	return placed, nil
}

// checkOpen verifies the bet still takes predictions from userID
func (s *Service) checkOpen(bet *entities.Bet, userID string) error {
	if _, ok := bet.State().(entities.Active); !ok {
		return types.NewBetError(types.ErrInvalidState, "bet is no longer active")
	}
	if bet.DeadlinePassed(s.clock()) {
		return types.NewBetError(types.ErrInvalidState, "bet deadline has passed")
	}
	if bet.CreatorID == userID {
		return types.NewBetError(types.ErrForbidden, "you cannot bet on your own challenge")
	}
	return nil
}
