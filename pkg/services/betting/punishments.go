package betting

import (
	"context"

	"github.com/fadedpez/friendbet/internal/types"
	"github.com/fadedpez/friendbet/pkg/entities"
	"github.com/fadedpez/friendbet/pkg/repositories/ledger"
	"github.com/google/uuid"
)

// SuggestPunishment proposes a punishment for the creator of a lost bet. The
// suggestion starts with one vote.
func (s *Service) SuggestPunishment(ctx context.Context, userID, betID string, req *PunishmentRequest) (*entities.Punishment, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var suggested *entities.Punishment
	err := s.repo.UpdateBet(ctx, betID, func(snap *ledger.Snapshot) (*ledger.Mutation, error) {
		state, ok := snap.Bet.State().(entities.Completed)
		if !ok || state.Result != entities.ResultLost {
			return nil, types.NewBetError(types.ErrInvalidState, "can only suggest punishments for lost bets")
		}

		suggested = &entities.Punishment{
			ID:           uuid.New().String(),
			BetID:        betID,
			ReceiverID:   snap.Bet.CreatorID,
			AssignedByID: userID,
			Description:  req.Description,
			Type:         req.Type,
			Votes:        1,
			CreatedAt:    s.clock(),
		}
		return &ledger.Mutation{Punishments: []*entities.Punishment{suggested}}, nil
	})
	if err != nil {
		return nil, storeError(err, "error suggesting punishment")
	}

	return suggested, nil
}

// VotePunishment adds a vote to a punishment suggestion. Votes are not
// de-duplicated.
func (s *Service) VotePunishment(ctx context.Context, userID, betID, punishmentID string) (*entities.Punishment, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	punishment, err := s.repo.VotePunishment(ctx, betID, punishmentID)
	if err != nil {
		return nil, storeError(err, "error voting on punishment")
	}
	return punishment, nil
}
