package betting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fadedpez/friendbet/internal/types"
	"github.com/fadedpez/friendbet/pkg/entities"
	"github.com/fadedpez/friendbet/pkg/repositories/activity"
	"github.com/fadedpez/friendbet/pkg/repositories/ledger"
	"github.com/fadedpez/friendbet/pkg/settlement"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Settlement paths, used as metric labels and to pick notification texts
const (
	pathResult = "result"
	pathVerify = "verify"
)

// Resolution is a closed bet and the payouts applied to it
type Resolution struct {
	Bet        *entities.Bet          `json:"bet"`
	Settlement *settlement.Settlement `json:"settlement"`
}

// Resolve lets the creator declare the result of an active bet. Payouts
// follow the configured model and are committed in one unit with the status
// change.
func (s *Service) Resolve(ctx context.Context, userID, betID string, req *ResolveRequest) (*Resolution, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	started := s.now()
	var res Resolution

	err := s.repo.UpdateBet(ctx, betID, func(snap *ledger.Snapshot) (*ledger.Mutation, error) {
		if snap.Bet.CreatorID != userID {
			return nil, types.NewBetError(types.ErrForbidden, "only the bet creator can resolve this bet")
		}
		if _, ok := snap.Bet.State().(entities.Active); !ok {
			return nil, types.NewBetError(types.ErrInvalidState, "this bet has already been resolved")
		}

		closure, st, err := s.closeWithResult(snap, req.Result, req.ProofURL)
		if err != nil {
			return nil, err
		}
		res = Resolution{Bet: closedBet(snap.Bet, closure), Settlement: st}
		return &ledger.Mutation{Closure: closure}, nil
	})
	if err != nil {
		return nil, storeError(err, "error resolving bet")
	}

	s.afterSettlement(ctx, res.Bet, res.Settlement, pathResult, started)
	return &res, nil
}

// closeWithResult settles every prediction in snap under the configured model
// and builds the closure that commits it
func (s *Service) closeWithResult(snap *ledger.Snapshot, result entities.BetResult, proofURL string) (*ledger.Closure, *settlement.Settlement, error) {
	st, err := settlement.Settle(snap.Bet.ID, snap.Predictions, result, s.model)
	if err != nil {
		if errors.Is(err, settlement.ErrAlreadySettled) {
			return nil, nil, types.WrapError(types.ErrInvalidState, "bet has already been settled", err)
		}
		return nil, nil, types.WrapError(types.ErrInternalError, "error computing settlement", err)
	}

	closure := &ledger.Closure{
		Status:   entities.BetStatusCompleted,
		Result:   result,
		ProofURL: proofURL,
		At:       s.clock(),
		Entries:  make([]ledger.Entry, 0, len(st.Lines)),
	}
	for _, line := range st.Lines {
		payout := line.Payout
		closure.Entries = append(closure.Entries, ledger.Entry{
			PredictionID: line.PredictionID,
			UserID:       line.UserID,
			Payout:       &payout,
			Credit:       line.Credit,
			Type:         entities.TransactionTypePayout,
			Description:  "Payout for " + snap.Bet.Title,
		})
	}

	return closure, st, nil
}

// afterSettlement runs the effects that follow a committed settlement. None of
// them can fail the settlement.
func (s *Service) afterSettlement(ctx context.Context, bet *entities.Bet, st *settlement.Settlement, path string, started time.Time) {
	s.metrics.BetSettled(path, string(st.Result), s.now().Sub(started))
	s.logger.Info("Bet settled",
		zap.String("bet_id", bet.ID),
		zap.String("path", path),
		zap.String("result", string(st.Result)),
		zap.String("model", st.Model),
		zap.Int64("pool", st.Pools.Total),
		zap.Int64("credited", st.TotalCredits()))

	if st.Result == entities.ResultWon {
		s.rewardCreator(ctx, bet, st)
	}
	s.notifySettlement(ctx, bet, st, path)
	s.archiveBet(ctx, activity.NewRecord(bet, st))
}

// rewardCreator grants the creator bonus and powerup in their own unit
func (s *Service) rewardCreator(ctx context.Context, bet *entities.Bet, st *settlement.Settlement) {
	now := s.clock()
	reward := &ledger.CreatorReward{
		BetID:  bet.ID,
		UserID: bet.CreatorID,
		Bonus:  settlement.CreatorBonus(st.Pools, st.Result, s.rules.BonusPercent),
		At:     now,
	}
	if s.rules.PowerupDuration > 0 && s.rules.PowerupValue > 0 {
		reward.Powerup = &entities.Powerup{
			ID:        uuid.New().String(),
			UserID:    bet.CreatorID,
			Type:      entities.PowerupStakeBoost,
			Value:     s.rules.PowerupValue,
			ExpiresAt: now.Add(s.rules.PowerupDuration),
			CreatedAt: now,
		}
	}
	if reward.Bonus == 0 && reward.Powerup == nil {
		return
	}

	if err := s.repo.GrantCreatorReward(ctx, reward); err != nil {
		s.metrics.RewardFailed()
		s.logError("Failed to grant creator reward", storeError(err, "error granting creator reward"),
			zap.String("bet_id", bet.ID),
			zap.String("creator_id", bet.CreatorID),
			zap.Int64("bonus", reward.Bonus))
	}
}

func (s *Service) notifySettlement(ctx context.Context, bet *entities.Bet, st *settlement.Settlement, path string) {
	link := betLink(bet.ID)
	won := st.Result == entities.ResultWon

	switch {
	case path == pathVerify && won:
		s.send(ctx, bet.CreatorID, entities.NotificationBetResolved, "Proof Accepted!",
			fmt.Sprintf("Bettors verified your proof. You won the bet: %s!", bet.Title), link)
	case path == pathVerify:
		s.send(ctx, bet.CreatorID, entities.NotificationBetResolved, "Proof Rejected!",
			fmt.Sprintf("Bettors rejected your proof. You need to complete the punishment for: %s", bet.Title), link)
	case won:
		s.send(ctx, bet.CreatorID, entities.NotificationBetResolved, "Bet Resolved",
			fmt.Sprintf("You completed \"%s\"! Payouts have been sent to your bettors.", bet.Title), link)
	default:
		s.send(ctx, bet.CreatorID, entities.NotificationBetResolved, "Bet Resolved",
			fmt.Sprintf("You did not complete \"%s\". Payouts have been sent to your bettors.", bet.Title), link)
	}

	if !won {
		msg := fmt.Sprintf("Please complete the punishment for failing: %s", bet.Title)
		if path == pathVerify {
			msg = "Your proof was rejected. " + msg
		}
		s.send(ctx, bet.CreatorID, entities.NotificationPunishmentAssigned, "Complete Your Punishment", msg, link)
	}

	for _, line := range st.Lines {
		if line.Won {
			s.send(ctx, line.UserID, entities.NotificationPredictionWon, "You won!",
				fmt.Sprintf("You earned %d points for correctly predicting \"%s\"!", line.Payout, bet.Title), link)
		} else {
			s.send(ctx, line.UserID, entities.NotificationPredictionLost, "😔 Prediction lost",
				fmt.Sprintf("Your prediction for \"%s\" was incorrect.", bet.Title), link)
		}
	}
}
