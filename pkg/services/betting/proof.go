package betting

import (
	"context"
	"fmt"

	"github.com/fadedpez/friendbet/internal/types"
	"github.com/fadedpez/friendbet/pkg/entities"
	"github.com/fadedpez/friendbet/pkg/repositories/ledger"
	"github.com/fadedpez/friendbet/pkg/settlement"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VoteCounts is the public view of a proof tally
type VoteCounts struct {
	Accept   int `json:"accept"`
	Reject   int `json:"reject"`
	Total    int `json:"total"`
	Required int `json:"required"`
}

func countsOf(t settlement.Tally) VoteCounts {
	return VoteCounts{
		Accept:   t.Accept,
		Reject:   t.Reject,
		Total:    t.Total,
		Required: t.Required(),
	}
}

// VoteResult is the outcome of a proof vote. When the vote reached quorum the
// bet is resolved in the same unit and Resolution is set.
type VoteResult struct {
	Vote       *entities.ProofVote `json:"vote"`
	VoteCounts VoteCounts          `json:"voteCounts"`
	Resolved   bool                `json:"resolved"`
	Resolution *Resolution         `json:"resolution,omitempty"`
}

// TallyView is the current state of proof verification on a bet
type TallyView struct {
	Votes    []*entities.ProofVote `json:"votes"`
	Counts   VoteCounts            `json:"counts"`
	UserVote *entities.Vote        `json:"userVote"`
}

// SubmitProof records the creator's proof and asks every bettor to verify it
func (s *Service) SubmitProof(ctx context.Context, userID, betID string, req *SubmitProofRequest) (*entities.Bet, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		updated *entities.Bet
		bettors []*entities.Prediction
	)

	err := s.repo.UpdateBet(ctx, betID, func(snap *ledger.Snapshot) (*ledger.Mutation, error) {
		if snap.Bet.CreatorID != userID {
			return nil, types.NewBetError(types.ErrForbidden, "only the bet creator can submit proof")
		}
		if _, ok := snap.Bet.State().(entities.Active); !ok {
			return nil, types.NewBetError(types.ErrInvalidState, "this bet has already been resolved")
		}

		proof := &ledger.Proof{URL: req.ProofURL, At: s.clock()}
		bet := *snap.Bet
		bet.ProofURL = proof.URL
		bet.ProofSubmittedAt = &proof.At
		bet.VerificationRequired = true

		updated = &bet
		bettors = snap.Predictions
		return &ledger.Mutation{Proof: proof}, nil
	})
	if err != nil {
		return nil, storeError(err, "error submitting proof")
	}

	s.logger.Info("Proof submitted", zap.String("bet_id", betID), zap.Int("bettors", len(bettors)))

	creatorName := "The creator"
	if creator, err := s.repo.GetUser(ctx, userID); err == nil {
		creatorName = creator.Username
	}
	for _, p := range bettors {
		s.send(ctx, p.UserID, entities.NotificationBetResolved, "Verify Proof Submitted",
			fmt.Sprintf("%s submitted proof for \"%s\". Vote if they completed it!", creatorName, updated.Title),
			betLink(betID))
	}

	return updated, nil
}

// CastProofVote records the caller's verdict on submitted proof. Re-voting
// replaces the earlier vote. Once more than half of the bettors (or all of
// them) have voted the bet resolves: WON if accepts outnumber rejects, LOST
// otherwise. The vote, the tally and the resolution commit as one unit.
func (s *Service) CastProofVote(ctx context.Context, userID, betID string, req *ProofVoteRequest) (*VoteResult, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	started := s.now()
	var out VoteResult

	err := s.repo.UpdateBet(ctx, betID, func(snap *ledger.Snapshot) (*ledger.Mutation, error) {
		bet := snap.Bet
		if !bet.HasProof() {
			return nil, types.NewBetError(types.ErrInvalidState, "no proof has been submitted for this bet")
		}
		if _, ok := bet.State().(entities.Active); !ok {
			return nil, types.NewBetError(types.ErrInvalidState, "this bet has already been resolved")
		}
		if bet.CreatorID == userID {
			return nil, types.NewBetError(types.ErrForbidden, "you cannot verify your own proof")
		}
		if snap.PredictionBy(userID) == nil {
			return nil, types.NewBetError(types.ErrForbidden, "only bettors can verify proof")
		}

		now := s.clock()
		vote := &entities.ProofVote{
			ID:        uuid.New().String(),
			BetID:     betID,
			UserID:    userID,
			Vote:      req.Vote,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if previous := snap.VoteBy(userID); previous != nil {
			vote.ID = previous.ID
			vote.CreatedAt = previous.CreatedAt
		}
		votes := make([]*entities.ProofVote, 0, len(snap.ProofVotes)+1)
		for _, v := range snap.ProofVotes {
			if v.UserID != userID {
				votes = append(votes, v)
			}
		}
		votes = append(votes, vote)

		tally := settlement.NewTally(votes, len(snap.Predictions))
		out = VoteResult{Vote: vote, VoteCounts: countsOf(tally)}

		m := &ledger.Mutation{ProofVote: vote}
		if tally.QuorumReached() {
			closure, st, err := s.closeWithResult(snap, tally.Result(), "")
			if err != nil {
				return nil, err
			}
			m.Closure = closure
			out.Resolved = true
			out.Resolution = &Resolution{Bet: closedBet(bet, closure), Settlement: st}
		}
		return m, nil
	})
	if err != nil {
		return nil, storeError(err, "error recording proof vote")
	}

	s.metrics.ProofVoteCast(string(req.Vote))
	if out.Resolved {
		s.afterSettlement(ctx, out.Resolution.Bet, out.Resolution.Settlement, pathVerify, started)
	}
	return &out, nil
}

// GetProofTally returns the votes cast on a bet's proof and the caller's own
// vote
func (s *Service) GetProofTally(ctx context.Context, userID, betID string) (*TallyView, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetBet(ctx, betID); err != nil {
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

	view := &TallyView{
		Votes:  votes,
		Counts: countsOf(settlement.NewTally(votes, len(predictions))),
	}
	for _, v := range votes {
		if v.UserID == userID {
			vote := v.Vote
			view.UserVote = &vote
			break
		}
	}
	return view, nil
}
