package social

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fadedpez/friendbet/pkg/entities"
)

// ActivityType names an entry in the activity list
type ActivityType string

const (
	ActivityBetCreated ActivityType = "bet_created"
	ActivityVotePlaced ActivityType = "vote_placed"
)

// Activity is one thing the caller or a friend did recently
type Activity struct {
	ID        string                 `json:"id"`
	Type      ActivityType           `json:"type"`
	User      UserSummary            `json:"user"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"createdAt"`
}

// Activities returns the latest bets and predictions of userID and their
// friends, newest first
func (s *Service) Activities(ctx context.Context, userID string) ([]*Activity, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	friends, err := s.friendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := append([]string{userID}, friends...)

	bets, err := s.repo.ListBetsByCreators(ctx, ids, activityBetLimit)
	if err != nil {
		return nil, storeError(err, "error loading bets")
	}
	predictions, err := s.repo.ListPredictionsByUsers(ctx, ids, activityVoteLimit)
	if err != nil {
		return nil, storeError(err, "error loading predictions")
	}
	users, err := s.users(ctx)
	if err != nil {
		return nil, err
	}

	activities := make([]*Activity, 0, len(bets)+len(predictions))
	for _, bet := range bets {
		activities = append(activities, &Activity{
			ID:        "bet-" + bet.ID,
			Type:      ActivityBetCreated,
			User:      userSummary(users, bet.CreatorID),
			Content:   "created a new bet",
			Metadata:  map[string]interface{}{"betId": bet.ID, "betTitle": bet.Title},
			CreatedAt: bet.CreatedAt,
		})
	}
	for _, p := range predictions {
		bet, err := s.repo.GetBet(ctx, p.BetID)
		if err != nil {
			return nil, storeError(err, "error loading bet")
		}
		activities = append(activities, &Activity{
			ID:      "vote-" + p.ID,
			Type:    ActivityVotePlaced,
			User:    userSummary(users, p.UserID),
			Content: "placed a prediction",
			Metadata: map[string]interface{}{
				"betId":    p.BetID,
				"betTitle": bet.Title,
				"choice":   p.Choice,
				"stake":    p.Stake,
			},
			CreatedAt: p.CreatedAt,
		})
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].CreatedAt.After(activities[j].CreatedAt)
	})
	if len(activities) > activityLimit {
		activities = activities[:activityLimit]
	}
	return activities, nil
}

// FeedType names an entry in the friends feed
type FeedType string

const (
	FeedBetCreated     FeedType = "BET_CREATED"
	FeedProofSubmitted FeedType = "PROOF_SUBMITTED"
	FeedBetCompleted   FeedType = "BET_COMPLETED"
)

// FeedItem is one challenge event from a friend
type FeedItem struct {
	ID               string             `json:"id"`
	Type             FeedType           `json:"type"`
	BetID            string             `json:"betId"`
	Title            string             `json:"title"`
	Description      string             `json:"description"`
	Category         entities.Category  `json:"category,omitempty"`
	Creator          UserSummary        `json:"creator"`
	PredictionsCount int                `json:"predictionsCount,omitempty"`
	ProofURL         string             `json:"proofUrl,omitempty"`
	Result           entities.BetResult `json:"result,omitempty"`
	Timestamp        time.Time          `json:"timestamp"`
}

// Feed returns what userID's friends have been doing with their challenges:
// new bets, submitted proof and completions. The caller's own bets are left
// out.
func (s *Service) Feed(ctx context.Context, userID string) ([]*FeedItem, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	friends, err := s.friendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(friends) == 0 {
		return []*FeedItem{}, nil
	}

	bets, err := s.repo.ListBetsByCreators(ctx, friends, feedBetLimit+feedProofLimit)
	if err != nil {
		return nil, storeError(err, "error loading bets")
	}
	records, err := s.archive.RecentBy(ctx, friends, feedDoneLimit)
	if err != nil {
		return nil, storeError(err, "error loading completed challenges")
	}
	users, err := s.users(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*FeedItem, 0)
	for _, bet := range bets[:min(len(bets), feedBetLimit)] {
		predictions, err := s.repo.GetPredictions(ctx, bet.ID)
		if err != nil {
			return nil, storeError(err, "error loading predictions")
		}
		creator := userSummary(users, bet.CreatorID)
		items = append(items, &FeedItem{
			ID:               "bet-" + bet.ID,
			Type:             FeedBetCreated,
			BetID:            bet.ID,
			Title:            bet.Title,
			Description:      fmt.Sprintf("%s created a new challenge", creator.Username),
			Category:         bet.Category,
			Creator:          creator,
			PredictionsCount: len(predictions),
			Timestamp:        bet.CreatedAt,
		})
	}

	proofs := 0
	for _, bet := range bets {
		if !bet.HasProof() || proofs == feedProofLimit {
			continue
		}
		proofs++
		creator := userSummary(users, bet.CreatorID)
		items = append(items, &FeedItem{
			ID:          "proof-" + bet.ID,
			Type:        FeedProofSubmitted,
			BetID:       bet.ID,
			Title:       bet.Title,
			Description: fmt.Sprintf("%s %s their challenge", creator.Username, proofVerb(bet.Result)),
			Creator:     creator,
			ProofURL:    bet.ProofURL,
			Result:      bet.Result,
			Timestamp:   proofTime(bet),
		})
	}

	for _, rec := range records {
		if rec.Status != string(entities.BetStatusCompleted) {
			continue
		}
		creator := userSummary(users, rec.CreatorID)
		result := entities.BetResult(rec.Result)
		verb := "failed"
		if result == entities.ResultWon {
			verb = "completed"
		}
		items = append(items, &FeedItem{
			ID:          "complete-" + rec.BetID,
			Type:        FeedBetCompleted,
			BetID:       rec.BetID,
			Title:       rec.Title,
			Description: fmt.Sprintf("%s %s their challenge", creator.Username, verb),
			Category:    entities.Category(rec.Category),
			Creator:     creator,
			Result:      result,
			Timestamp:   rec.ClosedAt,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	if len(items) > feedLimit {
		items = items[:feedLimit]
	}
	return items, nil
}

func proofVerb(result entities.BetResult) string {
	switch result {
	case entities.ResultWon:
		return "completed"
	case entities.ResultLost:
		return "failed"
	default:
		return "submitted proof for"
	}
}

// proofTime is when the proof was submitted, falling back to when the bet
// closed
func proofTime(bet *entities.Bet) time.Time {
	if bet.ProofSubmittedAt != nil {
		return *bet.ProofSubmittedAt
	}
	if bet.ResolvedAt != nil {
		return *bet.ResolvedAt
	}
	return bet.CreatedAt
}

func userSummary(users map[string]*entities.User, userID string) UserSummary {
	if u, ok := users[userID]; ok {
		return summarize(u)
	}
	return UserSummary{ID: userID}
}
