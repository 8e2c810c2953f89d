package social

import (
	"context"
	"time"

	"github.com/fadedpez/friendbet/pkg/entities"
)

// Challenge is a bet with its creator and the predictions placed on it
type Challenge struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Deadline    time.Time              `json:"deadline"`
	Status      entities.BetStatus     `json:"status"`
	Result      entities.BetResult     `json:"result,omitempty"`
	Category    entities.Category      `json:"category"`
	Creator     UserSummary            `json:"creator"`
	ForBets     int                    `json:"forBets"`
	AgainstBets int                    `json:"againstBets"`
	TotalBets   int                    `json:"totalBets"`
	Predictions []*entities.Prediction `json:"predictions"`
}

// MyChallenges returns the bets userID created, newest first
func (s *Service) MyChallenges(ctx context.Context, userID string) ([]*Challenge, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	return s.challengesBy(ctx, []string{userID})
}

// FriendChallenges returns the bets userID's friends created, newest first
func (s *Service) FriendChallenges(ctx context.Context, userID string) ([]*Challenge, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	friends, err := s.friendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.challengesBy(ctx, friends)
}

func (s *Service) challengesBy(ctx context.Context, creatorIDs []string) ([]*Challenge, error) {
	bets, err := s.repo.ListBetsByCreators(ctx, creatorIDs, challengeLimit)
	if err != nil {
		return nil, storeError(err, "error loading challenges")
	}
	if len(bets) == 0 {
		return []*Challenge{}, nil
	}

	users, err := s.users(ctx)
	if err != nil {
		return nil, err
	}

	challenges := make([]*Challenge, 0, len(bets))
	for _, bet := range bets {
		predictions, err := s.repo.GetPredictions(ctx, bet.ID)
		if err != nil {
			return nil, storeError(err, "error loading predictions")
		}

		c := &Challenge{
			ID:          bet.ID,
			Title:       bet.Title,
			Description: bet.Description,
			Deadline:    bet.Deadline,
			Status:      bet.Status,
			Result:      bet.Result,
			Category:    bet.Category,
			Creator:     UserSummary{ID: bet.CreatorID},
			TotalBets:   len(predictions),
			Predictions: predictions,
		}
		if creator, ok := users[bet.CreatorID]; ok {
			c.Creator = summarize(creator)
		}
		for _, p := range predictions {
			if p.Choice == entities.ChoiceFor {
				c.ForBets++
			} else {
				c.AgainstBets++
			}
		}
		challenges = append(challenges, c)
	}
	return challenges, nil
}
