package social

import (
	"context"
	"sort"
	"strings"

	"github.com/fadedpez/friendbet/pkg/entities"
	"github.com/fadedpez/friendbet/pkg/repositories/ledger"
)

// Profile is a user with counts of what they have done
type Profile struct {
	*entities.User
	Counts ledger.UserActivity `json:"_count"`
}

// Profile returns userID's public profile
func (s *Service) Profile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, storeError(err, "error loading user")
	}

	counts, err := s.repo.CountUserActivity(ctx, userID)
	if err != nil {
		return nil, storeError(err, "error counting user activity")
	}
	return &Profile{User: user, Counts: *counts}, nil
}

// SearchUsers returns every other user whose name contains query, highest
// balance first. An empty query matches everyone.
func (s *Service) SearchUsers(ctx context.Context, callerID, query string) ([]UserSummary, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, storeError(err, "error loading users")
	}

	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		if u.ID == callerID {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(u.Username), query) {
			continue
		}
		out = append(out, summarize(u))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points > out[j].Points
	})
	return out, nil
}

// UserBets splits a user's bets into the ones they created and the ones they
// predicted on
type UserBets struct {
	Created      []*entities.Bet `json:"created"`
	Participated []*entities.Bet `json:"participated"`
}

// UserBets returns the most recent bets userID created or predicted on
func (s *Service) UserBets(ctx context.Context, userID string) (*UserBets, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, storeError(err, "error loading user")
	}

	created, err := s.repo.ListBetsByCreators(ctx, []string{userID}, userBetsLimit)
	if err != nil {
		return nil, storeError(err, "error loading created bets")
	}

	predictions, err := s.repo.ListPredictionsByUsers(ctx, []string{userID}, userBetsLimit)
	if err != nil {
		return nil, storeError(err, "error loading predictions")
	}

	participated := make([]*entities.Bet, 0, len(predictions))
	for _, p := range predictions {
		bet, err := s.repo.GetBet(ctx, p.BetID)
		if err != nil {
			return nil, storeError(err, "error loading bet")
		}
		participated = append(participated, bet)
	}

	return &UserBets{Created: created, Participated: participated}, nil
}
