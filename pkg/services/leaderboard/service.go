// Package leaderboard ranks users by their point balance
package leaderboard

import (
	"context"
	"time"

	"github.com/fadedpez/friendbet/pkg/entities"
)

const defaultPerPage = 10

// UserLister is the slice of the ledger the leaderboard reads. Users come back
// highest balance first.
type UserLister interface {
	ListUsers(ctx context.Context) ([]*entities.User, error)
}

// Service provides the paginated points leaderboard
type Service struct {
	repository UserLister
	now        func() time.Time
}

// NewService creates a new leaderboard service
func NewService(repository UserLister) *Service {
	return &Service{
		repository: repository,
		now:        time.Now,
	}
}

// RankedUser is a user with their leaderboard position
type RankedUser struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Points   int64  `json:"points"`
	Rank     int    `json:"rank"`
	IsLeader bool   `json:"isLeader"`
}

// Leaderboard is one page of the ranking
type Leaderboard struct {
	Users       []*RankedUser `json:"users"`
	TotalUsers  int           `json:"totalUsers"`
	CurrentPage int           `json:"currentPage"`
	TotalPages  int           `json:"totalPages"`
	PerPage     int           `json:"perPage"`
	LastUpdated time.Time     `json:"lastUpdated"`
}

// GetLeaderboard returns one page of users ranked by points. Users with equal
// points share a rank.
func (s *Service) GetLeaderboard(ctx context.Context, page, perPage int) (*Leaderboard, error) {
	// Default values
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}

	users, err := s.repository.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	ranked := make([]*RankedUser, 0, len(users))
	for i, u := range users {
		rank := i + 1
		if i > 0 && u.Points == users[i-1].Points {
			rank = ranked[i-1].Rank
		}
		ranked = append(ranked, &RankedUser{
			UserID:   u.ID,
			Username: u.Username,
			Points:   u.Points,
			Rank:     rank,
			IsLeader: rank == 1,
		})
	}

	// Calculate pagination
	totalUsers := len(ranked)
	totalPages := (totalUsers + perPage - 1) / perPage
	if page > totalPages && totalPages > 0 {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if end > totalUsers {
		end = totalUsers
	}

	pageUsers := []*RankedUser{}
	if start < totalUsers {
		pageUsers = ranked[start:end]
	}

	return &Leaderboard{
		Users:       pageUsers,
		TotalUsers:  totalUsers,
		CurrentPage: page,
		TotalPages:  totalPages,
		PerPage:     perPage,
		LastUpdated: s.now().UTC(),
	}, nil
}
