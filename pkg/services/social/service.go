// Package social serves the user-scoped views of FriendBet: friend
// connections, profiles, a user's own and their friends' challenges, and the
// activity feeds built from them.
package social

import (
	"context"
	"errors"
	"time"

	"github.com/fadedpez/friendbet/internal/types"
	"github.com/fadedpez/friendbet/pkg/entities"
	"github.com/fadedpez/friendbet/pkg/repositories/activity"
	"github.com/fadedpez/friendbet/pkg/repositories/ledger"
	"go.uber.org/zap"
)

const (
	challengeLimit = 50
	userBetsLimit  = 50

	activityBetLimit  = 5
	activityVoteLimit = 8
	activityLimit     = 20

	feedBetLimit   = 20
	feedProofLimit = 20
	feedDoneLimit  = 20
	feedLimit      = 30
)

// Service handles friend connections and the views scoped to them
type Service struct {
	repo    ledger.Repository
	archive activity.Archive
	logger  *zap.Logger
	now     func() time.Time
}

// Option configures a Service
type Option func(*Service)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithArchive reads completed challenges for the feed from archive
func WithArchive(archive activity.Archive) Option {
	return func(s *Service) { s.archive = archive }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new social service
func NewService(repo ledger.Repository, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		archive: activity.NewMemoryArchive(),
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

// UserSummary is the public face of a user shown next to their activity
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Points   int64  `json:"points"`
}

func summarize(u *entities.User) UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Points: u.Points}
}

// friendIDs returns the IDs of userID's friends
func (s *Service) friendIDs(ctx context.Context, userID string) ([]string, error) {
	friends, err := s.repo.GetFriends(ctx, userID)
	if err != nil {
		return nil, storeError(err, "error loading friends")
	}

	ids := make([]string, 0, len(friends))
	for _, f := range friends {
		ids = append(ids, f.ID)
	}
	return ids, nil
}

// users indexes every user by ID
func (s *Service) users(ctx context.Context) (map[string]*entities.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, storeError(err, "error loading users")
	}

	byID := make(map[string]*entities.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

func requireCaller(userID string) error {
	if userID == "" {
		return types.NewBetError(types.ErrUnauthorized, "unauthorized")
	}
	return nil
}

// storeError maps ledger errors to the error taxonomy
func storeError(err error, msg string) error {
	var betErr *types.BetError
	switch {
	case errors.As(err, &betErr):
		return betErr
	case errors.Is(err, ledger.ErrUserNotFound):
		return types.WrapError(types.ErrNotFound, "user not found", err)
	case errors.Is(err, ledger.ErrBetNotFound):
		return types.WrapError(types.ErrNotFound, "bet not found", err)
	case errors.Is(err, ledger.ErrFriendExists):
		return types.WrapError(types.ErrConflict, "already friends with this user", err)
	default:
		return types.WrapError(types.ErrInternalError, msg, err)
	}
}
