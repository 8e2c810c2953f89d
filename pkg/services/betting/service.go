// Package betting implements the FriendBet operations on top of the ledger.
// Every multi-row change runs inside a single ledger unit; notifications,
// rewards and archiving happen after the unit commits and never undo it.
package betting

import (
	"context"
	"errors"
	"time"

	"github.com/fadedpez/friendbet/internal/logging"
	"github.com/fadedpez/friendbet/internal/metrics"
	"github.com/fadedpez/friendbet/internal/types"
	"github.com/fadedpez/friendbet/pkg/entities"
	"github.com/fadedpez/friendbet/pkg/notify"
	"github.com/fadedpez/friendbet/pkg/repositories/activity"
	"github.com/fadedpez/friendbet/pkg/repositories/ledger"
	"github.com/fadedpez/friendbet/pkg/settlement"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Rules configures the creator reward
type Rules struct {
	// BonusPercent of the losing pool goes to a creator who won. 0 disables.
	BonusPercent int64

	PowerupValue int64

	// PowerupDuration of 0 disables the powerup
	PowerupDuration time.Duration
}

// DefaultRules returns the standard creator reward: 10% of the losing pool and
// a +10 stake boost for a week
func DefaultRules() Rules {
	return Rules{
		BonusPercent:    10,
		PowerupValue:    10,
		PowerupDuration: 7 * 24 * time.Hour,
	}
}

// Service handles betting business logic
type Service struct {
	repo     ledger.Repository
	notifier notify.Notifier
	archive  activity.Archive
	model    settlement.Model
	rules    Rules
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures a Service
type Option func(*Service)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithModel selects the payout model applied at settlement
func WithModel(model settlement.Model) Option {
	return func(s *Service) { s.model = model }
}

// WithArchive records closed bets in the activity feed
func WithArchive(archive activity.Archive) Option {
	return func(s *Service) { s.archive = archive }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithRules(rules Rules) Option {
	return func(s *Service) { s.rules = rules }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new betting service. A nil notifier drops
// notifications.
func NewService(repo ledger.Repository, notifier notify.Notifier, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		notifier: notifier,
		archive:  activity.NewMemoryArchive(),
		model:    settlement.PoolModel{},
		rules:    DefaultRules(),
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = notify.NotifierFunc(func(context.Context, *entities.Notification) error { return nil })
	}
	return s
}

// Model returns the payout model in use
func (s *Service) Model() settlement.Model {
	return s.model
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

func requireCaller(userID string) error {
	if userID == "" {
		return types.NewBetError(types.ErrUnauthorized, "unauthorized")
	}
	return nil
}

func listLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// storeError maps ledger errors to the error taxonomy. BetErrors raised inside
// an update callback pass through untouched.
func storeError(err error, msg string) error {
	var betErr *types.BetError
	switch {
	case errors.As(err, &betErr):
		return betErr
	case errors.Is(err, ledger.ErrBetNotFound):
		return types.WrapError(types.ErrNotFound, "bet not found", err)
	case errors.Is(err, ledger.ErrUserNotFound):
		return types.WrapError(types.ErrNotFound, "user not found", err)
	case errors.Is(err, ledger.ErrPunishmentNotFound):
		return types.WrapError(types.ErrNotFound, "punishment not found", err)
	case errors.Is(err, ledger.ErrUserExists):
		return types.WrapError(types.ErrConflict, "username already taken", err)
	case errors.Is(err, ledger.ErrPredictionExists):
		return types.WrapError(types.ErrConflict, "you have already placed a prediction on this bet", err)
	case errors.Is(err, ledger.ErrInsufficientPoints):
		return types.WrapError(types.ErrInsufficientBalance, "insufficient points", err)
	case errors.Is(err, ledger.ErrBetNotActive):
		return types.WrapError(types.ErrInvalidState, "bet is no longer active", err)
	case errors.Is(err, ledger.ErrAlreadySettled):
		return types.WrapError(types.ErrInvalidState, "bet has already been settled", err)
	default:
		return types.WrapError(types.ErrInternalError, msg, err)
	}
}

// send hands a notification to the notifier. Delivery failures are logged and
// counted, never returned.
func (s *Service) send(ctx context.Context, userID string, typ entities.NotificationType, title, message, link string) {
	n := &entities.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Link:      link,
		CreatedAt: s.clock(),
	}

	if err := s.notifier.Notify(ctx, n); err != nil {
		for _, sink := range failedSinks(err) {
			s.metrics.NotificationFailed(sink)
		}
		s.logger.Warn("Failed to send notification",
			zap.String("user_id", userID),
			zap.String("type", string(typ)),
			zap.Error(err))
	}
}

func failedSinks(err error) []string {
	if sinks := notify.FailedSinks(err); len(sinks) > 0 {
		return sinks
	}
	return []string{"dispatch"}
}

func (s *Service) logError(msg string, err error, fields ...zap.Field) {
	logging.LogError(s.logger, msg, err, fields...)
}

func betLink(betID string) string {
	return "/bets/" + betID
}
