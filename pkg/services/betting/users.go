package betting

import (
	"context"

	"github.com/fadedpez/friendbet/pkg/entities"
	"github.com/fadedpez/friendbet/pkg/repositories/activity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegisterUser creates an account with the starting balance
func (s *Service) RegisterUser(ctx context.Context, req *RegisterUserRequest) (*entities.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user := &entities.User{
		ID:        uuid.New().String(),
		Username:  req.Username,
		Points:    entities.StartingPoints,
		CreatedAt: s.clock(),
	}

	if err := s.repo.SaveUser(ctx, user); err != nil {
		return nil, storeError(err, "error saving user")
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// GetUser returns the caller's account
func (s *Service) GetUser(ctx context.Context, userID string) (*entities.User, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, storeError(err, "error loading user")
	}
	return user, nil
}

// Notifications returns the caller's most recent notifications
func (s *Service) Notifications(ctx context.Context, userID string, limit int) ([]*entities.Notification, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	notifications, err := s.repo.GetNotifications(ctx, userID, listLimit(limit))
	if err != nil {
		return nil, storeError(err, "error loading notifications")
	}
	return notifications, nil
}

// Transactions returns the caller's most recent balance changes
func (s *Service) Transactions(ctx context.Context, userID string, limit int) ([]*entities.Transaction, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	txs, err := s.repo.GetTransactions(ctx, userID, listLimit(limit))
	if err != nil {
		return nil, storeError(err, "error loading transactions")
	}
	return txs, nil
}

// Powerups returns the caller's unexpired powerups
func (s *Service) Powerups(ctx context.Context, userID string) ([]*entities.Powerup, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	powerups, err := s.repo.GetActivePowerups(ctx, userID, s.clock())
	if err != nil {
		return nil, storeError(err, "error loading powerups")
	}
	return powerups, nil
}

// SettledBets returns the most recently closed bets across all users
func (s *Service) SettledBets(ctx context.Context, limit int) ([]*activity.Record, error) {
	records, err := s.archive.Recent(ctx, listLimit(limit))
	if err != nil {
		return nil, storeError(err, "error loading activity")
	}
	return records, nil
}
