package social

import (
	"context"
	"errors"
	"strings"

	"github.com/fadedpez/friendbet/internal/types"
	"github.com/fadedpez/friendbet/pkg/entities"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var validate = validator.New()

// FriendRequest names the user to connect with or disconnect from
type FriendRequest struct {
	FriendID string `json:"friendId" validate:"required"`
}

func (r *FriendRequest) Validate() error {
	r.FriendID = strings.TrimSpace(r.FriendID)
	if err := validate.Struct(r); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return types.WrapError(types.ErrValidation, "friendId is required", err)
		}
		return types.WrapError(types.ErrValidation, "invalid input", err)
	}
	return nil
}

// Friends returns the users connected to userID
func (s *Service) Friends(ctx context.Context, userID string) ([]UserSummary, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	friends, err := s.repo.GetFriends(ctx, userID)
	if err != nil {
		return nil, storeError(err, "error loading friends")
	}

	out := make([]UserSummary, 0, len(friends))
	for _, f := range friends {
		out = append(out, summarize(f))
	}
	return out, nil
}

// AddFriend connects userID and req.FriendID. Connections are accepted
// immediately and hold in both directions.
func (s *Service) AddFriend(ctx context.Context, userID string, req *FriendRequest) (*entities.FriendConnection, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.FriendID == userID {
		return nil, types.NewBetError(types.ErrValidation, "you cannot add yourself as a friend")
	}

	conn := &entities.FriendConnection{
		ID:        uuid.New().String(),
		UserID:    userID,
		FriendID:  req.FriendID,
		Status:    entities.FriendStatusAccepted,
		CreatedAt: s.clock(),
	}
	if err := s.repo.AddFriend(ctx, conn); err != nil {
		return nil, storeError(err, "error adding friend")
	}

	s.logger.Info("Friend added", zap.String("user_id", userID), zap.String("friend_id", req.FriendID))
	return conn, nil
}

// RemoveFriend drops the connection between userID and req.FriendID in either
// direction. Removing a connection that does not exist is not an error.
func (s *Service) RemoveFriend(ctx context.Context, userID string, req *FriendRequest) error {
	if err := requireCaller(userID); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	if err := s.repo.RemoveFriend(ctx, userID, req.FriendID); err != nil {
		return storeError(err, "error removing friend")
	}

	s.logger.Info("Friend removed", zap.String("user_id", userID), zap.String("friend_id", req.FriendID))
	return nil
}
