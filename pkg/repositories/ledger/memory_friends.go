package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/fadedpez/friendbet/pkg/entities"
)

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// ListBetsByCreators returns the most recent bets created by any of
// creatorIDs, newest first
func (r *MemoryRepository) ListBetsByCreators(ctx context.Context, creatorIDs []string, limit int) ([]*entities.Bet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	creators := idSet(creatorIDs)
	result := make([]*entities.Bet, 0)
	for i := len(r.betOrder) - 1; i >= 0 && len(result) < limit; i-- {
		bet := r.bets[r.betOrder[i]]
		if !creators[bet.CreatorID] {
			continue
		}
		betCopy := *bet
		result = append(result, &betCopy)
	}
	return result, nil
}

// ListPredictionsByUsers returns the most recent predictions placed by any of
// userIDs, newest first
func (r *MemoryRepository) ListPredictionsByUsers(ctx context.Context, userIDs []string, limit int) ([]*entities.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := idSet(userIDs)
	result := make([]*entities.Prediction, 0)
	for _, betID := range r.betOrder {
		for _, p := range r.predictions[betID] {
			if users[p.UserID] {
				result = append(result, copyPrediction(p))
			}
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// CountUserActivity counts the bets a user created and the predictions they
// placed
func (r *MemoryRepository) CountUserActivity(ctx context.Context, userID string) (*UserActivity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activity := &UserActivity{}
	for _, bet := range r.bets {
		if bet.CreatorID == userID {
			activity.BetsCreated++
		}
	}
	for _, predictions := range r.predictions {
		for _, p := range predictions {
			if p.UserID == userID {
				activity.Predictions++
			}
		}
	}
	return activity, nil
}

// AddFriend stores a connection between two existing users
func (r *MemoryRepository) AddFriend(ctx context.Context, conn *entities.FriendConnection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[conn.UserID]; !exists {
		return ErrUserNotFound
	}
	if _, exists := r.users[conn.FriendID]; !exists {
		return ErrUserNotFound
	}
	if r.findFriend(conn.UserID, conn.FriendID) >= 0 {
		return ErrFriendExists
	}

	connCopy := *conn
	r.friends = append(r.friends, &connCopy)
	return nil
}

// RemoveFriend deletes any connection between the two users
func (r *MemoryRepository) RemoveFriend(ctx context.Context, userID, friendID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := r.findFriend(userID, friendID); i >= 0; i = r.findFriend(userID, friendID) {
		r.friends = append(r.friends[:i], r.friends[i+1:]...)
	}
	return nil
}

// GetFriends returns the users connected to userID in connection order
func (r *MemoryRepository) GetFriends(ctx context.Context, userID string) ([]*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	friends := make([]*entities.User, 0)
	for _, conn := range r.friends {
		if conn.Status != entities.FriendStatusAccepted {
			continue
		}
		if conn.UserID != userID && conn.FriendID != userID {
			continue
		}
		if user, exists := r.users[conn.Other(userID)]; exists {
			userCopy := *user
			friends = append(friends, &userCopy)
		}
	}
	return friends, nil
}

// findFriend returns the index of the connection between a and b in either
// direction, or -1
func (r *MemoryRepository) findFriend(a, b string) int {
	for i, conn := range r.friends {
		if (conn.UserID == a && conn.FriendID == b) || (conn.UserID == b && conn.FriendID == a) {
			return i
		}
	}
	return -1
}

// SaveToken stores a bearer token issued to userID
func (r *MemoryRepository) SaveToken(ctx context.Context, token, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[userID]; !exists {
		return ErrUserNotFound
	}
	r.tokens[token] = userID
	return nil
}

// GetTokenUser returns the user a token was issued to
func (r *MemoryRepository) GetTokenUser(ctx context.Context, token string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userID, exists := r.tokens[token]
	if !exists {
		return "", ErrTokenNotFound
	}
	return userID, nil
}
