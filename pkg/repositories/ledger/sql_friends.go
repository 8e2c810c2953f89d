package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fadedpez/friendbet/pkg/entities"
)

// placeholders returns "?, ?, ..." for an IN list of n values
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func stringArgs(ids []string, extra ...any) []any {
	args := make([]any, 0, len(ids)+len(extra))
	for _, id := range ids {
		args = append(args, id)
	}
	return append(args, extra...)
}

// ListBetsByCreators returns the most recent bets created by any of
// creatorIDs, newest first
func (r *SQLRepository) ListBetsByCreators(ctx context.Context, creatorIDs []string, limit int) ([]*entities.Bet, error) {
	if len(creatorIDs) == 0 {
		return []*entities.Bet{}, nil
	}

	rows, err := r.conn.QueryContext(ctx,
		r.q("SELECT "+betColumns+" FROM bets WHERE creator_id IN ("+placeholders(len(creatorIDs))+") ORDER BY created_at DESC LIMIT ?"),
		stringArgs(creatorIDs, limit)...)
	if err != nil {
		return nil, fmt.Errorf("error listing bets by creator: %w", err)
	}
	defer rows.Close()

	return scanBets(rows)
}

// ListPredictionsByUsers returns the most recent predictions placed by any of
// userIDs, newest first
func (r *SQLRepository) ListPredictionsByUsers(ctx context.Context, userIDs []string, limit int) ([]*entities.Prediction, error) {
	if len(userIDs) == 0 {
		return []*entities.Prediction{}, nil
	}

	rows, err := r.conn.QueryContext(ctx,
		r.q("SELECT "+predictionColumns+" FROM predictions WHERE user_id IN ("+placeholders(len(userIDs))+") ORDER BY created_at DESC, id LIMIT ?"),
		stringArgs(userIDs, limit)...)
	if err != nil {
		return nil, fmt.Errorf("error listing predictions by user: %w", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

// CountUserActivity counts the bets a user created and the predictions they
// placed
func (r *SQLRepository) CountUserActivity(ctx context.Context, userID string) (*UserActivity, error) {
	var activity UserActivity
	err := r.conn.QueryRowContext(ctx,
		r.q("SELECT (SELECT COUNT(*) FROM bets WHERE creator_id = ?), (SELECT COUNT(*) FROM predictions WHERE user_id = ?)"),
		userID, userID).Scan(&activity.BetsCreated, &activity.Predictions)
	if err != nil {
		return nil, fmt.Errorf("error counting user activity: %w", err)
	}
	return &activity, nil
}

// AddFriend stores a connection between two existing users
func (r *SQLRepository) AddFriend(ctx context.Context, conn *entities.FriendConnection) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var users int
	err = tx.QueryRowContext(ctx, r.q("SELECT COUNT(*) FROM users WHERE id IN (?, ?)"), conn.UserID, conn.FriendID).Scan(&users)
	if err != nil {
		return fmt.Errorf("error checking users: %w", err)
	}
	if users != 2 {
		return ErrUserNotFound
	}

	var existing int
	err = tx.QueryRowContext(ctx,
		r.q("SELECT COUNT(*) FROM friend_connections WHERE (user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)"),
		conn.UserID, conn.FriendID, conn.FriendID, conn.UserID).Scan(&existing)
	if err != nil {
		return fmt.Errorf("error checking friend connection: %w", err)
	}
	if existing > 0 {
		return ErrFriendExists
	}

	_, err = tx.ExecContext(ctx,
		r.q("INSERT INTO friend_connections (id, user_id, friend_id, status, created_at) VALUES (?, ?, ?, ?, ?)"),
		conn.ID, conn.UserID, conn.FriendID, conn.Status, conn.CreatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return ErrFriendExists
		}
		return fmt.Errorf("error adding friend: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

// RemoveFriend deletes any connection between the two users
func (r *SQLRepository) RemoveFriend(ctx context.Context, userID, friendID string) error {
	_, err := r.conn.ExecContext(ctx,
		r.q("DELETE FROM friend_connections WHERE (user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)"),
		userID, friendID, friendID, userID)
	if err != nil {
		return fmt.Errorf("error removing friend: %w", err)
	}
	return nil
}

// GetFriends returns the users connected to userID in connection order
func (r *SQLRepository) GetFriends(ctx context.Context, userID string) ([]*entities.User, error) {
	rows, err := r.conn.QueryContext(ctx,
		r.q(`SELECT u.id, u.username, u.points, u.created_at
		FROM friend_connections f
		JOIN users u ON u.id = CASE WHEN f.user_id = ? THEN f.friend_id ELSE f.user_id END
		WHERE (f.user_id = ? OR f.friend_id = ?) AND f.status = ?
		ORDER BY f.created_at, f.id`),
		userID, userID, userID, entities.FriendStatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("error getting friends: %w", err)
	}
	defer rows.Close()

	friends := make([]*entities.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning friend: %w", err)
		}
		friends = append(friends, user)
	}
	return friends, rows.Err()
}

// SaveToken stores a bearer token issued to userID
func (r *SQLRepository) SaveToken(ctx context.Context, token, userID string, at time.Time) error {
	_, err := r.conn.ExecContext(ctx,
		r.q("INSERT INTO auth_tokens (token, user_id, created_at) VALUES (?, ?, ?)"),
		token, userID, at.UTC())
	if err != nil {
		return fmt.Errorf("error saving token: %w", err)
	}
	return nil
}

// GetTokenUser returns the user a token was issued to
func (r *SQLRepository) GetTokenUser(ctx context.Context, token string) (string, error) {
	var userID string
	err := r.conn.QueryRowContext(ctx, r.q("SELECT user_id FROM auth_tokens WHERE token = ?"), token).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("error getting token: %w", err)
	}
	return userID, nil
}
