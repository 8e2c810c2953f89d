// Package ledger persists users, bets and every balance change. All
// multi-row changes to a bet go through UpdateBet so they commit or fail as
// one unit.
package ledger

//go:generate mockgen -source=$GOFILE -destination=mock/mock.go -package=mock_ledger

import (
	"context"
	"errors"
	"time"

	"github.com/fadedpez/friendbet/pkg/entities"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username already taken")
	ErrBetNotFound        = errors.New("bet not found")
	ErrBetNotActive       = errors.New("bet is not active")
	ErrPredictionExists   = errors.New("user already has a prediction on this bet")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrAlreadySettled     = errors.New("prediction already settled")
	ErrPunishmentNotFound = errors.New("punishment not found")
	ErrFriendExists       = errors.New("friend connection already exists")
	ErrTokenNotFound      = errors.New("token not found")
)

// Snapshot is the locked view of a bet handed to an UpdateBet callback
type Snapshot struct {
	Bet         *entities.Bet
	Predictions []*entities.Prediction
	ProofVotes  []*entities.ProofVote
}

// PredictionBy returns the prediction userID placed, or nil
func (s *Snapshot) PredictionBy(userID string) *entities.Prediction {
	for _, p := range s.Predictions {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

// VoteBy returns the proof vote userID cast, or nil
func (s *Snapshot) VoteBy(userID string) *entities.ProofVote {
	for _, v := range s.ProofVotes {
		if v.UserID == userID {
			return v
		}
	}
	return nil
}

// Mutation is the set of writes an UpdateBet callback asks the store to apply.
// Nil fields are skipped. The store applies them in field order inside the
// same transaction that produced the snapshot.
type Mutation struct {
	// Prediction is inserted and its stake debited from the bettor. The debit
	// fails with ErrInsufficientPoints rather than overdrawing.
	Prediction *entities.Prediction

	// Punishments are inserted as given
	Punishments []*entities.Punishment

	// ProofVote replaces any earlier vote by the same user on the bet
	ProofVote *entities.ProofVote

	// Proof records submitted proof on an active bet
	Proof *Proof

	// Closure moves an active bet to its final status and applies the
	// per-prediction entries.
	Closure *Closure
}

// Proof is the creator's submitted evidence
type Proof struct {
	URL string
	At  time.Time
}

// Closure ends an active bet. Status must be COMPLETED or CANCELLED.
type Closure struct {
	Status   entities.BetStatus
	Result   entities.BetResult
	ProofURL string // replaces the stored proof URL when set
	At       time.Time
	Entries  []Entry
}

// Entry is one prediction's share of a closure
type Entry struct {
	PredictionID string
	UserID       string
	Payout       *int64 // written once; nil leaves the prediction unsettled
	Credit       int64  // added to the user's balance when positive
	Type         entities.TransactionType
	Description  string
}

// UpdateFunc inspects the locked snapshot and returns the writes to apply.
// Returning an error aborts the unit with no effect. It must not call back
// into the repository.
type UpdateFunc func(snap *Snapshot) (*Mutation, error)

// CreatorReward is the bonus and powerup granted to a creator who won
type CreatorReward struct {
	BetID   string
	UserID  string
	Bonus   int64
	Powerup *entities.Powerup
	At      time.Time
}

// UserActivity counts what a user has done
type UserActivity struct {
	BetsCreated int64 `json:"betsCreated"`
	Predictions int64 `json:"predictions"`
}

// Repository defines the interface for ledger data operations
type Repository interface {
	// SaveUser creates a user
	SaveUser(ctx context.Context, user *entities.User) error

	// GetUser retrieves a user by ID
	GetUser(ctx context.Context, userID string) (*entities.User, error)

	// ListUsers returns every user
	ListUsers(ctx context.Context) ([]*entities.User, error)

	// CreateBet stores a new bet
	CreateBet(ctx context.Context, bet *entities.Bet) error

	// GetBet retrieves a bet by ID
	GetBet(ctx context.Context, betID string) (*entities.Bet, error)

	// ListBets returns the most recent bets, newest first
	ListBets(ctx context.Context, limit int) ([]*entities.Bet, error)

	// ListBetsByCreators returns the most recent bets created by any of
	// creatorIDs, newest first
	ListBetsByCreators(ctx context.Context, creatorIDs []string, limit int) ([]*entities.Bet, error)

	// GetPredictions returns every prediction on a bet in placement order
	GetPredictions(ctx context.Context, betID string) ([]*entities.Prediction, error)

	// ListPredictionsByUsers returns the most recent predictions placed by any
	// of userIDs across all bets, newest first
	ListPredictionsByUsers(ctx context.Context, userIDs []string, limit int) ([]*entities.Prediction, error)

	// CountUserActivity counts the bets a user created and the predictions
	// they placed
	CountUserActivity(ctx context.Context, userID string) (*UserActivity, error)

	// GetProofVotes returns the current proof votes on a bet
	GetProofVotes(ctx context.Context, betID string) ([]*entities.ProofVote, error)

	// GetPunishments returns the punishments proposed on a bet
	GetPunishments(ctx context.Context, betID string) ([]*entities.Punishment, error)

	// UpdateBet runs fn against a locked snapshot of the bet and applies the
	// returned mutation atomically
	UpdateBet(ctx context.Context, betID string, fn UpdateFunc) error

	// GrantCreatorReward credits the bonus and stores the powerup atomically
	GrantCreatorReward(ctx context.Context, reward *CreatorReward) error

	// VotePunishment increments a punishment's vote count
	VotePunishment(ctx context.Context, betID, punishmentID string) (*entities.Punishment, error)

	// AddNotification stores a notification in the user's inbox
	AddNotification(ctx context.Context, notification *entities.Notification) error

	// GetNotifications returns a user's most recent notifications, newest first
	GetNotifications(ctx context.Context, userID string, limit int) ([]*entities.Notification, error)

	// GetTransactions returns a user's most recent transactions, newest first
	GetTransactions(ctx context.Context, userID string, limit int) ([]*entities.Transaction, error)

	// GetActivePowerups returns a user's powerups that have not expired at now
	GetActivePowerups(ctx context.Context, userID string, now time.Time) ([]*entities.Powerup, error)

	// DeleteExpiredPowerups removes powerups expired at now and returns how many
	DeleteExpiredPowerups(ctx context.Context, now time.Time) (int64, error)

	// AddFriend stores a connection between two existing users. It fails
	// with ErrFriendExists when they are already connected in either
	// direction.
	AddFriend(ctx context.Context, conn *entities.FriendConnection) error

	// RemoveFriend deletes any connection between the two users
	RemoveFriend(ctx context.Context, userID, friendID string) error

	// GetFriends returns the users connected to userID in connection order
	GetFriends(ctx context.Context, userID string) ([]*entities.User, error)

	// SaveToken stores a bearer token issued to userID
	SaveToken(ctx context.Context, token, userID string, at time.Time) error

	// GetTokenUser returns the user a token was issued to, or ErrTokenNotFound
	GetTokenUser(ctx context.Context, token string) (string, error)

	// Ping checks the store is reachable
	Ping(ctx context.Context) error

	// Close releases the store
	Close() error
}
