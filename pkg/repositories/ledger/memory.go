package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fadedpez/friendbet/pkg/entities"
	"github.com/google/uuid"
)

// MemoryRepository implements Repository using in-memory storage
type MemoryRepository struct {
	mu            sync.RWMutex
	users         map[string]*entities.User
	bets          map[string]*entities.Bet
	betOrder      []string
	predictions   map[string][]*entities.Prediction
	proofVotes    map[string][]*entities.ProofVote
	punishments   map[string][]*entities.Punishment
	notifications map[string][]*entities.Notification
	powerups      map[string]*entities.Powerup
	transactions  map[string][]*entities.Transaction
	friends       []*entities.FriendConnection
	tokens        map[string]string
}

// NewMemoryRepository creates a new in-memory ledger repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:         make(map[string]*entities.User),
		bets:          make(map[string]*entities.Bet),
		predictions:   make(map[string][]*entities.Prediction),
		proofVotes:    make(map[string][]*entities.ProofVote),
		punishments:   make(map[string][]*entities.Punishment),
		notifications: make(map[string][]*entities.Notification),
		powerups:      make(map[string]*entities.Powerup),
		transactions:  make(map[string][]*entities.Transaction),
		tokens:        make(map[string]string),
	}
}

// SaveUser creates a user
func (r *MemoryRepository) SaveUser(ctx context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.ID]; exists {
		return ErrUserExists
	}
	for _, u := range r.users {
		if u.Username == user.Username {
			return ErrUserExists
		}
	}

	userCopy := *user
	r.users[user.ID] = &userCopy
	return nil
}

// GetUser retrieves a user by ID
func (r *MemoryRepository) GetUser(ctx context.Context, userID string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[userID]
	if !exists {
		return nil, ErrUserNotFound
	}

	// Return a copy to prevent concurrent modification
	userCopy := *user
	return &userCopy, nil
}

// ListUsers returns every user, highest balance first
func (r *MemoryRepository) ListUsers(ctx context.Context) ([]*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*entities.User, 0, len(r.users))
	for _, u := range r.users {
		userCopy := *u
		users = append(users, &userCopy)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Points != users[j].Points {
			return users[i].Points > users[j].Points
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

// CreateBet stores a new bet
func (r *MemoryRepository) CreateBet(ctx context.Context, bet *entities.Bet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	betCopy := *bet
	r.bets[bet.ID] = &betCopy
	r.betOrder = append(r.betOrder, bet.ID)
	return nil
}

// GetBet retrieves a bet by ID
func (r *MemoryRepository) GetBet(ctx context.Context, betID string) (*entities.Bet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bet, exists := r.bets[betID]
	if !exists {
		return nil, ErrBetNotFound
	}
	betCopy := *bet
	return &betCopy, nil
}

// ListBets returns the most recent bets, newest first
func (r *MemoryRepository) ListBets(ctx context.Context, limit int) ([]*entities.Bet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.Bet, 0, limit)
	for i := len(r.betOrder) - 1; i >= 0 && len(result) < limit; i-- {
		betCopy := *r.bets[r.betOrder[i]]
		result = append(result, &betCopy)
	}
	return result, nil
}

// GetPredictions returns every prediction on a bet in placement order
func (r *MemoryRepository) GetPredictions(ctx context.Context, betID string) ([]*entities.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return copyPredictions(r.predictions[betID]), nil
}

// GetProofVotes returns the current proof votes on a bet
func (r *MemoryRepository) GetProofVotes(ctx context.Context, betID string) ([]*entities.ProofVote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return copyVotes(r.proofVotes[betID]), nil
}

// GetPunishments returns the punishments proposed on a bet
func (r *MemoryRepository) GetPunishments(ctx context.Context, betID string) ([]*entities.Punishment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.Punishment, 0, len(r.punishments[betID]))
	for _, p := range r.punishments[betID] {
		pCopy := *p
		result = append(result, &pCopy)
	}
	return result, nil
}

// UpdateBet runs fn against a snapshot of the bet while holding the write
// lock. Every precondition of the mutation is checked before anything is
// written, so a failing unit leaves the store untouched.
func (r *MemoryRepository) UpdateBet(ctx context.Context, betID string, fn UpdateFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bet, exists := r.bets[betID]
	if !exists {
		return ErrBetNotFound
	}

	betCopy := *bet
	snap := &Snapshot{
		Bet:         &betCopy,
		Predictions: copyPredictions(r.predictions[betID]),
		ProofVotes:  copyVotes(r.proofVotes[betID]),
	}

	m, err := fn(snap)
	if err != nil {
		return err
	}
	if m == nil {
		return nil
	}

	if err := r.check(bet, m); err != nil {
		return err
	}
	r.apply(bet, m)
	return nil
}

func (r *MemoryRepository) check(bet *entities.Bet, m *Mutation) error {
	if p := m.Prediction; p != nil {
		user, exists := r.users[p.UserID]
		if !exists {
			return ErrUserNotFound
		}
		for _, existing := range r.predictions[bet.ID] {
			if existing.UserID == p.UserID {
				return ErrPredictionExists
			}
		}
		if user.Points < p.Stake {
			return ErrInsufficientPoints
		}
	}

	if m.Proof != nil && bet.Status != entities.BetStatusActive {
		return ErrBetNotActive
	}

	if c := m.Closure; c != nil {
		if bet.Status != entities.BetStatusActive {
			return ErrBetNotActive
		}
		for _, e := range c.Entries {
			if e.Payout != nil {
				pred := r.findPrediction(bet.ID, e.PredictionID)
				if pred == nil || pred.Payout != nil {
					return ErrAlreadySettled
				}
			}
			if e.Credit > 0 {
				if _, exists := r.users[e.UserID]; !exists {
					return ErrUserNotFound
				}
			}
		}
	}

	return nil
}

func (r *MemoryRepository) apply(bet *entities.Bet, m *Mutation) {
	if p := m.Prediction; p != nil {
		predCopy := *p
		r.predictions[bet.ID] = append(r.predictions[bet.ID], &predCopy)
		r.adjust(p.UserID, -p.Stake, entities.TransactionTypeStake, bet.ID, "Stake on "+bet.Title, p.CreatedAt)
	}

	for _, p := range m.Punishments {
		pCopy := *p
		r.punishments[bet.ID] = append(r.punishments[bet.ID], &pCopy)
	}

	if v := m.ProofVote; v != nil {
		if existing := r.findVote(bet.ID, v.UserID); existing != nil {
			existing.Vote = v.Vote
			existing.UpdatedAt = v.UpdatedAt
		} else {
			vCopy := *v
			r.proofVotes[bet.ID] = append(r.proofVotes[bet.ID], &vCopy)
		}
	}

	if pr := m.Proof; pr != nil {
		at := pr.At
		bet.ProofURL = pr.URL
		bet.ProofSubmittedAt = &at
		bet.VerificationRequired = true
	}

	if c := m.Closure; c != nil {
		at := c.At
		bet.Status = c.Status
		bet.Result = c.Result
		if c.ProofURL != "" {
			bet.ProofURL = c.ProofURL
		}
		bet.VerificationRequired = false
		bet.ResolvedAt = &at

		for _, e := range c.Entries {
			if e.Payout != nil {
				payout := *e.Payout
				r.findPrediction(bet.ID, e.PredictionID).Payout = &payout
			}
			if e.Credit > 0 {
				r.adjust(e.UserID, e.Credit, e.Type, bet.ID, e.Description, c.At)
			}
		}
	}
}

// adjust changes a balance and records the ledger row. Callers hold the lock.
func (r *MemoryRepository) adjust(userID string, amount int64, txType entities.TransactionType, refID, description string, at time.Time) {
	user := r.users[userID]
	user.Points += amount
	r.transactions[userID] = append(r.transactions[userID], &entities.Transaction{
		ID:           uuid.New().String(),
		UserID:       userID,
		Amount:       amount,
		Type:         txType,
		ReferenceID:  refID,
		Description:  description,
		Timestamp:    at,
		BalanceAfter: user.Points,
	})
}

func (r *MemoryRepository) findPrediction(betID, predictionID string) *entities.Prediction {
	for _, p := range r.predictions[betID] {
		if p.ID == predictionID {
			return p
		}
	}
	return nil
}

func (r *MemoryRepository) findVote(betID, userID string) *entities.ProofVote {
	for _, v := range r.proofVotes[betID] {
		if v.UserID == userID {
			return v
		}
	}
	return nil
}

// GrantCreatorReward credits the bonus and stores the powerup atomically
func (r *MemoryRepository) GrantCreatorReward(ctx context.Context, reward *CreatorReward) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[reward.UserID]; !exists {
		return ErrUserNotFound
	}

	if reward.Bonus > 0 {
		r.adjust(reward.UserID, reward.Bonus, entities.TransactionTypeBonus, reward.BetID, "Creator bonus", reward.At)
	}
	if reward.Powerup != nil {
		pCopy := *reward.Powerup
		r.powerups[pCopy.ID] = &pCopy
	}
	return nil
}

// VotePunishment increments a punishment's vote count
func (r *MemoryRepository) VotePunishment(ctx context.Context, betID, punishmentID string) (*entities.Punishment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.punishments[betID] {
		if p.ID == punishmentID {
			p.Votes++
			pCopy := *p
			return &pCopy, nil
		}
	}
	return nil, ErrPunishmentNotFound
}

// AddNotification stores a notification in the user's inbox
func (r *MemoryRepository) AddNotification(ctx context.Context, notification *entities.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	nCopy := *notification
	r.notifications[notification.UserID] = append(r.notifications[notification.UserID], &nCopy)
	return nil
}

// GetNotifications returns a user's most recent notifications, newest first
func (r *MemoryRepository) GetNotifications(ctx context.Context, userID string, limit int) ([]*entities.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.notifications[userID]
	result := make([]*entities.Notification, 0, min(limit, len(all)))
	for i := len(all) - 1; i >= 0 && len(result) < limit; i-- {
		nCopy := *all[i]
		result = append(result, &nCopy)
	}
	return result, nil
}

// GetTransactions returns a user's most recent transactions, newest first
func (r *MemoryRepository) GetTransactions(ctx context.Context, userID string, limit int) ([]*entities.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.transactions[userID]
	result := make([]*entities.Transaction, 0, min(limit, len(all)))
	for i := len(all) - 1; i >= 0 && len(result) < limit; i-- {
		txCopy := *all[i]
		result = append(result, &txCopy)
	}
	return result, nil
}

// GetActivePowerups returns a user's powerups that have not expired at now
func (r *MemoryRepository) GetActivePowerups(ctx context.Context, userID string, now time.Time) ([]*entities.Powerup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.Powerup, 0)
	for _, p := range r.powerups {
		if p.UserID == userID && !p.Expired(now) {
			pCopy := *p
			result = append(result, &pCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ExpiresAt.Before(result[j].ExpiresAt)
	})
	return result, nil
}

// DeleteExpiredPowerups removes powerups expired at now and returns how many
func (r *MemoryRepository) DeleteExpiredPowerups(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for id, p := range r.powerups {
		if p.Expired(now) {
			delete(r.powerups, id)
			removed++
		}
	}
	return removed, nil
}

// Ping always succeeds for the memory store
func (r *MemoryRepository) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the memory store
func (r *MemoryRepository) Close() error {
	return nil
}

func copyPredictions(in []*entities.Prediction) []*entities.Prediction {
	out := make([]*entities.Prediction, 0, len(in))
	for _, p := range in {
		out = append(out, copyPrediction(p))
	}
	return out
}

func copyPrediction(p *entities.Prediction) *entities.Prediction {
	pCopy := *p
	if p.Payout != nil {
		payout := *p.Payout
		pCopy.Payout = &payout
	}
	return &pCopy
}

func copyVotes(in []*entities.ProofVote) []*entities.ProofVote {
	out := make([]*entities.ProofVote, 0, len(in))
	for _, v := range in {
		vCopy := *v
		out = append(out, &vCopy)
	}
	return out
}
