package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fadedpez/friendbet/pkg/db"
	"github.com/fadedpez/friendbet/pkg/entities"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

const (
	userColumns       = "id, username, points, created_at"
	betColumns        = "id, creator_id, title, description, category, proof_required, deadline, status, result, proof_url, proof_submitted_at, verification_required, created_at, resolved_at"
	predictionColumns = "id, bet_id, user_id, choice, stake, payout, created_at"
	voteColumns       = "id, bet_id, user_id, vote, created_at, updated_at"
	punishmentColumns = "id, bet_id, receiver_id, assigned_by_id, description, type, votes, created_at"
	powerupColumns    = "id, user_id, type, value, expires_at, created_at"
)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// SQLRepository implements Repository on database/sql. The same queries run
// on SQLite and Postgres; the dialect rewrites placeholders and row locks.
type SQLRepository struct {
	conn    *sql.DB
	dialect db.Dialect
}

// NewSQLRepository wraps an open, migrated database
func NewSQLRepository(conn *sql.DB, dialect db.Dialect) *SQLRepository {
	return &SQLRepository{conn: conn, dialect: dialect}
}

func (r *SQLRepository) q(query string) string {
	return r.dialect.Rebind(query)
}

// SaveUser creates a user
func (r *SQLRepository) SaveUser(ctx context.Context, user *entities.User) error {
	_, err := r.conn.ExecContext(ctx,
		r.q("INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?)"),
		user.ID, user.Username, user.Points, user.CreatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUserExists
		}
		return fmt.Errorf("error saving user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID
func (r *SQLRepository) GetUser(ctx context.Context, userID string) (*entities.User, error) {
	user, err := scanUser(r.conn.QueryRowContext(ctx, r.q("SELECT "+userColumns+" FROM users WHERE id = ?"), userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return user, nil
}

// ListUsers returns every user, highest balance first
func (r *SQLRepository) ListUsers(ctx context.Context) ([]*entities.User, error) {
	rows, err := r.conn.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY points DESC, created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	users := make([]*entities.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// CreateBet stores a new bet
func (r *SQLRepository) CreateBet(ctx context.Context, bet *entities.Bet) error {
	_, err := r.conn.ExecContext(ctx,
		r.q("INSERT INTO bets ("+betColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"),
		bet.ID, bet.CreatorID, bet.Title, bet.Description, bet.Category, bet.ProofRequired,
		bet.Deadline.UTC(), bet.Status, bet.Result, bet.ProofURL, nullTime(bet.ProofSubmittedAt),
		bet.VerificationRequired, bet.CreatedAt.UTC(), nullTime(bet.ResolvedAt))
	if err != nil {
		return fmt.Errorf("error creating bet: %w", err)
	}
	return nil
}

// GetBet retrieves a bet by ID
func (r *SQLRepository) GetBet(ctx context.Context, betID string) (*entities.Bet, error) {
	return r.getBet(ctx, r.conn, betID, false)
}

func (r *SQLRepository) getBet(ctx context.Context, qr querier, betID string, lock bool) (*entities.Bet, error) {
	query := "SELECT " + betColumns + " FROM bets WHERE id = ?"
	if lock {
		query += r.dialect.LockClause()
	}

	bet, err := scanBet(qr.QueryRowContext(ctx, r.q(query), betID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBetNotFound
		}
		return nil, fmt.Errorf("error getting bet: %w", err)
	}
	return bet, nil
}

// ListBets returns the most recent bets, newest first
func (r *SQLRepository) ListBets(ctx context.Context, limit int) ([]*entities.Bet, error) {
	rows, err := r.conn.QueryContext(ctx, r.q("SELECT "+betColumns+" FROM bets ORDER BY created_at DESC LIMIT ?"), limit)
	if err != nil {
		return nil, fmt.Errorf("error listing bets: %w", err)
	}
	defer rows.Close()

	return scanBets(rows)
}

func scanBets(rows *sql.Rows) ([]*entities.Bet, error) {
	bets := make([]*entities.Bet, 0)
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning bet: %w", err)
		}
		bets = append(bets, bet)
	}
	return bets, rows.Err()
}

// GetPredictions returns every prediction on a bet in placement order
func (r *SQLRepository) GetPredictions(ctx context.Context, betID string) ([]*entities.Prediction, error) {
	return r.getPredictions(ctx, r.conn, betID)
}

func (r *SQLRepository) getPredictions(ctx context.Context, qr querier, betID string) ([]*entities.Prediction, error) {
	rows, err := qr.QueryContext(ctx, r.q("SELECT "+predictionColumns+" FROM predictions WHERE bet_id = ? ORDER BY created_at, id"), betID)
	if err != nil {
		return nil, fmt.Errorf("error getting predictions: %w", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

func scanPredictions(rows *sql.Rows) ([]*entities.Prediction, error) {
	predictions := make([]*entities.Prediction, 0)
	for rows.Next() {
		var p entities.Prediction
		var payout sql.NullInt64
		if err := rows.Scan(&p.ID, &p.BetID, &p.UserID, &p.Choice, &p.Stake, &payout, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning prediction: %w", err)
		}
		if payout.Valid {
			value := payout.Int64
			p.Payout = &value
		}
		predictions = append(predictions, &p)
	}
	return predictions, rows.Err()
}

// GetProofVotes returns the current proof votes on a bet
func (r *SQLRepository) GetProofVotes(ctx context.Context, betID string) ([]*entities.ProofVote, error) {
	return r.getProofVotes(ctx, r.conn, betID)
}

func (r *SQLRepository) getProofVotes(ctx context.Context, qr querier, betID string) ([]*entities.ProofVote, error) {
	rows, err := qr.QueryContext(ctx, r.q("SELECT "+voteColumns+" FROM proof_votes WHERE bet_id = ? ORDER BY created_at, id"), betID)
	if err != nil {
		return nil, fmt.Errorf("error getting proof votes: %w", err)
	}
	defer rows.Close()

	votes := make([]*entities.ProofVote, 0)
	for rows.Next() {
		var v entities.ProofVote
		if err := rows.Scan(&v.ID, &v.BetID, &v.UserID, &v.Vote, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning proof vote: %w", err)
		}
		votes = append(votes, &v)
	}
	return votes, rows.Err()
}

// GetPunishments returns the punishments proposed on a bet
func (r *SQLRepository) GetPunishments(ctx context.Context, betID string) ([]*entities.Punishment, error) {
	rows, err := r.conn.QueryContext(ctx, r.q("SELECT "+punishmentColumns+" FROM punishments WHERE bet_id = ? ORDER BY created_at, id"), betID)
	if err != nil {
		return nil, fmt.Errorf("error getting punishments: %w", err)
	}
	defer rows.Close()

	punishments := make([]*entities.Punishment, 0)
	for rows.Next() {
		p, err := scanPunishment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning punishment: %w", err)
		}
		punishments = append(punishments, p)
	}
	return punishments, rows.Err()
}

// UpdateBet locks the bet row, hands fn a snapshot read inside the same
// transaction and applies the returned mutation before committing
func (r *SQLRepository) UpdateBet(ctx context.Context, betID string, fn UpdateFunc) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	bet, err := r.getBet(ctx, tx, betID, true)
	if err != nil {
		return err
	}
	predictions, err := r.getPredictions(ctx, tx, betID)
	if err != nil {
		return err
	}
	votes, err := r.getProofVotes(ctx, tx, betID)
	if err != nil {
		return err
	}

	m, err := fn(&Snapshot{Bet: bet, Predictions: predictions, ProofVotes: votes})
	if err != nil {
		return err
	}
	if m != nil {
		if err := r.apply(ctx, tx, bet, m); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

func (r *SQLRepository) apply(ctx context.Context, tx *sql.Tx, bet *entities.Bet, m *Mutation) error {
	if p := m.Prediction; p != nil {
		_, err := tx.ExecContext(ctx,
			r.q("INSERT INTO predictions ("+predictionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)"),
			p.ID, bet.ID, p.UserID, p.Choice, p.Stake, nullInt(p.Payout), p.CreatedAt.UTC())
		if err != nil {
			if isUniqueViolation(err) {
				return ErrPredictionExists
			}
			return fmt.Errorf("error inserting prediction: %w", err)
		}

		balance, err := r.debit(ctx, tx, p.UserID, p.Stake)
		if err != nil {
			return err
		}
		if err := r.addTransaction(ctx, tx, p.UserID, -p.Stake, entities.TransactionTypeStake, bet.ID, "Stake on "+bet.Title, p.CreatedAt, balance); err != nil {
			return err
		}
	}

	for _, p := range m.Punishments {
		_, err := tx.ExecContext(ctx,
			r.q("INSERT INTO punishments ("+punishmentColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)"),
			p.ID, bet.ID, p.ReceiverID, p.AssignedByID, p.Description, p.Type, p.Votes, p.CreatedAt.UTC())
		if err != nil {
			return fmt.Errorf("error inserting punishment: %w", err)
		}
	}

	if v := m.ProofVote; v != nil {
		_, err := tx.ExecContext(ctx,
			r.q(`INSERT INTO proof_votes (`+voteColumns+`) VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (bet_id, user_id) DO UPDATE SET vote = excluded.vote, updated_at = excluded.updated_at`),
			v.ID, bet.ID, v.UserID, v.Vote, v.CreatedAt.UTC(), v.UpdatedAt.UTC())
		if err != nil {
			return fmt.Errorf("error upserting proof vote: %w", err)
		}
	}

	if pr := m.Proof; pr != nil {
		res, err := tx.ExecContext(ctx,
			r.q("UPDATE bets SET proof_url = ?, proof_submitted_at = ?, verification_required = ? WHERE id = ? AND status = ?"),
			pr.URL, pr.At.UTC(), true, bet.ID, entities.BetStatusActive)
		if err != nil {
			return fmt.Errorf("error recording proof: %w", err)
		}
		if err := expectOneRow(res, ErrBetNotActive); err != nil {
			return err
		}
	}

	if c := m.Closure; c != nil {
		if err := r.close(ctx, tx, bet, c); err != nil {
			return err
		}
	}

	return nil
}

func (r *SQLRepository) close(ctx context.Context, tx *sql.Tx, bet *entities.Bet, c *Closure) error {
	proofURL := bet.ProofURL
	if c.ProofURL != "" {
		proofURL = c.ProofURL
	}

	res, err := tx.ExecContext(ctx,
		r.q("UPDATE bets SET status = ?, result = ?, proof_url = ?, verification_required = ?, resolved_at = ? WHERE id = ? AND status = ?"),
		c.Status, c.Result, proofURL, false, c.At.UTC(), bet.ID, entities.BetStatusActive)
	if err != nil {
		return fmt.Errorf("error closing bet: %w", err)
	}
	if err := expectOneRow(res, ErrBetNotActive); err != nil {
		return err
	}

	for _, e := range c.Entries {
		if e.Payout != nil {
			res, err := tx.ExecContext(ctx,
				r.q("UPDATE predictions SET payout = ? WHERE id = ? AND bet_id = ? AND payout IS NULL"),
				*e.Payout, e.PredictionID, bet.ID)
			if err != nil {
				return fmt.Errorf("error writing payout: %w", err)
			}
			if err := expectOneRow(res, ErrAlreadySettled); err != nil {
				return err
			}
		}

		if e.Credit > 0 {
			balance, err := r.credit(ctx, tx, e.UserID, e.Credit)
			if err != nil {
				return err
			}
			if err := r.addTransaction(ctx, tx, e.UserID, e.Credit, e.Type, bet.ID, e.Description, c.At, balance); err != nil {
				return err
			}
		}
	}

	return nil
}

// debit removes amount from a balance only if the balance covers it
func (r *SQLRepository) debit(ctx context.Context, tx *sql.Tx, userID string, amount int64) (int64, error) {
	var balance int64
	err := tx.QueryRowContext(ctx,
		r.q("UPDATE users SET points = points - ? WHERE id = ? AND points >= ? RETURNING points"),
		amount, userID, amount).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("error debiting user: %w", err)
	}

	var exists int
	err = tx.QueryRowContext(ctx, r.q("SELECT 1 FROM users WHERE id = ?"), userID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("error checking user: %w", err)
	}
	return 0, ErrInsufficientPoints
}

func (r *SQLRepository) credit(ctx context.Context, tx *sql.Tx, userID string, amount int64) (int64, error) {
	var balance int64
	err := tx.QueryRowContext(ctx,
		r.q("UPDATE users SET points = points + ? WHERE id = ? RETURNING points"),
		amount, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("error crediting user: %w", err)
	}
	return balance, nil
}

func (r *SQLRepository) addTransaction(ctx context.Context, tx *sql.Tx, userID string, amount int64, txType entities.TransactionType, refID, description string, at time.Time, balance int64) error {
	_, err := tx.ExecContext(ctx,
		r.q("INSERT INTO transactions (id, user_id, amount, type, reference_id, description, created_at, balance_after) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"),
		uuid.New().String(), userID, amount, txType, refID, description, at.UTC(), balance)
	if err != nil {
		return fmt.Errorf("error recording transaction: %w", err)
	}
	return nil
}

// GrantCreatorReward credits the bonus and stores the powerup atomically
func (r *SQLRepository) GrantCreatorReward(ctx context.Context, reward *CreatorReward) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if reward.Bonus > 0 {
		balance, err := r.credit(ctx, tx, reward.UserID, reward.Bonus)
		if err != nil {
			return err
		}
		if err := r.addTransaction(ctx, tx, reward.UserID, reward.Bonus, entities.TransactionTypeBonus, reward.BetID, "Creator bonus", reward.At, balance); err != nil {
			return err
		}
	}

	if p := reward.Powerup; p != nil {
		_, err := tx.ExecContext(ctx,
			r.q("INSERT INTO powerups ("+powerupColumns+") VALUES (?, ?, ?, ?, ?, ?)"),
			p.ID, p.UserID, p.Type, p.Value, p.ExpiresAt.UTC(), p.CreatedAt.UTC())
		if err != nil {
			return fmt.Errorf("error inserting powerup: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

// VotePunishment increments a punishment's vote count
func (r *SQLRepository) VotePunishment(ctx context.Context, betID, punishmentID string) (*entities.Punishment, error) {
	p, err := scanPunishment(r.conn.QueryRowContext(ctx,
		r.q("UPDATE punishments SET votes = votes + 1 WHERE id = ? AND bet_id = ? RETURNING "+punishmentColumns),
		punishmentID, betID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPunishmentNotFound
		}
		return nil, fmt.Errorf("error voting on punishment: %w", err)
	}
	return p, nil
}

// AddNotification stores a notification in the user's inbox
func (r *SQLRepository) AddNotification(ctx context.Context, n *entities.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	_, err := r.conn.ExecContext(ctx,
		r.q("INSERT INTO notifications (id, user_id, type, title, message, link, is_read, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"),
		n.ID, n.UserID, n.Type, n.Title, n.Message, n.Link, n.Read, n.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("error adding notification: %w", err)
	}
	return nil
}

// GetNotifications returns a user's most recent notifications, newest first
func (r *SQLRepository) GetNotifications(ctx context.Context, userID string, limit int) ([]*entities.Notification, error) {
	rows, err := r.conn.QueryContext(ctx,
		r.q("SELECT id, user_id, type, title, message, link, is_read, created_at FROM notifications WHERE user_id = ? ORDER BY created_at DESC LIMIT ?"),
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("error getting notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]*entities.Notification, 0)
	for rows.Next() {
		var n entities.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Link, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning notification: %w", err)
		}
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

// GetTransactions returns a user's most recent transactions, newest first
func (r *SQLRepository) GetTransactions(ctx context.Context, userID string, limit int) ([]*entities.Transaction, error) {
	rows, err := r.conn.QueryContext(ctx,
		r.q("SELECT id, user_id, amount, type, reference_id, description, created_at, balance_after FROM transactions WHERE user_id = ? ORDER BY created_at DESC LIMIT ?"),
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("error getting transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]*entities.Transaction, 0)
	for rows.Next() {
		var t entities.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Type, &t.ReferenceID, &t.Description, &t.Timestamp, &t.BalanceAfter); err != nil {
			return nil, fmt.Errorf("error scanning transaction: %w", err)
		}
		transactions = append(transactions, &t)
	}
	return transactions, rows.Err()
}

// GetActivePowerups returns a user's powerups that have not expired at now
func (r *SQLRepository) GetActivePowerups(ctx context.Context, userID string, now time.Time) ([]*entities.Powerup, error) {
	rows, err := r.conn.QueryContext(ctx,
		r.q("SELECT "+powerupColumns+" FROM powerups WHERE user_id = ? AND expires_at > ? ORDER BY expires_at"),
		userID, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("error getting powerups: %w", err)
	}
	defer rows.Close()

	powerups := make([]*entities.Powerup, 0)
	for rows.Next() {
		var p entities.Powerup
		if err := rows.Scan(&p.ID, &p.UserID, &p.Type, &p.Value, &p.ExpiresAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning powerup: %w", err)
		}
		powerups = append(powerups, &p)
	}
	return powerups, rows.Err()
}

// DeleteExpiredPowerups removes powerups expired at now and returns how many
func (r *SQLRepository) DeleteExpiredPowerups(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.conn.ExecContext(ctx, r.q("DELETE FROM powerups WHERE expires_at <= ?"), now.UTC())
	if err != nil {
		return 0, fmt.Errorf("error deleting expired powerups: %w", err)
	}
	return res.RowsAffected()
}

// Ping checks the database connection
func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.conn.PingContext(ctx)
}

// Close closes the database connection
func (r *SQLRepository) Close() error {
	return r.conn.Close()
}

func scanUser(s scanner) (*entities.User, error) {
	var u entities.User
	if err := s.Scan(&u.ID, &u.Username, &u.Points, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func scanBet(s scanner) (*entities.Bet, error) {
	var b entities.Bet
	var proofAt, resolvedAt sql.NullTime
	err := s.Scan(&b.ID, &b.CreatorID, &b.Title, &b.Description, &b.Category, &b.ProofRequired,
		&b.Deadline, &b.Status, &b.Result, &b.ProofURL, &proofAt, &b.VerificationRequired,
		&b.CreatedAt, &resolvedAt)
	if err != nil {
		return nil, err
	}
	if proofAt.Valid {
		t := proofAt.Time
		b.ProofSubmittedAt = &t
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		b.ResolvedAt = &t
	}
	return &b, nil
}

func scanPunishment(s scanner) (*entities.Punishment, error) {
	var p entities.Punishment
	if err := s.Scan(&p.ID, &p.BetID, &p.ReceiverID, &p.AssignedByID, &p.Description, &p.Type, &p.Votes, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func expectOneRow(res sql.Result, notMatched error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if n == 0 {
		return notMatched
	}
	return nil
}

// isUniqueViolation recognises unique constraint failures from either driver
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
