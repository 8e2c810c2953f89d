package entities

import (
	"time"
)

// StartingPoints is the balance every new user receives
const StartingPoints int64 = 1000

// User is a FriendBet account and its point balance
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Points    int64     `json:"points"`
	CreatedAt time.Time `json:"createdAt"`
}

// TransactionType represents the type of ledger transaction
type TransactionType string

const (
	TransactionTypeStake  TransactionType = "STAKE"
	TransactionTypePayout TransactionType = "PAYOUT"
	TransactionTypeRefund TransactionType = "REFUND"
	TransactionTypeBonus  TransactionType = "BONUS"
)

// Transaction represents a single balance change
type Transaction struct {
	ID           string          `json:"id"`           // Unique identifier
	UserID       string          `json:"userId"`       // User whose balance changed
	Amount       int64           `json:"amount"`       // Positive for credits, negative for debits
	Type         TransactionType `json:"type"`         // Type of transaction
	ReferenceID  string          `json:"referenceId"`  // Bet the change belongs to
	Description  string          `json:"description"`  // Human-readable description
	Timestamp    time.Time       `json:"timestamp"`    // When the transaction occurred
	BalanceAfter int64           `json:"balanceAfter"` // Balance after this transaction
}
