package entities

import "time"

// PowerupType names a temporary perk
type PowerupType string

const (
	PowerupStakeBoost PowerupType = "STAKE_BOOST"
)

// Powerup is a perk granted to a user until ExpiresAt
type Powerup struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	Type      PowerupType `json:"type"`
	Value     int64       `json:"value"`
	ExpiresAt time.Time   `json:"expiresAt"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Expired reports whether the powerup is no longer usable at now
func (p *Powerup) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}
