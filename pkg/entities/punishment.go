package entities

import "time"

// PunishmentType classifies what the loser has to do
type PunishmentType string

const (
	PunishmentNickname  PunishmentType = "NICKNAME"
	PunishmentChallenge PunishmentType = "CHALLENGE"
	PunishmentVideo     PunishmentType = "VIDEO"
	PunishmentPhoto     PunishmentType = "PHOTO"
	PunishmentTask      PunishmentType = "TASK"
	PunishmentOther     PunishmentType = "OTHER"
)

// Punishment is a penalty proposed for the creator of a lost bet
type Punishment struct {
	ID           string         `json:"id"`
	BetID        string         `json:"betId"`
	ReceiverID   string         `json:"receiverId"`
	AssignedByID string         `json:"assignedById"`
	Description  string         `json:"description"`
	Type         PunishmentType `json:"type"`
	Votes        int64          `json:"votes"`
	CreatedAt    time.Time      `json:"createdAt"`
}
