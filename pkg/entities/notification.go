package entities

import "time"

// NotificationType identifies the event a notification reports
type NotificationType string

const (
	NotificationBetResolved        NotificationType = "BET_RESOLVED"
	NotificationPredictionWon      NotificationType = "PREDICTION_WON"
	NotificationPredictionLost     NotificationType = "PREDICTION_LOST"
	NotificationPunishmentAssigned NotificationType = "PUNISHMENT_ASSIGNED"
)

// Notification is a message delivered to a single user
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Link      string           `json:"link"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}
