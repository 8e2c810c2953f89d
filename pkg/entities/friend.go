package entities

import "time"

// FriendStatus is the state of a friend connection
type FriendStatus string

const (
	FriendStatusAccepted FriendStatus = "ACCEPTED"
)

// FriendConnection links two users. It is symmetric: either side sees the
// other as a friend.
type FriendConnection struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId"`
	FriendID  string       `json:"friendId"`
	Status    FriendStatus `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Other returns the side of the connection that is not userID
func (c *FriendConnection) Other(userID string) string {
	if c.UserID == userID {
		return c.FriendID
	}
	return c.UserID
}
