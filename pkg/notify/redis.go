package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fadedpez/friendbet/pkg/entities"
	"github.com/redis/go-redis/v9"
)

// Publisher is the part of a redis client the notifier needs
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// ConnectRedis opens a client and checks it answers
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("error connecting to redis: %w", err)
	}
	return rdb, nil
}

// Channel is the pub/sub channel a user's live notifications go to
func Channel(userID string) string {
	return "notifications:" + userID
}

// Redis publishes notifications on a per-user channel for live clients
type Redis struct {
	publisher Publisher
}

func NewRedis(publisher Publisher) *Redis {
	return &Redis{publisher: publisher}
}

// Notify implements Notifier
func (r *Redis) Notify(ctx context.Context, n *entities.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	if err := r.publisher.Publish(ctx, Channel(n.UserID), payload).Err(); err != nil {
		return fmt.Errorf("error publishing to redis: %w", err)
	}
	return nil
}
