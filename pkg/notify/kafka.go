package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fadedpez/friendbet/pkg/entities"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of a kafka.Writer the notifier needs
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// NewKafkaWriter creates a writer for the notification topic
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           10 * time.Second,
	}
}

// Kafka publishes notifications as JSON keyed by user ID, so one user's
// notifications stay ordered on a partition
type Kafka struct {
	writer MessageWriter
}

func NewKafka(writer MessageWriter) *Kafka {
	return &Kafka{writer: writer}
}

// Notify implements Notifier
func (k *Kafka) Notify(ctx context.Context, n *entities.Notification) error {
	value, err := json.Marshal(n)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(n.UserID),
		Value: value,
		Time:  n.CreatedAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(strings.ToLower(string(n.Type)))},
		},
	}

	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("error publishing notification: %w", err)
	}
	return nil
}
