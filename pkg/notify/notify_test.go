package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/friendbet/pkg/entities"
	"github.com/fadedpez/friendbet/pkg/notify"
	mock_notify "github.com/fadedpez/friendbet/pkg/notify/mock"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func sample() *entities.Notification {
	return &entities.Notification{
		ID:        "n1",
		UserID:    "alice",
		Type:      entities.NotificationPredictionWon,
		Title:     "You won!",
		Message:   `You earned 30 points on "Run a marathon"`,
		Link:      "/bets/b1",
		CreatedAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestMultiDeliversToEverySink(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := mock_notify.NewMockNotifier(ctrl)
	second := mock_notify.NewMockNotifier(ctrl)

	n := sample()
	ctx := context.Background()
	first.EXPECT().Notify(ctx, n).Return(errors.New("unreachable"))
	second.EXPECT().Notify(ctx, n).Return(nil)

	multi := notify.NewMulti(
		notify.Sink{Name: "kafka", Notifier: first},
		notify.Sink{Name: "inbox", Notifier: second},
	)

	err := multi.Notify(ctx, n)
	require.Error(t, err)
	assert.Equal(t, []string{"kafka"}, notify.FailedSinks(err))
	assert.Contains(t, err.Error(), "kafka: unreachable")
	assert.Equal(t, []string{"kafka", "inbox"}, multi.Sinks())
}

func TestMultiWithoutFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mock_notify.NewMockNotifier(ctrl)
	sink.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	multi := notify.NewMulti()
	multi.Add("inbox", sink)

	assert.NoError(t, multi.Notify(context.Background(), sample()))
	assert.NoError(t, multi.Notify(context.Background(), sample()))
	assert.Nil(t, notify.FailedSinks(nil))
}

type inboxStore struct {
	mu    sync.Mutex
	saved []*entities.Notification
}

func (s *inboxStore) AddNotification(ctx context.Context, n *entities.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, n)
	return nil
}

func TestInbox(t *testing.T) {
	store := &inboxStore{}
	require.NoError(t, notify.NewInbox(store).Notify(context.Background(), sample()))
	require.Len(t, store.saved, 1)
	assert.Equal(t, "alice", store.saved[0].UserID)
}

type channelSender struct {
	mock.Mock
}

func (s *channelSender) ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := s.Called(channelID, content)
	if msg, ok := args.Get(0).(*discordgo.Message); ok {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestDiscord(t *testing.T) {
	sender := &channelSender{}
	n := sample()
	sender.On("ChannelMessageSend", "chan-1", "**You won!**\nYou earned 30 points on \"Run a marathon\"\n/bets/b1").
		Return(&discordgo.Message{ID: "m1"}, nil).Once()

	require.NoError(t, notify.NewDiscord(sender, "chan-1").Notify(context.Background(), n))
	sender.AssertExpectations(t)

	sender.On("ChannelMessageSend", "chan-1", mock.Anything).Return(nil, errors.New("rate limited"))
	assert.Error(t, notify.NewDiscord(sender, "chan-1").Notify(context.Background(), n))
}

type messageWriter struct {
	messages []kafka.Message
	err      error
}

func (w *messageWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func TestKafka(t *testing.T) {
	writer := &messageWriter{}
	n := sample()

	require.NoError(t, notify.NewKafka(writer).Notify(context.Background(), n))
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, []byte("alice"), msg.Key)
	assert.Equal(t, n.CreatedAt, msg.Time)

	var decoded entities.Notification
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, n.Title, decoded.Title)

	writer.err = errors.New("broker down")
	assert.ErrorContains(t, notify.NewKafka(writer).Notify(context.Background(), n), "broker down")
}

type publisher struct {
	channel string
	payload []byte
	err     error
}

func (p *publisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	p.channel = channel
	p.payload, _ = message.([]byte)
	cmd := redis.NewIntCmd(ctx)
	if p.err != nil {
		cmd.SetErr(p.err)
	} else {
		cmd.SetVal(1)
	}
	return cmd
}

func TestRedis(t *testing.T) {
	pub := &publisher{}

	require.NoError(t, notify.NewRedis(pub).Notify(context.Background(), sample()))
	assert.Equal(t, "notifications:alice", pub.channel)
	assert.Contains(t, string(pub.payload), `"type":"PREDICTION_WON"`)

	pub.err = errors.New("connection refused")
	assert.Error(t, notify.NewRedis(pub).Notify(context.Background(), sample()))
}
