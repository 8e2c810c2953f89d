package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fadedpez/friendbet/internal/metrics"
	"github.com/fadedpez/friendbet/pkg/entities"
	"github.com/fadedpez/friendbet/pkg/repositories/ledger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestSchedulerRunsTaskImmediatelyAndOnInterval(t *testing.T) {
	s := NewScheduler(zaptest.NewLogger(t))

	var calls atomic.Int32
	s.AddTask("counter", 10*time.Millisecond, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})

	s.Start(context.Background())
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	after := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, calls.Load(), "task must not run after Stop")
}

func TestSchedulerKeepsRunningAfterTaskError(t *testing.T) {
	s := NewScheduler(nil)

	var calls atomic.Int32
	s.AddTask("failing", 10*time.Millisecond, func(ctx context.Context) error {
		calls.Add(1)
		return errors.New("boom")
	})

	s.Start(context.Background())
	defer s.Stop()
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	s := NewScheduler(nil)
	s.Stop()
	s.Start(context.Background())
	s.Start(context.Background())
	s.Stop()
	s.Stop()
}

func TestPowerupExpiryTask(t *testing.T) {
	ctx := context.Background()
	repo := ledger.NewMemoryRepository()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SaveUser(ctx, &entities.User{ID: "u1", Username: "alice", Points: entities.StartingPoints, CreatedAt: now}))
	require.NoError(t, repo.GrantCreatorReward(ctx, &ledger.CreatorReward{
		BetID:  "b1",
		UserID: "u1",
		Powerup: &entities.Powerup{
			ID: "old", UserID: "u1", Type: entities.PowerupStakeBoost, Value: 10,
			CreatedAt: now.Add(-8 * 24 * time.Hour), ExpiresAt: now.Add(-time.Hour),
		},
		At: now,
	}))
	require.NoError(t, repo.GrantCreatorReward(ctx, &ledger.CreatorReward{
		BetID:  "b2",
		UserID: "u1",
		Powerup: &entities.Powerup{
			ID: "fresh", UserID: "u1", Type: entities.PowerupStakeBoost, Value: 10,
			CreatedAt: now, ExpiresAt: now.Add(time.Hour),
		},
		At: now,
	}))

	reg := prometheus.NewRegistry()
	task := PowerupExpiryTask(repo, metrics.NewMetrics(reg), zaptest.NewLogger(t), func() time.Time { return now })
	require.NoError(t, task(ctx))

	active, err := repo.GetActivePowerups(ctx, "u1", now.Add(-2*time.Hour))
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "fresh", active[0].ID)
}

type failingStore struct{}

func (failingStore) DeleteExpiredPowerups(ctx context.Context, now time.Time) (int64, error) {
	return 0, errors.New("db down")
}

func TestPowerupExpiryTaskError(t *testing.T) {
	task := PowerupExpiryTask(failingStore{}, nil, nil, nil)
	assert.ErrorContains(t, task(context.Background()), "db down")
}
