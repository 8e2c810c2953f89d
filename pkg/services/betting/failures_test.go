package betting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fadedpez/friendbet/internal/metrics"
	"github.com/fadedpez/friendbet/internal/types"
	"github.com/fadedpez/friendbet/pkg/entities"
	mock_notify "github.com/fadedpez/friendbet/pkg/notify/mock"
	"github.com/fadedpez/friendbet/pkg/repositories/activity"
	"github.com/fadedpez/friendbet/pkg/repositories/ledger"
	mock_ledger "github.com/fadedpez/friendbet/pkg/repositories/ledger/mock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"
)

type failingArchive struct{}

func (failingArchive) Archive(ctx context.Context, rec *activity.Record) error {
	return errors.New("index unavailable")
}

func (failingArchive) Recent(ctx context.Context, limit int) ([]*activity.Record, error) {
	return nil, errors.New("index unavailable")
}

func (failingArchive) RecentBy(ctx context.Context, creatorIDs []string, limit int) ([]*activity.Record, error) {
	return nil, errors.New("index unavailable")
}

func activeSnapshot(now time.Time) *ledger.Snapshot {
	return &ledger.Snapshot{
		Bet: &entities.Bet{
			ID:        "bet-1",
			CreatorID: "creator",
			Title:     "Run a marathon",
			Status:    entities.BetStatusActive,
			Deadline:  now.Add(time.Hour),
		},
		Predictions: []*entities.Prediction{
			{ID: "p1", BetID: "bet-1", UserID: "alice", Choice: entities.ChoiceFor, Stake: 50},
			{ID: "p2", BetID: "bet-1", UserID: "bob", Choice: entities.ChoiceAgainst, Stake: 50},
		},
	}
}

func TestResolveSurvivesRewardAndSideEffectFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_ledger.NewMockRepository(ctrl)
	notifier := mock_notify.NewMockNotifier(ctrl)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	var committed *ledger.Mutation
	repo.EXPECT().
		UpdateBet(gomock.Any(), "bet-1", gomock.Any()).
		DoAndReturn(func(ctx context.Context, betID string, fn ledger.UpdateFunc) error {
			m, err := fn(activeSnapshot(now))
			committed = m
			return err
		})
	repo.EXPECT().
		GrantCreatorReward(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, reward *ledger.CreatorReward) error {
			assert.Equal(t, int64(5), reward.Bonus)
			assert.Equal(t, "creator", reward.UserID)
			return errors.New("database is locked")
		})
	notifier.EXPECT().
		Notify(gomock.Any(), gomock.Any()).
		Return(errors.New("queue full")).
		Times(3)

	service := NewService(repo, notifier,
		WithArchive(failingArchive{}),
		WithMetrics(metrics.NewMetrics(prometheus.NewRegistry())),
		WithLogger(zaptest.NewLogger(t)),
		WithClock(func() time.Time { return now }),
	)

	res, err := service.Resolve(context.Background(), "creator", "bet-1", &ResolveRequest{Result: entities.ResultWon})
	require.NoError(t, err)
	assert.Equal(t, entities.BetStatusCompleted, res.Bet.Status)

	require.NotNil(t, committed)
	require.NotNil(t, committed.Closure)
	require.Len(t, committed.Closure.Entries, 2)
	assert.Equal(t, int64(100), committed.Closure.Entries[0].Credit)
	assert.Equal(t, int64(50), *committed.Closure.Entries[0].Payout)
	assert.Equal(t, int64(0), committed.Closure.Entries[1].Credit)
	assert.Equal(t, int64(-50), *committed.Closure.Entries[1].Payout)
}

func TestStoreFailuresAreInternalErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_ledger.NewMockRepository(ctrl)
	cause := errors.New("connection refused")

	repo.EXPECT().GetBet(gomock.Any(), "bet-1").Return(nil, cause)
	repo.EXPECT().UpdateBet(gomock.Any(), "bet-1", gomock.Any()).Return(cause)

	service := NewService(repo, nil)

	_, err := service.GetBet(context.Background(), "bet-1")
	assert.Equal(t, types.ErrInternalError, types.CodeOf(err))
	assert.ErrorIs(t, err, cause)

	_, err = service.CancelBet(context.Background(), "creator", "bet-1")
	assert.Equal(t, types.ErrInternalError, types.CodeOf(err))
	assert.ErrorIs(t, err, cause)
}

func TestStoreSentinelsMapToCodes(t *testing.T) {
	testCases := []struct {
		err  error
		code types.ErrorCode
	}{
		{err: ledger.ErrBetNotFound, code: types.ErrNotFound},
		{err: ledger.ErrUserNotFound, code: types.ErrNotFound},
		{err: ledger.ErrPunishmentNotFound, code: types.ErrNotFound},
		{err: ledger.ErrUserExists, code: types.ErrConflict},
		{err: ledger.ErrPredictionExists, code: types.ErrConflict},
		{err: ledger.ErrInsufficientPoints, code: types.ErrInsufficientBalance},
		{err: ledger.ErrBetNotActive, code: types.ErrInvalidState},
		{err: ledger.ErrAlreadySettled, code: types.ErrInvalidState},
		{err: types.NewBetError(types.ErrForbidden, "nope"), code: types.ErrForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assert.Equal(t, tc.code, types.CodeOf(storeError(tc.err, "unused")))
		})
	}
}

func TestPlacePredictionLosesRaceForBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_ledger.NewMockRepository(ctrl)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	snap := activeSnapshot(now)

	repo.EXPECT().GetBet(gomock.Any(), "bet-1").Return(snap.Bet, nil)
	repo.EXPECT().GetUser(gomock.Any(), "carol").Return(&entities.User{ID: "carol", Points: 100}, nil)
	// The balance was spent elsewhere between the read and the debit
	repo.EXPECT().
		UpdateBet(gomock.Any(), "bet-1", gomock.Any()).
		DoAndReturn(func(ctx context.Context, betID string, fn ledger.UpdateFunc) error {
			if _, err := fn(snap); err != nil {
				return err
			}
			return ledger.ErrInsufficientPoints
		})

	service := NewService(repo, nil, WithClock(func() time.Time { return now }))

	_, err := service.PlacePrediction(context.Background(), "carol", "bet-1", &PlacePredictionRequest{Choice: entities.ChoiceFor, Stake: 100})
	assert.Equal(t, types.ErrInsufficientBalance, types.CodeOf(err))
}

func TestSettledBetsArchiveFailure(t *testing.T) {
	service := NewService(ledger.NewMemoryRepository(), nil, WithArchive(failingArchive{}))

	_, err := service.SettledBets(context.Background(), 5)
	assert.Equal(t, types.ErrInternalError, types.CodeOf(err))
}
