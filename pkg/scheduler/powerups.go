package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/fadedpez/friendbet/internal/metrics"
	"go.uber.org/zap"
)

// PowerupStore is the slice of the ledger the expiry task needs
type PowerupStore interface {
	DeleteExpiredPowerups(ctx context.Context, now time.Time) (int64, error)
}

// PowerupExpiryTask returns a task that removes powerups whose expiry has
// passed
func PowerupExpiryTask(store PowerupStore, m *metrics.Metrics, logger *zap.Logger, now func() time.Time) func(context.Context) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}

	return func(ctx context.Context) error {
		n, err := store.DeleteExpiredPowerups(ctx, now().UTC())
		if err != nil {
			return fmt.Errorf("error deleting expired powerups: %w", err)
		}
		if n > 0 {
			logger.Info("Removed expired powerups", zap.Int64("count", n))
			m.PowerupsExpired(n)
		}
		return nil
	}
}
