package ledger

import (
	"context"
	"fmt"

	"github.com/fadedpez/friendbet/pkg/db"
	"github.com/fadedpez/friendbet/pkg/db/migrations"
	"go.uber.org/zap"
)

// NewPostgresRepository connects to Postgres, verifies the connection and
// applies any pending migrations
func NewPostgresRepository(ctx context.Context, dsn string, logger *zap.Logger) (*SQLRepository, error) {
	conn, err := db.Open(db.Postgres, dsn)
	if err != nil {
		return nil, err
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("error connecting to postgres: %w", err)
	}

	if _, err := migrations.NewMigrator(conn, db.Postgres, logger).MigrateUp(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("error migrating database: %w", err)
	}

	return NewSQLRepository(conn, db.Postgres), nil
}
