package ledger

import (
	"context"
	"fmt"

	"github.com/fadedpez/friendbet/pkg/db"
	"github.com/fadedpez/friendbet/pkg/db/migrations"
	"go.uber.org/zap"
)

// NewSQLiteRepository opens the SQLite database at path and applies any
// pending migrations
func NewSQLiteRepository(ctx context.Context, path string, logger *zap.Logger) (*SQLRepository, error) {
	conn, err := db.Open(db.SQLite, path)
	if err != nil {
		return nil, err
	}

	if _, err := migrations.NewMigrator(conn, db.SQLite, logger).MigrateUp(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("error migrating database: %w", err)
	}

	return NewSQLRepository(conn, db.SQLite), nil
}
