package migrations

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/fadedpez/friendbet/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedMigrations(t *testing.T) {
	m := NewMigrator(nil, db.SQLite, nil)

	migrations, err := m.LoadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	assert.Equal(t, "001", migrations[0].Version)
	assert.Equal(t, "initial schema", migrations[0].Description)
	assert.Contains(t, migrations[0].SQL, "CREATE TABLE IF NOT EXISTS predictions")
}

func TestLoadMigrationsOrdersByVersion(t *testing.T) {
	source := fstest.MapFS{
		"002_add_index.sql": {Data: []byte("SELECT 1;")},
		"001_first.sql":     {Data: []byte("SELECT 1;")},
		"README.md":         {Data: []byte("ignored")},
	}

	migrations, err := NewMigrator(nil, db.SQLite, nil).WithSource(source).LoadMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, "001", migrations[0].Version)
	assert.Equal(t, "add index", migrations[1].Description)
}

func TestLoadMigrationsRejectsBadFilename(t *testing.T) {
	source := fstest.MapFS{"schema.sql": {Data: []byte("SELECT 1;")}}

	_, err := NewMigrator(nil, db.SQLite, nil).WithSource(source).LoadMigrations()
	assert.Error(t, err)
}

func TestMigrateUpSQLite(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Open(db.SQLite, filepath.Join(t.TempDir(), "friendbet.db"))
	require.NoError(t, err)
	defer conn.Close()

	m := NewMigrator(conn, db.SQLite, nil)

	applied, err := m.MigrateUp(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, applied)

	// Second run is a no-op
	applied, err = m.MigrateUp(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, applied)

	var count int
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count))
	assert.Equal(t, 0, count)
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM friend_connections").Scan(&count))
	assert.Equal(t, 0, count)
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM auth_tokens").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateMigration(dir, "add friends")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "001_add_friends.sql"), path)

	path, err = CreateMigration(dir, "add chat")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "002_add_chat.sql"), path)
}
