package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRebind(t *testing.T) {
	query := "UPDATE users SET points = points + ? WHERE id = ? AND points >= ?"

	assert.Equal(t, query, SQLite.Rebind(query))
	assert.Equal(t,
		"UPDATE users SET points = points + $1 WHERE id = $2 AND points >= $3",
		Postgres.Rebind(query))
}

func TestLockClause(t *testing.T) {
	assert.Equal(t, "", SQLite.LockClause())
	assert.Equal(t, " FOR UPDATE", Postgres.LockClause())
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "data/friendbet.db?_txlock=immediate&_busy_timeout=5000", sqliteDSN("data/friendbet.db"))
	assert.Equal(t, "file:test.db?mode=memory&_txlock=immediate&_busy_timeout=5000", sqliteDSN("file:test.db?mode=memory"))
}
