// Package db opens the relational stores FriendBet runs on and hides the few
// differences between SQLite and Postgres.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect identifies a SQL backend
type Dialect string

const (
	SQLite   Dialect = "sqlite3"
	Postgres Dialect = "postgres"
)

// Rebind rewrites ? placeholders into the dialect's bind syntax
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// LockClause is appended to a SELECT that must hold the row for the rest of
// the transaction. SQLite locks the whole database when the transaction
// begins, so it needs none.
func (d Dialect) LockClause() string {
	if d == Postgres {
		return " FOR UPDATE"
	}
	return ""
}

// Open connects to a database of the given dialect. For SQLite the DSN is a
// file path; the parent directory is created and transactions take the write
// lock at BEGIN.
func Open(d Dialect, dsn string) (*sql.DB, error) {
	switch d {
	case SQLite:
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
				return nil, fmt.Errorf("error creating database directory: %w", err)
			}
		}
		conn, err := sql.Open(string(SQLite), sqliteDSN(dsn))
		if err != nil {
			return nil, fmt.Errorf("error opening database: %w", err)
		}
		// A single writer keeps BEGIN IMMEDIATE from returning SQLITE_BUSY
		conn.SetMaxOpenConns(1)
		return conn, nil
	case Postgres:
		conn, err := sql.Open(string(Postgres), dsn)
		if err != nil {
			return nil, fmt.Errorf("error opening database: %w", err)
		}
		return conn, nil
	default:
		return nil, fmt.Errorf("unsupported dialect %q", d)
	}
}

func sqliteDSN(dsn string) string {
	if dsn == ":memory:" {
		return "file::memory:?cache=shared&_txlock=immediate&_busy_timeout=5000"
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_txlock=immediate&_busy_timeout=5000"
}
