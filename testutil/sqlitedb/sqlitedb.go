// Package sqlitedb opens throwaway SQLite databases for tests.
package sqlitedb

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite" // driver registration

	"github.com/AntonStoeckl/content-eventbus-go/internal/adapters"
)

const dsnOptions = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)"

// Open returns a file-backed database in t.TempDir(), closed on cleanup.
// A single connection keeps concurrent tests free of SQLITE_BUSY.
func Open(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "eventbus.db")+dsnOptions)
	require.NoError(t, err)

	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// OpenSQLX is Open wrapped in sqlx.
func OpenSQLX(t testing.TB) *sqlx.DB {
	t.Helper()

	return sqlx.NewDb(Open(t), "sqlite")
}

// Adapter returns a database/sql adapter over a fresh database.
func Adapter(t testing.TB) adapters.DBAdapter {
	t.Helper()

	return adapters.NewSQLAdapter(Open(t), adapters.DialectSQLite)
}
