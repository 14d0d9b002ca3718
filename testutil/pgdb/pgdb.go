// Package pgdb connects integration tests to the Postgres database named by TEST_POSTGRES_DSN.
// Tests calling into this package are skipped when the variable is not set.
package pgdb

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // driver registration
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/internal/adapters"
)

// DSNVariable names the environment variable holding the test database DSN.
const DSNVariable = "TEST_POSTGRES_DSN"

// DSN returns the test database DSN or skips the test.
func DSN(t testing.TB) string {
	t.Helper()

	dsn := os.Getenv(DSNVariable)
	if dsn == "" {
		t.Skipf("%s not set", DSNVariable)
	}

	return dsn
}

// TablePrefix returns a prefix unique to one test, so parallel runs never share tables.
func TablePrefix() string {
	return "t" + strings.ReplaceAll(identifier.New().String(), "-", "")[20:] + "_"
}

// Pool opens a pgx pool, closed on cleanup.
func Pool(t testing.TB) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), DSN(t))
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

// SQLDB opens a database/sql handle through lib/pq, closed on cleanup.
func SQLDB(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sql.Open("postgres", DSN(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// SQLX opens an sqlx handle through lib/pq, closed on cleanup.
func SQLX(t testing.TB) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("postgres", DSN(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// Adapters returns one adapter per supported Postgres driver, keyed by driver name.
func Adapters(t testing.TB) map[string]adapters.DBAdapter {
	t.Helper()

	sqlxAdapter, err := adapters.NewSQLXAdapter(SQLX(t))
	require.NoError(t, err)

	return map[string]adapters.DBAdapter{
		"pgx":  adapters.NewPGXAdapter(Pool(t)),
		"pq":   adapters.NewSQLAdapter(SQLDB(t), adapters.DialectPostgres),
		"sqlx": sqlxAdapter,
	}
}

// DropTables removes the given tables when the test ends.
func DropTables(t testing.TB, db adapters.DBAdapter, tables ...string) {
	t.Helper()

	t.Cleanup(func() {
		for _, table := range tables {
			_, _ = db.Exec(context.Background(), "DROP TABLE IF EXISTS "+table)
		}
	})
}
