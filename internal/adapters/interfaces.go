package adapters

import (
	"context"
	"errors"
)

// Dialect names a goqu dialect.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

var ErrUnsupportedDialect = errors.New("unsupported sql dialect")

// DialectForDriver maps a database/sql driver name to its dialect.
func DialectForDriver(driverName string) (Dialect, error) {
	switch driverName {
	case "postgres", "pgx", "pgx/v5":
		return DialectPostgres, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	default:
		return "", errors.Join(ErrUnsupportedDialect, errors.New(driverName))
	}
}

// DBAdapter defines the database operations needed by the event store and the read models.
type DBAdapter interface {
	Query(ctx context.Context, query string, args ...any) (DBRows, error)
	Exec(ctx context.Context, query string, args ...any) (DBResult, error)
	Dialect() Dialect
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
}
