package adapters

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// SQLXAdapter implements DBAdapter for sqlx.DB. The dialect is derived from the driver name.
type SQLXAdapter struct {
	db      *sqlx.DB
	dialect Dialect
}

func NewSQLXAdapter(db *sqlx.DB) (*SQLXAdapter, error) {
	dialect, err := DialectForDriver(db.DriverName())
	if err != nil {
		return nil, err
	}

	return &SQLXAdapter{db: db, dialect: dialect}, nil
}

func (s *SQLXAdapter) Query(ctx context.Context, query string, args ...any) (DBRows, error) {
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return &sqlxRows{Rows: rows}, nil
}

func (s *SQLXAdapter) Exec(ctx context.Context, query string, args ...any) (DBResult, error) {
	return s.db.ExecContext(ctx, query, args...)
}

func (s *SQLXAdapter) Dialect() Dialect {
	return s.dialect
}

// DB exposes the wrapped handle.
func (s *SQLXAdapter) DB() *sqlx.DB {
	return s.db
}

// sqlxRows adapts sqlx.Rows, whose promoted sql.Rows methods satisfy DBRows.
type sqlxRows struct {
	*sqlx.Rows
}
