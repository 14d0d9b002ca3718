package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/AntonStoeckl/content-eventbus-go/internal/adapters"
)

var (
	ErrUnsupportedDriver = errors.New("unsupported database driver")
	ErrOpeningDBFailed   = errors.New("opening database failed")
)

const (
	defaultMaxConnections    = int32(8)
	defaultMinConnections    = int32(2)
	defaultMaxOpenConns      = 50
	defaultMaxIdleConns      = 10
	defaultMaxConnLifetime   = time.Hour
	defaultMaxConnIdleTime   = time.Minute * 5
	defaultHealthCheckPeriod = time.Minute
	defaultConnectTimeout    = time.Second * 5
)

// Database is an open connection pool behind the adapter used by the event store and the read models.
type Database struct {
	Adapter adapters.DBAdapter
	close   func()
}

// Close releases the pool.
func (d *Database) Close() {
	if d.close != nil {
		d.close()
	}
}

// OpenDatabase opens the database cfg describes and checks that it is reachable.
func OpenDatabase(ctx context.Context, cfg Config) (*Database, error) {
	switch cfg.DBDriver {
	case DriverPGX:
		return openPGXPool(ctx, cfg.DBDSN)
	case DriverPostgres:
		return openSQLDB(ctx, "postgres", cfg.DBDSN, adapters.DialectPostgres)
	case DriverSQLX:
		return openSQLX(ctx, cfg.DBDSN)
	case DriverSQLite:
		return openSQLDB(ctx, "sqlite", cfg.DBDSN, adapters.DialectSQLite)
	default:
		return nil, errors.Join(ErrUnsupportedDriver, fmt.Errorf("%q", cfg.DBDriver))
	}
}

// PGXPoolConfig creates a pgxpool.Config with the default pool settings.
func PGXPoolConfig(dsn string) (*pgxpool.Config, error) {
	dbConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Join(ErrOpeningDBFailed, err)
	}

	dbConfig.MaxConns = defaultMaxConnections
	dbConfig.MinConns = defaultMinConnections
	dbConfig.MaxConnLifetime = defaultMaxConnLifetime
	dbConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	dbConfig.HealthCheckPeriod = defaultHealthCheckPeriod
	dbConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	return dbConfig, nil
}

func openPGXPool(ctx context.Context, dsn string) (*Database, error) {
	dbConfig, err := PGXPoolConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, errors.Join(ErrOpeningDBFailed, err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Join(ErrOpeningDBFailed, err)
	}

	return &Database{Adapter: adapters.NewPGXAdapter(pool), close: pool.Close}, nil
}

func openSQLDB(ctx context.Context, driverName, dsn string, dialect adapters.Dialect) (*Database, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, errors.Join(ErrOpeningDBFailed, err)
	}

	configurePool(db, dialect)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Join(ErrOpeningDBFailed, err)
	}

	return &Database{Adapter: adapters.NewSQLAdapter(db, dialect), close: func() { _ = db.Close() }}, nil
}

func openSQLX(ctx context.Context, dsn string) (*Database, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Join(ErrOpeningDBFailed, err)
	}

	configurePool(db.DB, adapters.DialectPostgres)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Join(ErrOpeningDBFailed, err)
	}

	adapter, err := adapters.NewSQLXAdapter(db)
	if err != nil {
		_ = db.Close()
		return nil, errors.Join(ErrOpeningDBFailed, err)
	}

	return &Database{Adapter: adapter, close: func() { _ = db.Close() }}, nil
}

// SQLite allows one writer at a time, a single connection avoids SQLITE_BUSY between statements of one process.
func configurePool(db *sql.DB, dialect adapters.Dialect) {
	if dialect == adapters.DialectSQLite {
		db.SetMaxOpenConns(1)
		return
	}

	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultMaxConnLifetime)
	db.SetConnMaxIdleTime(defaultMaxConnIdleTime)
}
