// Package config loads the runtime configuration of the content event bus from the environment
// and builds the database connection and the observability providers it describes.
//
// Values come from environment variables, optionally seeded from a .env file. Supported databases
// are PostgreSQL through pgx, lib/pq, or sqlx, and SQLite through modernc.org/sqlite.
//
// This package is part of the shell (infrastructure) layer.
package config
