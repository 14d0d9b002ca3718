// Package adapters puts the supported database handles behind one small interface,
// so the event store and the read model tables work with pgx pools, database/sql, and sqlx alike.
//
// Every adapter also reports the SQL dialect it speaks, which callers pass to goqu.
package adapters
