package sqlengine

import (
	"context"
	"errors"
	"fmt"

	"github.com/AntonStoeckl/content-eventbus-go/eventstore"
	"github.com/AntonStoeckl/content-eventbus-go/internal/adapters"
)

const (
	postgresEventTable = `CREATE TABLE IF NOT EXISTS %[1]s (
	sequence_number BIGSERIAL PRIMARY KEY,
	event_id TEXT NOT NULL UNIQUE,
	aggregate_id TEXT NOT NULL,
	actor_id TEXT NOT NULL,
	occurred_at TEXT NOT NULL,
	event_type TEXT NOT NULL,
	payload JSONB NOT NULL,
	metadata JSONB NOT NULL
)`

	sqliteEventTable = `CREATE TABLE IF NOT EXISTS %[1]s (
	sequence_number INTEGER PRIMARY KEY AUTOINCREMENT,
	event_id TEXT NOT NULL UNIQUE,
	aggregate_id TEXT NOT NULL,
	actor_id TEXT NOT NULL,
	occurred_at TEXT NOT NULL,
	event_type TEXT NOT NULL,
	payload TEXT NOT NULL,
	metadata TEXT NOT NULL
)`

	aggregateIndex = `CREATE INDEX IF NOT EXISTS %[1]s_aggregate_idx ON %[1]s (aggregate_id, sequence_number)`
)

// CreateSchema creates the tables for the given families if they do not exist.
// Identifiers are validated against identifierPattern, so they are safe to splice into DDL.
func (es *EventStore) CreateSchema(ctx context.Context, families ...string) error {
	tableDDL := postgresEventTable
	if es.db.Dialect() == adapters.DialectSQLite {
		tableDDL = sqliteEventTable
	}

	for _, family := range families {
		table, err := es.TableName(family)
		if err != nil {
			return err
		}

		for _, ddl := range []string{fmt.Sprintf(tableDDL, table), fmt.Sprintf(aggregateIndex, table)} {
			if _, err = es.db.Exec(ctx, ddl); err != nil {
				es.hooks.Error(ctx, logMsgDBExecFailed, err, logAttrQuery, ddl)
				return errors.Join(eventstore.ErrPersistence, err)
			}
		}

		es.hooks.Info(ctx, logMsgSchemaCreated, logAttrTable, table)
	}

	return nil
}
