// Package readmodel is the storage helper shared by all projections.
//
// A Table owns one derived table keyed by a natural key column. Writes are single statements:
// Upsert is INSERT ... ON CONFLICT (natural key) DO UPDATE, so replaying an event never creates a second row.
package readmodel

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/samber/lo"

	"github.com/AntonStoeckl/content-eventbus-go/internal/adapters"
	"github.com/AntonStoeckl/content-eventbus-go/observability"
)

const (
	logMsgSQLExecuted     = "executed sql for: "
	logMsgStatementFailed = "read model statement failed"
	logMsgSchemaCreated   = "read model table ensured"
	logMsgCloseRowsFailed = "failed to close read model rows"
	logAttrTable          = "table"
	logAttrQuery          = "query"
	logAttrDurationMS     = "duration_ms"
	operationUpsert       = "upsert"
	operationUpdate       = "update"
	operationDelete       = "delete"
	operationSelect       = "select"
	operationSchema       = "schema"
	metricStatementTime   = "readmodel_statement_duration_seconds"
	surrogateKeyColumn    = "id"
)

var (
	ErrPersistence         = errors.New("read model persistence failed")
	ErrInvalidSchema       = errors.New("invalid read model schema")
	ErrMissingNaturalKey   = errors.New("row has no natural key")
	ErrNilDatabaseAdapter  = errors.New("database adapter must not be nil")
	ErrInvalidTablePrefix  = errors.New("table prefix must match ^[a-z][a-z0-9_]*$")
	ErrEmptyChangeSet      = errors.New("update without changes")
	ErrUnknownColumnInRows = errors.New("row names a column the schema does not declare")

	identifierPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

// ColumnType is the logical type of a column. Each dialect maps it to a concrete SQL type.
type ColumnType int

const (
	Text ColumnType = iota
	Integer
	Boolean
	JSON
)

// Column declares one attribute column.
// Timestamps are Text columns holding fixed-width UTC ISO-8601, which sorts chronologically.
type Column struct {
	Name     string
	Type     ColumnType
	Nullable bool
}

// Schema declares a read model table. The natural key column is TEXT NOT NULL UNIQUE
// and comes in addition to the internal surrogate key "id".
type Schema struct {
	Table      string
	NaturalKey string
	Columns    []Column
	Indexes    []string
}

// Table is one projection's read model table.
type Table struct {
	db      adapters.DBAdapter
	builder goqu.DialectWrapper
	schema  Schema
	name    string
	columns map[string]Column
	hooks   observability.Hooks
}

// Option defines a functional option for configuring Table.
type Option func(*Table) error

// WithTablePrefix prefixes the table name.
func WithTablePrefix(prefix string) Option {
	return func(t *Table) error {
		if prefix != "" && !identifierPattern.MatchString(prefix) {
			return ErrInvalidTablePrefix
		}

		t.name = prefix + t.schema.Table

		return nil
	}
}

// WithLogger logs every statement at debug level and failures at error level.
func WithLogger(logger observability.Logger) Option {
	return func(t *Table) error {
		t.hooks.Logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger.
func WithContextualLogger(logger observability.ContextualLogger) Option {
	return func(t *Table) error {
		t.hooks.ContextualLogger = logger
		return nil
	}
}

// WithMetrics records statement durations.
func WithMetrics(collector observability.MetricsCollector) Option {
	return func(t *Table) error {
		t.hooks.Metrics = collector
		return nil
	}
}

// NewTable validates schema and binds it to db.
func NewTable(db adapters.DBAdapter, schema Schema, options ...Option) (*Table, error) {
	if db == nil {
		return nil, ErrNilDatabaseAdapter
	}

	if err := schema.validate(); err != nil {
		return nil, err
	}

	t := &Table{
		db:      db,
		builder: goqu.Dialect(string(db.Dialect())),
		schema:  schema,
		name:    schema.Table,
		columns: lo.SliceToMap(schema.Columns, func(c Column) (string, Column) { return c.Name, c }),
	}

	for _, option := range options {
		if err := option(t); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func (s Schema) validate() error {
	invalid := func(reason string) error {
		return errors.Join(ErrInvalidSchema, fmt.Errorf("%s: %s", s.Table, reason))
	}

	if !identifierPattern.MatchString(s.Table) {
		return invalid("table name")
	}

	if !identifierPattern.MatchString(s.NaturalKey) || s.NaturalKey == surrogateKeyColumn {
		return invalid("natural key column name")
	}

	seen := map[string]struct{}{s.NaturalKey: {}, surrogateKeyColumn: {}}

	for _, c := range s.Columns {
		if !identifierPattern.MatchString(c.Name) {
			return invalid("column name " + c.Name)
		}

		if _, dup := seen[c.Name]; dup {
			return invalid("duplicate column " + c.Name)
		}

		seen[c.Name] = struct{}{}
	}

	for _, index := range s.Indexes {
		if _, ok := seen[index]; !ok {
			return invalid("index on undeclared column " + index)
		}
	}

	return nil
}

// Name returns the table name including any prefix.
func (t *Table) Name() string {
	return t.name
}

// NaturalKey returns the natural key column.
func (t *Table) NaturalKey() string {
	return t.schema.NaturalKey
}

// Builder returns the goqu dialect for building selects against this table.
func (t *Table) Builder() goqu.DialectWrapper {
	return t.builder
}

// From starts a select on this table.
func (t *Table) From() *goqu.SelectDataset {
	return t.builder.From(t.name).Prepared(true)
}

// Upsert inserts row or, if a row with the same natural key exists, replaces every column given in row.
func (t *Table) Upsert(ctx context.Context, row goqu.Record) error {
	if _, ok := row[t.schema.NaturalKey]; !ok {
		return ErrMissingNaturalKey
	}

	if err := t.checkColumns(row); err != nil {
		return err
	}

	replace := goqu.Record{}
	for column := range row {
		if column != t.schema.NaturalKey {
			replace[column] = goqu.I("excluded." + column)
		}
	}

	insert := t.builder.Insert(t.name).Rows(row).Prepared(true)
	if len(replace) == 0 {
		insert = insert.OnConflict(goqu.DoNothing())
	} else {
		insert = insert.OnConflict(goqu.DoUpdate(t.schema.NaturalKey, replace))
	}

	query, args, err := insert.ToSQL()
	if err != nil {
		return errors.Join(ErrPersistence, err)
	}

	_, err = t.exec(ctx, operationUpsert, query, args)

	return err
}

// Update writes changes to the row with the given natural key and reports whether such a row existed.
func (t *Table) Update(ctx context.Context, key any, changes goqu.Record) (bool, error) {
	affected, err := t.UpdateWhere(ctx, goqu.Ex{t.schema.NaturalKey: key}, changes)

	return affected > 0, err
}

// UpdateWhere writes changes to every row matching where and returns the number of rows changed.
func (t *Table) UpdateWhere(ctx context.Context, where goqu.Ex, changes goqu.Record) (int64, error) {
	if len(changes) == 0 {
		return 0, ErrEmptyChangeSet
	}

	if err := t.checkColumns(changes); err != nil {
		return 0, err
	}

	query, args, err := t.builder.Update(t.name).Set(changes).Where(where).Prepared(true).ToSQL()
	if err != nil {
		return 0, errors.Join(ErrPersistence, err)
	}

	return t.exec(ctx, operationUpdate, query, args)
}

// Delete removes the row with the given natural key. Deleting a missing row is not an error.
func (t *Table) Delete(ctx context.Context, key any) error {
	_, err := t.DeleteWhere(ctx, goqu.Ex{t.schema.NaturalKey: key})

	return err
}

// DeleteWhere removes every row matching where and returns how many were removed.
func (t *Table) DeleteWhere(ctx context.Context, where goqu.Ex) (int64, error) {
	query, args, err := t.builder.Delete(t.name).Where(where).Prepared(true).ToSQL()
	if err != nil {
		return 0, errors.Join(ErrPersistence, err)
	}

	return t.exec(ctx, operationDelete, query, args)
}

// Select runs ds and converts every row with scan. It returns an empty, non-nil slice when nothing matches.
func Select[T any](ctx context.Context, t *Table, ds *goqu.SelectDataset, scan func(rows adapters.DBRows) (T, error)) ([]T, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, errors.Join(ErrPersistence, err)
	}

	start := time.Now()
	rows, err := t.db.Query(ctx, query, args...)
	t.observe(ctx, operationSelect, query, start, err)

	if err != nil {
		return nil, errors.Join(ErrPersistence, err)
	}
	defer t.closeRows(ctx, rows)

	result := make([]T, 0)

	for rows.Next() {
		item, scanErr := scan(rows)
		if scanErr != nil {
			return nil, errors.Join(ErrPersistence, scanErr)
		}

		result = append(result, item)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Join(ErrPersistence, err)
	}

	return result, nil
}

// SelectOne is Select limited to the first row. found is false when nothing matches.
func SelectOne[T any](ctx context.Context, t *Table, ds *goqu.SelectDataset, scan func(rows adapters.DBRows) (T, error)) (item T, found bool, err error) {
	items, err := Select(ctx, t, ds.Limit(1), scan)
	if err != nil || len(items) == 0 {
		return item, false, err
	}

	return items[0], true, nil
}

// Count returns the number of rows matching where.
func (t *Table) Count(ctx context.Context, where goqu.Ex) (int, error) {
	ds := t.From().Select(goqu.COUNT(goqu.Star()))
	if len(where) > 0 {
		ds = ds.Where(where)
	}

	counts, err := Select(ctx, t, ds, func(rows adapters.DBRows) (int64, error) {
		var count int64
		return count, rows.Scan(&count)
	})
	if err != nil {
		return 0, err
	}

	return int(counts[0]), nil
}

// CreateSchema creates the table and its indexes if they do not exist.
func (t *Table) CreateSchema(ctx context.Context) error {
	for _, ddl := range t.ddl() {
		if _, err := t.exec(ctx, operationSchema, ddl, nil); err != nil {
			return err
		}
	}

	t.hooks.Info(ctx, logMsgSchemaCreated, logAttrTable, t.name)

	return nil
}

func (t *Table) ddl() []string {
	postgres := t.db.Dialect() == adapters.DialectPostgres

	surrogate := surrogateKeyColumn + " INTEGER PRIMARY KEY AUTOINCREMENT"
	if postgres {
		surrogate = surrogateKeyColumn + " BIGSERIAL PRIMARY KEY"
	}

	definitions := []string{surrogate, t.schema.NaturalKey + " TEXT NOT NULL UNIQUE"}
	for _, c := range t.schema.Columns {
		definition := c.Name + " " + sqlType(c.Type, postgres)
		if !c.Nullable {
			definition += " NOT NULL"
		}

		definitions = append(definitions, definition)
	}

	statements := []string{fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", t.name, strings.Join(definitions, ",\n\t"))}
	for _, column := range t.schema.Indexes {
		statements = append(statements, fmt.Sprintf("CREATE INDEX IF NOT EXISTS %[1]s_%[2]s_idx ON %[1]s (%[2]s)", t.name, column))
	}

	return statements
}

func sqlType(columnType ColumnType, postgres bool) string {
	switch columnType {
	case Integer:
		if postgres {
			return "BIGINT"
		}

		return "INTEGER"
	case Boolean:
		if postgres {
			return "BOOLEAN"
		}

		return "INTEGER"
	case JSON:
		if postgres {
			return "JSONB"
		}

		return "TEXT"
	default:
		return "TEXT"
	}
}

func (t *Table) checkColumns(row goqu.Record) error {
	for column := range row {
		if column == t.schema.NaturalKey {
			continue
		}

		if _, ok := t.columns[column]; !ok {
			return errors.Join(ErrUnknownColumnInRows, fmt.Errorf("%s.%s", t.name, column))
		}
	}

	return nil
}

func (t *Table) exec(ctx context.Context, operation, query string, args []any) (int64, error) {
	start := time.Now()
	result, err := t.db.Exec(ctx, query, args...)
	t.observe(ctx, operation, query, start, err)

	if err != nil {
		return 0, errors.Join(ErrPersistence, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Join(ErrPersistence, err)
	}

	return affected, nil
}

func (t *Table) observe(ctx context.Context, operation, query string, start time.Time, err error) {
	duration := time.Since(start)
	status := observability.StatusSuccess

	if err != nil {
		status = observability.StatusError
		t.hooks.Error(ctx, logMsgStatementFailed, err, logAttrTable, t.name, logAttrQuery, query)
	}

	t.hooks.RecordDuration(ctx, metricStatementTime, duration, operation, status)
	t.hooks.Debug(ctx, logMsgSQLExecuted+operation, logAttrTable, t.name, logAttrDurationMS, observability.ToMilliseconds(duration), logAttrQuery, query)
}

func (t *Table) closeRows(ctx context.Context, rows adapters.DBRows) {
	if err := rows.Close(); err != nil {
		t.hooks.Warn(ctx, logMsgCloseRowsFailed, "error", err.Error())
	}
}
