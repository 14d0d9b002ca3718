package sqlengine

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/content-eventbus-go/eventstore"
	"github.com/AntonStoeckl/content-eventbus-go/internal/adapters"
	"github.com/AntonStoeckl/content-eventbus-go/observability"
)

const (
	tableSuffix = "_events"

	// TimeLayout is the fixed-width ISO-8601 form of occurred_at. Being fixed width and always UTC,
	// its lexical order is its chronological order.
	TimeLayout = "2006-01-02T15:04:05.000000Z07:00"

	logMsgBuildQueryFailed   = "failed to build event store query"
	logMsgDBQueryFailed      = "event stream query failed"
	logMsgDBExecFailed       = "event append failed"
	logMsgScanRowFailed      = "failed to scan event row"
	logMsgCloseRowsFailed    = "failed to close event rows"
	logMsgDuplicateEvent     = "duplicate event rejected"
	logMsgEventAppended      = "event appended"
	logMsgStreamCompleted    = "event stream read"
	logMsgSchemaCreated      = "event table ensured"
	logMsgSQLExecuted        = "executed sql for: "
	logAttrQuery             = "query"
	logAttrFamily            = "family"
	logAttrEventID           = "event_id"
	logAttrEventType         = "event_type"
	logAttrEventCount        = "event_count"
	logAttrSequenceNumber    = "sequence_number"
	logAttrDurationMS        = "duration_ms"
	logAttrTable             = "table"
	operationAppend          = "append"
	operationStream          = "stream"
	spanNameAppend           = "eventstore.append"
	spanNameStream           = "eventstore.stream"
	metricAppendDuration     = "eventstore_append_duration_seconds"
	metricStreamDuration     = "eventstore_stream_duration_seconds"
	metricDuplicateEvents    = "eventstore_duplicate_events_total"
	metricDatabaseErrors     = "eventstore_database_errors_total"
	metricEventsStreamed     = "eventstore_events_streamed"
	colSequenceNumber        = "sequence_number"
	colEventID               = "event_id"
	colAggregateID           = "aggregate_id"
	colActorID               = "actor_id"
	colOccurredAt            = "occurred_at"
	colEventType             = "event_type"
	colPayload               = "payload"
	colMetadata              = "metadata"
	errorTypeBuildQuery      = "build_query"
	errorTypeDatabaseExec    = "database_exec"
	errorTypeDatabaseQuery   = "database_query"
	errorTypeRowScan         = "row_scan"
	errorTypeDuplicateEvent  = "duplicate_event"
	errorTypeRowsAffected    = "rows_affected"
	errorTypeSequenceMissing = "sequence_missing"
)

var (
	ErrInvalidIdentifier = errors.New("table identifiers must match ^[a-z][a-z0-9_]*$")
	ErrSequenceMissing   = errors.New("appended event could not be read back")
)

// EventStore is an eventstore.Store backed by one append-only table per family.
// It works on Postgres (pgx, lib/pq, sqlx) and SQLite (modernc.org/sqlite).
type EventStore struct {
	db          adapters.DBAdapter
	builder     goqu.DialectWrapper
	tablePrefix string
	families    map[string]struct{}
	hooks       observability.Hooks
}

// NewEventStoreFromPGXPool creates an EventStore on a pgx pool.
func NewEventStoreFromPGXPool(pool *pgxpool.Pool, options ...Option) (*EventStore, error) {
	if pool == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapter(pool), options...)
}

// NewEventStoreFromSQLDB creates an EventStore on a database/sql handle speaking the given dialect.
func NewEventStoreFromSQLDB(db *sql.DB, dialect adapters.Dialect, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLAdapter(db, dialect), options...)
}

// NewEventStoreFromSQLX creates an EventStore on a sqlx handle. The dialect follows the driver name.
func NewEventStoreFromSQLX(db *sqlx.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	adapter, err := adapters.NewSQLXAdapter(db)
	if err != nil {
		return nil, err
	}

	return newEventStore(adapter, options...)
}

// NewEventStoreFromAdapter creates an EventStore on an already wrapped handle.
func NewEventStoreFromAdapter(db adapters.DBAdapter, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(db, options...)
}

func newEventStore(db adapters.DBAdapter, options ...Option) (*EventStore, error) {
	es := &EventStore{
		db:      db,
		builder: goqu.Dialect(string(db.Dialect())),
	}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// TableName returns the table holding family.
func (es *EventStore) TableName(family string) (string, error) {
	if !identifierPattern.MatchString(family) {
		return "", errors.Join(eventstore.ErrUnknownFamily, ErrInvalidIdentifier)
	}

	if es.families != nil {
		if _, ok := es.families[family]; !ok {
			return "", eventstore.ErrUnknownFamily
		}
	}

	return es.tablePrefix + family + tableSuffix, nil
}

// Append stores event at the end of its family stream.
func (es *EventStore) Append(ctx context.Context, event eventstore.StorableEvent) (eventstore.Receipt, error) {
	table, err := es.TableName(event.Family)
	if err != nil {
		return eventstore.Receipt{}, err
	}

	ctx, span := es.hooks.StartSpan(ctx, spanNameAppend, map[string]string{
		logAttrFamily:    event.Family,
		logAttrEventType: event.EventType,
	})

	start := time.Now()
	receipt, errorType, err := es.appendToTable(ctx, table, event)
	duration := time.Since(start)

	if err != nil {
		es.hooks.RecordDuration(ctx, metricAppendDuration, duration, operationAppend, observability.StatusError)
		es.hooks.FinishSpan(span, observability.StatusError, map[string]string{observability.LabelErrorType: errorType})

		if errorType == errorTypeDuplicateEvent {
			es.hooks.IncrementCounter(ctx, metricDuplicateEvents, map[string]string{logAttrFamily: event.Family})
			es.hooks.Warn(ctx, logMsgDuplicateEvent, logAttrFamily, event.Family, logAttrEventID, event.EventID)
		} else {
			es.hooks.IncrementCounter(ctx, metricDatabaseErrors, map[string]string{
				observability.LabelOperation: operationAppend,
				observability.LabelErrorType: errorType,
			})
		}

		return eventstore.Receipt{}, err
	}

	es.hooks.RecordDuration(ctx, metricAppendDuration, duration, operationAppend, observability.StatusSuccess)
	es.hooks.FinishSpan(span, observability.StatusSuccess, map[string]string{
		logAttrSequenceNumber: strconv.FormatUint(receipt.SequenceNumber, 10),
	})
	es.hooks.Info(
		ctx,
		logMsgEventAppended,
		logAttrFamily, event.Family,
		logAttrEventType, event.EventType,
		logAttrSequenceNumber, receipt.SequenceNumber,
		logAttrDurationMS, observability.ToMilliseconds(duration),
	)

	return receipt, nil
}

func (es *EventStore) appendToTable(
	ctx context.Context,
	table string,
	event eventstore.StorableEvent,
) (eventstore.Receipt, string, error) {

	insertSQL, args, err := es.builder.
		Insert(table).
		Rows(goqu.Record{
			colEventID:     event.EventID,
			colAggregateID: event.AggregateID,
			colActorID:     event.ActorID,
			colOccurredAt:  FormatTime(event.OccurredAt),
			colEventType:   event.EventType,
			colPayload:     string(event.PayloadJSON),
			colMetadata:    string(event.MetadataJSON),
		}).
		OnConflict(goqu.DoNothing()).
		Prepared(true).
		ToSQL()
	if err != nil {
		es.hooks.Error(ctx, logMsgBuildQueryFailed, err, logAttrTable, table)
		return eventstore.Receipt{}, errorTypeBuildQuery, errors.Join(eventstore.ErrPersistence, eventstore.ErrBuildingQueryFailed, err)
	}

	start := time.Now()
	result, err := es.db.Exec(ctx, insertSQL, args...)
	es.logQueryWithDuration(ctx, insertSQL, operationAppend, time.Since(start))

	if err != nil {
		if adapters.IsUniqueViolation(err) {
			return eventstore.Receipt{}, errorTypeDuplicateEvent, eventstore.ErrDuplicateEvent
		}

		es.hooks.Error(ctx, logMsgDBExecFailed, err, logAttrQuery, insertSQL)
		return eventstore.Receipt{}, errorTypeDatabaseExec, errors.Join(eventstore.ErrPersistence, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		es.hooks.Error(ctx, logMsgDBExecFailed, err)
		return eventstore.Receipt{}, errorTypeRowsAffected, errors.Join(eventstore.ErrPersistence, err)
	}

	if rowsAffected == 0 {
		return eventstore.Receipt{}, errorTypeDuplicateEvent, eventstore.ErrDuplicateEvent
	}

	sequenceNumber, errorType, err := es.sequenceNumberOf(ctx, table, event.EventID)
	if err != nil {
		return eventstore.Receipt{}, errorType, err
	}

	return eventstore.Receipt{
		Family:         event.Family,
		EventID:        event.EventID,
		SequenceNumber: sequenceNumber,
	}, "", nil
}

func (es *EventStore) sequenceNumberOf(ctx context.Context, table, eventID string) (eventstore.SequenceNumber, string, error) {
	selectSQL, args, err := es.builder.
		From(table).
		Select(colSequenceNumber).
		Where(goqu.C(colEventID).Eq(eventID)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, errorTypeBuildQuery, errors.Join(eventstore.ErrPersistence, eventstore.ErrBuildingQueryFailed, err)
	}

	rows, err := es.db.Query(ctx, selectSQL, args...)
	if err != nil {
		return 0, errorTypeDatabaseQuery, errors.Join(eventstore.ErrPersistence, err)
	}
	defer es.closeRows(ctx, rows)

	if !rows.Next() {
		return 0, errorTypeSequenceMissing, errors.Join(eventstore.ErrPersistence, ErrSequenceMissing, rows.Err())
	}

	var sequenceNumber int64
	if err = rows.Scan(&sequenceNumber); err != nil {
		return 0, errorTypeRowScan, errors.Join(eventstore.ErrPersistence, eventstore.ErrScanningDBRowFailed, err)
	}

	return eventstore.SequenceNumber(sequenceNumber), "", nil
}

// StreamFor returns the events of family matching filter in sequence order.
func (es *EventStore) StreamFor(ctx context.Context, family string, filter eventstore.Filter) (eventstore.StorableEvents, error) {
	table, err := es.TableName(family)
	if err != nil {
		return nil, err
	}

	ctx, span := es.hooks.StartSpan(ctx, spanNameStream, map[string]string{logAttrFamily: family})

	start := time.Now()
	events, errorType, err := es.streamFromTable(ctx, table, family, filter)
	duration := time.Since(start)

	if err != nil {
		es.hooks.RecordDuration(ctx, metricStreamDuration, duration, operationStream, observability.StatusError)
		es.hooks.IncrementCounter(ctx, metricDatabaseErrors, map[string]string{
			observability.LabelOperation: operationStream,
			observability.LabelErrorType: errorType,
		})
		es.hooks.FinishSpan(span, observability.StatusError, map[string]string{observability.LabelErrorType: errorType})

		return nil, err
	}

	es.hooks.RecordDuration(ctx, metricStreamDuration, duration, operationStream, observability.StatusSuccess)
	es.hooks.RecordValue(ctx, metricEventsStreamed, float64(len(events)), map[string]string{logAttrFamily: family})
	es.hooks.FinishSpan(span, observability.StatusSuccess, map[string]string{logAttrEventCount: strconv.Itoa(len(events))})
	es.hooks.Info(
		ctx,
		logMsgStreamCompleted,
		logAttrFamily, family,
		logAttrEventCount, len(events),
		logAttrDurationMS, observability.ToMilliseconds(duration),
	)

	return events, nil
}

func (es *EventStore) streamFromTable(
	ctx context.Context,
	table string,
	family string,
	filter eventstore.Filter,
) (eventstore.StorableEvents, string, error) {

	selectSQL, args, err := es.buildSelectQuery(table, filter)
	if err != nil {
		es.hooks.Error(ctx, logMsgBuildQueryFailed, err, logAttrTable, table)
		return nil, errorTypeBuildQuery, errors.Join(eventstore.ErrPersistence, eventstore.ErrBuildingQueryFailed, err)
	}

	start := time.Now()
	rows, err := es.db.Query(ctx, selectSQL, args...)
	es.logQueryWithDuration(ctx, selectSQL, operationStream, time.Since(start))

	if err != nil {
		es.hooks.Error(ctx, logMsgDBQueryFailed, err, logAttrQuery, selectSQL)
		return nil, errorTypeDatabaseQuery, errors.Join(eventstore.ErrPersistence, err)
	}
	defer es.closeRows(ctx, rows)

	events := make(eventstore.StorableEvents, 0)

	for rows.Next() {
		event, scanErr := es.scanEvent(rows, family)
		if scanErr != nil {
			es.hooks.Error(ctx, logMsgScanRowFailed, scanErr, logAttrTable, table)
			return nil, errorTypeRowScan, errors.Join(eventstore.ErrPersistence, scanErr)
		}

		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		es.hooks.Error(ctx, logMsgDBQueryFailed, err, logAttrTable, table)
		return nil, errorTypeDatabaseQuery, errors.Join(eventstore.ErrPersistence, err)
	}

	return events, "", nil
}

func (es *EventStore) scanEvent(rows adapters.DBRows, family string) (eventstore.StorableEvent, error) {
	var (
		sequenceNumber int64
		envelope       = eventstore.EventEnvelope{Family: family}
		occurredAt     string
		payload        []byte
		metadata       []byte
	)

	err := rows.Scan(
		&sequenceNumber,
		&envelope.EventID,
		&envelope.AggregateID,
		&envelope.ActorID,
		&occurredAt,
		&envelope.EventType,
		&payload,
		&metadata,
	)
	if err != nil {
		return eventstore.StorableEvent{}, errors.Join(eventstore.ErrScanningDBRowFailed, err)
	}

	envelope.OccurredAt, err = ParseTime(occurredAt)
	if err != nil {
		return eventstore.StorableEvent{}, errors.Join(eventstore.ErrScanningDBRowFailed, err)
	}

	event, err := eventstore.BuildStorableEvent(envelope, payload, metadata)
	if err != nil {
		return eventstore.StorableEvent{}, errors.Join(eventstore.ErrBuildingStorableFailed, err)
	}

	event.SequenceNumber = eventstore.SequenceNumber(sequenceNumber)

	return event, nil
}

func (es *EventStore) buildSelectQuery(table string, filter eventstore.Filter) (string, []any, error) {
	selectStmt := es.builder.
		From(table).
		Select(
			colSequenceNumber,
			colEventID,
			colAggregateID,
			colActorID,
			colOccurredAt,
			colEventType,
			colPayload,
			colMetadata,
		).
		Order(goqu.C(colSequenceNumber).Asc()).
		Prepared(true)

	conditions := make([]goqu.Expression, 0, 5)

	if ids := filter.AggregateIDs(); len(ids) > 0 {
		conditions = append(conditions, goqu.C(colAggregateID).In(ids))
	}

	if types := filter.EventTypes(); len(types) > 0 {
		conditions = append(conditions, goqu.C(colEventType).In(types))
	}

	if !filter.OccurredFrom().IsZero() {
		conditions = append(conditions, goqu.C(colOccurredAt).Gte(FormatTime(filter.OccurredFrom())))
	}

	if !filter.OccurredUntil().IsZero() {
		conditions = append(conditions, goqu.C(colOccurredAt).Lte(FormatTime(filter.OccurredUntil())))
	}

	if filter.SequenceNumberHigherThan() > 0 {
		conditions = append(conditions, goqu.C(colSequenceNumber).Gt(int64(filter.SequenceNumberHigherThan())))
	}

	if len(conditions) > 0 {
		selectStmt = selectStmt.Where(goqu.And(conditions...))
	}

	if filter.Limit() > 0 {
		selectStmt = selectStmt.Limit(uint(filter.Limit()))
	}

	return selectStmt.ToSQL()
}

func (es *EventStore) closeRows(ctx context.Context, rows adapters.DBRows) {
	if err := rows.Close(); err != nil {
		es.hooks.Warn(ctx, logMsgCloseRowsFailed, "error", err.Error())
	}
}

// logQueryWithDuration logs SQL statements with execution time at debug level.
func (es *EventStore) logQueryWithDuration(ctx context.Context, sqlQuery, action string, duration time.Duration) {
	es.hooks.Debug(ctx, logMsgSQLExecuted+action, logAttrDurationMS, observability.ToMilliseconds(duration), logAttrQuery, sqlQuery)
}

// FormatTime renders t in TimeLayout after converting it to UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime reads a TimeLayout timestamp. RFC 3339 input is accepted as well.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, s)
	}

	return t.UTC(), err
}
