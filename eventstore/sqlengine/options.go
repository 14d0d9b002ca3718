package sqlengine

import (
	"regexp"

	"github.com/AntonStoeckl/content-eventbus-go/eventstore"
	"github.com/AntonStoeckl/content-eventbus-go/observability"
)

var identifierPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore) error

// WithTablePrefix prefixes every family table, e.g. "smol_" gives "smol_content_events".
func WithTablePrefix(prefix string) Option {
	return func(es *EventStore) error {
		if prefix == "" {
			return eventstore.ErrEmptyTablePrefixSupplied
		}

		if !identifierPattern.MatchString(prefix) {
			return ErrInvalidIdentifier
		}

		es.tablePrefix = prefix

		return nil
	}
}

// WithFamilies restricts the store to the given families. Appending or streaming any other family
// fails with eventstore.ErrUnknownFamily. Without this option every well-formed family name is accepted.
func WithFamilies(families ...string) Option {
	return func(es *EventStore) error {
		allowed := make(map[string]struct{}, len(families))
		for _, family := range families {
			if !identifierPattern.MatchString(family) {
				return ErrInvalidIdentifier
			}

			allowed[family] = struct{}{}
		}

		es.families = allowed

		return nil
	}
}

// WithLogger sets the logger for the EventStore.
//
// Debug level: SQL statements with execution timing
// Info level: appended events and streamed event counts
// Warn level: duplicate events and cleanup failures
// Error level: failures that abort an operation.
func WithLogger(logger observability.Logger) Option {
	return func(es *EventStore) error {
		es.hooks.Logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger, used for trace correlation when tracing is enabled.
func WithContextualLogger(logger observability.ContextualLogger) Option {
	return func(es *EventStore) error {
		es.hooks.ContextualLogger = logger
		return nil
	}
}

// WithMetrics sets the collector for append and stream durations, duplicates, and database errors.
func WithMetrics(collector observability.MetricsCollector) Option {
	return func(es *EventStore) error {
		es.hooks.Metrics = collector
		return nil
	}
}

// WithTracing sets the collector that receives a span per append and stream operation.
func WithTracing(collector observability.TracingCollector) Option {
	return func(es *EventStore) error {
		es.hooks.Tracing = collector
		return nil
	}
}
