package eventstore

import (
	"slices"
	"time"
)

/***** Filter *****/

// Filter narrows a family stream. The zero Filter matches every event.
// Within one criterion values are ORed, criteria are ANDed.
type Filter struct {
	aggregateIDs             []string
	eventTypes               []string
	occurredFrom             time.Time
	occurredUntil            time.Time
	sequenceNumberHigherThan SequenceNumber
	limit                    int
}

func (f Filter) AggregateIDs() []string {
	return f.aggregateIDs
}

func (f Filter) EventTypes() []string {
	return f.eventTypes
}

func (f Filter) OccurredFrom() time.Time {
	return f.occurredFrom
}

func (f Filter) OccurredUntil() time.Time {
	return f.occurredUntil
}

func (f Filter) SequenceNumberHigherThan() SequenceNumber {
	return f.sequenceNumberHigherThan
}

// Limit is the maximum number of events to return, 0 means unlimited.
func (f Filter) Limit() int {
	return f.limit
}

/***** FilterBuilder *****/

// FilterBuilder builds a Filter step by step. Builders are values, so a partially built filter can be reused.
type FilterBuilder interface {
	// ForAggregates restricts the stream to the given aggregate ids. Empty ids are dropped, duplicates removed.
	ForAggregates(aggregateID string, aggregateIDs ...string) FilterBuilder

	// AnyEventTypeOf restricts the stream to the given event types. Empty types are dropped, duplicates removed.
	AnyEventTypeOf(eventType string, eventTypes ...string) FilterBuilder

	OccurredFrom(from time.Time) FilterBuilder
	OccurredUntil(until time.Time) FilterBuilder

	// WithSequenceNumberHigherThan continues a stream after a known position.
	WithSequenceNumberHigherThan(sequenceNumber SequenceNumber) FilterBuilder

	// Limit caps the number of events returned. Values below 1 mean unlimited.
	Limit(limit int) FilterBuilder

	Finalize() Filter

	// MatchingAnyEvent returns a filter that matches the whole stream, discarding anything set so far.
	MatchingAnyEvent() Filter
}

type filterBuilder struct {
	filter Filter
}

// BuildEventFilter starts a new FilterBuilder.
func BuildEventFilter() FilterBuilder {
	return filterBuilder{}
}

func (fb filterBuilder) ForAggregates(aggregateID string, aggregateIDs ...string) FilterBuilder {
	fb.filter.aggregateIDs = sanitize(append(slices.Clone(fb.filter.aggregateIDs), append([]string{aggregateID}, aggregateIDs...)...))

	return fb
}

func (fb filterBuilder) AnyEventTypeOf(eventType string, eventTypes ...string) FilterBuilder {
	fb.filter.eventTypes = sanitize(append(slices.Clone(fb.filter.eventTypes), append([]string{eventType}, eventTypes...)...))

	return fb
}

func (fb filterBuilder) OccurredFrom(from time.Time) FilterBuilder {
	fb.filter.occurredFrom = from.UTC()

	return fb
}

func (fb filterBuilder) OccurredUntil(until time.Time) FilterBuilder {
	fb.filter.occurredUntil = until.UTC()

	return fb
}

func (fb filterBuilder) WithSequenceNumberHigherThan(sequenceNumber SequenceNumber) FilterBuilder {
	fb.filter.sequenceNumberHigherThan = sequenceNumber

	return fb
}

func (fb filterBuilder) Limit(limit int) FilterBuilder {
	fb.filter.limit = max(limit, 0)

	return fb
}

func (fb filterBuilder) Finalize() Filter {
	return fb.filter
}

func (fb filterBuilder) MatchingAnyEvent() Filter {
	return Filter{}
}

// sanitize removes empty values, sorts, and removes duplicates.
func sanitize(values []string) []string {
	values = slices.DeleteFunc(values, func(v string) bool { return v == "" })
	slices.Sort(values)
	values = slices.Compact(values)

	return slices.Clip(values)
}
