// Package eventstore defines the append-only event log: the StorableEvent DTO, stream filters,
// the Store contract, and the errors every implementation reports.
//
// Events are grouped into families (connector, content, site). Each family is its own ordered
// stream; sequence numbers are assigned by the store and define replay order.
//
// Typical use:
//
//	event, err := eventstore.BuildStorableEvent(envelope, payloadJSON, metadataJSON)
//	receipt, err := store.Append(ctx, event)
//	if errors.Is(err, eventstore.ErrDuplicateEvent) {
//		// already recorded
//	}
//
//	filter := eventstore.BuildEventFilter().
//		ForAggregates(contentID).
//		AnyEventTypeOf("ContentCreated", "ContentDeleted").
//		Finalize()
//	events, err := store.StreamFor(ctx, "content", filter)
//
// Package sqlengine implements Store on Postgres and SQLite.
package eventstore
