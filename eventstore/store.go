package eventstore

import "context"

// Store is the append-only event log.
//
// Append fails with ErrDuplicateEvent if the event id was stored before, in which case nothing is written.
// Any other failure is reported as ErrPersistence joined with the cause.
// StreamFor returns the events of one family matching filter, ordered by sequence number ascending.
type Store interface {
	Append(ctx context.Context, event StorableEvent) (Receipt, error)
	StreamFor(ctx context.Context, family string, filter Filter) (StorableEvents, error)
}
