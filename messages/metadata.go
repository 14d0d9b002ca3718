package messages

import (
	"context"

	"github.com/AntonStoeckl/content-eventbus-go/identifier"
)

// Metadata tracks where an event came from.
type Metadata struct {
	CausationID   identifier.ID `json:"causation_id"`
	CorrelationID identifier.ID `json:"correlation_id"`
}

type correlationKey struct{}

// WithCorrelation marks ctx as belonging to the chain of messages started by id.
func WithCorrelation(ctx context.Context, id identifier.ID) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationFrom returns the correlation id stored by WithCorrelation.
func CorrelationFrom(ctx context.Context) (identifier.ID, bool) {
	id, ok := ctx.Value(correlationKey{}).(identifier.ID)
	return id, ok
}

// CausedByInContext is CausedBy plus the correlation id carried by ctx, if any.
// Handlers use it so that follow-up commands issued by listeners keep the original correlation.
func (e BaseEvent) CausedByInContext(ctx context.Context, cmd Command) BaseEvent {
	e = e.CausedBy(cmd)
	if correlationID, ok := CorrelationFrom(ctx); ok {
		e.Metadata.CorrelationID = correlationID
	}

	return e
}
