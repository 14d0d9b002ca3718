package shell

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/content-eventbus-go/eventstore"
	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
)

// EventStreams writes every event of the given families to the event store, in the EventStore layer,
// so each event is recorded before any projection sees it.
type EventStreams struct {
	store    eventstore.Store
	codec    *Codec
	families []messages.Family
}

// NewEventStreams creates the stream writers of families on store.
func NewEventStreams(store eventstore.Store, codec *Codec, families ...messages.Family) *EventStreams {
	return &EventStreams{store: store, codec: codec, families: families}
}

// Listeners returns one EventStore layer listener per family.
func (s *EventStreams) Listeners() []messagebus.Listener {
	listeners := make([]messagebus.Listener, 0, len(s.families))

	for _, family := range s.families {
		listeners = append(
			listeners,
			messagebus.OnFamily(family+"_event_stream", family, messagebus.LayerEventStore, s.record),
		)
	}

	return listeners
}

func (s *EventStreams) record(ctx context.Context, evt messages.Event) error {
	storableEvent, err := s.codec.StorableEventFrom(evt)
	if err != nil {
		return err
	}

	_, err = s.store.Append(ctx, storableEvent)

	return err
}

// Replayer is implemented by *messagebus.Bus.
type Replayer interface {
	Replay(ctx context.Context, evt messages.Event) error
}

// ReplayFamily streams a family in sequence order and replays each event into the projections.
// Replay continues after failed events; their errors are returned together with the number of
// events that were replayed without failure.
func (s *EventStreams) ReplayFamily(ctx context.Context, replayer Replayer, family messages.Family, filter eventstore.Filter) (int, error) {
	storableEvents, err := s.store.StreamFor(ctx, family, filter)
	if err != nil {
		return 0, err
	}

	var errs []error
	replayed := 0

	for _, storableEvent := range storableEvents {
		evt, mapErr := s.codec.DomainEventFrom(storableEvent)
		if mapErr != nil {
			errs = append(errs, mapErr)
			continue
		}

		if replayErr := replayer.Replay(ctx, evt); replayErr != nil {
			errs = append(errs, replayErr)
			continue
		}

		replayed++
	}

	return replayed, errors.Join(errs...)
}
