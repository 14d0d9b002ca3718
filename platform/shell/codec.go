package shell

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/content-eventbus-go/eventstore"
	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
)

var (
	// ErrMappingToStorableEventFailed is returned when an event or its metadata cannot be serialized.
	ErrMappingToStorableEventFailed = errors.New("mapping to storable event failed")

	// ErrMappingToDomainEventFailed is returned when a stored event cannot be rebuilt.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrUnknownEventType is returned for stored event types no factory was registered for.
	ErrUnknownEventType = errors.New("unknown event type")

	// ErrDuplicateEventType is returned when two factories produce the same event type.
	ErrDuplicateEventType = errors.New("event type registered twice")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Codec maps events to storable events and back through an explicit registry of event types.
type Codec struct {
	factories map[string]func() messages.Restorable
}

// NewCodec registers the event type of each factory's product.
func NewCodec(factories ...func() messages.Restorable) (*Codec, error) {
	c := &Codec{factories: make(map[string]func() messages.Restorable, len(factories))}

	for _, factory := range factories {
		eventType := factory().MessageType()
		if _, exists := c.factories[eventType]; exists {
			return nil, errors.Join(ErrDuplicateEventType, fmt.Errorf("%s", eventType))
		}

		c.factories[eventType] = factory
	}

	return c, nil
}

// StorableEventFrom converts an event to a StorableEvent. The envelope goes to dedicated fields,
// the payload and the metadata are serialized to JSON.
func (c *Codec) StorableEventFrom(evt messages.Event) (eventstore.StorableEvent, error) {
	payloadJSON, err := json.Marshal(evt)
	if err != nil {
		return eventstore.StorableEvent{}, errors.Join(ErrMappingToStorableEventFailed, err)
	}

	metadataJSON, err := json.Marshal(evt.Meta())
	if err != nil {
		return eventstore.StorableEvent{}, errors.Join(ErrMappingToStorableEventFailed, err)
	}

	storableEvent, err := eventstore.BuildStorableEvent(
		eventstore.EventEnvelope{
			Family:      evt.Family(),
			EventID:     evt.EventID().String(),
			AggregateID: evt.AggregateID().String(),
			ActorID:     evt.ActorID().String(),
			EventType:   evt.MessageType(),
			OccurredAt:  evt.OccurredAt(),
		},
		payloadJSON,
		metadataJSON,
	)
	if err != nil {
		return eventstore.StorableEvent{}, errors.Join(ErrMappingToStorableEventFailed, err)
	}

	return storableEvent, nil
}

// DomainEventFrom rebuilds the concrete event of a StorableEvent.
func (c *Codec) DomainEventFrom(storableEvent eventstore.StorableEvent) (messages.Event, error) {
	factory, found := c.factories[storableEvent.EventType]
	if !found {
		return nil, errors.Join(ErrMappingToDomainEventFailed, ErrUnknownEventType, fmt.Errorf("%s", storableEvent.EventType))
	}

	evt := factory()
	if err := json.Unmarshal(storableEvent.PayloadJSON, evt); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	var metadata messages.Metadata
	if err := json.Unmarshal(storableEvent.MetadataJSON, &metadata); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	base, err := baseEventFrom(storableEvent.Envelope(), metadata)
	if err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	evt.Restore(base)

	if evt.Family() != storableEvent.Family {
		return nil, errors.Join(
			ErrMappingToDomainEventFailed,
			fmt.Errorf("%s belongs to family %s, found in %s", storableEvent.EventType, evt.Family(), storableEvent.Family),
		)
	}

	return evt, nil
}

// DomainEventsFrom converts multiple StorableEvents, keeping their order.
func (c *Codec) DomainEventsFrom(storableEvents eventstore.StorableEvents) ([]messages.Event, error) {
	events := make([]messages.Event, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		evt, err := c.DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		events = append(events, evt)
	}

	return events, nil
}

func baseEventFrom(envelope eventstore.EventEnvelope, metadata messages.Metadata) (messages.BaseEvent, error) {
	eventID, err := identifier.Parse(envelope.EventID)
	if err != nil {
		return messages.BaseEvent{}, err
	}

	aggregateID, err := parseOptional(envelope.AggregateID)
	if err != nil {
		return messages.BaseEvent{}, err
	}

	actorID, err := parseOptional(envelope.ActorID)
	if err != nil {
		return messages.BaseEvent{}, err
	}

	return messages.BaseEvent{
		ID:        eventID,
		Aggregate: aggregateID,
		Actor:     actorID,
		Timestamp: envelope.OccurredAt,
		Metadata:  metadata,
	}, nil
}

func parseOptional(s string) (identifier.ID, error) {
	if s == "" {
		return identifier.Nil, nil
	}

	return identifier.Parse(s)
}
