package eventstore

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrInvalidPayloadJSON  = errors.New("payload json is not valid")
	ErrInvalidMetadataJSON = errors.New("metadata json is not valid")
	ErrMissingFamily       = errors.New("event stream family is missing")
	ErrMissingEventID      = errors.New("event id is missing")
	ErrMissingEventType    = errors.New("event type is missing")
)

// StorableEvents is an alias type for a slice of StorableEvent.
type StorableEvents = []StorableEvent

// StorableEvent is the DTO the Store appends and streams back.
//
// It is built on scalars so the store stays agnostic of concrete event types.
// Construct it with BuildStorableEvent; SequenceNumber is only set on events read from the store.
type StorableEvent struct {
	Family         string
	EventID        string
	AggregateID    string
	ActorID        string
	EventType      string
	OccurredAt     time.Time
	PayloadJSON    []byte
	MetadataJSON   []byte
	SequenceNumber SequenceNumber
}

// EventEnvelope holds the identifying scalars of a StorableEvent.
type EventEnvelope struct {
	Family      string
	EventID     string
	AggregateID string
	ActorID     string
	EventType   string
	OccurredAt  time.Time
}

// BuildStorableEvent validates the envelope and both JSON documents.
// Empty metadata is stored as an empty JSON object.
func BuildStorableEvent(envelope EventEnvelope, payloadJSON []byte, metadataJSON []byte) (StorableEvent, error) {
	switch {
	case envelope.Family == "":
		return StorableEvent{}, ErrMissingFamily
	case envelope.EventID == "":
		return StorableEvent{}, ErrMissingEventID
	case envelope.EventType == "":
		return StorableEvent{}, ErrMissingEventType
	}

	if len(metadataJSON) == 0 {
		metadataJSON = []byte("{}")
	}

	if !json.Valid(payloadJSON) {
		return StorableEvent{}, ErrInvalidPayloadJSON
	}

	if !json.Valid(metadataJSON) {
		return StorableEvent{}, ErrInvalidMetadataJSON
	}

	return StorableEvent{
		Family:       envelope.Family,
		EventID:      envelope.EventID,
		AggregateID:  envelope.AggregateID,
		ActorID:      envelope.ActorID,
		EventType:    envelope.EventType,
		OccurredAt:   envelope.OccurredAt.UTC(),
		PayloadJSON:  payloadJSON,
		MetadataJSON: metadataJSON,
	}, nil
}

// Envelope returns the identifying scalars of e.
func (e StorableEvent) Envelope() EventEnvelope {
	return EventEnvelope{
		Family:      e.Family,
		EventID:     e.EventID,
		AggregateID: e.AggregateID,
		ActorID:     e.ActorID,
		EventType:   e.EventType,
		OccurredAt:  e.OccurredAt,
	}
}
