package eventstore_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/content-eventbus-go/eventstore"
)

func validEnvelope() eventstore.EventEnvelope {
	return eventstore.EventEnvelope{
		Family:      "content",
		EventID:     "0191e0b4-8d2f-7a4c-9b7e-2f6c1d9a1234",
		AggregateID: "0191e0b4-8d2f-7a4c-9b7e-2f6c1d9a5678",
		ActorID:     "0191e0b4-8d2f-7a4c-9b7e-2f6c1d9a9abc",
		EventType:   "ContentCreated",
		OccurredAt:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600)),
	}
}

func Test_BuildStorableEvent_Normalizes_Time_And_Metadata(t *testing.T) {
	// act
	event, err := eventstore.BuildStorableEvent(validEnvelope(), []byte(`{"title":"Hello"}`), nil)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, time.UTC, event.OccurredAt.Location())
	assert.Equal(t, 11, event.OccurredAt.Hour())
	assert.JSONEq(t, `{}`, string(event.MetadataJSON))
	assert.Equal(t, validEnvelope().EventID, event.Envelope().EventID)
	assert.Zero(t, event.SequenceNumber)
}

func Test_BuildStorableEvent_Rejects_Invalid_Input(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(e *eventstore.EventEnvelope)
		payload  string
		metadata string
		expected error
	}{
		{name: "missing_family", mutate: func(e *eventstore.EventEnvelope) { e.Family = "" }, payload: `{}`, expected: eventstore.ErrMissingFamily},
		{name: "missing_event_id", mutate: func(e *eventstore.EventEnvelope) { e.EventID = "" }, payload: `{}`, expected: eventstore.ErrMissingEventID},
		{name: "missing_event_type", mutate: func(e *eventstore.EventEnvelope) { e.EventType = "" }, payload: `{}`, expected: eventstore.ErrMissingEventType},
		{name: "invalid_payload", mutate: func(*eventstore.EventEnvelope) {}, payload: `{"title":`, expected: eventstore.ErrInvalidPayloadJSON},
		{name: "invalid_metadata", mutate: func(*eventstore.EventEnvelope) {}, payload: `{}`, metadata: `nope`, expected: eventstore.ErrInvalidMetadataJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envelope := validEnvelope()
			tt.mutate(&envelope)

			_, err := eventstore.BuildStorableEvent(envelope, []byte(tt.payload), []byte(tt.metadata))

			assert.ErrorIs(t, err, tt.expected)
		})
	}
}
