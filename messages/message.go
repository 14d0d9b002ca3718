// Package messages defines the three shapes of message routed by the bus: commands, events, and queries.
//
// Concrete messages are pointer types whose MessageType method does not read the receiver,
// so the type tag can be taken from a nil value of the concrete type.
package messages

import (
	"time"

	"github.com/AntonStoeckl/content-eventbus-go/identifier"
)

// Family names an event-stream family. Every family has its own append-only table.
type Family = string

const (
	FamilyConnector Family = "connector"
	FamilyContent   Family = "content"
	FamilySite      Family = "site"
)

// Kind discriminates the three message shapes.
type Kind int

const (
	KindCommand Kind = iota + 1
	KindEvent
	KindQuery
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindEvent:
		return "event"
	case KindQuery:
		return "query"
	default:
		return "unknown"
	}
}

// Message is the root of all messages. The type tag is stable and used for routing and storage.
type Message interface {
	MessageType() string
}

// Command is an intent to change state. Exactly one handler turns it into zero or more events.
type Command interface {
	Message
	CommandID() identifier.ID
	ActorID() identifier.ID
}

// AggregateCommand is a Command that changes exactly one aggregate.
// The bus runs its handler and the cascade of its events while holding that aggregate's lock,
// so concurrent commands for one aggregate decide on the state the previous one left behind.
type AggregateCommand interface {
	Command
	AggregateID() identifier.ID
}

// Event is a fact that already happened. Events are immutable once created.
type Event interface {
	Message
	EventID() identifier.ID
	AggregateID() identifier.ID
	ActorID() identifier.ID
	OccurredAt() time.Time
	Family() Family
	Meta() Metadata
}

// Query asks for data. Each concrete query owns its results slot and the setters that fill it.
type Query interface {
	Message
}

// QueryWithResults is a Query whose results can be read back after a fetch.
type QueryWithResults[R any] interface {
	Query
	Results() R
}

// Restorable is implemented by events that can be rebuilt from a stored envelope.
type Restorable interface {
	Event
	Restore(base BaseEvent)
}

// BaseCommand carries the fields shared by all commands. Embed it.
type BaseCommand struct {
	ID    identifier.ID `json:"-"`
	Actor identifier.ID `json:"-" validate:"required"`
}

// NewBaseCommand returns a BaseCommand with a fresh id issued by actor.
func NewBaseCommand(actor identifier.ID) BaseCommand {
	return BaseCommand{ID: identifier.New(), Actor: actor}
}

func (c BaseCommand) CommandID() identifier.ID { return c.ID }

func (c BaseCommand) ActorID() identifier.ID { return c.Actor }

// BaseEvent carries the envelope fields shared by all events. Embed it.
//
// The envelope is stored in dedicated columns, so none of its fields are part of the JSON payload.
type BaseEvent struct {
	ID        identifier.ID `json:"-"`
	Aggregate identifier.ID `json:"-"`
	Actor     identifier.ID `json:"-"`
	Timestamp time.Time     `json:"-"`
	Metadata  Metadata      `json:"-"`
}

// NewBaseEvent returns an envelope with a fresh event id and the current time.
func NewBaseEvent(aggregate, actor identifier.ID) BaseEvent {
	id := identifier.New()
	at, _ := id.Time()

	return BaseEvent{
		ID:        id,
		Aggregate: aggregate,
		Actor:     actor,
		Timestamp: at,
		Metadata:  Metadata{CausationID: id, CorrelationID: id},
	}
}

// CausedBy returns a copy of the envelope that records cmd as its cause.
// The command's actor becomes the event's actor.
func (e BaseEvent) CausedBy(cmd Command) BaseEvent {
	e.Actor = cmd.ActorID()
	e.Metadata = Metadata{CausationID: cmd.CommandID(), CorrelationID: cmd.CommandID()}

	return e
}

// Next returns a copy of the envelope with a fresh event id and time, for the next event
// a handler produces from the same command.
func (e BaseEvent) Next() BaseEvent {
	e.ID = identifier.New()
	e.Timestamp, _ = e.ID.Time()

	return e
}

func (e BaseEvent) EventID() identifier.ID { return e.ID }

func (e BaseEvent) AggregateID() identifier.ID { return e.Aggregate }

func (e BaseEvent) ActorID() identifier.ID { return e.Actor }

func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

func (e BaseEvent) Meta() Metadata { return e.Metadata }

// Restore overwrites the envelope, used when rebuilding an event from storage.
func (e *BaseEvent) Restore(base BaseEvent) { *e = base }
