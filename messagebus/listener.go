package messagebus

import (
	"context"
	"errors"
	"fmt"

	"github.com/AntonStoeckl/content-eventbus-go/messages"
)

type queryRole int

const (
	queryRoleNone queryRole = iota
	queryRoleOwner
	queryRoleContributor
)

// Listener is one entry of the static listener table.
// Build it with OnEvent, OnFamily, HandleCommand, AnswerQuery, or ContributeTo.
type Listener struct {
	Name        string
	MessageType string
	Family      messages.Family
	Kind        messages.Kind
	Layer       Layer
	Priority    int
	Async       bool
	SideEffect  bool

	queryRole queryRole
	seq       uint64

	onEvent   func(ctx context.Context, evt messages.Event) error
	onCommand func(ctx context.Context, cmd messages.Command) ([]messages.Event, error)
	onQuery   func(ctx context.Context, q messages.Query) error
}

// ListenerOption tunes a Listener at construction.
type ListenerOption func(*Listener)

// WithPriority orders a listener within its layer. Lower runs earlier, the default is 0.
func WithPriority(priority int) ListenerOption {
	return func(l *Listener) {
		l.Priority = priority
	}
}

// Async marks an event listener to run on the bus's AsyncQueue after the EventStore layer committed.
func Async() ListenerOption {
	return func(l *Listener) {
		l.Async = true
	}
}

// SideEffect marks an event listener that reaches outside the platform. Replay skips it.
func SideEffect() ListenerOption {
	return func(l *Listener) {
		l.SideEffect = true
	}
}

// OnEvent listens for events of type E.
func OnEvent[E messages.Event](name string, layer Layer, fn func(ctx context.Context, evt E) error, options ...ListenerOption) Listener {
	var zero E

	l := Listener{
		Name:        name,
		MessageType: zero.MessageType(),
		Kind:        messages.KindEvent,
		Layer:       layer,
		onEvent: func(ctx context.Context, evt messages.Event) error {
			typed, ok := evt.(E)
			if !ok {
				return unexpected(evt, zero)
			}

			return fn(ctx, typed)
		},
	}

	return l.with(options)
}

// OnFamily listens for every event of one event-stream family.
func OnFamily(name string, family messages.Family, layer Layer, fn func(ctx context.Context, evt messages.Event) error, options ...ListenerOption) Listener {
	l := Listener{
		Name:    name,
		Family:  family,
		Kind:    messages.KindEvent,
		Layer:   layer,
		onEvent: fn,
	}

	return l.with(options)
}

// HandleCommand declares the single handler of command type C.
func HandleCommand[C messages.Command](name string, fn func(ctx context.Context, cmd C) ([]messages.Event, error)) Listener {
	var zero C

	return Listener{
		Name:        name,
		MessageType: zero.MessageType(),
		Kind:        messages.KindCommand,
		Layer:       LayerExecution,
		onCommand: func(ctx context.Context, cmd messages.Command) ([]messages.Event, error) {
			typed, ok := cmd.(C)
			if !ok {
				return nil, unexpected(cmd, zero)
			}

			return fn(ctx, typed)
		},
	}
}

// AnswerQuery declares the single owner of a plain query of type Q. The owner fills the whole result.
func AnswerQuery[Q messages.Query](name string, fn func(ctx context.Context, q Q) error) Listener {
	l := queryListener(name, fn)
	l.queryRole = queryRoleOwner

	return l
}

// ContributeTo adds a contributor to a builder query of type Q.
// Contributors of one query must write disjoint parts of the result.
func ContributeTo[Q messages.Query](name string, fn func(ctx context.Context, q Q) error, options ...ListenerOption) Listener {
	l := queryListener(name, fn)
	l.queryRole = queryRoleContributor

	return l.with(options)
}

func queryListener[Q messages.Query](name string, fn func(ctx context.Context, q Q) error) Listener {
	var zero Q

	return Listener{
		Name:        name,
		MessageType: zero.MessageType(),
		Kind:        messages.KindQuery,
		Layer:       LayerContentBuild,
		onQuery: func(ctx context.Context, q messages.Query) error {
			typed, ok := q.(Q)
			if !ok {
				return unexpected(q, zero)
			}

			return fn(ctx, typed)
		},
	}
}

func (l Listener) with(options []ListenerOption) Listener {
	for _, option := range options {
		option(&l)
	}

	return l
}

func (l Listener) validate() error {
	invalid := func(reason string) error {
		return errors.Join(ErrInvalidListener, fmt.Errorf("%q: %s", l.Name, reason))
	}

	switch {
	case l.Name == "":
		return invalid("name is empty")
	case !l.Layer.valid():
		return invalid("unknown layer")
	case l.MessageType == "" && l.Family == "":
		return invalid("neither message type nor family given")
	}

	switch l.Kind {
	case messages.KindEvent:
		if l.onEvent == nil {
			return invalid("event function is nil")
		}

		if l.Async && l.Layer == LayerEventStore {
			return invalid("event store listeners cannot be async")
		}

	case messages.KindCommand:
		if l.onCommand == nil {
			return invalid("command function is nil")
		}

	case messages.KindQuery:
		if l.onQuery == nil {
			return invalid("query function is nil")
		}

	default:
		return invalid("unknown kind")
	}

	if l.Async && l.Kind != messages.KindEvent {
		return invalid("only event listeners can be async")
	}

	return nil
}

func unexpected(got messages.Message, want messages.Message) error {
	return errors.Join(ErrUnexpectedMessage, fmt.Errorf("got %T, want %T", got, want))
}
