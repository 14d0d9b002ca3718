package messagebus

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/AntonStoeckl/content-eventbus-go/messages"
)

// Registry is the static listener table. Fill it at startup, then hand it to NewBus, which freezes it.
type Registry struct {
	mu         sync.RWMutex
	byType     map[string][]Listener
	byFamily   map[messages.Family][]Listener
	queryRoles map[string]queryRole
	nextSeq    uint64
	frozen     bool
}

func NewRegistry() *Registry {
	return &Registry{
		byType:     make(map[string][]Listener),
		byFamily:   make(map[messages.Family][]Listener),
		queryRoles: make(map[string]queryRole),
	}
}

// Register adds listeners in the given order. The batch is validated as a whole first:
// if any listener is rejected, none of them is registered.
func (r *Registry) Register(listeners ...Listener) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrRegistryFrozen
	}

	commands := make(map[string]string)
	roles := make(map[string]queryRole)

	for _, l := range listeners {
		if err := l.validate(); err != nil {
			return err
		}

		switch l.Kind {
		case messages.KindCommand:
			if err := r.checkCommandHandler(l, commands); err != nil {
				return err
			}

			commands[l.MessageType] = l.Name

		case messages.KindQuery:
			if err := r.checkQueryRole(l, roles); err != nil {
				return err
			}

			roles[l.MessageType] = l.queryRole
		}
	}

	for _, l := range listeners {
		l.seq = r.nextSeq
		r.nextSeq++

		if l.Kind == messages.KindQuery {
			r.queryRoles[l.MessageType] = l.queryRole
		}

		if l.MessageType != "" {
			r.byType[l.MessageType] = append(r.byType[l.MessageType], l)
			continue
		}

		r.byFamily[l.Family] = append(r.byFamily[l.Family], l)
	}

	return nil
}

func (r *Registry) checkCommandHandler(l Listener, batch map[string]string) error {
	existing, inBatch := batch[l.MessageType]
	if !inBatch {
		registered, found := lo.Find(r.byType[l.MessageType], func(x Listener) bool {
			return x.Kind == messages.KindCommand
		})
		existing, inBatch = registered.Name, found
	}

	if inBatch {
		return errors.Join(
			ErrDuplicateCommandHandler,
			fmt.Errorf("%s is handled by %q, cannot add %q", l.MessageType, existing, l.Name),
		)
	}

	return nil
}

func (r *Registry) checkQueryRole(l Listener, batch map[string]queryRole) error {
	role, known := batch[l.MessageType]
	if !known {
		role, known = r.queryRoles[l.MessageType]
	}

	if !known {
		return nil
	}

	switch {
	case role != l.queryRole:
		return errors.Join(ErrMixedQueryDiscipline, fmt.Errorf("%s, listener %q", l.MessageType, l.Name))
	case role == queryRoleOwner:
		return errors.Join(ErrDuplicateQueryHandler, fmt.Errorf("%s, listener %q", l.MessageType, l.Name))
	default:
		return nil
	}
}

// Freeze rejects all later registrations.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.frozen = true
}

// Resolve returns the listeners registered for messageType in execution order:
// by layer, then priority, then registration order.
func (r *Registry) Resolve(messageType string) []Listener {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return ordered(slices.Clone(r.byType[messageType]))
}

// ResolveEvent returns the listeners of the event's type together with those of its family, in execution order.
func (r *Registry) ResolveEvent(evt messages.Event) []Listener {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typed := lo.Filter(r.byType[evt.MessageType()], func(l Listener, _ int) bool {
		return l.Kind == messages.KindEvent
	})

	return ordered(slices.Concat(typed, r.byFamily[evt.Family()]))
}

// MessageTypes lists every message type that has at least one listener.
func (r *Registry) MessageTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := lo.Keys(r.byType)
	slices.Sort(types)

	return types
}

func ordered(listeners []Listener) []Listener {
	slices.SortStableFunc(listeners, func(a, b Listener) int {
		return cmp.Or(
			cmp.Compare(a.Layer, b.Layer),
			cmp.Compare(a.Priority, b.Priority),
			cmp.Compare(a.seq, b.seq),
		)
	})

	return listeners
}
