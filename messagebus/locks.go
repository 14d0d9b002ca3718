package messagebus

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/content-eventbus-go/identifier"
)

type heldLocksKey struct{}

type refCountedMutex struct {
	mu   sync.Mutex
	refs int
}

// aggregateLocks hands out one mutex per aggregate id. Entries are dropped once nobody holds or waits for them.
type aggregateLocks struct {
	mu    sync.Mutex
	locks map[identifier.ID]*refCountedMutex
}

func newAggregateLocks() *aggregateLocks {
	return &aggregateLocks{locks: make(map[identifier.ID]*refCountedMutex)}
}

// lock blocks until id is held by the caller and returns a context that records the hold.
// Locking an id that ctx already holds returns at once, which lets listeners publish about their own aggregate.
func (a *aggregateLocks) lock(ctx context.Context, id identifier.ID) (context.Context, func()) {
	if id.IsZero() || holds(ctx, id) {
		return ctx, func() {}
	}

	a.mu.Lock()
	entry, ok := a.locks[id]
	if !ok {
		entry = &refCountedMutex{}
		a.locks[id] = entry
	}
	entry.refs++
	a.mu.Unlock()

	entry.mu.Lock()

	unlock := func() {
		entry.mu.Unlock()

		a.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(a.locks, id)
		}
		a.mu.Unlock()
	}

	return withHeld(ctx, id), unlock
}

func (a *aggregateLocks) size() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.locks)
}

func holds(ctx context.Context, id identifier.ID) bool {
	held, _ := ctx.Value(heldLocksKey{}).(map[identifier.ID]struct{})
	_, ok := held[id]

	return ok
}

func withHeld(ctx context.Context, id identifier.ID) context.Context {
	held, _ := ctx.Value(heldLocksKey{}).(map[identifier.ID]struct{})

	next := make(map[identifier.ID]struct{}, len(held)+1)
	for heldID := range held {
		next[heldID] = struct{}{}
	}
	next[id] = struct{}{}

	return context.WithValue(ctx, heldLocksKey{}, next)
}

// withoutHeldLocks is used for work that outlives the holder, such as async listeners.
func withoutHeldLocks(ctx context.Context) context.Context {
	return context.WithValue(ctx, heldLocksKey{}, map[identifier.ID]struct{}(nil))
}
