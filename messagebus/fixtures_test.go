package messagebus_test

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
)

type somethingHappened struct {
	messages.BaseEvent
	Note string
}

func (*somethingHappened) MessageType() string { return "SomethingHappened" }

func (*somethingHappened) Family() messages.Family { return messages.FamilyContent }

type somethingElseHappened struct {
	messages.BaseEvent
}

func (*somethingElseHappened) MessageType() string { return "SomethingElseHappened" }

func (*somethingElseHappened) Family() messages.Family { return messages.FamilyContent }

type siteChanged struct {
	messages.BaseEvent
}

func (*siteChanged) MessageType() string { return "SiteChanged" }

func (*siteChanged) Family() messages.Family { return messages.FamilySite }

type doSomething struct {
	messages.BaseCommand
	Aggregate identifier.ID
	Times     int
}

func (*doSomething) MessageType() string { return "DoSomething" }

type claimSlot struct {
	messages.BaseCommand
	Slot identifier.ID
}

func (*claimSlot) MessageType() string { return "ClaimSlot" }

func (c *claimSlot) AggregateID() identifier.ID { return c.Slot }

type lookupNote struct {
	AggregateID identifier.ID
	note        string
}

func (*lookupNote) MessageType() string { return "LookupNote" }

func (q *lookupNote) Results() string { return q.note }

type assembleParts struct {
	mu    sync.Mutex
	parts []string
}

func (*assembleParts) MessageType() string { return "AssembleParts" }

func (q *assembleParts) add(part string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.parts = append(q.parts, part)
}

func (q *assembleParts) Results() []string { return q.parts }

func happened(aggregate identifier.ID) *somethingHappened {
	return &somethingHappened{BaseEvent: messages.NewBaseEvent(aggregate, identifier.New())}
}

// callLog records listener invocations in order.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (c *callLog) record(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = append(c.calls, name)
}

func (c *callLog) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]string(nil), c.calls...)
}

func recording[E messages.Event](log *callLog, name string, err error) func(context.Context, E) error {
	return func(context.Context, E) error {
		log.record(name)
		return err
	}
}
