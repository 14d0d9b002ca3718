package messagebus_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
	"github.com/AntonStoeckl/content-eventbus-go/testutil/observability/testdoubles"
)

var errBoom = errors.New("boom")

func newBus(t *testing.T, listeners []messagebus.Listener, options ...messagebus.Option) *messagebus.Bus {
	t.Helper()

	registry := messagebus.NewRegistry()
	require.NoError(t, registry.Register(listeners...))

	bus, err := messagebus.NewBus(registry, options...)
	require.NoError(t, err)

	return bus
}

func Test_Publish_Runs_Layers_In_Declared_Order_Regardless_Of_Registration_Order(t *testing.T) {
	// setup
	log := &callLog{}
	bus := newBus(t, []messagebus.Listener{
		messagebus.OnEvent("build", messagebus.LayerContentBuild, recording[*somethingHappened](log, "build", nil)),
		messagebus.OnEvent("exec", messagebus.LayerExecution, recording[*somethingHappened](log, "exec", nil)),
		messagebus.OnEvent("store", messagebus.LayerEventStore, recording[*somethingHappened](log, "store", nil)),
	})

	// act
	err := bus.Publish(context.Background(), happened(identifier.New()))

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{"store", "exec", "build"}, log.all())
}

func Test_Publish_Without_Listeners_Succeeds(t *testing.T) {
	bus := newBus(t, nil)

	assert.NoError(t, bus.Publish(context.Background(), happened(identifier.New())))
}

func Test_Publish_Passes_The_Same_Event_Instance_To_Every_Listener(t *testing.T) {
	// setup
	evt := happened(identifier.New())
	var seen []*somethingHappened
	collect := func(_ context.Context, e *somethingHappened) error {
		seen = append(seen, e)
		return nil
	}

	bus := newBus(t, []messagebus.Listener{
		messagebus.OnEvent("a", messagebus.LayerExecution, collect),
		messagebus.OnEvent("b", messagebus.LayerContentBuild, collect),
	})

	// act
	require.NoError(t, bus.Publish(context.Background(), evt))

	// assert
	require.Len(t, seen, 2)
	assert.Same(t, evt, seen[0])
	assert.Same(t, evt, seen[1])
}

func Test_Publish_Isolates_Execution_Layer_Failures(t *testing.T) {
	// setup
	log := &callLog{}
	bus := newBus(t, []messagebus.Listener{
		messagebus.OnEvent("store", messagebus.LayerEventStore, recording[*somethingHappened](log, "store", nil)),
		messagebus.OnEvent("exec_failing", messagebus.LayerExecution, recording[*somethingHappened](log, "exec_failing", errBoom)),
		messagebus.OnEvent("exec_ok", messagebus.LayerExecution, recording[*somethingHappened](log, "exec_ok", nil), messagebus.WithPriority(1)),
		messagebus.OnEvent("build", messagebus.LayerContentBuild, recording[*somethingHappened](log, "build", nil)),
	})

	// act
	err := bus.Publish(context.Background(), happened(identifier.New()))

	// assert
	assert.Equal(t, []string{"store", "exec_failing", "exec_ok", "build"}, log.all())

	var dispatchErr *messagebus.DispatchError
	require.ErrorAs(t, err, &dispatchErr)
	require.Len(t, dispatchErr.Failures, 1)
	assert.Equal(t, "exec_failing", dispatchErr.Failures[0].Listener)
	assert.Equal(t, messagebus.LayerExecution, dispatchErr.Failures[0].Layer)
	assert.Equal(t, "SomethingHappened", dispatchErr.Failures[0].MessageType)
	assert.ErrorIs(t, err, messagebus.ErrListenerFailed)
	assert.ErrorIs(t, err, errBoom)
	assert.Len(t, messagebus.FailuresOf(err), 1)
}

func Test_Publish_Recovers_Panicking_Listener(t *testing.T) {
	// setup
	log := &callLog{}
	bus := newBus(t, []messagebus.Listener{
		messagebus.OnEvent("panicking", messagebus.LayerExecution, func(context.Context, *somethingHappened) error {
			panic("kaputt")
		}),
		messagebus.OnEvent("after", messagebus.LayerContentBuild, recording[*somethingHappened](log, "after", nil)),
	})

	// act
	err := bus.Publish(context.Background(), happened(identifier.New()))

	// assert
	assert.ErrorIs(t, err, messagebus.ErrListenerPanicked)
	assert.Equal(t, []string{"after"}, log.all())
}

func Test_Publish_Halts_When_Event_Could_Not_Be_Recorded(t *testing.T) {
	// setup
	log := &callLog{}
	bus := newBus(t, []messagebus.Listener{
		messagebus.OnEvent("store_failing", messagebus.LayerEventStore, recording[*somethingHappened](log, "store_failing", errBoom)),
		messagebus.OnEvent("store_other", messagebus.LayerEventStore, recording[*somethingHappened](log, "store_other", nil), messagebus.WithPriority(1)),
		messagebus.OnEvent("exec", messagebus.LayerExecution, recording[*somethingHappened](log, "exec", nil)),
		messagebus.OnEvent("build", messagebus.LayerContentBuild, recording[*somethingHappened](log, "build", nil)),
	})

	// act
	err := bus.Publish(context.Background(), happened(identifier.New()))

	// assert
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, []string{"store_failing", "store_other"}, log.all())
}

func Test_Publish_Detaches_Cancellation_After_Event_Store_Layer(t *testing.T) {
	// setup
	ctx, cancel := context.WithCancel(context.Background())
	var errSeenByExecution error

	bus := newBus(t, []messagebus.Listener{
		messagebus.OnEvent("store", messagebus.LayerEventStore, func(context.Context, *somethingHappened) error {
			cancel()
			return nil
		}),
		messagebus.OnEvent("exec", messagebus.LayerExecution, func(ctx context.Context, _ *somethingHappened) error {
			errSeenByExecution = ctx.Err()
			return nil
		}),
	})

	// act
	err := bus.Publish(ctx, happened(identifier.New()))

	// assert
	assert.NoError(t, err)
	assert.NoError(t, errSeenByExecution)
}

func Test_Replay_Skips_Event_Store_Layer_And_Side_Effects(t *testing.T) {
	// setup
	log := &callLog{}
	bus := newBus(t, []messagebus.Listener{
		messagebus.OnEvent("store", messagebus.LayerEventStore, recording[*somethingHappened](log, "store", errBoom)),
		messagebus.OnEvent("exec", messagebus.LayerExecution, recording[*somethingHappened](log, "exec", nil)),
		messagebus.OnEvent("build", messagebus.LayerContentBuild, recording[*somethingHappened](log, "build", nil)),
		messagebus.OnEvent(
			"push",
			messagebus.LayerContentBuild,
			recording[*somethingHappened](log, "push", nil),
			messagebus.WithPriority(5),
			messagebus.SideEffect(),
		),
	})

	// act
	err := bus.Replay(context.Background(), happened(identifier.New()))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, []string{"exec", "build"}, log.all())
}

func Test_Dispatch_Without_Handler_Fails_With_NoHandlerFound(t *testing.T) {
	bus := newBus(t, nil)

	events, err := bus.Dispatch(context.Background(), &doSomething{BaseCommand: messages.NewBaseCommand(identifier.New())})

	assert.ErrorIs(t, err, messagebus.ErrNoHandlerFound)
	assert.Empty(t, events)
}

func Test_Dispatch_Cascades_Produced_Events_Before_Returning(t *testing.T) {
	// setup
	notes := make(map[identifier.ID]string)

	handle := func(ctx context.Context, cmd *doSomething) ([]messages.Event, error) {
		evt := &somethingHappened{
			BaseEvent: messages.NewBaseEvent(cmd.Aggregate, cmd.ActorID()).CausedByInContext(ctx, cmd),
			Note:      "Hello",
		}

		return []messages.Event{evt}, nil
	}

	project := func(_ context.Context, evt *somethingHappened) error {
		notes[evt.AggregateID()] = evt.Note
		return nil
	}

	answer := func(_ context.Context, q *lookupNote) error {
		q.note = notes[q.AggregateID]
		return nil
	}

	bus := newBus(t, []messagebus.Listener{
		messagebus.HandleCommand("do_something", handle),
		messagebus.OnEvent("project", messagebus.LayerExecution, project),
		messagebus.AnswerQuery("lookup", answer),
	})

	cmd := &doSomething{BaseCommand: messages.NewBaseCommand(identifier.New()), Aggregate: identifier.New()}

	// act
	events, err := bus.Dispatch(context.Background(), cmd)
	require.NoError(t, err)

	note, fetchErr := messagebus.FetchResults[string](context.Background(), bus, &lookupNote{AggregateID: cmd.Aggregate})

	// assert
	require.NoError(t, fetchErr)
	assert.Equal(t, "Hello", note)
	require.Len(t, events, 1)
	assert.Equal(t, cmd.CommandID(), events[0].Meta().CausationID)
	assert.Equal(t, cmd.ActorID(), events[0].ActorID())
}

func Test_Dispatch_Returns_Handler_Error_Unchanged(t *testing.T) {
	bus := newBus(t, []messagebus.Listener{
		messagebus.HandleCommand("failing", func(context.Context, *doSomething) ([]messages.Event, error) {
			return nil, errBoom
		}),
	})

	events, err := bus.Dispatch(context.Background(), &doSomething{BaseCommand: messages.NewBaseCommand(identifier.New())})

	assert.Same(t, errBoom, err)
	assert.Nil(t, events)
}

func Test_Dispatch_Stops_At_First_Failed_Cascade_And_Returns_Events_Before_It(t *testing.T) {
	// setup
	first := happened(identifier.New())
	second := happened(identifier.New())
	third := happened(identifier.New())
	log := &callLog{}

	bus := newBus(t, []messagebus.Listener{
		messagebus.HandleCommand("do_something", func(context.Context, *doSomething) ([]messages.Event, error) {
			return []messages.Event{first, second, third}, nil
		}),
		messagebus.OnEvent("store", messagebus.LayerEventStore, func(_ context.Context, evt *somethingHappened) error {
			log.record(evt.EventID().String())
			if evt == second {
				return errBoom
			}

			return nil
		}),
	})

	// act
	events, err := bus.Dispatch(context.Background(), &doSomething{BaseCommand: messages.NewBaseCommand(identifier.New())})

	// assert
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, []messages.Event{first}, events)
	assert.Equal(t, []string{first.EventID().String(), second.EventID().String()}, log.all())
}

func Test_Dispatch_Propagates_Correlation_To_Listeners(t *testing.T) {
	// setup
	var correlationSeen identifier.ID

	bus := newBus(t, []messagebus.Listener{
		messagebus.HandleCommand("do_something", func(ctx context.Context, cmd *doSomething) ([]messages.Event, error) {
			return []messages.Event{&somethingHappened{
				BaseEvent: messages.NewBaseEvent(identifier.New(), cmd.ActorID()).CausedByInContext(ctx, cmd),
			}}, nil
		}),
		messagebus.OnEvent("exec", messagebus.LayerExecution, func(ctx context.Context, _ *somethingHappened) error {
			correlationSeen, _ = messages.CorrelationFrom(ctx)
			return nil
		}),
	})

	cmd := &doSomething{BaseCommand: messages.NewBaseCommand(identifier.New())}

	// act
	_, err := bus.Dispatch(context.Background(), cmd)

	// assert
	require.NoError(t, err)
	assert.Equal(t, cmd.CommandID(), correlationSeen)
}

func Test_Listener_May_Publish_About_Its_Own_Aggregate(t *testing.T) {
	// setup
	aggregate := identifier.New()
	log := &callLog{}

	var bus *messagebus.Bus
	bus = newBus(t, []messagebus.Listener{
		messagebus.OnEvent("follow_up", messagebus.LayerExecution, func(ctx context.Context, evt *somethingHappened) error {
			log.record("follow_up")
			return bus.Publish(ctx, &somethingElseHappened{BaseEvent: messages.NewBaseEvent(evt.AggregateID(), evt.ActorID())})
		}),
		messagebus.OnEvent("else", messagebus.LayerExecution, recording[*somethingElseHappened](log, "else", nil)),
	})

	// act
	done := make(chan error, 1)
	go func() { done <- bus.Publish(context.Background(), happened(aggregate)) }()

	// assert
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("publishing about the same aggregate from a listener deadlocked")
	}

	assert.Equal(t, []string{"follow_up", "else"}, log.all())
}

func Test_Publish_Serializes_Events_Of_The_Same_Aggregate(t *testing.T) {
	// setup
	aggregate := identifier.New()
	counter := 0

	bus := newBus(t, []messagebus.Listener{
		messagebus.OnEvent("read_then_write", messagebus.LayerExecution, func(context.Context, *somethingHappened) error {
			current := counter
			time.Sleep(time.Millisecond)
			counter = current + 1

			return nil
		}),
	})

	// act
	var wg sync.WaitGroup
	for range 25 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, bus.Publish(context.Background(), happened(aggregate)))
		}()
	}
	wg.Wait()

	// assert
	assert.Equal(t, 25, counter)
}

func Test_Dispatch_Serializes_Commands_Of_The_Same_Aggregate_From_Read_To_Cascade(t *testing.T) {
	// setup
	slot := identifier.New()
	var mu sync.Mutex
	claimed := false

	isClaimed := func() bool {
		mu.Lock()
		defer mu.Unlock()

		return claimed
	}

	bus := newBus(t, []messagebus.Listener{
		messagebus.HandleCommand("claim", func(_ context.Context, cmd *claimSlot) ([]messages.Event, error) {
			if isClaimed() {
				return nil, nil
			}

			time.Sleep(time.Millisecond)

			return []messages.Event{&somethingHappened{BaseEvent: messages.NewBaseEvent(cmd.Slot, cmd.Actor)}}, nil
		}),
		messagebus.OnEvent("project_claim", messagebus.LayerExecution, func(context.Context, *somethingHappened) error {
			mu.Lock()
			defer mu.Unlock()
			claimed = true

			return nil
		}),
	})

	// act
	var wg sync.WaitGroup
	var produced sync.Map
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			events, err := bus.Dispatch(context.Background(), &claimSlot{BaseCommand: messages.NewBaseCommand(identifier.New()), Slot: slot})
			assert.NoError(t, err)
			produced.Store(i, len(events))
		}()
	}
	wg.Wait()

	// assert
	total := 0
	produced.Range(func(_, count any) bool {
		total += count.(int)
		return true
	})
	assert.Equal(t, 1, total)
}

func Test_Fetch_Without_Handler_Fails_With_NoHandlerFound(t *testing.T) {
	bus := newBus(t, nil)

	_, err := messagebus.FetchResults[string](context.Background(), bus, &lookupNote{})

	assert.ErrorIs(t, err, messagebus.ErrNoHandlerFound)
}

func Test_Fetch_Returns_Owner_Error_Unchanged(t *testing.T) {
	bus := newBus(t, []messagebus.Listener{
		messagebus.AnswerQuery("lookup", func(context.Context, *lookupNote) error { return errBoom }),
	})

	err := bus.Fetch(context.Background(), &lookupNote{})

	assert.Same(t, errBoom, err)
}

func Test_Fetch_Runs_Every_Contributor_And_Collects_Failures(t *testing.T) {
	// setup
	bus := newBus(t, []messagebus.Listener{
		messagebus.ContributeTo("late", func(_ context.Context, q *assembleParts) error {
			q.add("late")
			return nil
		}, messagebus.WithPriority(5)),
		messagebus.ContributeTo("failing", func(context.Context, *assembleParts) error { return errBoom }),
		messagebus.ContributeTo("early", func(_ context.Context, q *assembleParts) error {
			q.add("early")
			return nil
		}, messagebus.WithPriority(-5)),
	})

	// act
	parts, err := messagebus.FetchResults[[]string](context.Background(), bus, &assembleParts{})

	// assert
	assert.Nil(t, parts)
	require.Len(t, messagebus.FailuresOf(err), 1)
	assert.Equal(t, "failing", messagebus.FailuresOf(err)[0].Listener)
}

func Test_Fetch_Contributors_Write_Disjoint_Parts(t *testing.T) {
	bus := newBus(t, []messagebus.Listener{
		messagebus.ContributeTo("b", func(_ context.Context, q *assembleParts) error {
			q.add("b")
			return nil
		}, messagebus.WithPriority(1)),
		messagebus.ContributeTo("a", func(_ context.Context, q *assembleParts) error {
			q.add("a")
			return nil
		}),
	})

	parts, err := messagebus.FetchResults[[]string](context.Background(), bus, &assembleParts{})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, parts)
}

func Test_Bus_Reports_Observability(t *testing.T) {
	// setup
	logger, logSpy := testdoubles.NewLoggerSpy()
	metricsSpy := testdoubles.NewMetricsCollectorSpy()
	tracingSpy := testdoubles.NewTracingCollectorSpy()

	bus := newBus(
		t,
		[]messagebus.Listener{
			messagebus.HandleCommand("do_something", func(context.Context, *doSomething) ([]messages.Event, error) {
				return []messages.Event{happened(identifier.New())}, nil
			}),
			messagebus.OnEvent("failing", messagebus.LayerExecution, recording[*somethingHappened](&callLog{}, "failing", errBoom)),
		},
		messagebus.WithLogger(logger),
		messagebus.WithMetrics(metricsSpy),
		messagebus.WithTracing(tracingSpy),
	)

	// act
	_, err := bus.Dispatch(context.Background(), &doSomething{BaseCommand: messages.NewBaseCommand(identifier.New())})

	// assert
	require.Error(t, err)
	assert.True(t, logSpy.HasLog(slog.LevelError, "listener failed"))

	failures := metricsSpy.Counters("messagebus_listener_failures_total")
	require.Len(t, failures, 1)
	assert.Equal(t, "failing", failures[0].Labels["listener"])
	assert.Equal(t, "execution", failures[0].Labels["layer"])

	assert.Len(t, metricsSpy.Durations("messagebus_dispatch_duration_seconds"), 2)

	dispatchSpans := tracingSpy.Spans("messagebus.dispatch")
	require.Len(t, dispatchSpans, 1)
	assert.Equal(t, "error", dispatchSpans[0].Status)
	assert.True(t, dispatchSpans[0].Finished)

	publishSpans := tracingSpy.Spans("messagebus.publish")
	require.Len(t, publishSpans, 1)
	assert.Equal(t, "1", publishSpans[0].Attributes["listener_count"])
}
