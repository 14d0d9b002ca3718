package messagebus_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
	"github.com/AntonStoeckl/content-eventbus-go/testutil/observability/testdoubles"
)

func fastRetries(attempts int) messagebus.AsyncOption {
	return messagebus.WithRetryOptions(
		messagebus.WithMaxAttempts(attempts),
		messagebus.WithBaseDelay(time.Millisecond),
		messagebus.WithJitterFactor(0),
	)
}

func Test_AsyncQueue_Runs_Async_Listener_After_Event_Store_Layer(t *testing.T) {
	// setup
	queue, err := messagebus.NewAsyncQueue(2, 8, fastRetries(1))
	require.NoError(t, err)
	queue.Start()

	var recorded atomic.Bool
	var sawRecorded atomic.Bool
	ran := make(chan struct{})

	bus := newBus(
		t,
		[]messagebus.Listener{
			messagebus.OnEvent("store", messagebus.LayerEventStore, func(context.Context, *somethingHappened) error {
				recorded.Store(true)
				return nil
			}),
			messagebus.OnEvent("syndicate", messagebus.LayerExecution, func(context.Context, *somethingHappened) error {
				sawRecorded.Store(recorded.Load())
				close(ran)
				return nil
			}, messagebus.Async()),
		},
		messagebus.WithAsyncQueue(queue),
	)

	// act
	err = bus.Publish(context.Background(), happened(identifier.New()))

	// assert
	require.NoError(t, err)

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("async listener did not run")
	}

	queue.Close()
	assert.True(t, sawRecorded.Load())
}

func Test_AsyncQueue_Retries_Until_Listener_Succeeds(t *testing.T) {
	// setup
	queue, err := messagebus.NewAsyncQueue(1, 4, fastRetries(5))
	require.NoError(t, err)
	queue.Start()

	var attempts atomic.Int32

	bus := newBus(
		t,
		[]messagebus.Listener{
			messagebus.OnEvent("flaky", messagebus.LayerExecution, func(context.Context, *somethingHappened) error {
				if attempts.Add(1) < 3 {
					return errBoom
				}

				return nil
			}, messagebus.Async()),
		},
		messagebus.WithAsyncQueue(queue),
	)

	// act
	require.NoError(t, bus.Publish(context.Background(), happened(identifier.New())))
	queue.Close()

	// assert
	assert.Equal(t, int32(3), attempts.Load())
}

func Test_AsyncQueue_Reports_Exhausted_Jobs(t *testing.T) {
	// setup
	metricsSpy := testdoubles.NewMetricsCollectorSpy()
	failures := make(chan *messagebus.ListenerFailure, 1)

	queue, err := messagebus.NewAsyncQueue(
		1,
		4,
		fastRetries(3),
		messagebus.WithQueueMetrics(metricsSpy),
		messagebus.WithFailureHandler(func(failure *messagebus.ListenerFailure) { failures <- failure }),
	)
	require.NoError(t, err)
	queue.Start()

	bus := newBus(
		t,
		[]messagebus.Listener{
			messagebus.OnEvent("always_failing", messagebus.LayerExecution, func(context.Context, *somethingHappened) error {
				return errBoom
			}, messagebus.Async()),
		},
		messagebus.WithAsyncQueue(queue),
	)

	// act
	publishErr := bus.Publish(context.Background(), happened(identifier.New()))
	queue.Close()

	// assert
	assert.NoError(t, publishErr)

	require.Len(t, failures, 1)
	failure := <-failures
	assert.Equal(t, "always_failing", failure.Listener)
	assert.ErrorIs(t, failure, errBoom)

	assert.Len(t, metricsSpy.Counters("messagebus_async_retries_total"), 2)
	assert.Len(t, metricsSpy.Counters("messagebus_async_max_retries_reached_total"), 1)
	assert.Len(t, metricsSpy.Counters("messagebus_listener_failures_total"), 1)
	assert.NotEmpty(t, metricsSpy.Values("messagebus_async_queue_length"))
}

func Test_AsyncQueue_Rejects_Jobs_After_Close(t *testing.T) {
	// setup
	queue, err := messagebus.NewAsyncQueue(1, 1)
	require.NoError(t, err)
	queue.Start()
	queue.Close()

	bus := newBus(
		t,
		[]messagebus.Listener{
			messagebus.OnEvent("late", messagebus.LayerExecution, func(context.Context, *somethingHappened) error {
				return nil
			}, messagebus.Async()),
		},
		messagebus.WithAsyncQueue(queue),
	)

	// act
	err = bus.Publish(context.Background(), happened(identifier.New()))

	// assert
	assert.ErrorIs(t, err, messagebus.ErrAsyncQueueClosed)
	assert.ErrorIs(t, err, messagebus.ErrListenerFailed)
}

func Test_AsyncQueue_Close_Releases_Blocked_Enqueue_On_Unstarted_Queue(t *testing.T) {
	// setup
	queue, err := messagebus.NewAsyncQueue(1, 0)
	require.NoError(t, err)

	bus := newBus(
		t,
		[]messagebus.Listener{
			messagebus.OnEvent("stuck", messagebus.LayerExecution, func(context.Context, *somethingHappened) error {
				return nil
			}, messagebus.Async()),
		},
		messagebus.WithAsyncQueue(queue),
	)

	published := make(chan error, 1)
	go func() { published <- bus.Publish(context.Background(), happened(identifier.New())) }()
	time.Sleep(20 * time.Millisecond)

	// act
	closed := make(chan struct{})
	go func() {
		queue.Close()
		close(closed)
	}()

	// assert
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("Close blocked behind a waiting enqueue")
	}

	select {
	case publishErr := <-published:
		assert.ErrorIs(t, publishErr, messagebus.ErrAsyncQueueClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("enqueue stayed blocked after Close")
	}
}

func Test_Async_Listener_Runs_Inline_Without_Queue(t *testing.T) {
	log := &callLog{}
	bus := newBus(t, []messagebus.Listener{
		messagebus.OnEvent("async", messagebus.LayerExecution, recording[*somethingHappened](log, "async", errBoom), messagebus.Async()),
		messagebus.OnEvent("build", messagebus.LayerContentBuild, recording[*somethingHappened](log, "build", nil)),
	})

	err := bus.Publish(context.Background(), happened(identifier.New()))

	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, []string{"async", "build"}, log.all())
}

func Test_NewAsyncQueue_Validates_Arguments(t *testing.T) {
	_, err := messagebus.NewAsyncQueue(0, 1)
	assert.ErrorIs(t, err, messagebus.ErrInvalidWorkerCount)

	_, err = messagebus.NewAsyncQueue(1, -1)
	assert.ErrorIs(t, err, messagebus.ErrInvalidQueueSize)
}
