package messagebus

import (
	"context"
	"slices"
	"sync"

	"github.com/AntonStoeckl/content-eventbus-go/messages"
	"github.com/AntonStoeckl/content-eventbus-go/observability"
)

type asyncJob struct {
	ctx      context.Context
	listener Listener
	event    messages.Event
}

// AsyncQueue runs listeners marked Async on a pool of workers, retrying failed attempts with exponential backoff.
//
// Jobs run without the aggregate lock of the event that caused them. Enqueueing blocks while the buffer is full.
type AsyncQueue struct {
	jobs         chan asyncJob
	workers      int
	retryOptions []RetryOption
	onFailure    func(failure *ListenerFailure)
	hooks        observability.Hooks

	mu        sync.RWMutex
	closed    bool
	done      chan struct{}
	senders   sync.WaitGroup
	startOnce sync.Once
	wg        sync.WaitGroup
}

// AsyncOption configures an AsyncQueue.
type AsyncOption func(*AsyncQueue) error

// WithRetryOptions sets the retry behavior for every job.
func WithRetryOptions(options ...RetryOption) AsyncOption {
	return func(q *AsyncQueue) error {
		q.retryOptions = options
		return nil
	}
}

// WithFailureHandler is called with every job that still fails after its last attempt.
func WithFailureHandler(fn func(failure *ListenerFailure)) AsyncOption {
	return func(q *AsyncQueue) error {
		q.onFailure = fn
		return nil
	}
}

// WithQueueLogger sets the logger that reports exhausted jobs.
func WithQueueLogger(logger observability.Logger) AsyncOption {
	return func(q *AsyncQueue) error {
		q.hooks.Logger = logger
		return nil
	}
}

// WithQueueMetrics sets the collector for queue length, retries, and failures.
func WithQueueMetrics(collector observability.MetricsCollector) AsyncOption {
	return func(q *AsyncQueue) error {
		q.hooks.Metrics = collector
		return nil
	}
}

// NewAsyncQueue creates a queue with the given number of workers and buffer size. Call Start before use.
func NewAsyncQueue(workers, size int, options ...AsyncOption) (*AsyncQueue, error) {
	if workers <= 0 {
		return nil, ErrInvalidWorkerCount
	}

	if size < 0 {
		return nil, ErrInvalidQueueSize
	}

	q := &AsyncQueue{
		jobs:    make(chan asyncJob, size),
		workers: workers,
		done:    make(chan struct{}),
	}

	for _, option := range options {
		if err := option(q); err != nil {
			return nil, err
		}
	}

	return q, nil
}

// Start launches the workers. Calling it again has no effect.
func (q *AsyncQueue) Start() {
	q.startOnce.Do(func() {
		for range q.workers {
			q.wg.Add(1)
			go q.work()
		}
	})
}

// Close stops accepting jobs and waits until the workers drained the queue.
// Enqueues blocked on a full buffer give up with ErrAsyncQueueClosed, even if the queue was never started.
func (q *AsyncQueue) Close() {
	q.mu.Lock()
	alreadyClosed := q.closed
	if !alreadyClosed {
		q.closed = true
		close(q.done)
	}
	q.mu.Unlock()

	if !alreadyClosed {
		q.senders.Wait()
		close(q.jobs)
	}

	q.Start()
	q.wg.Wait()
}

// Len returns the number of jobs waiting for a worker.
func (q *AsyncQueue) Len() int {
	return len(q.jobs)
}

func (q *AsyncQueue) enqueue(job asyncJob) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrAsyncQueueClosed
	}
	q.senders.Add(1)
	q.mu.RUnlock()

	defer q.senders.Done()

	select {
	case q.jobs <- job:
	case <-q.done:
		return ErrAsyncQueueClosed
	}

	q.hooks.RecordValue(job.ctx, metricAsyncQueueLength, float64(len(q.jobs)), nil)

	return nil
}

func (q *AsyncQueue) work() {
	defer q.wg.Done()

	for job := range q.jobs {
		q.run(job)
	}
}

func (q *AsyncQueue) run(job asyncJob) {
	options := slices.Concat(q.retryOptions, []RetryOption{withRetryObservability(q.hooks, job.listener.Name)})

	err := RetryWithExponentialBackoff(
		job.ctx,
		func(ctx context.Context) error { return invokeEvent(ctx, job.listener, job.event) },
		options...,
	)
	if err == nil {
		return
	}

	failure := &ListenerFailure{
		Listener:    job.listener.Name,
		Layer:       job.listener.Layer,
		MessageType: job.event.MessageType(),
		Err:         err,
	}

	q.hooks.Error(
		job.ctx,
		logMsgAsyncListenerFailed,
		err,
		logAttrListener, failure.Listener,
		logAttrMessageType, failure.MessageType,
		logAttrEventID, job.event.EventID().String(),
	)
	q.hooks.IncrementCounter(job.ctx, metricListenerFailures, map[string]string{
		logAttrListener: failure.Listener,
		logAttrLayer:    failure.Layer.String(),
		logAttrAsync:    "true",
	})

	if q.onFailure != nil {
		q.onFailure(failure)
	}
}
