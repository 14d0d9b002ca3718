package messagebus

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/AntonStoeckl/content-eventbus-go/messages"
	"github.com/AntonStoeckl/content-eventbus-go/observability"
)

const (
	logMsgListenerFailed      = "listener failed"
	logMsgAsyncListenerFailed = "async listener failed after retries"
	logMsgCascadeHalted       = "event not recorded, cascade halted"
	logMsgCommandDispatched   = "command dispatched"
	logMsgEventPublished      = "event published"
	logAttrListener           = "listener"
	logAttrLayer              = "layer"
	logAttrMessageType        = "message_type"
	logAttrEventID            = "event_id"
	logAttrAggregateID        = "aggregate_id"
	logAttrEventCount         = "event_count"
	logAttrFailureCount       = "failure_count"
	logAttrListenerCount      = "listener_count"
	logAttrDurationMS         = "duration_ms"
	logAttrAsync              = "async"
	operationDispatch         = "dispatch"
	operationPublish          = "publish"
	operationReplay           = "replay"
	operationFetch            = "fetch"
	spanNameDispatch          = "messagebus.dispatch"
	spanNamePublish           = "messagebus.publish"
	spanNameFetch             = "messagebus.fetch"
	metricDispatchDuration    = "messagebus_dispatch_duration_seconds"
	metricListenerFailures    = "messagebus_listener_failures_total"
	metricAsyncQueueLength    = "messagebus_async_queue_length"
)

// Bus dispatches commands, publishes events, and fetches queries.
type Bus struct {
	registry *Registry
	locks    *aggregateLocks
	queue    *AsyncQueue
	hooks    observability.Hooks
	started  sync.Once
}

// Option defines a functional option for configuring Bus.
type Option func(*Bus) error

// WithAsyncQueue hands listeners marked Async to queue. Without a queue they run inline.
func WithAsyncQueue(queue *AsyncQueue) Option {
	return func(b *Bus) error {
		b.queue = queue
		return nil
	}
}

// WithLogger sets the logger for the Bus.
//
// Debug level: published events
// Info level: dispatched commands
// Error level: listener failures.
func WithLogger(logger observability.Logger) Option {
	return func(b *Bus) error {
		b.hooks.Logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger.
func WithContextualLogger(logger observability.ContextualLogger) Option {
	return func(b *Bus) error {
		b.hooks.ContextualLogger = logger
		return nil
	}
}

// WithMetrics sets the collector for dispatch durations and listener failures.
func WithMetrics(collector observability.MetricsCollector) Option {
	return func(b *Bus) error {
		b.hooks.Metrics = collector
		return nil
	}
}

// WithTracing sets the collector that receives a span per dispatch, publish, and fetch.
func WithTracing(collector observability.TracingCollector) Option {
	return func(b *Bus) error {
		b.hooks.Tracing = collector
		return nil
	}
}

// NewBus creates a Bus on registry.
//
// Listeners may still be registered until the bus handles its first message, at which point the
// registry is frozen. This lets listeners be constructed with the bus they send follow-up messages to.
func NewBus(registry *Registry, options ...Option) (*Bus, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}

	b := &Bus{
		registry: registry,
		locks:    newAggregateLocks(),
	}

	for _, option := range options {
		if err := option(b); err != nil {
			return nil, err
		}
	}

	return b, nil
}

func (b *Bus) start() {
	b.started.Do(b.registry.Freeze)
}

// Dispatch runs the handler of cmd and publishes every event it produced before returning them.
//
// If the handler fails, its error is returned unchanged. If the cascade of a produced event fails,
// Dispatch stops there and returns the events that were fully cascaded before it together with the error.
// Events recorded before the failure stay recorded.
//
// Commands implementing messages.AggregateCommand are serialized per aggregate from the handler's reads
// until their last event has cascaded.
func (b *Bus) Dispatch(ctx context.Context, cmd messages.Command) ([]messages.Event, error) {
	b.start()

	handler, found := b.commandHandler(cmd.MessageType())
	if !found {
		return nil, errors.Join(ErrNoHandlerFound, fmt.Errorf("command %s", cmd.MessageType()))
	}

	if _, ok := messages.CorrelationFrom(ctx); !ok {
		ctx = messages.WithCorrelation(ctx, cmd.CommandID())
	}

	if target, ok := cmd.(messages.AggregateCommand); ok {
		var unlock func()
		ctx, unlock = b.locks.lock(ctx, target.AggregateID())
		defer unlock()
	}

	ctx, span := b.hooks.StartSpan(ctx, spanNameDispatch, map[string]string{logAttrMessageType: cmd.MessageType()})
	start := time.Now()

	events, err := invokeCommand(ctx, handler, cmd)
	if err != nil {
		b.finish(ctx, span, operationDispatch, start, err)
		return nil, err
	}

	for i, evt := range events {
		if err = b.Publish(ctx, evt); err != nil {
			b.finish(ctx, span, operationDispatch, start, err)
			return events[:i], err
		}
	}

	b.finish(ctx, span, operationDispatch, start, nil)
	b.hooks.Info(
		ctx,
		logMsgCommandDispatched,
		logAttrMessageType, cmd.MessageType(),
		logAttrEventCount, len(events),
		logAttrDurationMS, observability.ToMilliseconds(time.Since(start)),
	)

	return events, nil
}

func (b *Bus) commandHandler(messageType string) (Listener, bool) {
	for _, l := range b.registry.Resolve(messageType) {
		if l.Kind == messages.KindCommand {
			return l, true
		}
	}

	return Listener{}, false
}

// Publish runs evt through all layers. Events without listeners are fine.
func (b *Bus) Publish(ctx context.Context, evt messages.Event) error {
	return b.cascade(ctx, evt, operationPublish)
}

// Replay runs a stored evt through every layer except LayerEventStore, to rebuild read models.
// Listeners marked with SideEffect are skipped.
func (b *Bus) Replay(ctx context.Context, evt messages.Event) error {
	return b.cascade(ctx, evt, operationReplay)
}

func (b *Bus) cascade(ctx context.Context, evt messages.Event, operation string) error {
	b.start()

	ctx, unlock := b.locks.lock(ctx, evt.AggregateID())
	defer unlock()

	if correlationID := evt.Meta().CorrelationID; !correlationID.IsZero() {
		ctx = messages.WithCorrelation(ctx, correlationID)
	}

	listeners := b.registry.ResolveEvent(evt)

	ctx, span := b.hooks.StartSpan(ctx, spanNamePublish, map[string]string{
		logAttrMessageType:           evt.MessageType(),
		logAttrEventID:               evt.EventID().String(),
		logAttrListenerCount:         strconv.Itoa(len(listeners)),
		observability.LabelOperation: operation,
	})
	start := time.Now()

	var failures []*ListenerFailure
	recorded := false

	for _, l := range listeners {
		if operation == operationReplay && (l.Layer == LayerEventStore || l.SideEffect) {
			continue
		}

		if l.Layer != LayerEventStore && !recorded {
			if len(failures) > 0 {
				b.hooks.Warn(ctx, logMsgCascadeHalted, logAttrMessageType, evt.MessageType(), logAttrEventID, evt.EventID().String())
				break
			}

			// the event is a recorded fact now, later layers run to completion
			ctx = context.WithoutCancel(ctx)
			recorded = true
		}

		if l.Async && b.queue != nil {
			job := asyncJob{ctx: withoutHeldLocks(ctx), listener: l, event: evt}
			if err := b.queue.enqueue(job); err != nil {
				failures = append(failures, b.failed(ctx, l, evt, err))
			}

			continue
		}

		if err := invokeEvent(ctx, l, evt); err != nil {
			failures = append(failures, b.failed(ctx, l, evt, err))
		}
	}

	var err error
	if len(failures) > 0 {
		err = &DispatchError{MessageType: evt.MessageType(), EventID: evt.EventID(), Failures: failures}
	}

	b.finish(ctx, span, operation, start, err)
	b.hooks.Debug(
		ctx,
		logMsgEventPublished,
		logAttrMessageType, evt.MessageType(),
		logAttrAggregateID, evt.AggregateID().String(),
		logAttrFailureCount, len(failures),
	)

	return err
}

// Fetch runs the owner or the contributors of q. Contributor failures are isolated and returned together.
func (b *Bus) Fetch(ctx context.Context, q messages.Query) error {
	b.start()

	listeners := lo.Filter(b.registry.Resolve(q.MessageType()), func(l Listener, _ int) bool {
		return l.Kind == messages.KindQuery
	})
	if len(listeners) == 0 {
		return errors.Join(ErrNoHandlerFound, fmt.Errorf("query %s", q.MessageType()))
	}

	ctx, span := b.hooks.StartSpan(ctx, spanNameFetch, map[string]string{logAttrMessageType: q.MessageType()})
	start := time.Now()

	if listeners[0].queryRole == queryRoleOwner {
		err := invokeQuery(ctx, listeners[0], q)
		b.finish(ctx, span, operationFetch, start, err)

		return err
	}

	var failures []*ListenerFailure

	for _, l := range listeners {
		if err := invokeQuery(ctx, l, q); err != nil {
			failures = append(failures, b.failed(ctx, l, q, err))
		}
	}

	var err error
	if len(failures) > 0 {
		err = &DispatchError{MessageType: q.MessageType(), Failures: failures}
	}

	b.finish(ctx, span, operationFetch, start, err)

	return err
}

// Fetcher runs queries. *Bus is the production Fetcher.
type Fetcher interface {
	Fetch(ctx context.Context, q messages.Query) error
}

// Dispatcher runs commands. *Bus is the production Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd messages.Command) ([]messages.Event, error)
}

// FetchResults fetches q and returns its results.
func FetchResults[R any](ctx context.Context, fetcher Fetcher, q messages.QueryWithResults[R]) (R, error) {
	if err := fetcher.Fetch(ctx, q); err != nil {
		var zero R
		return zero, err
	}

	return q.Results(), nil
}

func (b *Bus) failed(ctx context.Context, l Listener, msg messages.Message, err error) *ListenerFailure {
	b.hooks.Error(
		ctx,
		logMsgListenerFailed,
		err,
		logAttrListener, l.Name,
		logAttrLayer, l.Layer.String(),
		logAttrMessageType, msg.MessageType(),
	)
	b.hooks.IncrementCounter(ctx, metricListenerFailures, map[string]string{
		logAttrListener: l.Name,
		logAttrLayer:    l.Layer.String(),
		logAttrAsync:    strconv.FormatBool(l.Async),
	})

	return &ListenerFailure{Listener: l.Name, Layer: l.Layer, MessageType: msg.MessageType(), Err: err}
}

func (b *Bus) finish(ctx context.Context, span observability.SpanContext, operation string, start time.Time, err error) {
	status := observability.StatusSuccess
	if err != nil {
		status = observability.StatusError
	}

	b.hooks.RecordDuration(ctx, metricDispatchDuration, time.Since(start), operation, status)
	b.hooks.FinishSpan(span, status, nil)
}
