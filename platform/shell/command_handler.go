package shell

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
	"github.com/AntonStoeckl/content-eventbus-go/observability"
)

const (
	// CommandHandlerDurationMetric tracks command handler execution duration.
	CommandHandlerDurationMetric = "commandhandler_handle_duration_seconds"
	// CommandHandlerCallsMetric tracks total command handler calls.
	CommandHandlerCallsMetric = "commandhandler_handle_calls_total"
	// CommandHandlerIdempotentMetric tracks commands that produced no events.
	CommandHandlerIdempotentMetric = "commandhandler_idempotent_operations_total"

	// StatusIdempotent indicates no state change was needed.
	StatusIdempotent = "idempotent"

	LogMsgCommandStarted   = "command handler started"
	LogMsgCommandCompleted = "command handler completed"
	LogMsgCommandFailed    = "command handler failed"
	LogMsgCommandRejected  = "command rejected by validation"

	LogAttrCommandType = "command_type"
	LogAttrStatus      = "status"
	LogAttrDurationMS  = "duration_ms"
	LogAttrEventCount  = "event_count"

	// SpanNameCommandHandle is the tracing span name for command handling.
	SpanNameCommandHandle = "commandhandler.handle"
)

// ErrInvalidCommand is returned for commands that fail struct validation. Nothing is handled.
var ErrInvalidCommand = errors.New("invalid command")

// CommandHandlers validates commands and instruments their handlers.
// One instance is shared by all features.
type CommandHandlers struct {
	validate *validator.Validate
	hooks    observability.Hooks
}

// CommandHandlersOption defines a functional option for configuring CommandHandlers.
type CommandHandlersOption func(*CommandHandlers) error

// WithMetrics sets the metrics collector for command handlers.
func WithMetrics(collector observability.MetricsCollector) CommandHandlersOption {
	return func(h *CommandHandlers) error {
		h.hooks.Metrics = collector
		return nil
	}
}

// WithTracing sets the tracing collector for command handlers.
func WithTracing(collector observability.TracingCollector) CommandHandlersOption {
	return func(h *CommandHandlers) error {
		h.hooks.Tracing = collector
		return nil
	}
}

// WithContextualLogging sets the contextual logger for command handlers.
func WithContextualLogging(logger observability.ContextualLogger) CommandHandlersOption {
	return func(h *CommandHandlers) error {
		h.hooks.ContextualLogger = logger
		return nil
	}
}

// WithLogging sets the basic logger for command handlers.
func WithLogging(logger observability.Logger) CommandHandlersOption {
	return func(h *CommandHandlers) error {
		h.hooks.Logger = logger
		return nil
	}
}

// NewCommandHandlers creates a CommandHandlers with its own validator.
func NewCommandHandlers(options ...CommandHandlersOption) (*CommandHandlers, error) {
	h := &CommandHandlers{validate: validator.New(validator.WithRequiredStructEnabled())}

	for _, option := range options {
		if err := option(h); err != nil {
			return nil, err
		}
	}

	return h, nil
}

// Validate checks cmd against its validate struct tags.
func (h *CommandHandlers) Validate(ctx context.Context, cmd messages.Command) error {
	if err := h.validate.StructCtx(ctx, cmd); err != nil {
		return errors.Join(ErrInvalidCommand, err)
	}

	return nil
}

// HandleCommand declares handle as the handler of command type C. The command is validated first.
// The handler's outcome is classified as success, idempotent (no events), or error and recorded
// in logs, metrics, and a span.
func HandleCommand[C messages.Command](
	h *CommandHandlers,
	name string,
	handle func(ctx context.Context, cmd C) ([]messages.Event, error),
) messagebus.Listener {

	return messagebus.HandleCommand(name, func(ctx context.Context, cmd C) ([]messages.Event, error) {
		commandType := cmd.MessageType()
		start := time.Now()

		ctx, span := h.hooks.StartSpan(ctx, SpanNameCommandHandle, map[string]string{LogAttrCommandType: commandType})
		h.hooks.Debug(ctx, LogMsgCommandStarted, LogAttrCommandType, commandType)

		if err := h.Validate(ctx, cmd); err != nil {
			h.hooks.Warn(ctx, LogMsgCommandRejected, LogAttrCommandType, commandType, "error", err.Error())
			h.record(ctx, span, commandType, observability.StatusError, time.Since(start))

			return nil, err
		}

		events, err := handle(ctx, cmd)
		if err != nil {
			h.hooks.Error(ctx, LogMsgCommandFailed, err, LogAttrCommandType, commandType)
			h.record(ctx, span, commandType, observability.StatusError, time.Since(start))

			return nil, err
		}

		status := observability.StatusSuccess
		if len(events) == 0 {
			status = StatusIdempotent
		}

		h.record(ctx, span, commandType, status, time.Since(start))
		h.hooks.Info(
			ctx,
			LogMsgCommandCompleted,
			LogAttrCommandType, commandType,
			LogAttrStatus, status,
			LogAttrEventCount, len(events),
			LogAttrDurationMS, observability.ToMilliseconds(time.Since(start)),
		)

		return events, nil
	})
}

func (h *CommandHandlers) record(
	ctx context.Context,
	span observability.SpanContext,
	commandType string,
	status string,
	duration time.Duration,
) {
	labels := map[string]string{LogAttrCommandType: commandType, LogAttrStatus: status}

	h.hooks.RecordDuration(ctx, CommandHandlerDurationMetric, duration, commandType, status)
	h.hooks.IncrementCounter(ctx, CommandHandlerCallsMetric, labels)

	if status == StatusIdempotent {
		h.hooks.IncrementCounter(ctx, CommandHandlerIdempotentMetric, labels)
	}

	spanStatus := status
	if status == StatusIdempotent {
		spanStatus = observability.StatusSuccess
	}

	h.hooks.FinishSpan(span, spanStatus, map[string]string{LogAttrStatus: status})
}
