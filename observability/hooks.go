package observability

import (
	"context"
	"math"
	"time"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"

	LabelOperation = "operation"
	LabelStatus    = "status"
	LabelErrorType = "error_type"
)

// Hooks bundles the optional collectors a component was configured with.
// All methods are no-ops for collectors that are nil, so components call them unconditionally.
type Hooks struct {
	Logger           Logger
	ContextualLogger ContextualLogger
	Metrics          MetricsCollector
	Tracing          TracingCollector
}

// Debug logs at debug level on every configured logger.
func (h Hooks) Debug(ctx context.Context, msg string, args ...any) {
	if h.ContextualLogger != nil {
		h.ContextualLogger.DebugContext(ctx, msg, args...)
	}

	if h.Logger != nil {
		h.Logger.Debug(msg, args...)
	}
}

// Info logs at info level on every configured logger.
func (h Hooks) Info(ctx context.Context, msg string, args ...any) {
	if h.ContextualLogger != nil {
		h.ContextualLogger.InfoContext(ctx, msg, args...)
	}

	if h.Logger != nil {
		h.Logger.Info(msg, args...)
	}
}

// Warn logs at warn level on every configured logger.
func (h Hooks) Warn(ctx context.Context, msg string, args ...any) {
	if h.ContextualLogger != nil {
		h.ContextualLogger.WarnContext(ctx, msg, args...)
	}

	if h.Logger != nil {
		h.Logger.Warn(msg, args...)
	}
}

// Error logs err at error level together with args.
func (h Hooks) Error(ctx context.Context, msg string, err error, args ...any) {
	allArgs := []any{"error", err.Error()}
	allArgs = append(allArgs, args...)

	if h.ContextualLogger != nil {
		h.ContextualLogger.ErrorContext(ctx, msg, allArgs...)
	}

	if h.Logger != nil {
		h.Logger.Error(msg, allArgs...)
	}
}

// RecordDuration records a duration with operation and status labels.
func (h Hooks) RecordDuration(ctx context.Context, metric string, duration time.Duration, operation, status string) {
	if h.Metrics == nil {
		return
	}

	labels := map[string]string{
		LabelOperation: operation,
		LabelStatus:    status,
	}

	if contextual, ok := h.Metrics.(ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	h.Metrics.RecordDuration(metric, duration, labels)
}

// IncrementCounter increments metric with the given labels.
func (h Hooks) IncrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if h.Metrics == nil {
		return
	}

	if contextual, ok := h.Metrics.(ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	h.Metrics.IncrementCounter(metric, labels)
}

// RecordValue records a gauge value with the given labels.
func (h Hooks) RecordValue(ctx context.Context, metric string, value float64, labels map[string]string) {
	if h.Metrics == nil {
		return
	}

	if contextual, ok := h.Metrics.(ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, metric, value, labels)
		return
	}

	h.Metrics.RecordValue(metric, value, labels)
}

// StartSpan starts a span if tracing is configured. The returned SpanContext may be nil.
func (h Hooks) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, SpanContext) {
	if h.Tracing == nil {
		return ctx, nil
	}

	return h.Tracing.StartSpan(ctx, name, attrs)
}

// FinishSpan finishes span if it was started.
func (h Hooks) FinishSpan(span SpanContext, status string, attrs map[string]string) {
	if h.Tracing == nil || span == nil {
		return
	}

	h.Tracing.FinishSpan(span, status, attrs)
}

// ToMilliseconds converts d to float64 milliseconds with 3 decimal places.
func ToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
