package messagebus

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"time"

	"github.com/AntonStoeckl/content-eventbus-go/observability"
)

const (
	defaultMaxAttempts  = 6
	defaultBaseDelay    = 10 * time.Millisecond
	defaultJitterFactor = 0.3

	metricAsyncRetries     = "messagebus_async_retries_total"
	metricAsyncRetryDelay  = "messagebus_async_retry_delay_seconds"
	metricAsyncRetriesDone = "messagebus_async_max_retries_reached_total"
	labelAttemptNumber     = "attempt_number"
)

var (
	ErrInvalidMaxAttempts  = errors.New("max attempts must be positive")
	ErrNegativeBaseDelay   = errors.New("base delay must not be negative")
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
	ErrNilRetryPredicate   = errors.New("retry predicate must not be nil")
)

// RetryableFunc represents a function that can be retried.
type RetryableFunc func(ctx context.Context) error

type retryConfig struct {
	maxAttempts  int
	baseDelay    time.Duration
	jitterFactor float64
	retryIf      func(err error) bool
	hooks        observability.Hooks
	listener     string
}

// RetryWithExponentialBackoff runs fn until it succeeds, fails with an error that is not retryable,
// or maxAttempts is used up.
//
// Retry schedule (default): 0 ms, 10 ms, 20 ms, 40 ms, 80 ms, 160 ms (with 30% jitter).
// By default every error is retried except context cancellation, deadlines, and ErrUnexpectedMessage.
func RetryWithExponentialBackoff(ctx context.Context, fn RetryableFunc, options ...RetryOption) error {
	config := &retryConfig{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
		retryIf:      isRetryableError,
	}

	for _, option := range options {
		if err := option(config); err != nil {
			return err
		}
	}

	var lastErr error

	for attempt := 0; attempt < config.maxAttempts; attempt++ {
		if attempt > 0 {
			// baseDelay * 2^(attempt-1)
			delay := config.baseDelay * time.Duration(1<<(attempt-1))
			jitter := rand.Float64() * float64(delay) * config.jitterFactor //nolint:gosec //math/rand is sufficient for jitter
			backoffDelay := delay + time.Duration(jitter)

			config.hooks.RecordValue(ctx, metricAsyncRetryDelay, backoffDelay.Seconds(), config.labels(attempt))

			select {
			case <-time.After(backoffDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if !config.retryIf(lastErr) {
			return lastErr
		}

		if attempt < config.maxAttempts-1 {
			config.hooks.IncrementCounter(ctx, metricAsyncRetries, config.labels(attempt+1))
		}
	}

	config.hooks.IncrementCounter(ctx, metricAsyncRetriesDone, map[string]string{logAttrListener: config.listener})

	return lastErr
}

func (c *retryConfig) labels(attempt int) map[string]string {
	return map[string]string{
		logAttrListener:    c.listener,
		labelAttemptNumber: strconv.Itoa(attempt),
	}
}

func isRetryableError(err error) bool {
	return !errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded) &&
		!errors.Is(err, ErrUnexpectedMessage)
}

// RetryOption configures retry behavior using the functional options pattern.
type RetryOption func(*retryConfig) error

// WithMaxAttempts sets the maximum number of attempts, the first one included.
func WithMaxAttempts(attempts int) RetryOption {
	return func(config *retryConfig) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}

		config.maxAttempts = attempts

		return nil
	}
}

// WithBaseDelay sets the base delay for exponential backoff.
// Actual delays: baseDelay, baseDelay*2, baseDelay*4, baseDelay*8, etc.
func WithBaseDelay(delay time.Duration) RetryOption {
	return func(config *retryConfig) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}

		config.baseDelay = delay

		return nil
	}
}

// WithJitterFactor sets the jitter added as a share of each backoff delay.
// Valid range: 0.0 (no jitter) to 1.0 (100% jitter).
func WithJitterFactor(factor float64) RetryOption {
	return func(config *retryConfig) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}

		config.jitterFactor = factor

		return nil
	}
}

// WithRetryIf replaces the predicate deciding which errors are retried.
func WithRetryIf(retryIf func(err error) bool) RetryOption {
	return func(config *retryConfig) error {
		if retryIf == nil {
			return ErrNilRetryPredicate
		}

		config.retryIf = retryIf

		return nil
	}
}

func withRetryObservability(hooks observability.Hooks, listener string) RetryOption {
	return func(config *retryConfig) error {
		config.hooks = hooks
		config.listener = listener

		return nil
	}
}
