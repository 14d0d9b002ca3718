package messagebus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func Test_RetryWithExponentialBackoff_Success_NoRetries(t *testing.T) {
	calls := 0

	err := RetryWithExponentialBackoff(context.Background(), func(context.Context) error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func Test_RetryWithExponentialBackoff_Retries_Until_Success(t *testing.T) {
	calls := 0

	err := RetryWithExponentialBackoff(
		context.Background(),
		func(context.Context) error {
			calls++
			if calls < 3 {
				return errTransient
			}

			return nil
		},
		WithBaseDelay(time.Millisecond),
	)

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func Test_RetryWithExponentialBackoff_Gives_Up_After_MaxAttempts(t *testing.T) {
	calls := 0

	err := RetryWithExponentialBackoff(
		context.Background(),
		func(context.Context) error {
			calls++
			return errTransient
		},
		WithMaxAttempts(4),
		WithBaseDelay(time.Millisecond),
		WithJitterFactor(0),
	)

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 4, calls)
}

func Test_RetryWithExponentialBackoff_Does_Not_Retry_Permanent_Errors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		options []RetryOption
	}{
		{name: "canceled", err: context.Canceled},
		{name: "deadline", err: context.DeadlineExceeded},
		{name: "unexpected_message", err: ErrUnexpectedMessage},
		{
			name:    "custom_predicate",
			err:     errTransient,
			options: []RetryOption{WithRetryIf(func(err error) bool { return !errors.Is(err, errTransient) })},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0

			err := RetryWithExponentialBackoff(context.Background(), func(context.Context) error {
				calls++
				return tt.err
			}, tt.options...)

			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, 1, calls)
		})
	}
}

func Test_RetryWithExponentialBackoff_Stops_On_Context_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	err := RetryWithExponentialBackoff(
		ctx,
		func(context.Context) error {
			cancel()
			return errTransient
		},
		WithBaseDelay(time.Hour),
	)

	assert.ErrorIs(t, err, context.Canceled)
}

func Test_RetryWithExponentialBackoff_InvalidOptions(t *testing.T) {
	fn := func(context.Context) error { return nil }

	err := RetryWithExponentialBackoff(context.Background(), fn, WithMaxAttempts(0))
	require.ErrorIs(t, err, ErrInvalidMaxAttempts)

	err = RetryWithExponentialBackoff(context.Background(), fn, WithBaseDelay(-1*time.Second))
	require.ErrorIs(t, err, ErrNegativeBaseDelay)

	err = RetryWithExponentialBackoff(context.Background(), fn, WithJitterFactor(1.5))
	require.ErrorIs(t, err, ErrInvalidJitterFactor)

	err = RetryWithExponentialBackoff(context.Background(), fn, WithRetryIf(nil))
	require.ErrorIs(t, err, ErrNilRetryPredicate)
}
