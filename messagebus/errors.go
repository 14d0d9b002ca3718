package messagebus

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AntonStoeckl/content-eventbus-go/identifier"
)

var (
	ErrNoHandlerFound          = errors.New("no handler found")
	ErrDuplicateCommandHandler = errors.New("command already has a handler")
	ErrDuplicateQueryHandler   = errors.New("query already has an owner")
	ErrMixedQueryDiscipline    = errors.New("query cannot have an owner and contributors at the same time")
	ErrInvalidListener         = errors.New("invalid listener")
	ErrRegistryFrozen          = errors.New("registry is frozen")
	ErrListenerFailed          = errors.New("listener failed")
	ErrListenerPanicked        = errors.New("listener panicked")
	ErrUnexpectedMessage       = errors.New("listener received a message of an unexpected type")
	ErrAsyncQueueClosed        = errors.New("async queue is closed")
	ErrNilRegistry             = errors.New("registry must not be nil")
	ErrInvalidWorkerCount      = errors.New("async worker count must be positive")
	ErrInvalidQueueSize        = errors.New("async queue size must not be negative")
)

// ListenerFailure wraps the error of one listener.
// errors.Is(failure, ErrListenerFailed) is always true and the cause stays reachable through Unwrap.
type ListenerFailure struct {
	Listener    string
	Layer       Layer
	MessageType string
	Err         error
}

func (f *ListenerFailure) Error() string {
	return fmt.Sprintf("listener %s (%s) failed on %s: %v", f.Listener, f.Layer, f.MessageType, f.Err)
}

func (f *ListenerFailure) Unwrap() error {
	return f.Err
}

func (f *ListenerFailure) Is(target error) bool {
	return target == ErrListenerFailed
}

// DispatchError reports every listener that failed while one message was processed.
// Listeners that are not named here completed successfully.
type DispatchError struct {
	MessageType string
	EventID     identifier.ID
	Failures    []*ListenerFailure
}

func (e *DispatchError) Error() string {
	names := make([]string, 0, len(e.Failures))
	for _, failure := range e.Failures {
		names = append(names, failure.Listener)
	}

	return fmt.Sprintf("%d listener(s) failed on %s: %s", len(e.Failures), e.MessageType, strings.Join(names, ", "))
}

func (e *DispatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, failure := range e.Failures {
		errs = append(errs, failure)
	}

	return errs
}

// FailuresOf returns the listener failures carried by err, or nil if err holds none.
func FailuresOf(err error) []*ListenerFailure {
	var dispatchErr *DispatchError
	if errors.As(err, &dispatchErr) {
		return dispatchErr.Failures
	}

	var failure *ListenerFailure
	if errors.As(err, &failure) {
		return []*ListenerFailure{failure}
	}

	return nil
}
