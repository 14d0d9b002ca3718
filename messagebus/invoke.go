package messagebus

import (
	"context"
	"errors"
	"fmt"

	"github.com/AntonStoeckl/content-eventbus-go/messages"
)

func recovered(r any) error {
	if err, ok := r.(error); ok {
		return errors.Join(ErrListenerPanicked, err)
	}

	return errors.Join(ErrListenerPanicked, fmt.Errorf("%v", r))
}

func invokeEvent(ctx context.Context, l Listener, evt messages.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
		}
	}()

	return l.onEvent(ctx, evt)
}

func invokeCommand(ctx context.Context, l Listener, cmd messages.Command) (events []messages.Event, err error) {
	defer func() {
		if r := recover(); r != nil {
			events, err = nil, recovered(r)
		}
	}()

	return l.onCommand(ctx, cmd)
}

func invokeQuery(ctx context.Context, l Listener, q messages.Query) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
		}
	}()

	return l.onQuery(ctx, q)
}
