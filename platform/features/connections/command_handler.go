package connections

import (
	"context"

	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

// CommandHandler loads the current connection through the bus and delegates to the Decide functions.
type CommandHandler struct {
	fetcher messagebus.Fetcher
}

// EstablishConnection handles core.EstablishConnection.
func (h CommandHandler) EstablishConnection(ctx context.Context, cmd *core.EstablishConnection) ([]messages.Event, error) {
	connectionID := cmd.ConnectionID()

	current, err := h.current(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	return DecideEstablishConnection(current, cmd, messages.NewBaseEvent(connectionID, cmd.Actor).CausedByInContext(ctx, cmd))
}

// RefreshConnection handles core.RefreshConnection.
func (h CommandHandler) RefreshConnection(ctx context.Context, cmd *core.RefreshConnection) ([]messages.Event, error) {
	current, err := h.current(ctx, cmd.ConnectionID)
	if err != nil {
		return nil, err
	}

	return DecideRefreshConnection(current, cmd, messages.NewBaseEvent(cmd.ConnectionID, cmd.Actor).CausedByInContext(ctx, cmd))
}

// DeleteConnection handles core.DeleteConnection.
func (h CommandHandler) DeleteConnection(ctx context.Context, cmd *core.DeleteConnection) ([]messages.Event, error) {
	current, err := h.current(ctx, cmd.ConnectionID)
	if err != nil {
		return nil, err
	}

	return DecideDeleteConnection(current, cmd, messages.NewBaseEvent(cmd.ConnectionID, cmd.Actor).CausedByInContext(ctx, cmd))
}

func (h CommandHandler) current(ctx context.Context, connectionID identifier.ID) (*core.Connection, error) {
	return messagebus.FetchResults[*core.Connection](ctx, h.fetcher, &core.ConnectionByID{ConnectionID: connectionID})
}
