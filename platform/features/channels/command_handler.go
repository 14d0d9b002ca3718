package channels

import (
	"context"

	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

// CommandHandler loads ownership and the current channel through the bus and delegates to the Decide functions.
type CommandHandler struct {
	fetcher messagebus.Fetcher
}

// SaveChannel handles core.SaveChannel.
func (h CommandHandler) SaveChannel(ctx context.Context, cmd *core.SaveChannel) ([]messages.Event, error) {
	owns, err := h.ownsConnection(ctx, cmd.ConnectionID, cmd.Actor)
	if err != nil {
		return nil, err
	}

	channelID := cmd.ChannelID()

	current, err := messagebus.FetchResults[*core.Channel](ctx, h.fetcher, &core.ChannelByID{ChannelID: channelID})
	if err != nil {
		return nil, err
	}

	return DecideSaveChannel(owns, current, cmd, messages.NewBaseEvent(channelID, cmd.Actor).CausedByInContext(ctx, cmd))
}

// DeleteChannel handles core.DeleteChannel.
func (h CommandHandler) DeleteChannel(ctx context.Context, cmd *core.DeleteChannel) ([]messages.Event, error) {
	current, err := messagebus.FetchResults[*core.Channel](ctx, h.fetcher, &core.ChannelByID{ChannelID: cmd.ChannelID})
	if err != nil || current == nil {
		return nil, err
	}

	owns, err := h.ownsConnection(ctx, current.ConnectionID, cmd.Actor)
	if err != nil {
		return nil, err
	}

	return DecideDeleteChannel(current, owns, messages.NewBaseEvent(cmd.ChannelID, cmd.Actor).CausedByInContext(ctx, cmd))
}

func (h CommandHandler) ownsConnection(ctx context.Context, connectionID, userID identifier.ID) (bool, error) {
	return messagebus.FetchResults[bool](ctx, h.fetcher, &core.ConnectionBelongsToUser{ConnectionID: connectionID, UserID: userID})
}
