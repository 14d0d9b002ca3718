package channels

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

// QueryHandler answers the channel queries from the read model.
type QueryHandler struct {
	projection *Projection
}

// ChannelByID answers core.ChannelByID.
func (h QueryHandler) ChannelByID(ctx context.Context, q *core.ChannelByID) error {
	channel, err := h.projection.channelByID(ctx, q.ChannelID)
	if err != nil {
		return err
	}

	q.SetResults(channel)

	return nil
}

// ChannelsForConnection answers core.ChannelsForConnection.
func (h QueryHandler) ChannelsForConnection(ctx context.Context, q *core.ChannelsForConnection) error {
	channels, err := h.projection.channelsWhere(ctx, goqu.Ex{colConnectionID: q.ConnectionID})
	if err != nil {
		return err
	}

	q.SetResults(channels)

	return nil
}

// ChannelsByIDs answers core.ChannelsByIDs.
func (h QueryHandler) ChannelsByIDs(ctx context.Context, q *core.ChannelsByIDs) error {
	channels, err := h.projection.channelsByIDs(ctx, q.ChannelIDs)
	if err != nil {
		return err
	}

	q.SetResults(channels)

	return nil
}
