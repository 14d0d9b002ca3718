package channellinks

import (
	"context"

	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

// CommandHandler checks the link permission through the bus and delegates to DecideSetChannelSiteLink.
type CommandHandler struct {
	projection *Projection
	fetcher    messagebus.Fetcher
}

// SetChannelSiteLink handles core.SetChannelSiteLink.
func (h CommandHandler) SetChannelSiteLink(ctx context.Context, cmd *core.SetChannelSiteLink) ([]messages.Event, error) {
	allowed, err := messagebus.FetchResults[bool](ctx, h.fetcher, &core.UserCanLinkChannelAndSite{
		UserID:    cmd.Actor,
		ChannelID: cmd.ChannelID,
		SiteID:    cmd.SiteID,
	})
	if err != nil {
		return nil, err
	}

	current, err := h.projection.link(ctx, cmd.ChannelID, cmd.SiteID)
	if err != nil {
		return nil, err
	}

	base := messages.NewBaseEvent(core.LinkIDFor(cmd.ChannelID, cmd.SiteID), cmd.Actor).CausedByInContext(ctx, cmd)

	return DecideSetChannelSiteLink(allowed, current, cmd, base)
}
