package channellinks

import (
	"github.com/AntonStoeckl/content-eventbus-go/messages"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

// DecideSetChannelSiteLink decides whether a link between a channel and a site is set.
//
// Business Rules:
//
//	GIVEN: Whether the acting user may link the channel and the site, and the current link or nil
//	WHEN: SetChannelSiteLink command is received
//	THEN: ChannelSiteLinkSet event is generated
//	ERROR: core.ErrNotAuthorized if the user does not own the channel's connection or does not administer the site
//	IDEMPOTENCY: If the link exists with the same permissions, no event is generated
func DecideSetChannelSiteLink(userCanLink bool, current *Link, cmd *core.SetChannelSiteLink, base messages.BaseEvent) ([]messages.Event, error) {
	if !userCanLink {
		return nil, core.ErrNotAuthorized
	}

	if current != nil && current.CanPush == cmd.CanPush && current.CanPull == cmd.CanPull {
		return nil, nil
	}

	return []messages.Event{core.BuildChannelSiteLinkSet(base, cmd.ChannelID, cmd.SiteID, cmd.CanPush, cmd.CanPull)}, nil
}
