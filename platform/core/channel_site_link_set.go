package core

import (
	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
)

// ChannelSiteLinkSetEventType is the event type identifier.
const ChannelSiteLinkSetEventType = "ChannelSiteLinkSet"

// ChannelSiteLinkSet records whether a site may push content to and pull content from a channel.
// The aggregate is the link, see LinkIDFor.
type ChannelSiteLinkSet struct {
	ConnectorEvent
	ChannelID identifier.ID `json:"channel_id"`
	SiteID    identifier.ID `json:"site_id"`
	CanPush   bool          `json:"can_push"`
	CanPull   bool          `json:"can_pull"`
}

// BuildChannelSiteLinkSet creates a new ChannelSiteLinkSet event.
func BuildChannelSiteLinkSet(
	base messages.BaseEvent,
	channelID identifier.ID,
	siteID identifier.ID,
	canPush bool,
	canPull bool,
) *ChannelSiteLinkSet {

	return &ChannelSiteLinkSet{
		ConnectorEvent: ConnectorEvent{BaseEvent: base},
		ChannelID:      channelID,
		SiteID:         siteID,
		CanPush:        canPush,
		CanPull:        canPull,
	}
}

// MessageType returns the event type identifier.
func (*ChannelSiteLinkSet) MessageType() string { return ChannelSiteLinkSetEventType }
