package core

import (
	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
)

// ChannelSavedEventType is the event type identifier.
const ChannelSavedEventType = "ChannelSaved"

// ChannelSaved records a channel (a blog, a feed, a page) reachable through a connection.
// Saving the same channel again replaces its name and details.
// The aggregate is the channel, see ChannelIDFor.
type ChannelSaved struct {
	ConnectorEvent
	ConnectionID identifier.ID `json:"connection_id"`
	ChannelKey   string        `json:"channel_key"`
	DisplayName  string        `json:"display_name"`
	Details      Details       `json:"details"`
}

// BuildChannelSaved creates a new ChannelSaved event.
func BuildChannelSaved(
	base messages.BaseEvent,
	connectionID identifier.ID,
	channelKey string,
	displayName string,
	details Details,
) *ChannelSaved {

	return &ChannelSaved{
		ConnectorEvent: ConnectorEvent{BaseEvent: base},
		ConnectionID:   connectionID,
		ChannelKey:     channelKey,
		DisplayName:    displayName,
		Details:        details,
	}
}

// MessageType returns the event type identifier.
func (*ChannelSaved) MessageType() string { return ChannelSavedEventType }

// ChannelID is the aggregate id.
func (e *ChannelSaved) ChannelID() identifier.ID { return e.Aggregate }
