package core

import (
	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
)

// ChannelDeletedEventType is the event type identifier.
const ChannelDeletedEventType = "ChannelDeleted"

// ChannelDeleted records that a channel is no longer reachable through its connection.
type ChannelDeleted struct {
	ConnectorEvent
	ConnectionID identifier.ID `json:"connection_id"`
}

// BuildChannelDeleted creates a new ChannelDeleted event.
func BuildChannelDeleted(base messages.BaseEvent, connectionID identifier.ID) *ChannelDeleted {
	return &ChannelDeleted{
		ConnectorEvent: ConnectorEvent{BaseEvent: base},
		ConnectionID:   connectionID,
	}
}

// MessageType returns the event type identifier.
func (*ChannelDeleted) MessageType() string { return ChannelDeletedEventType }

// ChannelID is the aggregate id.
func (e *ChannelDeleted) ChannelID() identifier.ID { return e.Aggregate }
