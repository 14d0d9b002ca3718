package core

import (
	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
)

// ConnectionRefreshedEventType is the event type identifier.
const ConnectionRefreshedEventType = "ConnectionRefreshed"

// ConnectionRefreshed records new provider details, typically renewed credentials, for a connection.
type ConnectionRefreshed struct {
	ConnectorEvent
	Details Details `json:"details"`
}

// BuildConnectionRefreshed creates a new ConnectionRefreshed event.
func BuildConnectionRefreshed(base messages.BaseEvent, details Details) *ConnectionRefreshed {
	return &ConnectionRefreshed{
		ConnectorEvent: ConnectorEvent{BaseEvent: base},
		Details:        details,
	}
}

// MessageType returns the event type identifier.
func (*ConnectionRefreshed) MessageType() string { return ConnectionRefreshedEventType }

// ConnectionID is the aggregate id.
func (e *ConnectionRefreshed) ConnectionID() identifier.ID { return e.Aggregate }
