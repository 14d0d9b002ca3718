package core

import (
	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
)

// ConnectionDeletedEventType is the event type identifier.
const ConnectionDeletedEventType = "ConnectionDeleted"

// ConnectionDeleted records that a connection was removed. Its channels go with it.
type ConnectionDeleted struct {
	ConnectorEvent
}

// BuildConnectionDeleted creates a new ConnectionDeleted event.
func BuildConnectionDeleted(base messages.BaseEvent) *ConnectionDeleted {
	return &ConnectionDeleted{ConnectorEvent: ConnectorEvent{BaseEvent: base}}
}

// MessageType returns the event type identifier.
func (*ConnectionDeleted) MessageType() string { return ConnectionDeletedEventType }

// ConnectionID is the aggregate id.
func (e *ConnectionDeleted) ConnectionID() identifier.ID { return e.Aggregate }
