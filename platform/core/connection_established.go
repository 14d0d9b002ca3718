package core

import (
	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
)

// ConnectionEstablishedEventType is the event type identifier.
const ConnectionEstablishedEventType = "ConnectionEstablished"

// ConnectionEstablished records that a user connected an account at an external provider.
// The aggregate is the connection, see ConnectionIDFor.
type ConnectionEstablished struct {
	ConnectorEvent
	UserID      identifier.ID `json:"user_id"`
	Provider    string        `json:"provider"`
	ProviderKey string        `json:"provider_key"`
	DisplayName string        `json:"display_name"`
	Details     Details       `json:"details"`
}

// BuildConnectionEstablished creates a new ConnectionEstablished event.
func BuildConnectionEstablished(
	base messages.BaseEvent,
	userID identifier.ID,
	provider string,
	providerKey string,
	displayName string,
	details Details,
) *ConnectionEstablished {

	return &ConnectionEstablished{
		ConnectorEvent: ConnectorEvent{BaseEvent: base},
		UserID:         userID,
		Provider:       provider,
		ProviderKey:    providerKey,
		DisplayName:    displayName,
		Details:        details,
	}
}

// MessageType returns the event type identifier.
func (*ConnectionEstablished) MessageType() string { return ConnectionEstablishedEventType }

// ConnectionID is the aggregate id.
func (e *ConnectionEstablished) ConnectionID() identifier.ID { return e.Aggregate }
