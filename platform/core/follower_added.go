package core

import (
	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
)

// FollowerAddedEventType is the event type identifier.
const FollowerAddedEventType = "FollowerAdded"

// FollowerAdded records an account at an external provider that follows a site.
// Adding the same follower again replaces its name and details.
type FollowerAdded struct {
	SiteEvent
	Provider    string  `json:"provider"`
	ProviderKey string  `json:"provider_key"`
	DisplayName string  `json:"display_name"`
	Details     Details `json:"details"`
}

// BuildFollowerAdded creates a new FollowerAdded event.
func BuildFollowerAdded(
	base messages.BaseEvent,
	provider string,
	providerKey string,
	displayName string,
	details Details,
) *FollowerAdded {

	return &FollowerAdded{
		SiteEvent:   SiteEvent{BaseEvent: base},
		Provider:    provider,
		ProviderKey: providerKey,
		DisplayName: displayName,
		Details:     details,
	}
}

// MessageType returns the event type identifier.
func (*FollowerAdded) MessageType() string { return FollowerAddedEventType }

// FollowerID derives the follower's id.
func (e *FollowerAdded) FollowerID() identifier.ID {
	return FollowerIDFor(e.Aggregate, e.Provider, e.ProviderKey)
}
