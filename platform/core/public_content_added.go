package core

import "github.com/AntonStoeckl/content-eventbus-go/messages"

// PublicContentAddedEventType is the event type identifier.
const PublicContentAddedEventType = "PublicContentAdded"

// PublicContentAdded records that a piece of content became visible to everyone.
// The event timestamp is the publish time unless the content already had one.
type PublicContentAdded struct {
	ContentEvent
}

// BuildPublicContentAdded creates a new PublicContentAdded event.
func BuildPublicContentAdded(base messages.BaseEvent) *PublicContentAdded {
	return &PublicContentAdded{ContentEvent: ContentEvent{BaseEvent: base}}
}

// MessageType returns the event type identifier.
func (*PublicContentAdded) MessageType() string { return PublicContentAddedEventType }
