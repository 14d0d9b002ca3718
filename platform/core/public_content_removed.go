package core

import "github.com/AntonStoeckl/content-eventbus-go/messages"

// PublicContentRemovedEventType is the event type identifier.
const PublicContentRemovedEventType = "PublicContentRemoved"

// PublicContentRemoved records that a published piece of content went back to draft.
type PublicContentRemoved struct {
	ContentEvent
}

// BuildPublicContentRemoved creates a new PublicContentRemoved event.
func BuildPublicContentRemoved(base messages.BaseEvent) *PublicContentRemoved {
	return &PublicContentRemoved{ContentEvent: ContentEvent{BaseEvent: base}}
}

// MessageType returns the event type identifier.
func (*PublicContentRemoved) MessageType() string { return PublicContentRemovedEventType }
