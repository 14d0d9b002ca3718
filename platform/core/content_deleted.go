package core

import "github.com/AntonStoeckl/content-eventbus-go/messages"

// ContentDeletedEventType is the event type identifier.
const ContentDeletedEventType = "ContentDeleted"

// ContentDeleted records that a piece of content and everything attached to it was removed.
type ContentDeleted struct {
	ContentEvent
}

// BuildContentDeleted creates a new ContentDeleted event.
func BuildContentDeleted(base messages.BaseEvent) *ContentDeleted {
	return &ContentDeleted{ContentEvent: ContentEvent{BaseEvent: base}}
}

// MessageType returns the event type identifier.
func (*ContentDeleted) MessageType() string { return ContentDeletedEventType }
