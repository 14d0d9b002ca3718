package core

import "github.com/AntonStoeckl/content-eventbus-go/messages"

// ContentBodyEditedEventType is the event type identifier.
const ContentBodyEditedEventType = "ContentBodyEdited"

// ContentBodyEdited records new markdown text for a note.
type ContentBodyEdited struct {
	ContentEvent
	Body string `json:"body"`
}

// BuildContentBodyEdited creates a new ContentBodyEdited event.
func BuildContentBodyEdited(base messages.BaseEvent, body string) *ContentBodyEdited {
	return &ContentBodyEdited{
		ContentEvent: ContentEvent{BaseEvent: base},
		Body:         body,
	}
}

// MessageType returns the event type identifier.
func (*ContentBodyEdited) MessageType() string { return ContentBodyEditedEventType }
