package core

import (
	"time"

	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
)

// ContentBaseAttributeEditedEventType is the event type identifier.
const ContentBaseAttributeEditedEventType = "ContentBaseAttributeEdited"

// ContentBaseAttributeEdited records changes to the attributes all content types share.
// Only the non-nil fields changed.
type ContentBaseAttributeEdited struct {
	ContentEvent
	Title            *string        `json:"title,omitempty"`
	AuthorID         *identifier.ID `json:"author_id,omitempty"`
	PublishTimestamp *time.Time     `json:"publish_timestamp,omitempty"`
}

// BuildContentBaseAttributeEdited creates a new ContentBaseAttributeEdited event.
func BuildContentBaseAttributeEdited(
	base messages.BaseEvent,
	title *string,
	authorID *identifier.ID,
	publishTimestamp *time.Time,
) *ContentBaseAttributeEdited {

	return &ContentBaseAttributeEdited{
		ContentEvent:     ContentEvent{BaseEvent: base},
		Title:            title,
		AuthorID:         authorID,
		PublishTimestamp: publishTimestamp,
	}
}

// MessageType returns the event type identifier.
func (*ContentBaseAttributeEdited) MessageType() string { return ContentBaseAttributeEditedEventType }
