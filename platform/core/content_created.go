package core

import (
	"time"

	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
)

// ContentCreatedEventType is the event type identifier.
const ContentCreatedEventType = "ContentCreated"

// ContentCreated records a new piece of content on a site. New content is a draft.
//
// Body is the markdown text of a note. Other content types record their body in their own events.
type ContentCreated struct {
	ContentEvent
	ContentType      ContentType   `json:"content_type"`
	SiteID           identifier.ID `json:"site_id"`
	AuthorID         identifier.ID `json:"author_id"`
	Title            string        `json:"title"`
	Body             string        `json:"body,omitempty"`
	PublishTimestamp *time.Time    `json:"publish_timestamp,omitempty"`
}

// BuildContentCreated creates a new ContentCreated event. The actor of base is the author.
func BuildContentCreated(
	base messages.BaseEvent,
	contentType ContentType,
	siteID identifier.ID,
	title string,
	body string,
	publishTimestamp *time.Time,
) *ContentCreated {

	return &ContentCreated{
		ContentEvent:     ContentEvent{BaseEvent: base},
		ContentType:      contentType,
		SiteID:           siteID,
		AuthorID:         base.Actor,
		Title:            title,
		Body:             body,
		PublishTimestamp: publishTimestamp,
	}
}

// MessageType returns the event type identifier.
func (*ContentCreated) MessageType() string { return ContentCreatedEventType }
