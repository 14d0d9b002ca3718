package core

import "github.com/AntonStoeckl/content-eventbus-go/messages"

// PermalinkAssignedEventType is the event type identifier.
const PermalinkAssignedEventType = "PermalinkAssigned"

// PermalinkAssigned records the site-relative URL of a piece of content.
type PermalinkAssigned struct {
	ContentEvent
	Permalink string `json:"permalink"`
}

// BuildPermalinkAssigned creates a new PermalinkAssigned event.
func BuildPermalinkAssigned(base messages.BaseEvent, permalink string) *PermalinkAssigned {
	return &PermalinkAssigned{
		ContentEvent: ContentEvent{BaseEvent: base},
		Permalink:    permalink,
	}
}

// MessageType returns the event type identifier.
func (*PermalinkAssigned) MessageType() string { return PermalinkAssignedEventType }
