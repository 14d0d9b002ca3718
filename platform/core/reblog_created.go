package core

import "github.com/AntonStoeckl/content-eventbus-go/messages"

// ReblogCreatedEventType is the event type identifier.
const ReblogCreatedEventType = "ReblogCreated"

// ReblogInfo is what is known about the page a reblog points to.
type ReblogInfo struct {
	Title string `json:"title"`
	Embed string `json:"embed,omitempty"`
}

// ReblogCreated records the body of a reblog: the reblogged URL and an optional comment.
// It follows the ContentCreated event of the same content.
type ReblogCreated struct {
	ContentEvent
	URL     string      `json:"url"`
	Comment string      `json:"comment,omitempty"`
	Info    *ReblogInfo `json:"info,omitempty"`
}

// BuildReblogCreated creates a new ReblogCreated event.
func BuildReblogCreated(base messages.BaseEvent, url string, comment string, info *ReblogInfo) *ReblogCreated {
	return &ReblogCreated{
		ContentEvent: ContentEvent{BaseEvent: base},
		URL:          url,
		Comment:      comment,
		Info:         info,
	}
}

// MessageType returns the event type identifier.
func (*ReblogCreated) MessageType() string { return ReblogCreatedEventType }
