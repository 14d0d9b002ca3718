package core

import "github.com/AntonStoeckl/content-eventbus-go/messages"

// ReblogCommentChangedEventType is the event type identifier.
const ReblogCommentChangedEventType = "ReblogCommentChanged"

// ReblogCommentChanged records a new comment on a reblog. An empty comment removes it.
type ReblogCommentChanged struct {
	ContentEvent
	Comment string `json:"comment"`
}

// BuildReblogCommentChanged creates a new ReblogCommentChanged event.
func BuildReblogCommentChanged(base messages.BaseEvent, comment string) *ReblogCommentChanged {
	return &ReblogCommentChanged{
		ContentEvent: ContentEvent{BaseEvent: base},
		Comment:      comment,
	}
}

// MessageType returns the event type identifier.
func (*ReblogCommentChanged) MessageType() string { return ReblogCommentChangedEventType }
