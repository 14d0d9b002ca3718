package core

import (
	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
)

// FollowerRemovedEventType is the event type identifier.
const FollowerRemovedEventType = "FollowerRemoved"

// FollowerRemoved records that a follower no longer follows a site.
type FollowerRemoved struct {
	SiteEvent
	FollowerID identifier.ID `json:"follower_id"`
}

// BuildFollowerRemoved creates a new FollowerRemoved event.
func BuildFollowerRemoved(base messages.BaseEvent, followerID identifier.ID) *FollowerRemoved {
	return &FollowerRemoved{
		SiteEvent:  SiteEvent{BaseEvent: base},
		FollowerID: followerID,
	}
}

// MessageType returns the event type identifier.
func (*FollowerRemoved) MessageType() string { return FollowerRemovedEventType }
