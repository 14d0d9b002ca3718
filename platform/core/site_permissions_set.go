package core

import (
	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
)

// SitePermissionsSetEventType is the event type identifier.
const SitePermissionsSetEventType = "SitePermissionsSet"

// SitePermissionsSet records the permission level of a user on a site. PermissionNone revokes access.
type SitePermissionsSet struct {
	SiteEvent
	UserID identifier.ID   `json:"user_id"`
	Level  PermissionLevel `json:"level"`
}

// BuildSitePermissionsSet creates a new SitePermissionsSet event.
func BuildSitePermissionsSet(base messages.BaseEvent, userID identifier.ID, level PermissionLevel) *SitePermissionsSet {
	return &SitePermissionsSet{
		SiteEvent: SiteEvent{BaseEvent: base},
		UserID:    userID,
		Level:     level,
	}
}

// MessageType returns the event type identifier.
func (*SitePermissionsSet) MessageType() string { return SitePermissionsSetEventType }
