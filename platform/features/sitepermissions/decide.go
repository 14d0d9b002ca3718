package sitepermissions

import (
	"github.com/AntonStoeckl/content-eventbus-go/messages"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

// DecideSetSitePermissions decides whether a user's level on a site changes.
//
// Business Rules:
//
//	GIVEN: The user's current level on the site, PermissionNone if there is none
//	WHEN: SetSitePermissions command is received
//	THEN: SitePermissionsSet event is generated
//	IDEMPOTENCY: If the level does not change, no event is generated
func DecideSetSitePermissions(current core.PermissionLevel, cmd *core.SetSitePermissions, base messages.BaseEvent) []messages.Event {
	if current == cmd.Level {
		return nil
	}

	return []messages.Event{core.BuildSitePermissionsSet(base, cmd.UserID, cmd.Level)}
}
