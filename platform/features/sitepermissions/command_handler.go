package sitepermissions

import (
	"context"

	"github.com/AntonStoeckl/content-eventbus-go/messages"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

// CommandHandler reads the current level from the projection and delegates to DecideSetSitePermissions.
type CommandHandler struct {
	projection *Projection
}

// SetSitePermissions handles core.SetSitePermissions.
func (h CommandHandler) SetSitePermissions(ctx context.Context, cmd *core.SetSitePermissions) ([]messages.Event, error) {
	current, err := h.projection.level(ctx, cmd.SiteID, cmd.UserID)
	if err != nil {
		return nil, err
	}

	base := messages.NewBaseEvent(cmd.SiteID, cmd.Actor).CausedByInContext(ctx, cmd)

	return DecideSetSitePermissions(current, cmd, base), nil
}
