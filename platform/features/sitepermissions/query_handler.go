package sitepermissions

import (
	"context"

	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

// QueryHandler answers the permission query from the read model.
type QueryHandler struct {
	projection *Projection
}

// UserHasPermissionForSite answers core.UserHasPermissionForSite.
func (h QueryHandler) UserHasPermissionForSite(ctx context.Context, q *core.UserHasPermissionForSite) error {
	if q.UserID.IsZero() {
		q.SetResults(false)
		return nil
	}

	level, err := h.projection.level(ctx, q.SiteID, q.UserID)
	if err != nil {
		return err
	}

	q.SetResults(level != core.PermissionNone && level.Allows(q.MustBeAdmin, q.MustBeAuthor))

	return nil
}
