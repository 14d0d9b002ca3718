package followers

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

// QueryHandler answers core.FollowersForSite from the read model.
type QueryHandler struct {
	projection *Projection
}

// FollowersForSite answers core.FollowersForSite.
func (h QueryHandler) FollowersForSite(ctx context.Context, q *core.FollowersForSite) error {
	followers, err := h.projection.followersWhere(ctx, goqu.Ex{colSiteID: q.SiteID})
	if err != nil {
		return err
	}

	q.SetResults(followers)

	return nil
}
