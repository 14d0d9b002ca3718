package followers

import (
	"context"

	"github.com/AntonStoeckl/content-eventbus-go/messages"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

// CommandHandler reads the current follower from the projection and delegates to the Decide functions.
type CommandHandler struct {
	projection *Projection
}

// AddFollower handles core.AddFollower.
func (h CommandHandler) AddFollower(ctx context.Context, cmd *core.AddFollower) ([]messages.Event, error) {
	current, err := h.projection.follower(ctx, cmd.SiteID, core.FollowerIDFor(cmd.SiteID, cmd.Provider, cmd.ProviderKey))
	if err != nil {
		return nil, err
	}

	return DecideAddFollower(current, cmd, messages.NewBaseEvent(cmd.SiteID, cmd.Actor).CausedByInContext(ctx, cmd)), nil
}

// RemoveFollower handles core.RemoveFollower.
func (h CommandHandler) RemoveFollower(ctx context.Context, cmd *core.RemoveFollower) ([]messages.Event, error) {
	current, err := h.projection.follower(ctx, cmd.SiteID, cmd.FollowerID)
	if err != nil {
		return nil, err
	}

	return DecideRemoveFollower(current, cmd, messages.NewBaseEvent(cmd.SiteID, cmd.Actor).CausedByInContext(ctx, cmd)), nil
}
