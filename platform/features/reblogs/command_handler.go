package reblogs

import (
	"context"

	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

// CommandHandler checks permissions, loads the current reblog, and delegates to the Decide functions.
type CommandHandler struct {
	projection *Projection
	fetcher    messagebus.Fetcher
}

// CreateReblog handles core.CreateReblog.
func (h CommandHandler) CreateReblog(ctx context.Context, cmd *core.CreateReblog) ([]messages.Event, error) {
	if err := core.RequireSitePermission(ctx, h.fetcher, cmd.SiteID, cmd.Actor, false, true); err != nil {
		return nil, err
	}

	existing, err := messagebus.FetchResults[*core.ContentCore](ctx, h.fetcher, &core.ContentCoreByID{ContentID: cmd.ContentID})
	if err != nil {
		return nil, err
	}

	base := messages.NewBaseEvent(cmd.ContentID, cmd.Actor).CausedByInContext(ctx, cmd)

	return DecideCreateReblog(existing != nil, cmd, base), nil
}

// ChangeReblogComment handles core.ChangeReblogComment.
func (h CommandHandler) ChangeReblogComment(ctx context.Context, cmd *core.ChangeReblogComment) ([]messages.Event, error) {
	current, err := h.editableReblog(ctx, cmd.ContentID, cmd.Actor)
	if err != nil {
		return nil, err
	}

	base := messages.NewBaseEvent(cmd.ContentID, cmd.Actor).CausedByInContext(ctx, cmd)

	return DecideChangeReblogComment(current, cmd, base)
}

// UpdateReblogInfo handles core.UpdateReblogInfo.
func (h CommandHandler) UpdateReblogInfo(ctx context.Context, cmd *core.UpdateReblogInfo) ([]messages.Event, error) {
	current, err := h.editableReblog(ctx, cmd.ContentID, cmd.Actor)
	if err != nil {
		return nil, err
	}

	base := messages.NewBaseEvent(cmd.ContentID, cmd.Actor).CausedByInContext(ctx, cmd)

	return DecideUpdateReblogInfo(current, cmd, base)
}

func (h CommandHandler) editableReblog(ctx context.Context, contentID, actor identifier.ID) (*core.ReblogBody, error) {
	if _, err := core.RequireContentEditor(ctx, h.fetcher, contentID, actor); err != nil {
		return nil, err
	}

	return h.projection.body(ctx, contentID)
}
