package statuses

import (
	"context"

	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

// CommandHandler checks permissions, loads the current state, and delegates to the Decide functions.
type CommandHandler struct {
	projection *Projection
	fetcher    messagebus.Fetcher
}

// CreateContent handles core.CreateContent.
func (h CommandHandler) CreateContent(ctx context.Context, cmd *core.CreateContent) ([]messages.Event, error) {
	if err := core.RequireSitePermission(ctx, h.fetcher, cmd.SiteID, cmd.Actor, false, true); err != nil {
		return nil, err
	}

	existing, err := messagebus.FetchResults[*core.ContentCore](ctx, h.fetcher, &core.ContentCoreByID{ContentID: cmd.ContentID})
	if err != nil {
		return nil, err
	}

	base := messages.NewBaseEvent(cmd.ContentID, cmd.Actor).CausedByInContext(ctx, cmd)

	return DecideCreateContent(existing != nil, cmd, base), nil
}

// EditContent handles core.EditContent.
func (h CommandHandler) EditContent(ctx context.Context, cmd *core.EditContent) ([]messages.Event, error) {
	current, err := core.RequireContentEditor(ctx, h.fetcher, cmd.ContentID, cmd.Actor)
	if err != nil {
		return nil, err
	}

	currentBody, err := h.projection.body(ctx, cmd.ContentID)
	if err != nil {
		return nil, err
	}

	base := messages.NewBaseEvent(cmd.ContentID, cmd.Actor).CausedByInContext(ctx, cmd)

	return DecideEditContent(current, currentBody, cmd, base)
}
