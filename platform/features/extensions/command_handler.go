package extensions

import (
	"context"

	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

// CommandHandler checks that the acting user may edit the content and delegates to DecideEditContentExtension.
type CommandHandler struct {
	projection *Projection
	fetcher    messagebus.Fetcher
}

// EditContentExtension handles core.EditContentExtension.
func (h CommandHandler) EditContentExtension(ctx context.Context, cmd *core.EditContentExtension) ([]messages.Event, error) {
	if _, err := core.RequireContentEditor(ctx, h.fetcher, cmd.ContentID, cmd.Actor); err != nil {
		return nil, err
	}

	current, err := h.projection.extension(ctx, cmd.ContentID, cmd.Extension)
	if err != nil {
		return nil, err
	}

	base := messages.NewBaseEvent(cmd.ContentID, cmd.Actor).CausedByInContext(ctx, cmd)

	return DecideEditContentExtension(current, cmd, base)
}

// AddExtensionListItems handles core.AddExtensionListItems.
// The bus holds the content's lock, so concurrent additions never overwrite each other.
func (h CommandHandler) AddExtensionListItems(ctx context.Context, cmd *core.AddExtensionListItems) ([]messages.Event, error) {
	if _, err := core.RequireContentEditor(ctx, h.fetcher, cmd.ContentID, cmd.Actor); err != nil {
		return nil, err
	}

	current, err := h.projection.extension(ctx, cmd.ContentID, cmd.Extension)
	if err != nil {
		return nil, err
	}

	base := messages.NewBaseEvent(cmd.ContentID, cmd.Actor).CausedByInContext(ctx, cmd)

	return DecideAddExtensionListItems(current, cmd, base), nil
}
