package standardcontent

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

// CommandHandler checks that the acting user may edit the content and delegates to the Decide functions.
type CommandHandler struct {
	fetcher messagebus.Fetcher
}

// PublishContent handles core.PublishContent.
func (h CommandHandler) PublishContent(ctx context.Context, cmd *core.PublishContent) ([]messages.Event, error) {
	current, err := core.RequireContentEditor(ctx, h.fetcher, cmd.ContentID, cmd.Actor)
	if err != nil {
		return nil, err
	}

	return DecidePublishContent(current, messages.NewBaseEvent(cmd.ContentID, cmd.Actor).CausedByInContext(ctx, cmd)), nil
}

// UnpublishContent handles core.UnpublishContent.
func (h CommandHandler) UnpublishContent(ctx context.Context, cmd *core.UnpublishContent) ([]messages.Event, error) {
	current, err := core.RequireContentEditor(ctx, h.fetcher, cmd.ContentID, cmd.Actor)
	if err != nil {
		return nil, err
	}

	return DecideUnpublishContent(current, messages.NewBaseEvent(cmd.ContentID, cmd.Actor).CausedByInContext(ctx, cmd)), nil
}

// DeleteContent handles core.DeleteContent. Deleting content that does not exist (anymore) generates no event.
func (h CommandHandler) DeleteContent(ctx context.Context, cmd *core.DeleteContent) ([]messages.Event, error) {
	current, err := core.RequireContentEditor(ctx, h.fetcher, cmd.ContentID, cmd.Actor)
	if errors.Is(err, core.ErrContentNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return DecideDeleteContent(current, messages.NewBaseEvent(cmd.ContentID, cmd.Actor).CausedByInContext(ctx, cmd)), nil
}
