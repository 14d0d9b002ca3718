package syndication

import (
	"context"

	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

// Publisher pushes content to one channel at an external provider and returns the URL of the
// published copy, or "" if the provider reports none.
//
// A failed push retries the whole syndication of the content, so Publish must tolerate
// being called again for a channel that already received the content.
type Publisher interface {
	Publish(ctx context.Context, channel core.Channel, content core.Content) (string, error)
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(ctx context.Context, channel core.Channel, content core.Content) (string, error)

// Publish calls f.
func (f PublisherFunc) Publish(ctx context.Context, channel core.Channel, content core.Content) (string, error) {
	return f(ctx, channel, content)
}
