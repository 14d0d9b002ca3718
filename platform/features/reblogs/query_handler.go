package reblogs

import (
	"context"

	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

// QueryHandler contributes reblog bodies to BuildContent.
type QueryHandler struct {
	projection *Projection
}

// BuildContent sets the body if the content is a reblog.
func (h QueryHandler) BuildContent(ctx context.Context, q *core.BuildContent) error {
	body, err := h.projection.body(ctx, q.ContentID)
	if err != nil || body == nil {
		return err
	}

	return q.Builder().SetBody(*body)
}
