package extensions

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

// QueryHandler contributes extensions to BuildContent.
type QueryHandler struct {
	projection *Projection
}

// BuildContent adds every stored extension of the content.
func (h QueryHandler) BuildContent(ctx context.Context, q *core.BuildContent) error {
	found, err := h.projection.extensionsWhere(ctx, goqu.Ex{colContentID: q.ContentID})
	if err != nil {
		return err
	}

	for _, ext := range found {
		if err = q.Builder().AddExtension(ext); err != nil {
			return err
		}
	}

	return nil
}
