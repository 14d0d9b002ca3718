package standardcontent

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

// QueryHandler answers the content core queries and contributes the core attributes to BuildContent.
type QueryHandler struct {
	projection *Projection
	fetcher    messagebus.Fetcher
}

// ContentCoreByID answers core.ContentCoreByID.
func (h QueryHandler) ContentCoreByID(ctx context.Context, q *core.ContentCoreByID) error {
	contentCore, err := h.projection.contentCore(ctx, q.ContentID)
	if err != nil {
		return err
	}

	q.SetResults(contentCore)

	return nil
}

// UserCanEditContent answers core.UserCanEditContent with the same rules the editing commands enforce.
func (h QueryHandler) UserCanEditContent(ctx context.Context, q *core.UserCanEditContent) error {
	_, err := core.RequireContentEditor(ctx, h.fetcher, q.ContentID, q.UserID)

	switch {
	case err == nil:
		q.SetResults(true)
	case errors.Is(err, core.ErrContentNotFound), errors.Is(err, core.ErrNotAuthorized):
		q.SetResults(false)
	default:
		return err
	}

	return nil
}

// ContentVisibleToUser answers core.ContentVisibleToUser.
func (h QueryHandler) ContentVisibleToUser(ctx context.Context, q *core.ContentVisibleToUser) error {
	contentCore, err := h.projection.contentCore(ctx, q.ContentID)
	if err != nil {
		return err
	}

	switch {
	case contentCore == nil:
		q.SetResults(false)
	case contentCore.IsPublished():
		q.SetResults(true)
	case q.UserID.IsZero():
		q.SetResults(false)
	case contentCore.AuthorID == q.UserID:
		q.SetResults(true)
	default:
		isAdmin, adminErr := h.isSiteAdmin(ctx, contentCore.SiteID, q.UserID)
		if adminErr != nil {
			return adminErr
		}

		q.SetResults(isAdmin)
	}

	return nil
}

// ContentList answers core.ContentList.
func (h QueryHandler) ContentList(ctx context.Context, q *core.ContentList) error {
	filter := listFilter{
		siteID:     q.SiteID,
		types:      q.Types,
		visibility: q.Visibility,
		limit:      q.Limit(),
		offset:     q.Offset(),
	}

	isAdmin, err := h.isSiteAdmin(ctx, q.SiteID, q.UserID)
	if err != nil {
		return err
	}

	if !isAdmin {
		filter.readableBy = &q.UserID
	}

	items, err := h.projection.list(ctx, filter)
	if err != nil {
		return err
	}

	q.SetResults(items)

	return nil
}

// BuildContent contributes the core attributes. Unknown content contributes nothing.
func (h QueryHandler) BuildContent(ctx context.Context, q *core.BuildContent) error {
	contentCore, err := h.projection.contentCore(ctx, q.ContentID)
	if err != nil || contentCore == nil {
		return err
	}

	return q.Builder().SetCore(*contentCore)
}

func (h QueryHandler) isSiteAdmin(ctx context.Context, siteID, userID identifier.ID) (bool, error) {
	return messagebus.FetchResults[bool](ctx, h.fetcher, &core.UserHasPermissionForSite{
		SiteID:      siteID,
		UserID:      userID,
		MustBeAdmin: true,
	})
}
