package core

import (
	"context"

	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
)

// RequireSitePermission fails with ErrNotAuthorized unless the user has the required level on the site.
func RequireSitePermission(
	ctx context.Context,
	fetcher messagebus.Fetcher,
	siteID identifier.ID,
	userID identifier.ID,
	mustBeAdmin bool,
	mustBeAuthor bool,
) error {

	allowed, err := messagebus.FetchResults[bool](ctx, fetcher, &UserHasPermissionForSite{
		SiteID:       siteID,
		UserID:       userID,
		MustBeAdmin:  mustBeAdmin,
		MustBeAuthor: mustBeAuthor,
	})
	if err != nil {
		return err
	}

	if !allowed {
		return ErrNotAuthorized
	}

	return nil
}

// RequireContentEditor fails with ErrContentNotFound for unknown content and with ErrNotAuthorized
// unless the user is the author of the content or an admin of its site. It returns the content's core.
func RequireContentEditor(ctx context.Context, fetcher messagebus.Fetcher, contentID, userID identifier.ID) (ContentCore, error) {
	contentCore, err := messagebus.FetchResults[*ContentCore](ctx, fetcher, &ContentCoreByID{ContentID: contentID})
	if err != nil {
		return ContentCore{}, err
	}

	if contentCore == nil {
		return ContentCore{}, ErrContentNotFound
	}

	if contentCore.AuthorID == userID {
		return *contentCore, nil
	}

	if err = RequireSitePermission(ctx, fetcher, contentCore.SiteID, userID, true, false); err != nil {
		return ContentCore{}, err
	}

	return *contentCore, nil
}
