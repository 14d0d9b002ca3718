package core

import (
	"time"

	"github.com/AntonStoeckl/content-eventbus-go/identifier"
)

// Connection is a user's account at an external provider.
type Connection struct {
	ID          identifier.ID
	UserID      identifier.ID
	Provider    string
	ProviderKey string
	DisplayName string
	Details     Details
}

// Channel is a place a connection can publish to or read from.
type Channel struct {
	ID           identifier.ID
	ConnectionID identifier.ID
	ChannelKey   string
	DisplayName  string
	Details      Details
}

// ChannelSiteLink is the permission a site has to push to or pull from a channel.
type ChannelSiteLink struct {
	ChannelID identifier.ID
	SiteID    identifier.ID
	CanPush   bool
	CanPull   bool
}

// Follower is an external account following a site.
type Follower struct {
	ID          identifier.ID
	SiteID      identifier.ID
	Provider    string
	ProviderKey string
	DisplayName string
	Details     Details
}

// ContentCore holds the attributes all content types share.
type ContentCore struct {
	ID               identifier.ID
	Type             ContentType
	SiteID           identifier.ID
	AuthorID         identifier.ID
	Title            string
	Permalink        string
	PublishTimestamp *time.Time
	Visibility       Visibility
}

// IsPublished reports whether everyone may see the content.
func (c ContentCore) IsPublished() bool {
	return c.Visibility == VisibilityPublished
}

// Body is the type-specific part of a piece of content.
type Body interface {
	ContentType() ContentType
}

// NoteBody is the body of a short text post.
type NoteBody struct {
	Markdown string
	HTML     string
}

func (NoteBody) ContentType() ContentType { return ContentTypeNote }

// ReblogBody is the body of a reblog.
type ReblogBody struct {
	URL     string
	Comment string
	Info    *ReblogInfo
}

func (ReblogBody) ContentType() ContentType { return ContentTypeReblog }

// Extension is one named set of data attached to a piece of content.
type Extension struct {
	Name string
	Data map[string]any
}

// Content is a fully assembled piece of content. Extensions is never nil.
type Content struct {
	ContentCore
	Body       Body
	Extensions map[string]Extension
}
