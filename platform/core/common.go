package core

import (
	"errors"
	"time"

	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
)

var (
	ErrContentNotFound    = errors.New("content not found")
	ErrConnectionNotFound = errors.New("connection not found")
	ErrChannelNotFound    = errors.New("channel not found")
	ErrFieldAlreadySet    = errors.New("content field was already set by another contributor")
	ErrNotAuthorized      = errors.New("actor is not allowed to do this")

	ErrUnsupportedContentType = errors.New("operation is not supported for this content type")
)

// Namespaces for the deterministic ids derived with identifier.FromName.
var (
	connectionNamespace = identifier.MustParse("5e3c2b4a-6a1f-4d0e-9b8c-7f2a1d3e4c50")
	followerNamespace   = identifier.MustParse("0b6f8a2e-3d4c-4e5f-8a9b-1c2d3e4f5a60")
)

// ConnectionIDFor derives the id of the connection a user has with an external provider account.
func ConnectionIDFor(provider, providerKey string) identifier.ID {
	return identifier.FromName(connectionNamespace, provider+":"+providerKey)
}

// ChannelIDFor derives the id of a channel from its connection and its provider-side key.
func ChannelIDFor(connectionID identifier.ID, channelKey string) identifier.ID {
	return identifier.FromName(connectionID, channelKey)
}

// LinkIDFor derives the id of the link between a channel and a site.
func LinkIDFor(channelID, siteID identifier.ID) identifier.ID {
	return identifier.FromName(channelID, siteID.String())
}

// PermissionKeyFor derives the key of a user's permission row for a site.
func PermissionKeyFor(siteID, userID identifier.ID) identifier.ID {
	return identifier.FromName(siteID, userID.String())
}

// FollowerIDFor derives the id of a follower from the site and the follower's provider account.
func FollowerIDFor(siteID identifier.ID, provider, providerKey string) identifier.ID {
	return identifier.FromName(followerNamespace, siteID.String()+":"+provider+":"+providerKey)
}

// ExtensionKeyFor derives the key of one extension of one piece of content.
func ExtensionKeyFor(contentID identifier.ID, extension string) identifier.ID {
	return identifier.FromName(contentID, extension)
}

// ConnectorEvent is the envelope of every event in the connector stream. Embed it.
type ConnectorEvent struct {
	messages.BaseEvent
}

// Family returns the connector stream family.
func (*ConnectorEvent) Family() messages.Family { return messages.FamilyConnector }

// ContentEvent is the envelope of every event in the content stream. Embed it.
type ContentEvent struct {
	messages.BaseEvent
}

// Family returns the content stream family.
func (*ContentEvent) Family() messages.Family { return messages.FamilyContent }

// ContentID is the aggregate id of a content event.
func (e *ContentEvent) ContentID() identifier.ID { return e.Aggregate }

// SiteEvent is the envelope of every event in the site stream. Embed it.
type SiteEvent struct {
	messages.BaseEvent
}

// Family returns the site stream family.
func (*SiteEvent) Family() messages.Family { return messages.FamilySite }

// SiteID is the aggregate id of a site event.
func (e *SiteEvent) SiteID() identifier.ID { return e.Aggregate }

// Details holds free-form provider data of connections, channels, and followers.
type Details = map[string]string

// ContentType discriminates the body of a piece of content.
type ContentType string

const (
	ContentTypeNote   ContentType = "note"
	ContentTypeReblog ContentType = "reblog"
)

// Visibility controls who can see a piece of content.
type Visibility string

const (
	VisibilityDraft     Visibility = "draft"
	VisibilityPublished Visibility = "published"
	VisibilityProtected Visibility = "protected"
)

// PermissionLevel is what a user may do on a site. Admin includes author.
type PermissionLevel string

const (
	PermissionNone   PermissionLevel = "none"
	PermissionAuthor PermissionLevel = "author"
	PermissionAdmin  PermissionLevel = "admin"
)

// Allows reports whether l satisfies the admin and author requirements.
func (l PermissionLevel) Allows(mustBeAdmin, mustBeAuthor bool) bool {
	switch l {
	case PermissionAdmin:
		return true
	case PermissionAuthor:
		return !mustBeAdmin
	default:
		return !mustBeAdmin && !mustBeAuthor
	}
}

// TimeLayout is the fixed-width UTC ISO-8601 layout used for timestamps in read models.
// Strings in this layout sort chronologically.
const TimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// FormatTime formats t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a timestamp written by FormatTime.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}
