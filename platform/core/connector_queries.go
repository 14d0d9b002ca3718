package core

import "github.com/AntonStoeckl/content-eventbus-go/identifier"

// ConnectionByID asks for one connection. The result is nil if there is none.
type ConnectionByID struct {
	ConnectionID identifier.ID

	result *Connection
}

func (*ConnectionByID) MessageType() string { return "ConnectionByID" }

func (q *ConnectionByID) SetResults(connection *Connection) { q.result = connection }

func (q *ConnectionByID) Results() *Connection { return q.result }

// ConnectionsForUser asks for all connections of a user.
type ConnectionsForUser struct {
	UserID identifier.ID

	results []Connection
}

func (*ConnectionsForUser) MessageType() string { return "ConnectionsForUser" }

func (q *ConnectionsForUser) SetResults(connections []Connection) { q.results = connections }

func (q *ConnectionsForUser) Results() []Connection { return nonNil(q.results) }

// ConnectionBelongsToUser asks whether a connection is owned by a user.
type ConnectionBelongsToUser struct {
	ConnectionID identifier.ID
	UserID       identifier.ID

	result bool
}

func (*ConnectionBelongsToUser) MessageType() string { return "ConnectionBelongsToUser" }

func (q *ConnectionBelongsToUser) SetResults(belongs bool) { q.result = belongs }

func (q *ConnectionBelongsToUser) Results() bool { return q.result }

// ChannelByID asks for one channel. The result is nil if there is none.
type ChannelByID struct {
	ChannelID identifier.ID

	result *Channel
}

func (*ChannelByID) MessageType() string { return "ChannelByID" }

func (q *ChannelByID) SetResults(channel *Channel) { q.result = channel }

func (q *ChannelByID) Results() *Channel { return q.result }

// ChannelsForConnection asks for all channels reachable through a connection.
type ChannelsForConnection struct {
	ConnectionID identifier.ID

	results []Channel
}

func (*ChannelsForConnection) MessageType() string { return "ChannelsForConnection" }

func (q *ChannelsForConnection) SetResults(channels []Channel) { q.results = channels }

func (q *ChannelsForConnection) Results() []Channel { return nonNil(q.results) }

// ChannelsByIDs asks for the channels with the given ids. Unknown ids are skipped.
type ChannelsByIDs struct {
	ChannelIDs []identifier.ID

	results []Channel
}

func (*ChannelsByIDs) MessageType() string { return "ChannelsByIDs" }

func (q *ChannelsByIDs) SetResults(channels []Channel) { q.results = channels }

func (q *ChannelsByIDs) Results() []Channel { return nonNil(q.results) }

// ChannelsForSite asks for the channels linked to a site.
// CanPush and CanPull, when set, only match links with that permission value.
type ChannelsForSite struct {
	SiteID  identifier.ID
	CanPush *bool
	CanPull *bool

	results []Channel
}

func (*ChannelsForSite) MessageType() string { return "ChannelsForSite" }

func (q *ChannelsForSite) SetResults(channels []Channel) { q.results = channels }

func (q *ChannelsForSite) Results() []Channel { return nonNil(q.results) }

// SiteHasPermissionForChannel asks whether a site is linked to a channel with the required permissions.
type SiteHasPermissionForChannel struct {
	SiteID    identifier.ID
	ChannelID identifier.ID
	MustPush  bool
	MustPull  bool

	result bool
}

func (*SiteHasPermissionForChannel) MessageType() string { return "SiteHasPermissionForChannel" }

func (q *SiteHasPermissionForChannel) SetResults(allowed bool) { q.result = allowed }

func (q *SiteHasPermissionForChannel) Results() bool { return q.result }

// UserCanLinkChannelAndSite asks whether a user owns the channel's connection and administers the site.
type UserCanLinkChannelAndSite struct {
	UserID    identifier.ID
	ChannelID identifier.ID
	SiteID    identifier.ID

	result bool
}

func (*UserCanLinkChannelAndSite) MessageType() string { return "UserCanLinkChannelAndSite" }

func (q *UserCanLinkChannelAndSite) SetResults(allowed bool) { q.result = allowed }

func (q *UserCanLinkChannelAndSite) Results() bool { return q.result }

// AdminChannels is the result of ChannelsForAdmin.
// Channels are grouped by connection id, Links are keyed by channel id and hold only linked channels.
type AdminChannels struct {
	Connections []Connection
	Channels    map[identifier.ID][]Channel
	Links       map[identifier.ID]ChannelSiteLink
}

// ChannelsForAdmin asks for everything a user needs to manage the channels of a site:
// the channels of the user's own connections and every channel already linked to the site,
// each with its connection and its link to the site, if any.
type ChannelsForAdmin struct {
	SiteID identifier.ID
	UserID identifier.ID

	result AdminChannels
}

func (*ChannelsForAdmin) MessageType() string { return "ChannelsForAdmin" }

func (q *ChannelsForAdmin) SetResults(result AdminChannels) { q.result = result }

// Results never returns nil collections.
func (q *ChannelsForAdmin) Results() AdminChannels {
	result := q.result
	result.Connections = nonNil(result.Connections)

	if result.Channels == nil {
		result.Channels = map[identifier.ID][]Channel{}
	}

	if result.Links == nil {
		result.Links = map[identifier.ID]ChannelSiteLink{}
	}

	return result
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}

	return items
}
