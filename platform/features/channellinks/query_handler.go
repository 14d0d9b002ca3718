package channellinks

import (
	"context"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

// QueryHandler answers the link queries. Channel rows and ownership come from other features through the bus.
type QueryHandler struct {
	projection *Projection
	fetcher    messagebus.Fetcher
}

// ChannelsForSite answers core.ChannelsForSite.
func (h QueryHandler) ChannelsForSite(ctx context.Context, q *core.ChannelsForSite) error {
	links, err := h.projection.linksForSite(ctx, q.SiteID, q.CanPush, q.CanPull)
	if err != nil {
		return err
	}

	channelIDs := lo.Map(links, func(link Link, _ int) identifier.ID { return link.ChannelID })

	channels, err := messagebus.FetchResults[[]core.Channel](ctx, h.fetcher, &core.ChannelsByIDs{ChannelIDs: channelIDs})
	if err != nil {
		return err
	}

	q.SetResults(channels)

	return nil
}

// SiteHasPermissionForChannel answers core.SiteHasPermissionForChannel.
func (h QueryHandler) SiteHasPermissionForChannel(ctx context.Context, q *core.SiteHasPermissionForChannel) error {
	link, err := h.projection.link(ctx, q.ChannelID, q.SiteID)
	if err != nil {
		return err
	}

	q.SetResults(link != nil && (link.CanPush || !q.MustPush) && (link.CanPull || !q.MustPull))

	return nil
}

// UserCanLinkChannelAndSite answers core.UserCanLinkChannelAndSite.
func (h QueryHandler) UserCanLinkChannelAndSite(ctx context.Context, q *core.UserCanLinkChannelAndSite) error {
	allowed, err := h.userCanLink(ctx, q.UserID, q.ChannelID, q.SiteID)
	if err != nil {
		return err
	}

	q.SetResults(allowed)

	return nil
}

func (h QueryHandler) userCanLink(ctx context.Context, userID, channelID, siteID identifier.ID) (bool, error) {
	channel, err := messagebus.FetchResults[*core.Channel](ctx, h.fetcher, &core.ChannelByID{ChannelID: channelID})
	if err != nil || channel == nil {
		return false, err
	}

	ownsConnection, err := messagebus.FetchResults[bool](ctx, h.fetcher, &core.ConnectionBelongsToUser{
		ConnectionID: channel.ConnectionID,
		UserID:       userID,
	})
	if err != nil || !ownsConnection {
		return false, err
	}

	return messagebus.FetchResults[bool](ctx, h.fetcher, &core.UserHasPermissionForSite{
		SiteID:      siteID,
		UserID:      userID,
		MustBeAdmin: true,
	})
}

// ChannelsForAdmin answers core.ChannelsForAdmin from the user's connections, their channels,
// and the channels linked to the site.
func (h QueryHandler) ChannelsForAdmin(ctx context.Context, q *core.ChannelsForAdmin) error {
	siteLinks, err := h.projection.linksForSite(ctx, q.SiteID, nil, nil)
	if err != nil {
		return err
	}

	connections, err := messagebus.FetchResults[[]core.Connection](ctx, h.fetcher, &core.ConnectionsForUser{UserID: q.UserID})
	if err != nil {
		return err
	}

	channels := make(map[identifier.ID]core.Channel)
	for _, connection := range connections {
		owned, fetchErr := messagebus.FetchResults[[]core.Channel](ctx, h.fetcher, &core.ChannelsForConnection{
			ConnectionID: connection.ID,
		})
		if fetchErr != nil {
			return fetchErr
		}

		for _, channel := range owned {
			channels[channel.ID] = channel
		}
	}

	linkedIDs := lo.Map(siteLinks, func(link Link, _ int) identifier.ID { return link.ChannelID })

	linked, err := messagebus.FetchResults[[]core.Channel](ctx, h.fetcher, &core.ChannelsByIDs{ChannelIDs: linkedIDs})
	if err != nil {
		return err
	}

	known := lo.SliceToMap(connections, func(connection core.Connection) (identifier.ID, bool) { return connection.ID, true })
	for _, channel := range linked {
		channels[channel.ID] = channel

		if known[channel.ConnectionID] {
			continue
		}

		connection, fetchErr := messagebus.FetchResults[*core.Connection](ctx, h.fetcher, &core.ConnectionByID{
			ConnectionID: channel.ConnectionID,
		})
		if fetchErr != nil {
			return fetchErr
		}

		if connection != nil {
			connections = append(connections, *connection)
		}

		known[channel.ConnectionID] = true
	}

	result := core.AdminChannels{
		Connections: connections,
		Channels:    make(map[identifier.ID][]core.Channel),
		Links:       make(map[identifier.ID]core.ChannelSiteLink),
	}

	for _, channel := range channels {
		result.Channels[channel.ConnectionID] = append(result.Channels[channel.ConnectionID], channel)
	}

	for connectionID := range result.Channels {
		slices.SortFunc(result.Channels[connectionID], func(a, b core.Channel) int {
			return strings.Compare(a.ID.String(), b.ID.String())
		})
	}

	for _, link := range siteLinks {
		if _, ok := channels[link.ChannelID]; ok {
			result.Links[link.ChannelID] = link
		}
	}

	q.SetResults(result)

	return nil
}
