package channellinks

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/samber/lo"

	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/internal/adapters"
	"github.com/AntonStoeckl/content-eventbus-go/internal/readmodel"
	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

const (
	colLinkID    = "link_id"
	colChannelID = "channel_id"
	colSiteID    = "site_id"
	colCanPush   = "can_push"
	colCanPull   = "can_pull"
)

var schema = readmodel.Schema{
	Table:      "channel_site_links",
	NaturalKey: colLinkID,
	Columns: []readmodel.Column{
		{Name: colChannelID, Type: readmodel.Text},
		{Name: colSiteID, Type: readmodel.Text},
		{Name: colCanPush, Type: readmodel.Boolean},
		{Name: colCanPull, Type: readmodel.Boolean},
	},
	Indexes: []string{colChannelID, colSiteID},
}

// Link is one row of the read model.
type Link = core.ChannelSiteLink

// Projection maintains the channel_site_links read model.
// The channels of a deleted connection are looked up through fetcher.
type Projection struct {
	table   *readmodel.Table
	fetcher messagebus.Fetcher
}

// NewProjection creates the projection on db.
func NewProjection(db adapters.DBAdapter, fetcher messagebus.Fetcher, options ...readmodel.Option) (*Projection, error) {
	table, err := readmodel.NewTable(db, schema, options...)
	if err != nil {
		return nil, err
	}

	return &Projection{table: table, fetcher: fetcher}, nil
}

// CreateSchema creates the read model table.
func (p *Projection) CreateSchema(ctx context.Context) error {
	return p.table.CreateSchema(ctx)
}

func (p *Projection) projectChannelSiteLinkSet(ctx context.Context, evt *core.ChannelSiteLinkSet) error {
	return p.table.Upsert(ctx, goqu.Record{
		colLinkID:    core.LinkIDFor(evt.ChannelID, evt.SiteID),
		colChannelID: evt.ChannelID,
		colSiteID:    evt.SiteID,
		colCanPush:   evt.CanPush,
		colCanPull:   evt.CanPull,
	})
}

func (p *Projection) projectChannelDeleted(ctx context.Context, evt *core.ChannelDeleted) error {
	_, err := p.table.DeleteWhere(ctx, goqu.Ex{colChannelID: evt.ChannelID()})

	return err
}

// projectConnectionDeleted must run before the channels projection forgets the connection's channels.
func (p *Projection) projectConnectionDeleted(ctx context.Context, evt *core.ConnectionDeleted) error {
	channels, err := messagebus.FetchResults[[]core.Channel](ctx, p.fetcher, &core.ChannelsForConnection{
		ConnectionID: evt.ConnectionID(),
	})
	if err != nil || len(channels) == 0 {
		return err
	}

	channelIDs := lo.Map(channels, func(channel core.Channel, _ int) string { return channel.ID.String() })
	_, err = p.table.DeleteWhere(ctx, goqu.Ex{colChannelID: channelIDs})

	return err
}

func (p *Projection) link(ctx context.Context, channelID, siteID identifier.ID) (*Link, error) {
	link, found, err := readmodel.SelectOne(
		ctx,
		p.table,
		p.selectLinks().Where(goqu.Ex{colLinkID: core.LinkIDFor(channelID, siteID)}),
		scanLink,
	)
	if err != nil || !found {
		return nil, err
	}

	return &link, nil
}

func (p *Projection) linksForSite(ctx context.Context, siteID identifier.ID, canPush, canPull *bool) ([]Link, error) {
	where := goqu.Ex{colSiteID: siteID}
	if canPush != nil {
		where[colCanPush] = *canPush
	}

	if canPull != nil {
		where[colCanPull] = *canPull
	}

	return readmodel.Select(ctx, p.table, p.selectLinks().Where(where), scanLink)
}

func (p *Projection) selectLinks() *goqu.SelectDataset {
	return p.table.From().
		Select(colChannelID, colSiteID, colCanPush, colCanPull).
		Order(goqu.C(colChannelID).Asc())
}

func scanLink(rows adapters.DBRows) (Link, error) {
	var link Link
	err := rows.Scan(&link.ChannelID, &link.SiteID, &link.CanPush, &link.CanPull)

	return link, err
}
