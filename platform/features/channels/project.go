package channels

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/samber/lo"

	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/internal/adapters"
	"github.com/AntonStoeckl/content-eventbus-go/internal/readmodel"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
	"github.com/AntonStoeckl/content-eventbus-go/platform/shell"
)

const (
	colChannelID    = "channel_id"
	colConnectionID = "connection_id"
	colChannelKey   = "channel_key"
	colDisplayName  = "display_name"
	colDetails      = "details"
)

var schema = readmodel.Schema{
	Table:      "channels",
	NaturalKey: colChannelID,
	Columns: []readmodel.Column{
		{Name: colConnectionID, Type: readmodel.Text},
		{Name: colChannelKey, Type: readmodel.Text},
		{Name: colDisplayName, Type: readmodel.Text},
		{Name: colDetails, Type: readmodel.JSON},
	},
	Indexes: []string{colConnectionID},
}

// Projection maintains the channels read model.
type Projection struct {
	table *readmodel.Table
}

// NewProjection creates the projection on db.
func NewProjection(db adapters.DBAdapter, options ...readmodel.Option) (*Projection, error) {
	table, err := readmodel.NewTable(db, schema, options...)
	if err != nil {
		return nil, err
	}

	return &Projection{table: table}, nil
}

// CreateSchema creates the read model table.
func (p *Projection) CreateSchema(ctx context.Context) error {
	return p.table.CreateSchema(ctx)
}

func (p *Projection) projectChannelSaved(ctx context.Context, evt *core.ChannelSaved) error {
	details := evt.Details
	if details == nil {
		details = core.Details{}
	}

	encoded, err := shell.EncodeJSONColumn(details)
	if err != nil {
		return err
	}

	return p.table.Upsert(ctx, goqu.Record{
		colChannelID:    evt.ChannelID(),
		colConnectionID: evt.ConnectionID,
		colChannelKey:   evt.ChannelKey,
		colDisplayName:  evt.DisplayName,
		colDetails:      encoded,
	})
}

func (p *Projection) projectChannelDeleted(ctx context.Context, evt *core.ChannelDeleted) error {
	return p.table.Delete(ctx, evt.AggregateID())
}

func (p *Projection) projectConnectionDeleted(ctx context.Context, evt *core.ConnectionDeleted) error {
	_, err := p.table.DeleteWhere(ctx, goqu.Ex{colConnectionID: evt.ConnectionID()})

	return err
}

func (p *Projection) channelByID(ctx context.Context, channelID identifier.ID) (*core.Channel, error) {
	channel, found, err := readmodel.SelectOne(ctx, p.table, p.selectChannels().Where(goqu.Ex{colChannelID: channelID}), scanChannel)
	if err != nil || !found {
		return nil, err
	}

	return &channel, nil
}

func (p *Projection) channelsWhere(ctx context.Context, where goqu.Ex) ([]core.Channel, error) {
	return readmodel.Select(ctx, p.table, p.selectChannels().Where(where), scanChannel)
}

func (p *Projection) channelsByIDs(ctx context.Context, channelIDs []identifier.ID) ([]core.Channel, error) {
	if len(channelIDs) == 0 {
		return []core.Channel{}, nil
	}

	ids := lo.Map(lo.Uniq(channelIDs), func(id identifier.ID, _ int) string { return id.String() })

	return p.channelsWhere(ctx, goqu.Ex{colChannelID: ids})
}

func (p *Projection) selectChannels() *goqu.SelectDataset {
	return p.table.From().
		Select(colChannelID, colConnectionID, colChannelKey, colDisplayName, colDetails).
		Order(goqu.C(colDisplayName).Asc(), goqu.C(colChannelID).Asc())
}

func scanChannel(rows adapters.DBRows) (core.Channel, error) {
	var channel core.Channel
	var details []byte

	if err := rows.Scan(&channel.ID, &channel.ConnectionID, &channel.ChannelKey, &channel.DisplayName, &details); err != nil {
		return core.Channel{}, err
	}

	channel.Details = core.Details{}
	if err := shell.DecodeJSONColumn(details, &channel.Details); err != nil {
		return core.Channel{}, err
	}

	return channel, nil
}
