package followers

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/internal/adapters"
	"github.com/AntonStoeckl/content-eventbus-go/internal/readmodel"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
	"github.com/AntonStoeckl/content-eventbus-go/platform/shell"
)

const (
	colFollowerID  = "follower_id"
	colSiteID      = "site_id"
	colProvider    = "provider"
	colProviderKey = "provider_key"
	colDisplayName = "display_name"
	colDetails     = "details"
)

var schema = readmodel.Schema{
	Table:      "followers",
	NaturalKey: colFollowerID,
	Columns: []readmodel.Column{
		{Name: colSiteID, Type: readmodel.Text},
		{Name: colProvider, Type: readmodel.Text},
		{Name: colProviderKey, Type: readmodel.Text},
		{Name: colDisplayName, Type: readmodel.Text},
		{Name: colDetails, Type: readmodel.JSON},
	},
	Indexes: []string{colSiteID},
}

// Projection maintains the followers read model.
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

func (p *Projection) projectFollowerAdded(ctx context.Context, evt *core.FollowerAdded) error {
	details := evt.Details
	if details == nil {
		details = core.Details{}
	}

	encoded, err := shell.EncodeJSONColumn(details)
	if err != nil {
		return err
	}

	return p.table.Upsert(ctx, goqu.Record{
		colFollowerID:  evt.FollowerID(),
		colSiteID:      evt.SiteID(),
		colProvider:    evt.Provider,
		colProviderKey: evt.ProviderKey,
		colDisplayName: evt.DisplayName,
		colDetails:     encoded,
	})
}

func (p *Projection) projectFollowerRemoved(ctx context.Context, evt *core.FollowerRemoved) error {
	_, err := p.table.DeleteWhere(ctx, goqu.Ex{colFollowerID: evt.FollowerID, colSiteID: evt.SiteID()})

	return err
}

func (p *Projection) followersWhere(ctx context.Context, where goqu.Ex) ([]core.Follower, error) {
	ds := p.table.From().
		Select(colFollowerID, colSiteID, colProvider, colProviderKey, colDisplayName, colDetails).
		Where(where).
		Order(goqu.C(colProvider).Asc(), goqu.C(colDisplayName).Asc())

	return readmodel.Select(ctx, p.table, ds, scanFollower)
}

func (p *Projection) follower(ctx context.Context, siteID, followerID identifier.ID) (*core.Follower, error) {
	found, err := p.followersWhere(ctx, goqu.Ex{colFollowerID: followerID, colSiteID: siteID})
	if err != nil || len(found) == 0 {
		return nil, err
	}

	return &found[0], nil
}

func scanFollower(rows adapters.DBRows) (core.Follower, error) {
	var follower core.Follower
	var details []byte

	if err := rows.Scan(
		&follower.ID,
		&follower.SiteID,
		&follower.Provider,
		&follower.ProviderKey,
		&follower.DisplayName,
		&details,
	); err != nil {
		return core.Follower{}, err
	}

	follower.Details = core.Details{}
	if err := shell.DecodeJSONColumn(details, &follower.Details); err != nil {
		return core.Follower{}, err
	}

	return follower, nil
}
