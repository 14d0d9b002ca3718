package sitepermissions

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/internal/adapters"
	"github.com/AntonStoeckl/content-eventbus-go/internal/readmodel"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

const (
	colPermissionKey = "permission_key"
	colSiteID        = "site_id"
	colUserID        = "user_id"
	colLevel         = "level"
)

var schema = readmodel.Schema{
	Table:      "site_permissions",
	NaturalKey: colPermissionKey,
	Columns: []readmodel.Column{
		{Name: colSiteID, Type: readmodel.Text},
		{Name: colUserID, Type: readmodel.Text},
		{Name: colLevel, Type: readmodel.Text},
	},
	Indexes: []string{colSiteID, colUserID},
}

// Projection maintains the site_permissions read model.
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

func (p *Projection) projectSitePermissionsSet(ctx context.Context, evt *core.SitePermissionsSet) error {
	return p.table.Upsert(ctx, goqu.Record{
		colPermissionKey: core.PermissionKeyFor(evt.SiteID(), evt.UserID),
		colSiteID:        evt.SiteID(),
		colUserID:        evt.UserID,
		colLevel:         string(evt.Level),
	})
}

// level returns PermissionNone for users without a row.
func (p *Projection) level(ctx context.Context, siteID, userID identifier.ID) (core.PermissionLevel, error) {
	level, found, err := readmodel.SelectOne(
		ctx,
		p.table,
		p.table.From().Select(colLevel).Where(goqu.Ex{colPermissionKey: core.PermissionKeyFor(siteID, userID)}),
		func(rows adapters.DBRows) (core.PermissionLevel, error) {
			var level string
			err := rows.Scan(&level)

			return core.PermissionLevel(level), err
		},
	)
	if err != nil || !found {
		return core.PermissionNone, err
	}

	return level, nil
}
