package extensions

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
	colExtensionKey = "extension_key"
	colContentID    = "content_id"
	colExtension    = "extension"
	colData         = "data"
)

var schema = readmodel.Schema{
	Table:      "content_extensions",
	NaturalKey: colExtensionKey,
	Columns: []readmodel.Column{
		{Name: colContentID, Type: readmodel.Text},
		{Name: colExtension, Type: readmodel.Text},
		{Name: colData, Type: readmodel.JSON},
	},
	Indexes: []string{colContentID},
}

// Projection maintains the content_extensions read model.
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

func (p *Projection) projectContentExtensionEdited(ctx context.Context, evt *core.ContentExtensionEdited) error {
	data, err := shell.EncodeJSONColumn(dataOrEmpty(evt.Data))
	if err != nil {
		return err
	}

	return p.table.Upsert(ctx, goqu.Record{
		colExtensionKey: core.ExtensionKeyFor(evt.ContentID(), evt.Extension),
		colContentID:    evt.ContentID(),
		colExtension:    evt.Extension,
		colData:         data,
	})
}

func (p *Projection) projectContentDeleted(ctx context.Context, evt *core.ContentDeleted) error {
	_, err := p.table.DeleteWhere(ctx, goqu.Ex{colContentID: evt.ContentID()})

	return err
}

func (p *Projection) extensionsWhere(ctx context.Context, where goqu.Ex) ([]core.Extension, error) {
	ds := p.table.From().
		Select(colExtension, colData).
		Where(where).
		Order(goqu.C(colExtension).Asc())

	return readmodel.Select(ctx, p.table, ds, scanExtension)
}

func (p *Projection) extension(ctx context.Context, contentID identifier.ID, name string) (*core.Extension, error) {
	found, err := p.extensionsWhere(ctx, goqu.Ex{colExtensionKey: core.ExtensionKeyFor(contentID, name)})
	if err != nil || len(found) == 0 {
		return nil, err
	}

	return &found[0], nil
}

func scanExtension(rows adapters.DBRows) (core.Extension, error) {
	var ext core.Extension
	var data []byte

	if err := rows.Scan(&ext.Name, &data); err != nil {
		return core.Extension{}, err
	}

	ext.Data = map[string]any{}
	if err := shell.DecodeJSONColumn(data, &ext.Data); err != nil {
		return core.Extension{}, err
	}

	return ext, nil
}

func dataOrEmpty(data map[string]any) map[string]any {
	if data == nil {
		return map[string]any{}
	}

	return data
}
