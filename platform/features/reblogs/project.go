package reblogs

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
	colContentID = "content_id"
	colURL       = "url"
	colComment   = "comment"
	colURLInfo   = "url_info"
)

var schema = readmodel.Schema{
	Table:      "reblogs",
	NaturalKey: colContentID,
	Columns: []readmodel.Column{
		{Name: colURL, Type: readmodel.Text},
		{Name: colComment, Type: readmodel.Text},
		{Name: colURLInfo, Type: readmodel.JSON},
	},
}

// Projection maintains the reblogs read model.
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

func (p *Projection) projectReblogCreated(ctx context.Context, evt *core.ReblogCreated) error {
	info, err := shell.EncodeJSONColumn(evt.Info)
	if err != nil {
		return err
	}

	return p.table.Upsert(ctx, goqu.Record{
		colContentID: evt.ContentID(),
		colURL:       evt.URL,
		colComment:   evt.Comment,
		colURLInfo:   info,
	})
}

func (p *Projection) projectReblogInfoChanged(ctx context.Context, evt *core.ReblogInfoChanged) error {
	info, err := shell.EncodeJSONColumn(evt.Info)
	if err != nil {
		return err
	}

	_, err = p.table.Update(ctx, evt.ContentID(), goqu.Record{colURL: evt.URL, colURLInfo: info})

	return err
}

func (p *Projection) projectReblogCommentChanged(ctx context.Context, evt *core.ReblogCommentChanged) error {
	_, err := p.table.Update(ctx, evt.ContentID(), goqu.Record{colComment: evt.Comment})

	return err
}

func (p *Projection) projectContentDeleted(ctx context.Context, evt *core.ContentDeleted) error {
	return p.table.Delete(ctx, evt.ContentID())
}

func (p *Projection) body(ctx context.Context, contentID identifier.ID) (*core.ReblogBody, error) {
	ds := p.table.From().Select(colURL, colComment, colURLInfo).Where(goqu.Ex{colContentID: contentID})

	body, found, err := readmodel.SelectOne(ctx, p.table, ds, scanReblogBody)
	if err != nil || !found {
		return nil, err
	}

	return &body, nil
}

func scanReblogBody(rows adapters.DBRows) (core.ReblogBody, error) {
	var body core.ReblogBody
	var info []byte

	if err := rows.Scan(&body.URL, &body.Comment, &info); err != nil {
		return core.ReblogBody{}, err
	}

	if err := shell.DecodeJSONColumn(info, &body.Info); err != nil {
		return core.ReblogBody{}, err
	}

	return body, nil
}
