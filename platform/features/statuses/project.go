package statuses

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/internal/adapters"
	"github.com/AntonStoeckl/content-eventbus-go/internal/readmodel"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

const (
	colContentID = "content_id"
	colMarkdown  = "markdown"
	colHTML      = "html"
)

var schema = readmodel.Schema{
	Table:      "statuses",
	NaturalKey: colContentID,
	Columns: []readmodel.Column{
		{Name: colMarkdown, Type: readmodel.Text},
		{Name: colHTML, Type: readmodel.Text},
	},
}

// Projection maintains the statuses read model.
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

// projectContentCreated stores the body of new notes. Other content types are ignored.
func (p *Projection) projectContentCreated(ctx context.Context, evt *core.ContentCreated) error {
	if evt.ContentType != core.ContentTypeNote {
		return nil
	}

	return p.table.Upsert(ctx, goqu.Record{
		colContentID: evt.ContentID(),
		colMarkdown:  evt.Body,
		colHTML:      RenderHTML(evt.Body),
	})
}

func (p *Projection) projectContentBodyEdited(ctx context.Context, evt *core.ContentBodyEdited) error {
	_, err := p.table.Update(ctx, evt.ContentID(), goqu.Record{
		colMarkdown: evt.Body,
		colHTML:     RenderHTML(evt.Body),
	})

	return err
}

func (p *Projection) projectContentDeleted(ctx context.Context, evt *core.ContentDeleted) error {
	return p.table.Delete(ctx, evt.ContentID())
}

func (p *Projection) body(ctx context.Context, contentID identifier.ID) (*core.NoteBody, error) {
	ds := p.table.From().Select(colMarkdown, colHTML).Where(goqu.Ex{colContentID: contentID})

	body, found, err := readmodel.SelectOne(ctx, p.table, ds, scanNoteBody)
	if err != nil || !found {
		return nil, err
	}

	return &body, nil
}

func scanNoteBody(rows adapters.DBRows) (core.NoteBody, error) {
	var body core.NoteBody
	err := rows.Scan(&body.Markdown, &body.HTML)

	return body, err
}
