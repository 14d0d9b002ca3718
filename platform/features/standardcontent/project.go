package standardcontent

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/samber/lo"

	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/internal/adapters"
	"github.com/AntonStoeckl/content-eventbus-go/internal/readmodel"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

const (
	colContentID        = "content_id"
	colType             = "type"
	colTitle            = "title"
	colSiteID           = "site_id"
	colAuthorID         = "author_id"
	colPermalink        = "permalink"
	colPublishTimestamp = "publish_timestamp"
	colVisibility       = "visibility"
)

var schema = readmodel.Schema{
	Table:      "standard_content",
	NaturalKey: colContentID,
	Columns: []readmodel.Column{
		{Name: colType, Type: readmodel.Text},
		{Name: colTitle, Type: readmodel.Text},
		{Name: colSiteID, Type: readmodel.Text},
		{Name: colAuthorID, Type: readmodel.Text},
		{Name: colPermalink, Type: readmodel.Text},
		{Name: colPublishTimestamp, Type: readmodel.Text, Nullable: true},
		{Name: colVisibility, Type: readmodel.Text},
	},
	Indexes: []string{colSiteID, colAuthorID, colPublishTimestamp},
}

// Projection maintains the standard_content read model.
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

func (p *Projection) projectContentCreated(ctx context.Context, evt *core.ContentCreated) error {
	return p.table.Upsert(ctx, goqu.Record{
		colContentID:        evt.ContentID(),
		colType:             string(evt.ContentType),
		colTitle:            evt.Title,
		colSiteID:           evt.SiteID,
		colAuthorID:         evt.AuthorID,
		colPermalink:        "",
		colPublishTimestamp: timestampColumn(evt.PublishTimestamp),
		colVisibility:       string(core.VisibilityDraft),
	})
}

func (p *Projection) projectContentBaseAttributeEdited(ctx context.Context, evt *core.ContentBaseAttributeEdited) error {
	changes := goqu.Record{}

	if evt.Title != nil {
		changes[colTitle] = *evt.Title
	}

	if evt.AuthorID != nil {
		changes[colAuthorID] = *evt.AuthorID
	}

	if evt.PublishTimestamp != nil {
		changes[colPublishTimestamp] = timestampColumn(evt.PublishTimestamp)
	}

	if len(changes) == 0 {
		return nil
	}

	_, err := p.table.Update(ctx, evt.ContentID(), changes)

	return err
}

func (p *Projection) projectPermalinkAssigned(ctx context.Context, evt *core.PermalinkAssigned) error {
	_, err := p.table.Update(ctx, evt.ContentID(), goqu.Record{colPermalink: evt.Permalink})

	return err
}

func (p *Projection) projectContentDeleted(ctx context.Context, evt *core.ContentDeleted) error {
	return p.table.Delete(ctx, evt.ContentID())
}

// projectPublicContentAdded publishes the content. The publish timestamp is only set if there is none yet.
func (p *Projection) projectPublicContentAdded(ctx context.Context, evt *core.PublicContentAdded) error {
	if _, err := p.table.Update(ctx, evt.ContentID(), goqu.Record{colVisibility: string(core.VisibilityPublished)}); err != nil {
		return err
	}

	_, err := p.table.UpdateWhere(
		ctx,
		goqu.Ex{colContentID: evt.ContentID(), colPublishTimestamp: nil},
		goqu.Record{colPublishTimestamp: core.FormatTime(evt.OccurredAt())},
	)

	return err
}

func (p *Projection) projectPublicContentRemoved(ctx context.Context, evt *core.PublicContentRemoved) error {
	_, err := p.table.Update(ctx, evt.ContentID(), goqu.Record{colVisibility: string(core.VisibilityDraft)})

	return err
}

func (p *Projection) contentCore(ctx context.Context, contentID identifier.ID) (*core.ContentCore, error) {
	found, err := readmodel.Select(ctx, p.table, p.selectContent().Where(goqu.Ex{colContentID: contentID}), scanContentCore)
	if err != nil || len(found) == 0 {
		return nil, err
	}

	return &found[0], nil
}

// listFilter narrows a content list. Zero values do not filter.
type listFilter struct {
	siteID     identifier.ID
	readableBy *identifier.ID
	types      []core.ContentType
	visibility []core.Visibility
	limit      uint
	offset     uint
}

// list returns content newest publish timestamp first. Content without a publish timestamp comes last.
func (p *Projection) list(ctx context.Context, filter listFilter) ([]core.ContentCore, error) {
	ds := p.selectContent().
		Where(goqu.Ex{colSiteID: filter.siteID}).
		Order(
			goqu.L("CASE WHEN ? IS NULL THEN 1 ELSE 0 END", goqu.C(colPublishTimestamp)).Asc(),
			goqu.C(colPublishTimestamp).Desc(),
			goqu.C(colContentID).Desc(),
		).
		Limit(filter.limit).
		Offset(filter.offset)

	if filter.readableBy != nil {
		ds = ds.Where(goqu.Or(
			goqu.C(colAuthorID).Eq(*filter.readableBy),
			goqu.C(colVisibility).Eq(string(core.VisibilityPublished)),
		))
	}

	if len(filter.types) > 0 {
		ds = ds.Where(goqu.C(colType).In(lo.Map(filter.types, func(t core.ContentType, _ int) string { return string(t) })))
	}

	if len(filter.visibility) > 0 {
		ds = ds.Where(goqu.C(colVisibility).In(lo.Map(filter.visibility, func(v core.Visibility, _ int) string { return string(v) })))
	}

	return readmodel.Select(ctx, p.table, ds, scanContentCore)
}

func (p *Projection) selectContent() *goqu.SelectDataset {
	return p.table.From().Select(
		colContentID,
		colType,
		colSiteID,
		colAuthorID,
		colTitle,
		colPermalink,
		colPublishTimestamp,
		colVisibility,
	)
}

func scanContentCore(rows adapters.DBRows) (core.ContentCore, error) {
	var contentCore core.ContentCore
	var contentType, visibility string
	var publishTimestamp sql.NullString

	if err := rows.Scan(
		&contentCore.ID,
		&contentType,
		&contentCore.SiteID,
		&contentCore.AuthorID,
		&contentCore.Title,
		&contentCore.Permalink,
		&publishTimestamp,
		&visibility,
	); err != nil {
		return core.ContentCore{}, err
	}

	contentCore.Type = core.ContentType(contentType)
	contentCore.Visibility = core.Visibility(visibility)

	if publishTimestamp.Valid {
		at, err := core.ParseTime(publishTimestamp.String)
		if err != nil {
			return core.ContentCore{}, err
		}

		contentCore.PublishTimestamp = &at
	}

	return contentCore, nil
}

func timestampColumn(t *time.Time) any {
	if t == nil {
		return nil
	}

	return core.FormatTime(*t)
}
