package connections

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
	colConnectionID = "connection_id"
	colUserID       = "user_id"
	colProvider     = "provider"
	colProviderKey  = "provider_key"
	colDisplayName  = "display_name"
	colDetails      = "details"
)

var schema = readmodel.Schema{
	Table:      "connections",
	NaturalKey: colConnectionID,
	Columns: []readmodel.Column{
		{Name: colUserID, Type: readmodel.Text},
		{Name: colProvider, Type: readmodel.Text},
		{Name: colProviderKey, Type: readmodel.Text},
		{Name: colDisplayName, Type: readmodel.Text},
		{Name: colDetails, Type: readmodel.JSON},
	},
	Indexes: []string{colUserID},
}

// Projection maintains the connections read model.
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

func (p *Projection) projectConnectionEstablished(ctx context.Context, evt *core.ConnectionEstablished) error {
	details, err := shell.EncodeJSONColumn(detailsOrEmpty(evt.Details))
	if err != nil {
		return err
	}

	return p.table.Upsert(ctx, goqu.Record{
		colConnectionID: evt.ConnectionID(),
		colUserID:       evt.UserID,
		colProvider:     evt.Provider,
		colProviderKey:  evt.ProviderKey,
		colDisplayName:  evt.DisplayName,
		colDetails:      details,
	})
}

func (p *Projection) projectConnectionRefreshed(ctx context.Context, evt *core.ConnectionRefreshed) error {
	details, err := shell.EncodeJSONColumn(detailsOrEmpty(evt.Details))
	if err != nil {
		return err
	}

	_, err = p.table.Update(ctx, evt.AggregateID(), goqu.Record{colDetails: details})

	return err
}

func (p *Projection) projectConnectionDeleted(ctx context.Context, evt *core.ConnectionDeleted) error {
	return p.table.Delete(ctx, evt.AggregateID())
}

func (p *Projection) connectionByID(ctx context.Context, connectionID identifier.ID) (*core.Connection, error) {
	connection, found, err := readmodel.SelectOne(ctx, p.table, p.selectConnections().Where(goqu.Ex{colConnectionID: connectionID}), scanConnection)
	if err != nil || !found {
		return nil, err
	}

	return &connection, nil
}

func (p *Projection) connectionsForUser(ctx context.Context, userID identifier.ID) ([]core.Connection, error) {
	return readmodel.Select(ctx, p.table, p.selectConnections().Where(goqu.Ex{colUserID: userID}), scanConnection)
}

func (p *Projection) selectConnections() *goqu.SelectDataset {
	return p.table.From().
		Select(colConnectionID, colUserID, colProvider, colProviderKey, colDisplayName, colDetails).
		Order(goqu.C(colProvider).Asc(), goqu.C(colDisplayName).Asc())
}

func scanConnection(rows adapters.DBRows) (core.Connection, error) {
	var connection core.Connection
	var details []byte

	if err := rows.Scan(
		&connection.ID,
		&connection.UserID,
		&connection.Provider,
		&connection.ProviderKey,
		&connection.DisplayName,
		&details,
	); err != nil {
		return core.Connection{}, err
	}

	connection.Details = core.Details{}
	if err := shell.DecodeJSONColumn(details, &connection.Details); err != nil {
		return core.Connection{}, err
	}

	return connection, nil
}

func detailsOrEmpty(details core.Details) core.Details {
	if details == nil {
		return core.Details{}
	}

	return details
}
