package connections

import (
	"context"

	"github.com/AntonStoeckl/content-eventbus-go/internal/adapters"
	"github.com/AntonStoeckl/content-eventbus-go/internal/readmodel"
	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
	"github.com/AntonStoeckl/content-eventbus-go/platform/shell"
)

// Feature bundles the connections projection, queries, and commands.
type Feature struct {
	projection *Projection
	queries    QueryHandler
	commands   CommandHandler
	handlers   *shell.CommandHandlers
}

// New creates the feature. fetcher is used by the command handlers to load current state.
func New(
	db adapters.DBAdapter,
	handlers *shell.CommandHandlers,
	fetcher messagebus.Fetcher,
	options ...readmodel.Option,
) (*Feature, error) {

	projection, err := NewProjection(db, options...)
	if err != nil {
		return nil, err
	}

	return &Feature{
		projection: projection,
		queries:    QueryHandler{projection: projection},
		commands:   CommandHandler{fetcher: fetcher},
		handlers:   handlers,
	}, nil
}

// CreateSchema creates the read model table.
func (f *Feature) CreateSchema(ctx context.Context) error {
	return f.projection.CreateSchema(ctx)
}

// Listeners returns every listener of the feature.
func (f *Feature) Listeners() []messagebus.Listener {
	return []messagebus.Listener{
		messagebus.OnEvent("connections.project_established", messagebus.LayerExecution, f.projection.projectConnectionEstablished),
		messagebus.OnEvent("connections.project_refreshed", messagebus.LayerExecution, f.projection.projectConnectionRefreshed),
		messagebus.OnEvent("connections.project_deleted", messagebus.LayerExecution, f.projection.projectConnectionDeleted),

		messagebus.AnswerQuery("connections.connection_by_id", f.queries.ConnectionByID),
		messagebus.AnswerQuery("connections.connections_for_user", f.queries.ConnectionsForUser),
		messagebus.AnswerQuery("connections.connection_belongs_to_user", f.queries.ConnectionBelongsToUser),

		shell.HandleCommand(f.handlers, "connections.establish", f.commands.EstablishConnection),
		shell.HandleCommand(f.handlers, "connections.refresh", f.commands.RefreshConnection),
		shell.HandleCommand(f.handlers, "connections.delete", f.commands.DeleteConnection),
	}
}
