package statuses

import (
	"context"

	"github.com/AntonStoeckl/content-eventbus-go/internal/adapters"
	"github.com/AntonStoeckl/content-eventbus-go/internal/readmodel"
	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
	"github.com/AntonStoeckl/content-eventbus-go/platform/shell"
)

// Feature bundles the statuses projection, the body contribution, and the create and edit commands.
type Feature struct {
	projection *Projection
	queries    QueryHandler
	commands   CommandHandler
	handlers   *shell.CommandHandlers
}

// New creates the feature. Permission checks and the content core go through fetcher.
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
		commands:   CommandHandler{projection: projection, fetcher: fetcher},
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
		messagebus.OnEvent("statuses.project_created", messagebus.LayerExecution, f.projection.projectContentCreated),
		messagebus.OnEvent("statuses.project_body_edited", messagebus.LayerExecution, f.projection.projectContentBodyEdited),
		messagebus.OnEvent("statuses.project_deleted", messagebus.LayerExecution, f.projection.projectContentDeleted),

		messagebus.ContributeTo("statuses.build_body", f.queries.BuildContent),

		shell.HandleCommand(f.handlers, "statuses.create_content", f.commands.CreateContent),
		shell.HandleCommand(f.handlers, "statuses.edit_content", f.commands.EditContent),
	}
}
