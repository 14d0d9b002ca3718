package extensions

import (
	"context"

	"github.com/AntonStoeckl/content-eventbus-go/internal/adapters"
	"github.com/AntonStoeckl/content-eventbus-go/internal/readmodel"
	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
	"github.com/AntonStoeckl/content-eventbus-go/platform/shell"
)

// Feature bundles the extensions projection, the extension contribution, and the edit command.
type Feature struct {
	projection *Projection
	queries    QueryHandler
	commands   CommandHandler
	handlers   *shell.CommandHandlers
}

// New creates the feature. Permission checks go through fetcher.
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
		messagebus.OnEvent("extensions.project_edited", messagebus.LayerExecution, f.projection.projectContentExtensionEdited),
		messagebus.OnEvent("extensions.project_deleted", messagebus.LayerExecution, f.projection.projectContentDeleted),

		messagebus.ContributeTo("extensions.build_extensions", f.queries.BuildContent),

		shell.HandleCommand(f.handlers, "extensions.edit_extension", f.commands.EditContentExtension),
		shell.HandleCommand(f.handlers, "extensions.add_list_items", f.commands.AddExtensionListItems),
	}
}
