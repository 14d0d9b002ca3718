package reblogs

import (
	"context"

	"github.com/AntonStoeckl/content-eventbus-go/internal/adapters"
	"github.com/AntonStoeckl/content-eventbus-go/internal/readmodel"
	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
	"github.com/AntonStoeckl/content-eventbus-go/platform/shell"
)

// Feature bundles the reblogs projection, the body contribution, and the reblog commands.
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
		messagebus.OnEvent("reblogs.project_created", messagebus.LayerExecution, f.projection.projectReblogCreated),
		messagebus.OnEvent("reblogs.project_info_changed", messagebus.LayerExecution, f.projection.projectReblogInfoChanged),
		messagebus.OnEvent("reblogs.project_comment_changed", messagebus.LayerExecution, f.projection.projectReblogCommentChanged),
		messagebus.OnEvent("reblogs.project_deleted", messagebus.LayerExecution, f.projection.projectContentDeleted),

		messagebus.ContributeTo("reblogs.build_body", f.queries.BuildContent),

		shell.HandleCommand(f.handlers, "reblogs.create_reblog", f.commands.CreateReblog),
		shell.HandleCommand(f.handlers, "reblogs.change_comment", f.commands.ChangeReblogComment),
		shell.HandleCommand(f.handlers, "reblogs.update_info", f.commands.UpdateReblogInfo),
	}
}
