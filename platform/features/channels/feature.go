package channels

import (
	"context"

	"github.com/AntonStoeckl/content-eventbus-go/internal/adapters"
	"github.com/AntonStoeckl/content-eventbus-go/internal/readmodel"
	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
	"github.com/AntonStoeckl/content-eventbus-go/platform/shell"
)

// Feature bundles the channels projection, queries, and commands.
type Feature struct {
	projection *Projection
	queries    QueryHandler
	commands   CommandHandler
	handlers   *shell.CommandHandlers
}

// New creates the feature. The command handlers ask the connections feature about ownership through fetcher.
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
		messagebus.OnEvent("channels.project_saved", messagebus.LayerExecution, f.projection.projectChannelSaved),
		messagebus.OnEvent("channels.project_deleted", messagebus.LayerExecution, f.projection.projectChannelDeleted),
		messagebus.OnEvent("channels.remove_with_connection", messagebus.LayerExecution, f.projection.projectConnectionDeleted),

		messagebus.AnswerQuery("channels.channel_by_id", f.queries.ChannelByID),
		messagebus.AnswerQuery("channels.channels_for_connection", f.queries.ChannelsForConnection),
		messagebus.AnswerQuery("channels.channels_by_ids", f.queries.ChannelsByIDs),

		shell.HandleCommand(f.handlers, "channels.save", f.commands.SaveChannel),
		shell.HandleCommand(f.handlers, "channels.delete", f.commands.DeleteChannel),
	}
}
