package channellinks

import (
	"context"

	"github.com/AntonStoeckl/content-eventbus-go/internal/adapters"
	"github.com/AntonStoeckl/content-eventbus-go/internal/readmodel"
	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
	"github.com/AntonStoeckl/content-eventbus-go/platform/shell"
)

// beforeChannelsPriority orders link cleanup ahead of the channels projection on ConnectionDeleted.
const beforeChannelsPriority = -5

// Feature bundles the link projection, queries, and the link command.
type Feature struct {
	projection *Projection
	queries    QueryHandler
	commands   CommandHandler
	handlers   *shell.CommandHandlers
}

// New creates the feature.
func New(
	db adapters.DBAdapter,
	handlers *shell.CommandHandlers,
	fetcher messagebus.Fetcher,
	options ...readmodel.Option,
) (*Feature, error) {

	projection, err := NewProjection(db, fetcher, options...)
	if err != nil {
		return nil, err
	}

	return &Feature{
		projection: projection,
		queries:    QueryHandler{projection: projection, fetcher: fetcher},
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
		messagebus.OnEvent("channellinks.project_link_set", messagebus.LayerExecution, f.projection.projectChannelSiteLinkSet),
		messagebus.OnEvent("channellinks.remove_with_channel", messagebus.LayerExecution, f.projection.projectChannelDeleted),
		messagebus.OnEvent(
			"channellinks.remove_with_connection",
			messagebus.LayerExecution,
			f.projection.projectConnectionDeleted,
			messagebus.WithPriority(beforeChannelsPriority),
		),

		messagebus.AnswerQuery("channellinks.channels_for_site", f.queries.ChannelsForSite),
		messagebus.AnswerQuery("channellinks.site_has_permission_for_channel", f.queries.SiteHasPermissionForChannel),
		messagebus.AnswerQuery("channellinks.user_can_link_channel_and_site", f.queries.UserCanLinkChannelAndSite),
		messagebus.AnswerQuery("channellinks.channels_for_admin", f.queries.ChannelsForAdmin),

		shell.HandleCommand(f.handlers, "channellinks.set", f.commands.SetChannelSiteLink),
	}
}
