package followers

import (
	"context"

	"github.com/AntonStoeckl/content-eventbus-go/internal/adapters"
	"github.com/AntonStoeckl/content-eventbus-go/internal/readmodel"
	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
	"github.com/AntonStoeckl/content-eventbus-go/platform/shell"
)

// Feature bundles the followers projection, query, and commands.
type Feature struct {
	projection *Projection
	queries    QueryHandler
	commands   CommandHandler
	handlers   *shell.CommandHandlers
}

// New creates the feature. It needs no other feature, fetcher is accepted for a uniform constructor.
func New(
	db adapters.DBAdapter,
	handlers *shell.CommandHandlers,
	_ messagebus.Fetcher,
	options ...readmodel.Option,
) (*Feature, error) {

	projection, err := NewProjection(db, options...)
	if err != nil {
		return nil, err
	}

	return &Feature{
		projection: projection,
		queries:    QueryHandler{projection: projection},
		commands:   CommandHandler{projection: projection},
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
		messagebus.OnEvent("followers.project_added", messagebus.LayerExecution, f.projection.projectFollowerAdded),
		messagebus.OnEvent("followers.project_removed", messagebus.LayerExecution, f.projection.projectFollowerRemoved),
		messagebus.AnswerQuery("followers.followers_for_site", f.queries.FollowersForSite),
		shell.HandleCommand(f.handlers, "followers.add", f.commands.AddFollower),
		shell.HandleCommand(f.handlers, "followers.remove", f.commands.RemoveFollower),
	}
}
