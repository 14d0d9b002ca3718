package standardcontent

import (
	"context"

	"github.com/AntonStoeckl/content-eventbus-go/internal/adapters"
	"github.com/AntonStoeckl/content-eventbus-go/internal/readmodel"
	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
	"github.com/AntonStoeckl/content-eventbus-go/platform/shell"
)

const (
	// visibilityPriority runs visibility changes before every other ContentBuild listener.
	visibilityPriority = -5

	// corePriority contributes the core attributes after the type bodies.
	corePriority = 5
)

// Feature bundles the standard content projection, queries, and commands.
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
		queries:    QueryHandler{projection: projection, fetcher: fetcher},
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
		messagebus.OnEvent("standardcontent.project_created", messagebus.LayerExecution, f.projection.projectContentCreated),
		messagebus.OnEvent("standardcontent.project_base_attributes", messagebus.LayerExecution, f.projection.projectContentBaseAttributeEdited),
		messagebus.OnEvent("standardcontent.project_permalink", messagebus.LayerExecution, f.projection.projectPermalinkAssigned),
		messagebus.OnEvent("standardcontent.project_deleted", messagebus.LayerExecution, f.projection.projectContentDeleted),
		messagebus.OnEvent(
			"standardcontent.publish",
			messagebus.LayerContentBuild,
			f.projection.projectPublicContentAdded,
			messagebus.WithPriority(visibilityPriority),
		),
		messagebus.OnEvent(
			"standardcontent.unpublish",
			messagebus.LayerContentBuild,
			f.projection.projectPublicContentRemoved,
			messagebus.WithPriority(visibilityPriority),
		),

		messagebus.AnswerQuery("standardcontent.content_core_by_id", f.queries.ContentCoreByID),
		messagebus.AnswerQuery("standardcontent.content_visible_to_user", f.queries.ContentVisibleToUser),
		messagebus.AnswerQuery("standardcontent.content_list", f.queries.ContentList),
		messagebus.AnswerQuery("standardcontent.user_can_edit_content", f.queries.UserCanEditContent),
		messagebus.ContributeTo("standardcontent.build_core", f.queries.BuildContent, messagebus.WithPriority(corePriority)),

		shell.HandleCommand(f.handlers, "standardcontent.publish_content", f.commands.PublishContent),
		shell.HandleCommand(f.handlers, "standardcontent.unpublish_content", f.commands.UnpublishContent),
		shell.HandleCommand(f.handlers, "standardcontent.delete_content", f.commands.DeleteContent),
	}
}
