package syndication

import (
	"context"
	"errors"
	"time"

	"github.com/samber/lo"

	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
	"github.com/AntonStoeckl/content-eventbus-go/observability"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
	"github.com/AntonStoeckl/content-eventbus-go/platform/features/extensions"
)

// ExtensionName is the content extension holding the URLs of syndicated copies under "links".
const ExtensionName = "syndication"

const linksKey = "links"

// syndicatePriority runs after the visibility change of the standard content projection.
const syndicatePriority = 5

const (
	metricPushes       = "syndication_pushes_total"
	metricDuration     = "syndication_duration_seconds"
	operationSyndicate = "syndicate"

	logMsgPushed     = "content pushed to channel"
	logMsgPushFailed = "pushing content to channel failed"
	logMsgSyndicated = "content syndicated"
	logAttrContentID = "content_id"
	logAttrChannelID = "channel_id"
	logAttrLinkCount = "link_count"
)

// Bus is what syndication needs from the message bus: queries for content and channels and
// a command to record the links.
type Bus interface {
	messagebus.Fetcher
	Dispatch(ctx context.Context, cmd messages.Command) ([]messages.Event, error)
}

// Option configures a Feature.
type Option func(*Feature)

// WithLogger sets the basic logger.
func WithLogger(logger observability.Logger) Option {
	return func(f *Feature) {
		f.hooks.Logger = logger
	}
}

// WithContextualLogger sets the context-aware logger.
func WithContextualLogger(logger observability.ContextualLogger) Option {
	return func(f *Feature) {
		f.hooks.ContextualLogger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(collector observability.MetricsCollector) Option {
	return func(f *Feature) {
		f.hooks.Metrics = collector
	}
}

// Feature pushes published content through a Publisher. It keeps no read model.
type Feature struct {
	publisher Publisher
	bus       Bus
	hooks     observability.Hooks
}

// New creates the feature.
func New(publisher Publisher, bus Bus, options ...Option) *Feature {
	f := &Feature{publisher: publisher, bus: bus}

	for _, option := range options {
		option(f)
	}

	return f
}

// Listeners returns every listener of the feature.
func (f *Feature) Listeners() []messagebus.Listener {
	return []messagebus.Listener{
		messagebus.OnEvent(
			"syndication.push_published",
			messagebus.LayerContentBuild,
			f.syndicate,
			messagebus.WithPriority(syndicatePriority),
			messagebus.Async(),
			messagebus.SideEffect(),
		),
	}
}

func (f *Feature) syndicate(ctx context.Context, evt *core.PublicContentAdded) error {
	start := time.Now()

	content, err := core.FetchContent(ctx, f.bus, evt.ContentID())
	if errors.Is(err, core.ErrContentNotFound) {
		// deleted before the queue got to it
		return nil
	}

	if err != nil {
		return err
	}

	channels, err := messagebus.FetchResults[[]core.Channel](ctx, f.bus, &core.ChannelsForSite{
		SiteID:  content.SiteID,
		CanPush: lo.ToPtr(true),
	})
	if err != nil {
		return err
	}

	var links []string
	var pushErrs []error

	for _, channel := range channels {
		link, pushErr := f.publisher.Publish(ctx, channel, content)
		if pushErr != nil {
			f.hooks.Error(ctx, logMsgPushFailed, pushErr, logAttrContentID, content.ID.String(), logAttrChannelID, channel.ID.String())
			f.hooks.IncrementCounter(ctx, metricPushes, map[string]string{observability.LabelStatus: observability.StatusError})
			pushErrs = append(pushErrs, pushErr)

			continue
		}

		f.hooks.Debug(ctx, logMsgPushed, logAttrContentID, content.ID.String(), logAttrChannelID, channel.ID.String())
		f.hooks.IncrementCounter(ctx, metricPushes, map[string]string{observability.LabelStatus: observability.StatusSuccess})

		if link != "" {
			links = append(links, link)
		}
	}

	if err = f.recordLinks(ctx, evt.ActorID(), content, links); err != nil {
		pushErrs = append(pushErrs, err)
	}

	status := observability.StatusSuccess
	if len(pushErrs) > 0 {
		status = observability.StatusError
	}

	f.hooks.RecordDuration(ctx, metricDuration, time.Since(start), operationSyndicate, status)
	f.hooks.Info(ctx, logMsgSyndicated, logAttrContentID, content.ID.String(), logAttrLinkCount, len(links))

	return errors.Join(pushErrs...)
}

// recordLinks adds links to the syndication extension of content on behalf of actor.
// Merging happens in the extension's command handler, which sees the latest links even when
// several syndications of the same content overlap.
func (f *Feature) recordLinks(ctx context.Context, actor identifier.ID, content core.Content, links []string) error {
	if len(links) == 0 {
		return nil
	}

	_, err := f.bus.Dispatch(ctx, &core.AddExtensionListItems{
		BaseCommand: messages.NewBaseCommand(actor),
		ContentID:   content.ID,
		Extension:   ExtensionName,
		Key:         linksKey,
		Items:       links,
	})

	return err
}

// KnownLinks returns the links already recorded in the syndication extension of content.
func KnownLinks(content core.Content) []string {
	ext, found := content.Extensions[ExtensionName]
	if !found {
		return nil
	}

	return extensions.StringList(ext.Data[linksKey])
}
