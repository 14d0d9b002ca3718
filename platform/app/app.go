package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/AntonStoeckl/content-eventbus-go/eventstore"
	"github.com/AntonStoeckl/content-eventbus-go/eventstore/sqlengine"
	"github.com/AntonStoeckl/content-eventbus-go/internal/adapters"
	"github.com/AntonStoeckl/content-eventbus-go/internal/readmodel"
	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
	"github.com/AntonStoeckl/content-eventbus-go/platform/features/channellinks"
	"github.com/AntonStoeckl/content-eventbus-go/platform/features/channels"
	"github.com/AntonStoeckl/content-eventbus-go/platform/features/connections"
	"github.com/AntonStoeckl/content-eventbus-go/platform/features/extensions"
	"github.com/AntonStoeckl/content-eventbus-go/platform/features/followers"
	"github.com/AntonStoeckl/content-eventbus-go/platform/features/reblogs"
	"github.com/AntonStoeckl/content-eventbus-go/platform/features/sitepermissions"
	"github.com/AntonStoeckl/content-eventbus-go/platform/features/standardcontent"
	"github.com/AntonStoeckl/content-eventbus-go/platform/features/statuses"
	"github.com/AntonStoeckl/content-eventbus-go/platform/features/syndication"
	"github.com/AntonStoeckl/content-eventbus-go/platform/shell"
	"github.com/AntonStoeckl/content-eventbus-go/platform/shell/config"
)

var ErrUnknownFamily = errors.New("unknown event family")

const logMsgAsyncListenerGaveUp = "async listener gave up"

// Option configures an App.
type Option func(*settings)

type settings struct {
	publisher syndication.Publisher
	logger    *slog.Logger
}

// WithPublisher enables syndication through publisher. Without it, published content is not pushed anywhere.
func WithPublisher(publisher syndication.Publisher) Option {
	return func(s *settings) {
		s.publisher = publisher
	}
}

// WithLogger replaces the JSON logger on stderr.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// App is the fully wired platform. Send commands and queries through Bus.
type App struct {
	Logger        *slog.Logger
	Database      *config.Database
	Observability *config.Observability
	Store         *sqlengine.EventStore
	Streams       *shell.EventStreams
	Registry      *messagebus.Registry
	Queue         *messagebus.AsyncQueue
	Bus           *messagebus.Bus
	Handlers      *shell.CommandHandlers

	features []shell.Feature
}

// New opens the database described by cfg and wires every feature. The async queue is running when New returns.
// Call Migrate before the first use of a fresh database and Close when done.
func New(ctx context.Context, cfg config.Config, options ...Option) (*App, error) {
	s := settings{}
	for _, option := range options {
		option(&s)
	}

	if s.logger == nil {
		s.logger = config.NewLogger(cfg)
	}

	a := &App{Logger: s.logger}

	obs, err := config.NewObservability(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Observability = obs

	if a.Database, err = config.OpenDatabase(ctx, cfg); err != nil {
		a.Close()
		return nil, err
	}

	if err = a.wire(cfg, s); err != nil {
		a.Close()
		return nil, err
	}

	a.Queue.Start()

	return a, nil
}

func (a *App) wire(cfg config.Config, s settings) error {
	logger, metrics, tracing := a.Logger, a.Observability.Metrics, a.Observability.Tracing
	db := a.Database.Adapter

	store, err := sqlengine.NewEventStoreFromAdapter(
		db,
		sqlengine.WithTablePrefix(cfg.TablePrefix),
		sqlengine.WithFamilies(core.Families()...),
		sqlengine.WithContextualLogger(logger),
		sqlengine.WithMetrics(metrics),
		sqlengine.WithTracing(tracing),
	)
	if err != nil {
		return err
	}
	a.Store = store

	codec, err := shell.NewCodec(core.EventFactories()...)
	if err != nil {
		return err
	}

	a.Streams = shell.NewEventStreams(store, codec, core.Families()...)
	a.Registry = messagebus.NewRegistry()

	if err = a.Registry.Register(a.Streams.Listeners()...); err != nil {
		return err
	}

	a.Queue, err = messagebus.NewAsyncQueue(
		cfg.AsyncWorkers,
		cfg.AsyncQueueSize,
		messagebus.WithQueueLogger(logger),
		messagebus.WithQueueMetrics(metrics),
		messagebus.WithFailureHandler(func(failure *messagebus.ListenerFailure) {
			logger.Error(logMsgAsyncListenerGaveUp, "listener", failure.Listener, "message_type", failure.MessageType, "error", failure.Err)
		}),
	)
	if err != nil {
		return err
	}

	a.Bus, err = messagebus.NewBus(
		a.Registry,
		messagebus.WithAsyncQueue(a.Queue),
		messagebus.WithContextualLogger(logger),
		messagebus.WithMetrics(metrics),
		messagebus.WithTracing(tracing),
	)
	if err != nil {
		return err
	}

	a.Handlers, err = shell.NewCommandHandlers(
		shell.WithContextualLogging(logger),
		shell.WithMetrics(metrics),
		shell.WithTracing(tracing),
	)
	if err != nil {
		return err
	}

	tableOptions := []readmodel.Option{
		readmodel.WithTablePrefix(cfg.TablePrefix),
		readmodel.WithContextualLogger(logger),
		readmodel.WithMetrics(metrics),
	}

	installers := []func() (shell.Feature, error){
		installer(a, sitepermissions.New, tableOptions),
		installer(a, connections.New, tableOptions),
		installer(a, channels.New, tableOptions),
		installer(a, channellinks.New, tableOptions),
		installer(a, followers.New, tableOptions),
		installer(a, standardcontent.New, tableOptions),
		installer(a, statuses.New, tableOptions),
		installer(a, reblogs.New, tableOptions),
		installer(a, extensions.New, tableOptions),
	}

	for _, install := range installers {
		feature, installErr := install()
		if installErr != nil {
			return installErr
		}

		a.features = append(a.features, feature)
	}

	if s.publisher != nil {
		a.features = append(a.features, syndication.New(
			s.publisher,
			a.Bus,
			syndication.WithContextualLogger(logger),
			syndication.WithMetrics(metrics),
		))
	}

	for _, feature := range a.features {
		if err = a.Registry.Register(feature.Listeners()...); err != nil {
			return err
		}
	}

	return nil
}

type constructor[F shell.Feature] func(
	db adapters.DBAdapter,
	handlers *shell.CommandHandlers,
	fetcher messagebus.Fetcher,
	options ...readmodel.Option,
) (F, error)

func installer[F shell.Feature](a *App, ctor constructor[F], options []readmodel.Option) func() (shell.Feature, error) {
	return func() (shell.Feature, error) {
		return ctor(a.Database.Adapter, a.Handlers, a.Bus, options...)
	}
}

// Migrate creates the event tables and every read model table. It is safe to run repeatedly.
func (a *App) Migrate(ctx context.Context) error {
	if err := a.Store.CreateSchema(ctx, core.Families()...); err != nil {
		return err
	}

	for _, feature := range a.features {
		if owner, ok := feature.(shell.SchemaOwner); ok {
			if err := owner.CreateSchema(ctx); err != nil {
				return err
			}
		}
	}

	return nil
}

// Replay rebuilds the read models from the stored events of family. Side effects such as syndication do not run.
func (a *App) Replay(ctx context.Context, family messages.Family) (int, error) {
	if !slices.Contains(core.Families(), family) {
		return 0, errors.Join(ErrUnknownFamily, fmt.Errorf("%q", family))
	}

	return a.Streams.ReplayFamily(ctx, a.Bus, family, eventstore.BuildEventFilter().MatchingAnyEvent())
}

// Close drains the async queue, then releases the database and flushes telemetry.
func (a *App) Close() {
	if a.Queue != nil {
		a.Queue.Close()
	}

	if a.Database != nil {
		a.Database.Close()
	}

	if a.Observability != nil {
		if err := a.Observability.Shutdown(); err != nil {
			a.Logger.Error("flushing telemetry failed", "error", err)
		}
	}
}
