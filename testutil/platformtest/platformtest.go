// Package platformtest assembles an in-memory platform for feature tests: a sqlite database,
// the event store with one stream per family, a bus, and command handlers.
package platformtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/content-eventbus-go/eventstore/sqlengine"
	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/internal/adapters"
	"github.com/AntonStoeckl/content-eventbus-go/internal/readmodel"
	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
	"github.com/AntonStoeckl/content-eventbus-go/platform/shell"
	"github.com/AntonStoeckl/content-eventbus-go/testutil/sqlitedb"
)

// Constructor is the signature every feature's New function has.
type Constructor[F shell.Feature] func(
	db adapters.DBAdapter,
	handlers *shell.CommandHandlers,
	fetcher messagebus.Fetcher,
	options ...readmodel.Option,
) (F, error)

// Platform is a fully wired platform without features.
type Platform struct {
	DB       adapters.DBAdapter
	Store    *sqlengine.EventStore
	Streams  *shell.EventStreams
	Registry *messagebus.Registry
	Bus      *messagebus.Bus
	Handlers *shell.CommandHandlers
}

// New creates a Platform on a fresh in-memory database.
func New(t testing.TB, busOptions ...messagebus.Option) *Platform {
	t.Helper()

	db := sqlitedb.Adapter(t)

	store, err := sqlengine.NewEventStoreFromAdapter(db, sqlengine.WithFamilies(core.Families()...))
	require.NoError(t, err)
	require.NoError(t, store.CreateSchema(context.Background(), core.Families()...))

	codec, err := shell.NewCodec(core.EventFactories()...)
	require.NoError(t, err)

	streams := shell.NewEventStreams(store, codec, core.Families()...)

	registry := messagebus.NewRegistry()
	require.NoError(t, registry.Register(streams.Listeners()...))

	bus, err := messagebus.NewBus(registry, busOptions...)
	require.NoError(t, err)

	handlers, err := shell.NewCommandHandlers()
	require.NoError(t, err)

	return &Platform{DB: db, Store: store, Streams: streams, Registry: registry, Bus: bus, Handlers: handlers}
}

// Install creates a feature with ctor, creates its tables, and registers its listeners.
func Install[F shell.Feature](t testing.TB, p *Platform, ctor Constructor[F]) F {
	t.Helper()

	feature, err := ctor(p.DB, p.Handlers, p.Bus)
	require.NoError(t, err)

	p.Add(t, feature)

	return feature
}

// Add creates the tables of feature, if it has any, and registers its listeners.
func (p *Platform) Add(t testing.TB, feature shell.Feature) {
	t.Helper()

	if owner, ok := feature.(shell.SchemaOwner); ok {
		require.NoError(t, owner.CreateSchema(context.Background()))
	}

	require.NoError(t, p.Registry.Register(feature.Listeners()...))
}

// Dispatch dispatches cmd and fails the test on error.
func (p *Platform) Dispatch(t testing.TB, cmd messages.Command) []messages.Event {
	t.Helper()

	events, err := p.Bus.Dispatch(context.Background(), cmd)
	require.NoError(t, err)

	return events
}

// Fetch fetches q and fails the test on error.
func Fetch[R any](t testing.TB, p *Platform, q messages.QueryWithResults[R]) R {
	t.Helper()

	results, err := messagebus.FetchResults[R](context.Background(), p.Bus, q)
	require.NoError(t, err)

	return results
}

// Command returns a command envelope for actor.
func Command(actor identifier.ID) messages.BaseCommand {
	return messages.NewBaseCommand(actor)
}
