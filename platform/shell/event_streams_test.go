package shell_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/content-eventbus-go/eventstore"
	"github.com/AntonStoeckl/content-eventbus-go/eventstore/sqlengine"
	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/internal/adapters"
	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
	"github.com/AntonStoeckl/content-eventbus-go/platform/shell"
	"github.com/AntonStoeckl/content-eventbus-go/testutil/sqlitedb"
)

type streamsFixture struct {
	store   *sqlengine.EventStore
	streams *shell.EventStreams
	bus     *messagebus.Bus
	seen    *atomic.Int32
}

func newStreamsFixture(t *testing.T) streamsFixture {
	t.Helper()

	store, err := sqlengine.NewEventStoreFromSQLDB(sqlitedb.Open(t), adapters.DialectSQLite)
	require.NoError(t, err)
	require.NoError(t, store.CreateSchema(context.Background(), core.Families()...))

	streams := shell.NewEventStreams(store, newCodec(t), core.Families()...)
	seen := &atomic.Int32{}

	registry := messagebus.NewRegistry()
	require.NoError(t, registry.Register(streams.Listeners()...))
	require.NoError(t, registry.Register(
		messagebus.OnEvent("counter", messagebus.LayerExecution, func(context.Context, *core.ChannelSaved) error {
			seen.Add(1)
			return nil
		}),
	))

	bus, err := messagebus.NewBus(registry)
	require.NoError(t, err)

	return streamsFixture{store: store, streams: streams, bus: bus, seen: seen}
}

func channelSaved(name string) *core.ChannelSaved {
	connectionID := core.ConnectionIDFor("mastodon", "alice")
	channelID := core.ChannelIDFor(connectionID, "home")

	return core.BuildChannelSaved(messages.NewBaseEvent(channelID, identifier.New()), connectionID, "home", name, nil)
}

func Test_EventStreams_Record_Events_Before_Projections_Run(t *testing.T) {
	// arrange
	fx := newStreamsFixture(t)
	ctx := context.Background()

	// act
	require.NoError(t, fx.bus.Publish(ctx, channelSaved("Home")))

	// assert
	stored, err := fx.store.StreamFor(ctx, messages.FamilyConnector, eventstore.BuildEventFilter().MatchingAnyEvent())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, core.ChannelSavedEventType, stored[0].EventType)
	assert.Equal(t, int32(1), fx.seen.Load())
}

func Test_EventStreams_Duplicate_Event_Halts_The_Cascade(t *testing.T) {
	// arrange
	fx := newStreamsFixture(t)
	ctx := context.Background()
	evt := channelSaved("Home")
	require.NoError(t, fx.bus.Publish(ctx, evt))

	// act
	err := fx.bus.Publish(ctx, evt)

	// assert
	assert.ErrorIs(t, err, eventstore.ErrDuplicateEvent)
	assert.Equal(t, int32(1), fx.seen.Load())
}

func Test_EventStreams_ReplayFamily_Feeds_Projections_Without_Appending(t *testing.T) {
	// arrange
	fx := newStreamsFixture(t)
	ctx := context.Background()
	require.NoError(t, fx.bus.Publish(ctx, channelSaved("first")))
	require.NoError(t, fx.bus.Publish(ctx, channelSaved("second")))

	// act
	replayed, err := fx.streams.ReplayFamily(ctx, fx.bus, messages.FamilyConnector, eventstore.BuildEventFilter().MatchingAnyEvent())

	// assert
	require.NoError(t, err)
	assert.Equal(t, 2, replayed)
	assert.Equal(t, int32(4), fx.seen.Load())

	stored, err := fx.store.StreamFor(ctx, messages.FamilyConnector, eventstore.BuildEventFilter().MatchingAnyEvent())
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}
