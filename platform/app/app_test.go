package app_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/content-eventbus-go/eventstore"
	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
	"github.com/AntonStoeckl/content-eventbus-go/platform/app"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
	"github.com/AntonStoeckl/content-eventbus-go/platform/features/syndication"
	"github.com/AntonStoeckl/content-eventbus-go/platform/shell/config"
	"github.com/AntonStoeckl/content-eventbus-go/testutil/observability/testdoubles"
)

var errProjectionBroken = errors.New("projection broken")

func testConfig(t *testing.T) config.Config {
	t.Helper()

	return config.Config{
		DBDriver:       config.DriverSQLite,
		DBDSN:          filepath.Join(t.TempDir(), "platform.db"),
		AsyncWorkers:   2,
		AsyncQueueSize: 16,
		LogLevel:       "debug",
		ServiceName:    "content-eventbus-test",
	}
}

type fixture struct {
	app    *app.App
	site   identifier.ID
	author identifier.ID
}

func newFixture(t *testing.T, options ...app.Option) fixture {
	t.Helper()

	logger, _ := testdoubles.NewLoggerSpy()
	a, err := app.New(context.Background(), testConfig(t), append([]app.Option{app.WithLogger(logger)}, options...)...)
	require.NoError(t, err)
	t.Cleanup(a.Close)

	require.NoError(t, a.Migrate(context.Background()))

	return fixture{app: a, site: identifier.New(), author: identifier.New()}
}

func (fx fixture) dispatch(t *testing.T, cmd messages.Command) []messages.Event {
	t.Helper()

	events, err := fx.app.Bus.Dispatch(context.Background(), cmd)
	require.NoError(t, err)

	return events
}

func (fx fixture) makeAuthor(t *testing.T) {
	t.Helper()

	fx.dispatch(t, &core.SetSitePermissions{
		BaseCommand: messages.NewBaseCommand(fx.author),
		SiteID:      fx.site,
		UserID:      fx.author,
		Level:       core.PermissionAdmin,
	})
}

func (fx fixture) createNote(t *testing.T, body string) identifier.ID {
	t.Helper()

	contentID := identifier.New()
	fx.dispatch(t, &core.CreateContent{
		BaseCommand: messages.NewBaseCommand(fx.author),
		ContentID:   contentID,
		SiteID:      fx.site,
		Title:       "Note",
		Body:        body,
	})

	return contentID
}

func Test_Reads_See_The_Latest_Write(t *testing.T) {
	// arrange
	fx := newFixture(t)
	fx.makeAuthor(t)
	contentID := fx.createNote(t, "Hello")
	body := "World"

	// act
	fx.dispatch(t, &core.EditContent{BaseCommand: messages.NewBaseCommand(fx.author), ContentID: contentID, Body: &body})
	content, err := core.FetchContent(context.Background(), fx.app.Bus, contentID)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "World", content.Body.(core.NoteBody).Markdown)
	assert.NotNil(t, content.Extensions)
}

func Test_Saving_A_Channel_Twice_Overrides_It(t *testing.T) {
	// arrange
	fx := newFixture(t)
	establish := &core.EstablishConnection{BaseCommand: messages.NewBaseCommand(fx.author), Provider: "tumblr", ProviderKey: "me", DisplayName: "Me"}
	fx.dispatch(t, establish)

	save := func(name string) *core.SaveChannel {
		return &core.SaveChannel{BaseCommand: messages.NewBaseCommand(fx.author), ConnectionID: establish.ConnectionID(), ChannelKey: "blog", DisplayName: name}
	}

	// act
	fx.dispatch(t, save("Hello"))
	fx.dispatch(t, save("World"))

	// assert
	channels, err := messagebus.FetchResults[[]core.Channel](context.Background(), fx.app.Bus, &core.ChannelsForConnection{ConnectionID: establish.ConnectionID()})
	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.Equal(t, "World", channels[0].DisplayName)
}

func Test_Failing_Projection_Does_Not_Stop_The_Others(t *testing.T) {
	// arrange
	fx := newFixture(t)
	require.NoError(t, fx.app.Registry.Register(
		messagebus.OnEvent("test.broken", messagebus.LayerExecution, func(context.Context, *core.ContentCreated) error {
			return errProjectionBroken
		}, messagebus.WithPriority(-100)),
	))
	fx.makeAuthor(t)
	contentID := identifier.New()

	// act
	events, err := fx.app.Bus.Dispatch(context.Background(), &core.CreateContent{
		BaseCommand: messages.NewBaseCommand(fx.author),
		ContentID:   contentID,
		SiteID:      fx.site,
		Body:        "Hello",
	})

	// assert
	assert.ErrorIs(t, err, errProjectionBroken)
	assert.Empty(t, events)

	var dispatchErr *messagebus.DispatchError
	require.ErrorAs(t, err, &dispatchErr)
	require.Len(t, dispatchErr.Failures, 1)
	assert.Equal(t, "test.broken", dispatchErr.Failures[0].Listener)

	content, fetchErr := core.FetchContent(context.Background(), fx.app.Bus, contentID)
	require.NoError(t, fetchErr)
	assert.Equal(t, "Hello", content.Body.(core.NoteBody).Markdown)

	stored, streamErr := fx.app.Store.StreamFor(context.Background(), messages.FamilyContent, eventstore.BuildEventFilter().MatchingAnyEvent())
	require.NoError(t, streamErr)
	assert.Len(t, stored, 1)
}

func Test_Duplicate_Event_Halts_Before_Projections(t *testing.T) {
	// arrange
	fx := newFixture(t)
	evt := core.BuildContentCreated(messages.NewBaseEvent(identifier.New(), fx.author), core.ContentTypeNote, fx.site, "Once", "Body", nil)
	require.NoError(t, fx.app.Bus.Publish(context.Background(), evt))

	edited := *evt
	edited.Title = "Twice"

	// act
	err := fx.app.Bus.Publish(context.Background(), &edited)

	// assert
	assert.ErrorIs(t, err, eventstore.ErrDuplicateEvent)

	contentCore, fetchErr := messagebus.FetchResults[*core.ContentCore](context.Background(), fx.app.Bus, &core.ContentCoreByID{ContentID: evt.ContentID()})
	require.NoError(t, fetchErr)
	require.NotNil(t, contentCore)
	assert.Equal(t, "Once", contentCore.Title)
}

func Test_Replay_Rebuilds_Read_Models_From_Stored_Events(t *testing.T) {
	// arrange
	fx := newFixture(t)
	fx.makeAuthor(t)
	contentID := fx.createNote(t, "Hello")
	fx.dispatch(t, &core.PublishContent{BaseCommand: messages.NewBaseCommand(fx.author), ContentID: contentID})

	// act
	replayed, err := fx.app.Replay(context.Background(), messages.FamilyContent)
	_, unknownErr := fx.app.Replay(context.Background(), "nope")

	// assert
	require.NoError(t, err)
	assert.Equal(t, 3, replayed)
	assert.ErrorIs(t, unknownErr, app.ErrUnknownFamily)

	content, fetchErr := core.FetchContent(context.Background(), fx.app.Bus, contentID)
	require.NoError(t, fetchErr)
	assert.True(t, content.IsPublished())
	assert.Equal(t, "/note/"+contentID.String(), content.Permalink)
}

func Test_Replaying_Events_Twice_Leaves_Read_Models_Unchanged(t *testing.T) {
	// arrange
	ctx := context.Background()
	fx := newFixture(t)
	fx.makeAuthor(t)
	contentID := fx.createNote(t, "Hello")
	fx.dispatch(t, &core.PublishContent{BaseCommand: messages.NewBaseCommand(fx.author), ContentID: contentID})

	before, err := core.FetchContent(ctx, fx.app.Bus, contentID)
	require.NoError(t, err)

	// act
	_, firstErr := fx.app.Replay(ctx, messages.FamilyContent)
	_, secondErr := fx.app.Replay(ctx, messages.FamilyContent)

	// assert
	require.NoError(t, firstErr)
	require.NoError(t, secondErr)

	after, err := core.FetchContent(ctx, fx.app.Bus, contentID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func Test_Published_Content_Is_Syndicated_Once_Even_After_Replay(t *testing.T) {
	// arrange
	var mu sync.Mutex
	pushed := 0
	publisher := syndication.PublisherFunc(func(context.Context, core.Channel, core.Content) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		pushed++

		return "", nil
	})

	fx := newFixture(t, app.WithPublisher(publisher))
	fx.makeAuthor(t)

	establish := &core.EstablishConnection{BaseCommand: messages.NewBaseCommand(fx.author), Provider: "tumblr", ProviderKey: "me", DisplayName: "Me"}
	fx.dispatch(t, establish)
	save := &core.SaveChannel{BaseCommand: messages.NewBaseCommand(fx.author), ConnectionID: establish.ConnectionID(), ChannelKey: "blog", DisplayName: "Blog"}
	fx.dispatch(t, save)
	fx.dispatch(t, &core.SetChannelSiteLink{BaseCommand: messages.NewBaseCommand(fx.author), ChannelID: save.ChannelID(), SiteID: fx.site, CanPush: true})

	contentID := fx.createNote(t, "Hello")

	// act
	fx.dispatch(t, &core.PublishContent{BaseCommand: messages.NewBaseCommand(fx.author), ContentID: contentID})
	_, err := fx.app.Replay(context.Background(), messages.FamilyContent)
	require.NoError(t, err)
	fx.app.Queue.Close()

	// assert
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, pushed)
}
