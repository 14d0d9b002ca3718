package statuses_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/content-eventbus-go/identifier"
	"github.com/AntonStoeckl/content-eventbus-go/messages"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
	"github.com/AntonStoeckl/content-eventbus-go/platform/features/sitepermissions"
	"github.com/AntonStoeckl/content-eventbus-go/platform/features/standardcontent"
	"github.com/AntonStoeckl/content-eventbus-go/platform/features/statuses"
	"github.com/AntonStoeckl/content-eventbus-go/testutil/platformtest"
)

type fixture struct {
	p      *platformtest.Platform
	site   identifier.ID
	author identifier.ID
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	p := platformtest.New(t)
	platformtest.Install(t, p, sitepermissions.New)
	platformtest.Install(t, p, standardcontent.New)
	platformtest.Install(t, p, statuses.New)

	fx := fixture{p: p, site: identifier.New(), author: identifier.New()}
	p.Dispatch(t, &core.SetSitePermissions{
		BaseCommand: platformtest.Command(fx.author),
		SiteID:      fx.site,
		UserID:      fx.author,
		Level:       core.PermissionAuthor,
	})

	return fx
}

func (fx fixture) create(actor, contentID identifier.ID, body string) *core.CreateContent {
	return &core.CreateContent{
		BaseCommand: platformtest.Command(actor),
		ContentID:   contentID,
		SiteID:      fx.site,
		Title:       "Title",
		Body:        body,
	}
}

func (fx fixture) noteBody(t *testing.T, contentID identifier.ID) core.Body {
	t.Helper()

	content, err := core.FetchContent(context.Background(), fx.p.Bus, contentID)
	require.NoError(t, err)

	return content.Body
}

func Test_CreateContent_Creates_A_Draft_Note_Once(t *testing.T) {
	// arrange
	fx := newFixture(t)
	contentID := identifier.New()

	// act
	events := fx.p.Dispatch(t, fx.create(fx.author, contentID, "Hello"))
	again := fx.p.Dispatch(t, fx.create(fx.author, contentID, "Hello"))

	// assert
	require.Len(t, events, 1)
	created, ok := events[0].(*core.ContentCreated)
	require.True(t, ok)
	assert.Equal(t, core.ContentTypeNote, created.ContentType)
	assert.Equal(t, fx.author, created.AuthorID)
	assert.Empty(t, again)

	contentCore := platformtest.Fetch[*core.ContentCore](t, fx.p, &core.ContentCoreByID{ContentID: contentID})
	require.NotNil(t, contentCore)
	assert.Equal(t, core.VisibilityDraft, contentCore.Visibility)
	assert.Equal(t, core.NoteBody{Markdown: "Hello", HTML: "<p>Hello</p>\n"}, fx.noteBody(t, contentID))
}

func Test_CreateContent_Requires_Author_Permission(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.p.Bus.Dispatch(context.Background(), fx.create(identifier.New(), identifier.New(), "Hello"))

	assert.ErrorIs(t, err, core.ErrNotAuthorized)
}

func Test_EditContent_Emits_Only_What_Changed(t *testing.T) {
	// arrange
	fx := newFixture(t)
	contentID := identifier.New()
	fx.p.Dispatch(t, fx.create(fx.author, contentID, "Hello"))

	edit := func(title, body *string) []messages.Event {
		return fx.p.Dispatch(t, &core.EditContent{
			BaseCommand: platformtest.Command(fx.author),
			ContentID:   contentID,
			Title:       title,
			Body:        body,
		})
	}
	originalTitle, newTitle, newBody := "Title", "New title", "World\n\nAgain"

	// act
	both := edit(&newTitle, &newBody)
	unchanged := edit(&newTitle, &newBody)
	titleOnly := edit(&originalTitle, nil)

	// assert
	require.Len(t, both, 2)
	assert.IsType(t, &core.ContentBaseAttributeEdited{}, both[0])
	assert.IsType(t, &core.ContentBodyEdited{}, both[1])
	assert.Empty(t, unchanged)
	require.Len(t, titleOnly, 1)

	content, err := core.FetchContent(context.Background(), fx.p.Bus, contentID)
	require.NoError(t, err)
	assert.Equal(t, "Title", content.Title)
	assert.Equal(t, core.NoteBody{Markdown: "World\n\nAgain", HTML: "<p>World</p>\n<p>Again</p>\n"}, content.Body)
}

func Test_EditContent_Rejects_Body_For_Other_Content_Types(t *testing.T) {
	// arrange
	fx := newFixture(t)
	contentID := identifier.New()
	base := messages.NewBaseEvent(contentID, fx.author)
	require.NoError(t, fx.p.Bus.Publish(
		context.Background(),
		core.BuildContentCreated(base, core.ContentTypeReblog, fx.site, "Reblog", "", nil),
	))
	body := "text"

	// act
	_, err := fx.p.Bus.Dispatch(context.Background(), &core.EditContent{
		BaseCommand: platformtest.Command(fx.author),
		ContentID:   contentID,
		Body:        &body,
	})

	// assert
	assert.ErrorIs(t, err, core.ErrUnsupportedContentType)
}

func Test_Deleted_Notes_Lose_Their_Body(t *testing.T) {
	// arrange
	fx := newFixture(t)
	contentID := identifier.New()
	fx.p.Dispatch(t, fx.create(fx.author, contentID, "Hello"))

	// act
	fx.p.Dispatch(t, &core.DeleteContent{BaseCommand: platformtest.Command(fx.author), ContentID: contentID})

	// assert
	q := core.NewBuildContent(contentID)
	require.NoError(t, fx.p.Bus.Fetch(context.Background(), q))
	_, err := q.Builder().Build()
	assert.ErrorIs(t, err, core.ErrContentNotFound)
}
