package standardcontent_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/samber/lo"
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
	admin  identifier.ID
	author identifier.ID
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	p := platformtest.New(t)
	platformtest.Install(t, p, sitepermissions.New)
	platformtest.Install(t, p, standardcontent.New)
	platformtest.Install(t, p, statuses.New)

	fx := fixture{p: p, site: identifier.New(), admin: identifier.New(), author: identifier.New()}
	fx.grant(t, fx.admin, core.PermissionAdmin)
	fx.grant(t, fx.author, core.PermissionAuthor)

	return fx
}

func (fx fixture) grant(t *testing.T, user identifier.ID, level core.PermissionLevel) {
	t.Helper()

	fx.p.Dispatch(t, &core.SetSitePermissions{BaseCommand: platformtest.Command(fx.admin), SiteID: fx.site, UserID: user, Level: level})
}

func (fx fixture) createNote(t *testing.T, actor identifier.ID, title string, publishTimestamp *time.Time) identifier.ID {
	t.Helper()

	contentID := identifier.New()
	fx.p.Dispatch(t, &core.CreateContent{
		BaseCommand:      platformtest.Command(actor),
		ContentID:        contentID,
		SiteID:           fx.site,
		Title:            title,
		Body:             "Body of " + title,
		PublishTimestamp: publishTimestamp,
	})

	return contentID
}

func (fx fixture) contentCore(t *testing.T, contentID identifier.ID) *core.ContentCore {
	t.Helper()

	return platformtest.Fetch[*core.ContentCore](t, fx.p, &core.ContentCoreByID{ContentID: contentID})
}

func Test_PublishContent_Assigns_Permalink_And_Publishes_Once(t *testing.T) {
	// arrange
	fx := newFixture(t)
	contentID := fx.createNote(t, fx.author, "Hello", nil)

	// act
	events := fx.p.Dispatch(t, &core.PublishContent{BaseCommand: platformtest.Command(fx.author), ContentID: contentID})
	again := fx.p.Dispatch(t, &core.PublishContent{BaseCommand: platformtest.Command(fx.author), ContentID: contentID})

	// assert
	require.Len(t, events, 2)
	assert.IsType(t, &core.PermalinkAssigned{}, events[0])
	assert.IsType(t, &core.PublicContentAdded{}, events[1])
	assert.NotEqual(t, events[0].EventID(), events[1].EventID())
	assert.Empty(t, again)

	published := fx.contentCore(t, contentID)
	require.NotNil(t, published)
	assert.Equal(t, core.VisibilityPublished, published.Visibility)
	assert.Equal(t, "/note/"+contentID.String(), published.Permalink)
	require.NotNil(t, published.PublishTimestamp)
	assert.WithinDuration(t, time.Now(), *published.PublishTimestamp, time.Minute)
}

func Test_PublishContent_Keeps_Existing_Permalink_And_Publish_Timestamp(t *testing.T) {
	// arrange
	fx := newFixture(t)
	scheduled := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	contentID := fx.createNote(t, fx.author, "Scheduled", &scheduled)
	fx.p.Dispatch(t, &core.PublishContent{BaseCommand: platformtest.Command(fx.author), ContentID: contentID})
	fx.p.Dispatch(t, &core.UnpublishContent{BaseCommand: platformtest.Command(fx.author), ContentID: contentID})

	// act
	events := fx.p.Dispatch(t, &core.PublishContent{BaseCommand: platformtest.Command(fx.admin), ContentID: contentID})

	// assert
	require.Len(t, events, 1)
	assert.IsType(t, &core.PublicContentAdded{}, events[0])

	published := fx.contentCore(t, contentID)
	require.NotNil(t, published)
	assert.Equal(t, core.VisibilityPublished, published.Visibility)
	require.NotNil(t, published.PublishTimestamp)
	assert.True(t, scheduled.Equal(*published.PublishTimestamp))
}

func Test_UnpublishContent_Turns_Content_Into_Draft(t *testing.T) {
	// arrange
	fx := newFixture(t)
	contentID := fx.createNote(t, fx.author, "Hello", nil)

	// act
	draftUnpublish := fx.p.Dispatch(t, &core.UnpublishContent{BaseCommand: platformtest.Command(fx.author), ContentID: contentID})
	fx.p.Dispatch(t, &core.PublishContent{BaseCommand: platformtest.Command(fx.author), ContentID: contentID})
	events := fx.p.Dispatch(t, &core.UnpublishContent{BaseCommand: platformtest.Command(fx.author), ContentID: contentID})

	// assert
	assert.Empty(t, draftUnpublish)
	require.Len(t, events, 1)
	assert.IsType(t, &core.PublicContentRemoved{}, events[0])
	assert.Equal(t, core.VisibilityDraft, fx.contentCore(t, contentID).Visibility)
}

func Test_Content_Commands_Require_Author_Or_Site_Admin(t *testing.T) {
	// arrange
	fx := newFixture(t)
	otherAuthor := identifier.New()
	fx.grant(t, otherAuthor, core.PermissionAuthor)
	contentID := fx.createNote(t, fx.author, "Hello", nil)
	ctx := context.Background()

	// act
	_, publishErr := fx.p.Bus.Dispatch(ctx, &core.PublishContent{BaseCommand: platformtest.Command(otherAuthor), ContentID: contentID})
	_, deleteErr := fx.p.Bus.Dispatch(ctx, &core.DeleteContent{BaseCommand: platformtest.Command(identifier.New()), ContentID: contentID})
	_, unknownErr := fx.p.Bus.Dispatch(ctx, &core.PublishContent{BaseCommand: platformtest.Command(fx.admin), ContentID: identifier.New()})
	adminEvents := fx.p.Dispatch(t, &core.PublishContent{BaseCommand: platformtest.Command(fx.admin), ContentID: contentID})

	// assert
	assert.ErrorIs(t, publishErr, core.ErrNotAuthorized)
	assert.ErrorIs(t, deleteErr, core.ErrNotAuthorized)
	assert.ErrorIs(t, unknownErr, core.ErrContentNotFound)
	assert.NotEmpty(t, adminEvents)
}

func Test_DeleteContent_Unpublishes_Before_Deleting(t *testing.T) {
	// arrange
	fx := newFixture(t)
	contentID := fx.createNote(t, fx.author, "Hello", nil)
	fx.p.Dispatch(t, &core.PublishContent{BaseCommand: platformtest.Command(fx.author), ContentID: contentID})

	// act
	events := fx.p.Dispatch(t, &core.DeleteContent{BaseCommand: platformtest.Command(fx.author), ContentID: contentID})
	again := fx.p.Dispatch(t, &core.DeleteContent{BaseCommand: platformtest.Command(fx.author), ContentID: contentID})

	// assert
	require.Len(t, events, 2)
	assert.IsType(t, &core.PublicContentRemoved{}, events[0])
	assert.IsType(t, &core.ContentDeleted{}, events[1])
	assert.Empty(t, again)
	assert.Nil(t, fx.contentCore(t, contentID))

	_, err := core.FetchContent(context.Background(), fx.p.Bus, contentID)
	assert.ErrorIs(t, err, core.ErrContentNotFound)
}

func Test_ContentVisibleToUser(t *testing.T) {
	// arrange
	fx := newFixture(t)
	stranger := identifier.New()
	draft := fx.createNote(t, fx.author, "Draft", nil)
	published := fx.createNote(t, fx.author, "Published", nil)
	fx.p.Dispatch(t, &core.PublishContent{BaseCommand: platformtest.Command(fx.author), ContentID: published})

	tests := []struct {
		name     string
		content  identifier.ID
		user     identifier.ID
		expected bool
	}{
		{name: "draft_for_author", content: draft, user: fx.author, expected: true},
		{name: "draft_for_admin", content: draft, user: fx.admin, expected: true},
		{name: "draft_for_stranger", content: draft, user: stranger, expected: false},
		{name: "draft_for_anonymous", content: draft, user: identifier.Nil, expected: false},
		{name: "published_for_stranger", content: published, user: stranger, expected: true},
		{name: "published_for_anonymous", content: published, user: identifier.Nil, expected: true},
		{name: "unknown_content", content: identifier.New(), user: fx.admin, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// act
			visible := platformtest.Fetch[bool](t, fx.p, &core.ContentVisibleToUser{ContentID: tt.content, UserID: tt.user})

			// assert
			assert.Equal(t, tt.expected, visible)
		})
	}
}

func Test_ContentList_Orders_By_Publish_Timestamp_And_Hides_Foreign_Drafts(t *testing.T) {
	// arrange
	fx := newFixture(t)
	otherAuthor := identifier.New()
	fx.grant(t, otherAuthor, core.PermissionAuthor)

	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	oldNote := fx.createNote(t, fx.author, "Old", &older)
	newNote := fx.createNote(t, fx.author, "New", &newer)
	undated := fx.createNote(t, fx.author, "Undated", nil)
	foreignDraft := fx.createNote(t, otherAuthor, "Foreign", nil)
	fx.p.Dispatch(t, &core.PublishContent{BaseCommand: platformtest.Command(fx.author), ContentID: oldNote})

	list := func(user identifier.ID, page, pageSize int, visibility ...core.Visibility) []identifier.ID {
		items := platformtest.Fetch[[]core.ContentCore](t, fx.p, &core.ContentList{
			SiteID:     fx.site,
			UserID:     user,
			Visibility: visibility,
			Page:       page,
			PageSize:   pageSize,
		})

		ids := make([]identifier.ID, 0, len(items))
		for _, item := range items {
			ids = append(ids, item.ID)
		}

		return ids
	}

	// act
	forAdmin := list(fx.admin, 1, 0)
	forAuthor := list(fx.author, 1, 0)
	forAnonymous := list(identifier.Nil, 1, 0)
	secondPage := list(fx.admin, 2, 2)
	publishedOnly := list(fx.admin, 1, 0, core.VisibilityPublished)

	// assert
	require.Len(t, forAdmin, 4)
	assert.Equal(t, []identifier.ID{newNote, oldNote}, forAdmin[:2])
	assert.ElementsMatch(t, []identifier.ID{undated, foreignDraft}, forAdmin[2:])
	assert.Equal(t, []identifier.ID{newNote, oldNote, undated}, forAuthor)
	assert.Equal(t, []identifier.ID{oldNote}, forAnonymous)
	assert.ElementsMatch(t, []identifier.ID{undated, foreignDraft}, secondPage)
	assert.Equal(t, []identifier.ID{oldNote}, publishedOnly)
}

func Test_BuildContent_Combines_Core_And_Note_Body(t *testing.T) {
	// arrange
	fx := newFixture(t)
	contentID := fx.createNote(t, fx.author, "Hello", nil)

	// act
	content, err := core.FetchContent(context.Background(), fx.p.Bus, contentID)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "Hello", content.Title)
	assert.Equal(t, fx.author, content.AuthorID)
	assert.Equal(t, core.ContentTypeNote, content.Type)
	assert.Equal(t, core.NoteBody{Markdown: "Body of Hello", HTML: "<p>Body of Hello</p>\n"}, content.Body)
	assert.NotNil(t, content.Extensions)
	assert.Empty(t, content.Extensions)
}

func Test_UserCanEditContent(t *testing.T) {
	// arrange
	fx := newFixture(t)
	otherAuthor := identifier.New()
	fx.grant(t, otherAuthor, core.PermissionAuthor)
	contentID := fx.createNote(t, fx.author, "Mine", nil)

	canEdit := func(contentID, userID identifier.ID) bool {
		return platformtest.Fetch[bool](t, fx.p, &core.UserCanEditContent{ContentID: contentID, UserID: userID})
	}

	// act + assert
	assert.True(t, canEdit(contentID, fx.author))
	assert.True(t, canEdit(contentID, fx.admin))
	assert.False(t, canEdit(contentID, otherAuthor))
	assert.False(t, canEdit(contentID, identifier.New()))
	assert.False(t, canEdit(identifier.New(), fx.admin))
}

func Test_Concurrent_PublishContent_Publishes_Once(t *testing.T) {
	// arrange
	fx := newFixture(t)
	contentID := fx.createNote(t, fx.author, "Racy", nil)

	// act
	var wg sync.WaitGroup
	var mu sync.Mutex
	var published []messages.Event
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			events, err := fx.p.Bus.Dispatch(context.Background(), &core.PublishContent{BaseCommand: platformtest.Command(fx.author), ContentID: contentID})
			assert.NoError(t, err)

			mu.Lock()
			defer mu.Unlock()
			published = append(published, lo.Filter(events, func(evt messages.Event, _ int) bool {
				_, ok := evt.(*core.PublicContentAdded)
				return ok
			})...)
		}()
	}
	wg.Wait()

	// assert
	assert.Len(t, published, 1)
	assert.True(t, fx.contentCore(t, contentID).IsPublished())
}
