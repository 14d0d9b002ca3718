package reblogs

import (
	"github.com/AntonStoeckl/content-eventbus-go/messages"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

// TitleFor is the title of a new reblog: the title of the reblogged page if known, otherwise its URL.
func TitleFor(url string, info *core.ReblogInfo) string {
	if info != nil && info.Title != "" {
		return info.Title
	}

	return url
}

// DecideCreateReblog decides whether a new reblog is created.
//
// Business Rules:
//
//	GIVEN: The acting user is an author on the site
//	WHEN: CreateReblog command is received
//	THEN: ContentCreated event with type reblog is generated, followed by ReblogCreated event
//	IDEMPOTENCY: If content with the same id exists, no event is generated
func DecideCreateReblog(exists bool, cmd *core.CreateReblog, base messages.BaseEvent) []messages.Event {
	if exists {
		return nil
	}

	return []messages.Event{
		core.BuildContentCreated(base, core.ContentTypeReblog, cmd.SiteID, TitleFor(cmd.URL, cmd.Info), "", nil),
		core.BuildReblogCreated(base.Next(), cmd.URL, cmd.Comment, cmd.Info),
	}
}

// DecideChangeReblogComment decides whether the comment of a reblog changes.
//
// Business Rules:
//
//	GIVEN: The current body of content the acting user may edit
//	WHEN: ChangeReblogComment command is received
//	THEN: ReblogCommentChanged event is generated
//	ERROR: ErrUnsupportedContentType if the content is not a reblog
//	IDEMPOTENCY: If the comment is unchanged, no event is generated
func DecideChangeReblogComment(
	current *core.ReblogBody,
	cmd *core.ChangeReblogComment,
	base messages.BaseEvent,
) ([]messages.Event, error) {

	if current == nil {
		return nil, core.ErrUnsupportedContentType
	}

	if current.Comment == cmd.Comment {
		return nil, nil
	}

	return []messages.Event{core.BuildReblogCommentChanged(base, cmd.Comment)}, nil
}

// DecideUpdateReblogInfo decides whether the URL or page information of a reblog changes.
//
// Business Rules:
//
//	GIVEN: The current body of content the acting user may edit
//	WHEN: UpdateReblogInfo command is received
//	THEN: ReblogInfoChanged event is generated
//	ERROR: ErrUnsupportedContentType if the content is not a reblog
//	IDEMPOTENCY: If URL and page information are unchanged, no event is generated
func DecideUpdateReblogInfo(
	current *core.ReblogBody,
	cmd *core.UpdateReblogInfo,
	base messages.BaseEvent,
) ([]messages.Event, error) {

	if current == nil {
		return nil, core.ErrUnsupportedContentType
	}

	if current.URL == cmd.URL && sameInfo(current.Info, cmd.Info) {
		return nil, nil
	}

	return []messages.Event{core.BuildReblogInfoChanged(base, cmd.URL, cmd.Info)}, nil
}

func sameInfo(a, b *core.ReblogInfo) bool {
	if a == nil || b == nil {
		return a == b
	}

	return *a == *b
}
