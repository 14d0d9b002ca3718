package statuses

import (
	"github.com/AntonStoeckl/content-eventbus-go/messages"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

// DecideCreateContent decides whether a new note is created.
//
// Business Rules:
//
//	GIVEN: The acting user is an author on the site
//	WHEN: CreateContent command is received
//	THEN: ContentCreated event with type note is generated, the acting user is the author
//	IDEMPOTENCY: If content with the same id exists, no event is generated
func DecideCreateContent(exists bool, cmd *core.CreateContent, base messages.BaseEvent) []messages.Event {
	if exists {
		return nil
	}

	return []messages.Event{
		core.BuildContentCreated(base, core.ContentTypeNote, cmd.SiteID, cmd.Title, cmd.Body, cmd.PublishTimestamp),
	}
}

// DecideEditContent decides how content is changed.
//
// Business Rules:
//
//	GIVEN: The current core attributes and, for notes, the current body of content the acting user may edit
//	WHEN: EditContent command is received
//	THEN: ContentBaseAttributeEdited event is generated with the title and publish timestamp that differ
//	THEN: ContentBodyEdited event is generated if the body differs
//	ERROR: ErrUnsupportedContentType if the body of content other than a note is changed
//	IDEMPOTENCY: If nothing differs, no event is generated
func DecideEditContent(
	current core.ContentCore,
	currentBody *core.NoteBody,
	cmd *core.EditContent,
	base messages.BaseEvent,
) ([]messages.Event, error) {

	if cmd.Body != nil && (current.Type != core.ContentTypeNote || currentBody == nil) {
		return nil, core.ErrUnsupportedContentType
	}

	var events []messages.Event

	title := cmd.Title
	if title != nil && *title == current.Title {
		title = nil
	}

	publishTimestamp := cmd.PublishTimestamp
	if publishTimestamp != nil && current.PublishTimestamp != nil && publishTimestamp.Equal(*current.PublishTimestamp) {
		publishTimestamp = nil
	}

	if title != nil || publishTimestamp != nil {
		events = append(events, core.BuildContentBaseAttributeEdited(base, title, nil, publishTimestamp))
		base = base.Next()
	}

	if cmd.Body != nil && *cmd.Body != currentBody.Markdown {
		events = append(events, core.BuildContentBodyEdited(base, *cmd.Body))
	}

	return events, nil
}
