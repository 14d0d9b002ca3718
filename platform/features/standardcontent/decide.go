package standardcontent

import (
	"github.com/AntonStoeckl/content-eventbus-go/messages"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

// PermalinkFor is the permalink content gets when it is published for the first time.
func PermalinkFor(contentCore core.ContentCore) string {
	return "/" + string(contentCore.Type) + "/" + contentCore.ID.String()
}

// DecidePublishContent decides how content is published.
//
// Business Rules:
//
//	GIVEN: The current core attributes of content the acting user may edit
//	WHEN: PublishContent command is received
//	THEN: PermalinkAssigned event is generated if the content has no permalink yet
//	THEN: PublicContentAdded event is generated
//	IDEMPOTENCY: If the content is already published, no event is generated
func DecidePublishContent(current core.ContentCore, base messages.BaseEvent) []messages.Event {
	if current.IsPublished() {
		return nil
	}

	var events []messages.Event

	if current.Permalink == "" {
		events = append(events, core.BuildPermalinkAssigned(base, PermalinkFor(current)))
		base = base.Next()
	}

	return append(events, core.BuildPublicContentAdded(base))
}

// DecideUnpublishContent decides whether content is turned back into a draft.
//
// Business Rules:
//
//	GIVEN: The current core attributes of content the acting user may edit
//	WHEN: UnpublishContent command is received
//	THEN: PublicContentRemoved event is generated
//	IDEMPOTENCY: If the content is not published, no event is generated
func DecideUnpublishContent(current core.ContentCore, base messages.BaseEvent) []messages.Event {
	if !current.IsPublished() {
		return nil
	}

	return []messages.Event{core.BuildPublicContentRemoved(base)}
}

// DecideDeleteContent decides how content is deleted.
//
// Business Rules:
//
//	GIVEN: The current core attributes of content the acting user may edit
//	WHEN: DeleteContent command is received
//	THEN: PublicContentRemoved event is generated if the content is published
//	THEN: ContentDeleted event is generated
func DecideDeleteContent(current core.ContentCore, base messages.BaseEvent) []messages.Event {
	var events []messages.Event

	if current.IsPublished() {
		events = append(events, core.BuildPublicContentRemoved(base))
		base = base.Next()
	}

	return append(events, core.BuildContentDeleted(base))
}
