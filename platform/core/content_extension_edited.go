package core

import "github.com/AntonStoeckl/content-eventbus-go/messages"

// ContentExtensionEditedEventType is the event type identifier.
const ContentExtensionEditedEventType = "ContentExtensionEdited"

// ContentExtensionEdited records the new data of one named extension (tags, syndication links, ...)
// of a piece of content. It replaces earlier data of the same extension and leaves other extensions alone.
type ContentExtensionEdited struct {
	ContentEvent
	Extension string         `json:"extension"`
	Data      map[string]any `json:"data"`
}

// BuildContentExtensionEdited creates a new ContentExtensionEdited event.
func BuildContentExtensionEdited(base messages.BaseEvent, extension string, data map[string]any) *ContentExtensionEdited {
	return &ContentExtensionEdited{
		ContentEvent: ContentEvent{BaseEvent: base},
		Extension:    extension,
		Data:         data,
	}
}

// MessageType returns the event type identifier.
func (*ContentExtensionEdited) MessageType() string { return ContentExtensionEditedEventType }
