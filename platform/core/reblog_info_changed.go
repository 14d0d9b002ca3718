package core

import "github.com/AntonStoeckl/content-eventbus-go/messages"

// ReblogInfoChangedEventType is the event type identifier.
const ReblogInfoChangedEventType = "ReblogInfoChanged"

// ReblogInfoChanged records a new URL or fresh page information for a reblog.
type ReblogInfoChanged struct {
	ContentEvent
	URL  string      `json:"url"`
	Info *ReblogInfo `json:"info,omitempty"`
}

// BuildReblogInfoChanged creates a new ReblogInfoChanged event.
func BuildReblogInfoChanged(base messages.BaseEvent, url string, info *ReblogInfo) *ReblogInfoChanged {
	return &ReblogInfoChanged{
		ContentEvent: ContentEvent{BaseEvent: base},
		URL:          url,
		Info:         info,
	}
}

// MessageType returns the event type identifier.
func (*ReblogInfoChanged) MessageType() string { return ReblogInfoChangedEventType }
