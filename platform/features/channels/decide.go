package channels

import (
	"maps"

	"github.com/AntonStoeckl/content-eventbus-go/messages"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

// DecideSaveChannel decides whether a channel is saved.
//
// Business Rules:
//
//	GIVEN: Whether the acting user owns the connection, and the current channel or nil
//	WHEN: SaveChannel command is received
//	THEN: ChannelSaved event is generated
//	ERROR: core.ErrNotAuthorized if the connection does not belong to the acting user
//	IDEMPOTENCY: If the channel exists with the same name and details, no event is generated
func DecideSaveChannel(ownsConnection bool, current *core.Channel, cmd *core.SaveChannel, base messages.BaseEvent) ([]messages.Event, error) {
	if !ownsConnection {
		return nil, core.ErrNotAuthorized
	}

	if current != nil && current.DisplayName == cmd.DisplayName && maps.Equal(current.Details, cmd.Details) {
		return nil, nil
	}

	return []messages.Event{
		core.BuildChannelSaved(base, cmd.ConnectionID, cmd.ChannelKey, cmd.DisplayName, cmd.Details),
	}, nil
}

// DecideDeleteChannel decides whether a channel is deleted.
//
// Business Rules:
//
//	GIVEN: The current channel or nil, and whether the acting user owns its connection
//	WHEN: DeleteChannel command is received
//	THEN: ChannelDeleted event is generated
//	ERROR: core.ErrNotAuthorized if the channel's connection does not belong to the acting user
//	IDEMPOTENCY: If the channel does not exist (anymore), no event is generated
func DecideDeleteChannel(current *core.Channel, ownsConnection bool, base messages.BaseEvent) ([]messages.Event, error) {
	if current == nil {
		return nil, nil
	}

	if !ownsConnection {
		return nil, core.ErrNotAuthorized
	}

	return []messages.Event{core.BuildChannelDeleted(base, current.ConnectionID)}, nil
}
