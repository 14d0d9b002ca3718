package followers

import (
	"maps"

	"github.com/AntonStoeckl/content-eventbus-go/messages"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

// DecideAddFollower decides whether a follower is recorded.
//
// Business Rules:
//
//	GIVEN: The current follower or nil
//	WHEN: AddFollower command is received
//	THEN: FollowerAdded event is generated
//	IDEMPOTENCY: If the follower exists with the same name and details, no event is generated
func DecideAddFollower(current *core.Follower, cmd *core.AddFollower, base messages.BaseEvent) []messages.Event {
	if current != nil && current.DisplayName == cmd.DisplayName && maps.Equal(current.Details, cmd.Details) {
		return nil
	}

	return []messages.Event{core.BuildFollowerAdded(base, cmd.Provider, cmd.ProviderKey, cmd.DisplayName, cmd.Details)}
}

// DecideRemoveFollower decides whether a follower is removed.
//
// Business Rules:
//
//	GIVEN: The current follower of the site or nil
//	WHEN: RemoveFollower command is received
//	THEN: FollowerRemoved event is generated
//	IDEMPOTENCY: If the site has no such follower, no event is generated
func DecideRemoveFollower(current *core.Follower, cmd *core.RemoveFollower, base messages.BaseEvent) []messages.Event {
	if current == nil {
		return nil
	}

	return []messages.Event{core.BuildFollowerRemoved(base, cmd.FollowerID)}
}
