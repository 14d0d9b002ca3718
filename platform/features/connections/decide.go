package connections

import (
	"maps"

	"github.com/AntonStoeckl/content-eventbus-go/messages"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

// DecideEstablishConnection decides whether a connection is established or updated.
//
// Business Rules:
//
//	GIVEN: The current connection for the command's provider account, or nil
//	WHEN: EstablishConnection command is received
//	THEN: ConnectionEstablished event is generated
//	ERROR: core.ErrNotAuthorized if the provider account is connected by another user
//	IDEMPOTENCY: If the connection exists with the same name and details, no event is generated
func DecideEstablishConnection(current *core.Connection, cmd *core.EstablishConnection, base messages.BaseEvent) ([]messages.Event, error) {
	if current != nil {
		if current.UserID != cmd.Actor {
			return nil, core.ErrNotAuthorized
		}

		if current.DisplayName == cmd.DisplayName && maps.Equal(current.Details, detailsOrEmpty(cmd.Details)) {
			return nil, nil
		}
	}

	return []messages.Event{
		core.BuildConnectionEstablished(base, cmd.Actor, cmd.Provider, cmd.ProviderKey, cmd.DisplayName, cmd.Details),
	}, nil
}

// DecideRefreshConnection decides whether new provider details are recorded.
//
// Business Rules:
//
//	GIVEN: The current connection, or nil
//	WHEN: RefreshConnection command is received
//	THEN: ConnectionRefreshed event is generated
//	ERROR: core.ErrConnectionNotFound if there is no such connection
//	ERROR: core.ErrNotAuthorized if the connection belongs to another user
//	IDEMPOTENCY: If the details did not change, no event is generated
func DecideRefreshConnection(current *core.Connection, cmd *core.RefreshConnection, base messages.BaseEvent) ([]messages.Event, error) {
	if current == nil {
		return nil, core.ErrConnectionNotFound
	}

	if current.UserID != cmd.Actor {
		return nil, core.ErrNotAuthorized
	}

	if maps.Equal(current.Details, cmd.Details) {
		return nil, nil
	}

	return []messages.Event{core.BuildConnectionRefreshed(base, cmd.Details)}, nil
}

// DecideDeleteConnection decides whether a connection is deleted.
//
// Business Rules:
//
//	GIVEN: The current connection, or nil
//	WHEN: DeleteConnection command is received
//	THEN: ConnectionDeleted event is generated
//	ERROR: core.ErrNotAuthorized if the connection belongs to another user
//	IDEMPOTENCY: If the connection does not exist (anymore), no event is generated
func DecideDeleteConnection(current *core.Connection, cmd *core.DeleteConnection, base messages.BaseEvent) ([]messages.Event, error) {
	if current == nil {
		return nil, nil
	}

	if current.UserID != cmd.Actor {
		return nil, core.ErrNotAuthorized
	}

	return []messages.Event{core.BuildConnectionDeleted(base)}, nil
}
