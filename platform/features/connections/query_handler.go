package connections

import (
	"context"

	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
)

// QueryHandler answers the connection queries from the read model.
type QueryHandler struct {
	projection *Projection
}

// ConnectionByID answers core.ConnectionByID.
func (h QueryHandler) ConnectionByID(ctx context.Context, q *core.ConnectionByID) error {
	connection, err := h.projection.connectionByID(ctx, q.ConnectionID)
	if err != nil {
		return err
	}

	q.SetResults(connection)

	return nil
}

// ConnectionsForUser answers core.ConnectionsForUser.
func (h QueryHandler) ConnectionsForUser(ctx context.Context, q *core.ConnectionsForUser) error {
	connections, err := h.projection.connectionsForUser(ctx, q.UserID)
	if err != nil {
		return err
	}

	q.SetResults(connections)

	return nil
}

// ConnectionBelongsToUser answers core.ConnectionBelongsToUser. Unknown connections belong to nobody.
func (h QueryHandler) ConnectionBelongsToUser(ctx context.Context, q *core.ConnectionBelongsToUser) error {
	connection, err := h.projection.connectionByID(ctx, q.ConnectionID)
	if err != nil {
		return err
	}

	q.SetResults(connection != nil && connection.UserID == q.UserID)

	return nil
}
