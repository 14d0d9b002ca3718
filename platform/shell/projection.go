package shell

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/content-eventbus-go/messagebus"
)

// ErrMappingColumnFailed is returned when a read model column cannot be encoded or decoded.
var ErrMappingColumnFailed = errors.New("mapping read model column failed")

// Feature is a vertical slice of the platform: its projection, query answers, and command handlers.
type Feature interface {
	Listeners() []messagebus.Listener
}

// SchemaOwner is implemented by features that keep read model tables.
type SchemaOwner interface {
	CreateSchema(ctx context.Context) error
}

// EncodeJSONColumn serializes v for a JSON read model column.
func EncodeJSONColumn(v any) (string, error) {
	encoded, err := json.MarshalToString(v)
	if err != nil {
		return "", errors.Join(ErrMappingColumnFailed, err)
	}

	return encoded, nil
}

// DecodeJSONColumn deserializes a JSON read model column into v. Empty and null columns leave v unchanged.
func DecodeJSONColumn(raw []byte, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Join(ErrMappingColumnFailed, err)
	}

	return nil
}
