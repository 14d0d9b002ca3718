package eventstore

import (
	"errors"
)

var (
	ErrDuplicateEvent = errors.New("an event with this id was already appended")
	ErrPersistence    = errors.New("event store persistence failed")

	ErrEmptyTablePrefixSupplied = errors.New("empty table prefix supplied")
	ErrNilDatabaseConnection    = errors.New("database connection must not be nil")
	ErrUnknownFamily            = errors.New("unknown event stream family")
	ErrBuildingQueryFailed      = errors.New("building query failed")
	ErrScanningDBRowFailed      = errors.New("scanning db row failed")
	ErrBuildingStorableFailed   = errors.New("building storable event from db row failed")
)

// SequenceNumber is the store-assigned position of an event in its family table.
type SequenceNumber = uint64

// Receipt confirms a successful Append.
type Receipt struct {
	Family         string
	EventID        string
	SequenceNumber SequenceNumber
}
