// Package identifier provides the globally unique, sortable ids used for every aggregate, message, and event.
//
// New ids are UUIDv7: the leading 48 bits carry the creation time in Unix milliseconds,
// so ids sort by creation order. Ids derived from other ids (see FromName) are deterministic
// and carry no timestamp.
package identifier

import (
	"database/sql/driver"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidIdentifier = errors.New("invalid identifier")

// ID is an immutable 128-bit identifier.
type ID uuid.UUID

// Nil is the zero ID.
var Nil = ID(uuid.Nil)

// New returns a fresh, time-ordered ID.
func New() ID {
	return ID(uuid.Must(uuid.NewV7()))
}

// FromName derives a deterministic ID from a namespace ID and a name.
// The same inputs always produce the same ID.
func FromName(namespace ID, name string) ID {
	return ID(uuid.NewSHA1(uuid.UUID(namespace), []byte(name)))
}

// Parse decodes the canonical string form.
func Parse(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Nil, errors.Join(ErrInvalidIdentifier, err)
	}

	return ID(u), nil
}

// MustParse is like Parse but panics on malformed input. Use it for constants and tests.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return id
}

func (id ID) String() string {
	return uuid.UUID(id).String()
}

func (id ID) IsZero() bool {
	return id == Nil
}

// Time returns the creation time embedded in a UUIDv7.
// The second result is false for ids of any other version.
func (id ID) Time() (time.Time, bool) {
	u := uuid.UUID(id)
	if u.Version() != 7 {
		return time.Time{}, false
	}

	var buf [8]byte
	copy(buf[2:], u[:6])
	ms := int64(binary.BigEndian.Uint64(buf[:]))

	return time.UnixMilli(ms).UTC(), true
}

// Compare orders ids bytewise, which for UUIDv7 is creation order.
func (id ID) Compare(other ID) int {
	for i := range id {
		switch {
		case id[i] < other[i]:
			return -1
		case id[i] > other[i]:
			return 1
		}
	}

	return 0
}

func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}

	*id = parsed

	return nil
}

// Value implements driver.Valuer, ids are stored in their string form.
func (id ID) Value() (driver.Value, error) {
	return id.String(), nil
}

// Scan implements sql.Scanner for string and byte columns.
func (id *ID) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return id.UnmarshalText([]byte(v))
	case []byte:
		if len(v) == 16 {
			copy(id[:], v)
			return nil
		}

		return id.UnmarshalText(v)
	case nil:
		*id = Nil
		return nil
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidIdentifier, src)
	}
}
