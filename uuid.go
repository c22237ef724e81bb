package btleplug

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// A UUID is a BLE UUID.
type UUID []byte

// UUID16 converts a uint16 (such as 0x180f) to a UUID.
func UUID16(i uint16) UUID {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, i)
	return UUID(b)
}

// ParseUUID parses a standard-format UUID string, such
// as "180f" or "0000180f-0000-1000-8000-00805f9b34fb".
func ParseUUID(s string) (UUID, error) {
	b, err := hex.DecodeString(strings.Replace(s, "-", "", -1))
	if err != nil {
		return nil, err
	}
	switch len(b) {
	case 2, 16:
	default:
		return nil, errors.Errorf("UUIDs must have length 2 or 16, got %d", len(b))
	}
	return UUID(uuidReverse(b)), nil
}

// MustParseUUID parses a standard-format UUID string,
// like ParseUUID, but panics in case of error.
func MustParseUUID(s string) UUID {
	u, err := ParseUUID(s)
	if err != nil {
		panic(err)
	}
	return u
}

// Len returns the length of the UUID, in bytes.
// BLE UUIDs are either 2 or 16 bytes.
func (u UUID) Len() int {
	return len(u)
}

// String hex-encodes a UUID.
func (u UUID) String() string {
	return hex.EncodeToString(uuidReverse(u))
}

// Equal returns a boolean reporting whether v represent the same UUID as u.
func (u UUID) Equal(v UUID) bool {
	return bytes.Equal(u, v)
}

// uuidReverse returns a reversed copy of u.
func uuidReverse(u []byte) []byte {
	// Special-case 16 bit UUIDS for speed.
	l := len(u)
	if l == 2 {
		return []byte{u[1], u[0]}
	}
	b := make([]byte, l)
	for i := 0; i < l/2+1; i++ {
		b[i], b[l-i-1] = u[l-i-1], u[i]
	}
	return b
}
