package btleplug

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Addr is the 48-bit hardware address of a device or adapter.
// It is comparable; equality on the raw bytes is the only correlation
// key used across the translation boundary.
type Addr [6]byte

// ParseAddr parses an address string, such as "AA:BB:CC:DD:EE:01".
// Dash-separated and lower-case forms are accepted.
func ParseAddr(s string) (Addr, error) {
	var a Addr
	parts := strings.Split(strings.ReplaceAll(s, "-", ":"), ":")
	if len(parts) != 6 {
		return a, errors.Errorf("invalid address %q", s)
	}
	for i, p := range parts {
		b, err := hex.DecodeString(p)
		if err != nil || len(b) != 1 {
			return a, errors.Errorf("invalid address %q", s)
		}
		a[i] = b[0]
	}
	return a, nil
}

// MustParseAddr parses an address string, like ParseAddr,
// but panics in case of error.
func MustParseAddr(s string) Addr {
	a, err := ParseAddr(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String renders the address in canonical colon-separated form.
func (a Addr) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", a[0], a[1], a[2], a[3], a[4], a[5])
}
