package btleplug

import "github.com/pkg/errors"

// ErrDeviceNotFound is returned when no known device matches the requested
// address. It is an expected outcome, not a session failure.
var ErrDeviceNotFound = errors.New("device not found")
