// Package btleplug exposes a platform-neutral view of a BLE central:
// discover adapters, scan, enumerate nearby devices, and observe a unified
// stream of address-keyed events, on top of a platform session capability
// such as the BlueZ daemon.
package btleplug

import "context"

// Central is the host-side view of one local BLE radio.
type Central interface {
	// Events returns a live stream of translated events. The channel never
	// closes on its own; it is released by cancelling ctx. Each call is an
	// independent subscription.
	Events(ctx context.Context) (<-chan CentralEvent, error)

	// StartScan requests the session to begin active discovery.
	StartScan(ctx context.Context) error

	// StopScan requests the session to cease active discovery.
	StopScan(ctx context.Context) error

	// Peripherals returns a snapshot of all devices currently known to
	// the session, in no particular order.
	Peripherals(ctx context.Context) ([]*Peripheral, error)

	// Peripheral returns the first known device whose address equals a,
	// or ErrDeviceNotFound.
	Peripheral(ctx context.Context, a Addr) (*Peripheral, error)
}
