package btleplug

import "context"

// DeviceID is the session-local identifier of a device, such as a BlueZ
// object path. It is only meaningful to the session that issued it and is
// never exposed through the Central surface.
type DeviceID string

// AdapterID is the session-local identifier of a local radio.
type AdapterID string

// DeviceInfo is a snapshot of one device as currently known to the session.
type DeviceInfo struct {
	ID               DeviceID
	Address          string // native encoding, convertible with ParseAddr
	Name             string
	RSSI             int16
	TxPower          int16
	Connected        bool
	Paired           bool
	ServiceUUIDs     []UUID
	ManufacturerData map[uint16][]byte
	ServiceData      map[string][]byte
}

// Session is the platform capability this layer translates on top of:
// a live view of the OS Bluetooth daemon. Implementations must be safe
// for concurrent use; the handle is shared by Adapters and subscriptions
// without duplicating the underlying connection.
type Session interface {
	// Devices returns a snapshot of all devices known to the session.
	Devices(ctx context.Context) ([]DeviceInfo, error)

	// Device returns the current info of a single device.
	// It fails if the session no longer knows the id.
	Device(ctx context.Context, id DeviceID) (DeviceInfo, error)

	// StartDiscovery asks the daemon to begin active scanning.
	StartDiscovery(ctx context.Context) error

	// StopDiscovery asks the daemon to cease active scanning.
	StopDiscovery(ctx context.Context) error

	// Events subscribes to the session's raw notification stream.
	// The channel is closed when ctx is cancelled or the session ends.
	Events(ctx context.Context) (<-chan Event, error)
}

// SessionConnector is implemented by sessions that can initiate and tear
// down connections to devices.
type SessionConnector interface {
	Connect(ctx context.Context, id DeviceID) error
	Disconnect(ctx context.Context, id DeviceID) error
}

// Event is a low-level session notification. Events reference devices by
// their session-local id; recovering the address takes a Device lookup.
type Event interface {
	sessionEvent()
}

// DeviceDiscoveredEvent reports a device newly seen by the daemon.
type DeviceDiscoveredEvent struct {
	ID DeviceID
}

// DeviceConnectedEvent reports a change of a device's connection state.
type DeviceConnectedEvent struct {
	ID        DeviceID
	Connected bool
}

// DeviceRSSIEvent reports a change of a device's signal strength.
type DeviceRSSIEvent struct {
	ID   DeviceID
	RSSI int16
}

// DeviceManufacturerDataEvent reports a change of a device's advertised
// manufacturer data.
type DeviceManufacturerDataEvent struct {
	ID   DeviceID
	Data map[uint16][]byte
}

// DeviceServiceDataEvent reports a change of a device's advertised
// service data.
type DeviceServiceDataEvent struct {
	ID   DeviceID
	Data map[string][]byte
}

// DeviceRemovedEvent reports that the daemon dropped a device.
type DeviceRemovedEvent struct {
	ID DeviceID
}

// AdapterPoweredEvent reports a change of an adapter's power state.
type AdapterPoweredEvent struct {
	Adapter AdapterID
	Powered bool
}

// AdapterDiscoveringEvent reports a change of an adapter's discovery state.
type AdapterDiscoveringEvent struct {
	Adapter     AdapterID
	Discovering bool
}

func (DeviceDiscoveredEvent) sessionEvent()       {}
func (DeviceConnectedEvent) sessionEvent()        {}
func (DeviceRSSIEvent) sessionEvent()             {}
func (DeviceManufacturerDataEvent) sessionEvent() {}
func (DeviceServiceDataEvent) sessionEvent()      {}
func (DeviceRemovedEvent) sessionEvent()          {}
func (AdapterPoweredEvent) sessionEvent()         {}
func (AdapterDiscoveringEvent) sessionEvent()     {}
