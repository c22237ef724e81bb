package btleplug

// CentralEvent is a high-level event observed by an Adapter. Each variant
// is self-contained and keyed by address; it carries no reference to the
// originating session notification.
type CentralEvent interface {
	centralEvent()
}

// DeviceDiscovered reports a newly discovered device.
type DeviceDiscovered struct {
	Address Addr
}

// DeviceConnected reports that a device connected.
type DeviceConnected struct {
	Address Addr
}

// DeviceDisconnected reports that a device disconnected.
type DeviceDisconnected struct {
	Address Addr
}

// DeviceUpdated reports that a known device's advertised state changed.
type DeviceUpdated struct {
	Address Addr
}

// ManufacturerDataAdvertisement reports a manufacturer-data advertisement.
type ManufacturerDataAdvertisement struct {
	Address        Addr
	ManufacturerID uint16
	Data           []byte
}

func (DeviceDiscovered) centralEvent()              {}
func (DeviceConnected) centralEvent()               {}
func (DeviceDisconnected) centralEvent()            {}
func (DeviceUpdated) centralEvent()                 {}
func (ManufacturerDataAdvertisement) centralEvent() {}
