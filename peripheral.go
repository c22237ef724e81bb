package btleplug

import (
	"context"

	"github.com/pkg/errors"
)

// Peripheral combines the shared session handle with a snapshot of one
// device. The snapshot is as of Peripherals/Peripheral time; Refresh
// re-fetches it. GATT traffic is outside this layer.
type Peripheral struct {
	session Session
	addr    Addr
	info    DeviceInfo
}

func newPeripheral(s Session, info DeviceInfo) *Peripheral {
	addr, _ := ParseAddr(info.Address)
	return &Peripheral{session: s, addr: addr, info: info}
}

// Address returns the device's hardware address.
func (p *Peripheral) Address() Addr { return p.addr }

// Name returns the advertised or resolved device name.
func (p *Peripheral) Name() string { return p.info.Name }

// RSSI returns the last observed signal strength, in dBm.
func (p *Peripheral) RSSI() int16 { return p.info.RSSI }

// TxPower returns the advertised transmission power, in dBm.
func (p *Peripheral) TxPower() int16 { return p.info.TxPower }

// Connected reports whether the device was connected as of the snapshot.
func (p *Peripheral) Connected() bool { return p.info.Connected }

// Paired reports whether the device was paired as of the snapshot.
func (p *Peripheral) Paired() bool { return p.info.Paired }

// ServiceUUIDs returns the advertised service UUIDs.
func (p *Peripheral) ServiceUUIDs() []UUID { return p.info.ServiceUUIDs }

// ManufacturerData returns the advertised manufacturer data, keyed by
// company identifier.
func (p *Peripheral) ManufacturerData() map[uint16][]byte { return p.info.ManufacturerData }

// ServiceData returns the advertised service data, keyed by service UUID.
func (p *Peripheral) ServiceData() map[string][]byte { return p.info.ServiceData }

// Refresh replaces the snapshot with the session's current view of the
// device. It fails if the session no longer knows the device.
func (p *Peripheral) Refresh(ctx context.Context) error {
	info, err := p.session.Device(ctx, p.info.ID)
	if err != nil {
		return errors.Wrap(err, "can't refresh")
	}
	if addr, err := ParseAddr(info.Address); err == nil {
		p.addr = addr
	}
	p.info = info
	return nil
}

// Connect asks the session to establish a connection to the device.
func (p *Peripheral) Connect(ctx context.Context) error {
	c, ok := p.session.(SessionConnector)
	if !ok {
		return errors.New("session does not support connections")
	}
	return errors.Wrap(c.Connect(ctx, p.info.ID), "can't connect")
}

// Disconnect asks the session to tear down the connection to the device.
func (p *Peripheral) Disconnect(ctx context.Context) error {
	c, ok := p.session.(SessionConnector)
	if !ok {
		return errors.New("session does not support connections")
	}
	return errors.Wrap(c.Disconnect(ctx, p.info.ID), "can't disconnect")
}
