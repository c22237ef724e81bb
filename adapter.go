package btleplug

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Adapter exposes one local radio as a Central. It is a capability handle,
// not a state container: it holds a shared Session reference plus the
// adapter id, and several Adapters may share one Session.
type Adapter struct {
	session Session
	id      AdapterID
}

// NewAdapter wraps a session handle and an adapter id.
func NewAdapter(s Session, id AdapterID) *Adapter {
	return &Adapter{session: s, id: id}
}

// ID returns the session-local adapter identifier.
func (a *Adapter) ID() AdapterID { return a.id }

// Events subscribes to the session's raw stream and returns the translated
// stream. Translation is order-preserving with one device lookup in flight
// at a time; notifications that don't map onto a CentralEvent are dropped.
// Cancelling ctx releases the subscription and closes the channel.
func (a *Adapter) Events(ctx context.Context) (<-chan CentralEvent, error) {
	raw, err := a.session.Events(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "can't subscribe to session events")
	}
	out := make(chan CentralEvent)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-raw:
				if !ok {
					return
				}
				ce, ok := translate(ctx, a.session, e)
				if !ok {
					continue
				}
				select {
				case out <- ce:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// StartScan requests the session to begin active discovery.
func (a *Adapter) StartScan(ctx context.Context) error {
	return errors.Wrap(a.session.StartDiscovery(ctx), "can't start discovery")
}

// StopScan requests the session to cease active discovery.
func (a *Adapter) StopScan(ctx context.Context) error {
	return errors.Wrap(a.session.StopDiscovery(ctx), "can't stop discovery")
}

// Peripherals returns a snapshot of all devices currently known to the
// session, each wrapped with the shared session handle.
func (a *Adapter) Peripherals(ctx context.Context) ([]*Peripheral, error) {
	infos, err := a.session.Devices(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "can't list devices")
	}
	ps := make([]*Peripheral, 0, len(infos))
	for _, info := range infos {
		ps = append(ps, newPeripheral(a.session, info))
	}
	return ps, nil
}

// Peripheral returns the first known device whose address equals addr.
// If the registry holds two entries with the same address, scan order
// decides; that order is arbitrary upstream.
func (a *Adapter) Peripheral(ctx context.Context, addr Addr) (*Peripheral, error) {
	infos, err := a.session.Devices(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "can't list devices")
	}
	for _, info := range infos {
		da, err := ParseAddr(info.Address)
		if err != nil {
			continue
		}
		if da == addr {
			return newPeripheral(a.session, info), nil
		}
	}
	return nil, ErrDeviceNotFound
}

// translate maps one raw notification to at most one CentralEvent,
// resolving the device's address through a session lookup. A failed lookup
// drops the notification: the device vanished between signal and lookup,
// and a live stream must not stall or error for that.
func translate(ctx context.Context, s Session, e Event) (CentralEvent, bool) {
	switch e := e.(type) {
	case DeviceDiscoveredEvent:
		addr, ok := lookupAddr(ctx, s, e.ID)
		if !ok {
			return nil, false
		}
		return DeviceDiscovered{Address: addr}, true

	case DeviceConnectedEvent:
		addr, ok := lookupAddr(ctx, s, e.ID)
		if !ok {
			return nil, false
		}
		if e.Connected {
			return DeviceConnected{Address: addr}, true
		}
		return DeviceDisconnected{Address: addr}, true

	case DeviceRSSIEvent:
		addr, ok := lookupAddr(ctx, s, e.ID)
		if !ok {
			return nil, false
		}
		return DeviceUpdated{Address: addr}, true

	case DeviceManufacturerDataEvent:
		if len(e.Data) == 0 {
			return nil, false
		}
		addr, ok := lookupAddr(ctx, s, e.ID)
		if !ok {
			return nil, false
		}
		if len(e.Data) > 1 {
			log.Warn("got more than one manufacturer data entry")
		}
		for id, data := range e.Data {
			return ManufacturerDataAdvertisement{
				Address:        addr,
				ManufacturerID: id,
				Data:           data,
			}, true
		}
		return nil, false

	default:
		return nil, false
	}
}

func lookupAddr(ctx context.Context, s Session, id DeviceID) (Addr, bool) {
	info, err := s.Device(ctx, id)
	if err != nil {
		return Addr{}, false
	}
	addr, err := ParseAddr(info.Address)
	if err != nil {
		return Addr{}, false
	}
	return addr, true
}
