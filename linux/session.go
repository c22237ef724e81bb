// Package linux implements the session capability over the BlueZ daemon,
// reached through the D-Bus system bus.
package linux

import (
	"context"

	"github.com/godbus/dbus/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/D0ntPanic/btleplug"
)

const (
	bluezBus     = "org.bluez"
	adapterIface = "org.bluez.Adapter1"
	deviceIface  = "org.bluez.Device1"

	omIface    = "org.freedesktop.DBus.ObjectManager"
	propsIface = "org.freedesktop.DBus.Properties"

	errInProgress = "org.bluez.Error.InProgress"
)

// Session talks to the BlueZ daemon over one shared system-bus connection.
// It is safe for concurrent use; Adapters and event subscriptions share it
// without duplicating the connection.
type Session struct {
	conn *dbus.Conn
}

var (
	_ btleplug.Session          = (*Session)(nil)
	_ btleplug.SessionConnector = (*Session)(nil)
)

// NewSession connects to the system bus.
func NewSession() (*Session, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, errors.Wrap(err, "can't connect to system bus")
	}
	return &Session{conn: conn}, nil
}

// Close closes the bus connection. Live event subscriptions end with it.
func (s *Session) Close() error {
	return s.conn.Close()
}

// AdapterInfo describes one local radio known to the daemon.
type AdapterInfo struct {
	ID          btleplug.AdapterID
	Address     string
	Name        string
	Powered     bool
	Discovering bool
}

// Adapters enumerates the daemon's adapters.
func (s *Session) Adapters(ctx context.Context) ([]AdapterInfo, error) {
	objs, err := s.managedObjects(ctx)
	if err != nil {
		return nil, err
	}
	var out []AdapterInfo
	for path, ifaces := range objs {
		props, ok := ifaces[adapterIface]
		if !ok {
			continue
		}
		out = append(out, adapterInfo(path, props))
	}
	return out, nil
}

// Devices returns a snapshot of all devices known to the daemon.
func (s *Session) Devices(ctx context.Context) ([]btleplug.DeviceInfo, error) {
	objs, err := s.managedObjects(ctx)
	if err != nil {
		return nil, err
	}
	var out []btleplug.DeviceInfo
	for path, ifaces := range objs {
		props, ok := ifaces[deviceIface]
		if !ok {
			continue
		}
		out = append(out, deviceInfo(path, props))
	}
	return out, nil
}

// Device fetches the current properties of a single device.
func (s *Session) Device(ctx context.Context, id btleplug.DeviceID) (btleplug.DeviceInfo, error) {
	var props map[string]dbus.Variant
	obj := s.conn.Object(bluezBus, dbus.ObjectPath(id))
	if err := obj.CallWithContext(ctx, propsIface+".GetAll", 0, deviceIface).Store(&props); err != nil {
		return btleplug.DeviceInfo{}, errors.Wrapf(err, "can't get device %s", id)
	}
	return deviceInfo(dbus.ObjectPath(id), props), nil
}

// StartDiscovery starts LE discovery on every powered adapter.
func (s *Session) StartDiscovery(ctx context.Context) error {
	return s.discovery(ctx, adapterIface+".StartDiscovery", true)
}

// StopDiscovery stops discovery on every powered adapter.
func (s *Session) StopDiscovery(ctx context.Context) error {
	return s.discovery(ctx, adapterIface+".StopDiscovery", false)
}

func (s *Session) discovery(ctx context.Context, method string, start bool) error {
	objs, err := s.managedObjects(ctx)
	if err != nil {
		return err
	}
	found := false
	for path, ifaces := range objs {
		props, ok := ifaces[adapterIface]
		if !ok {
			continue
		}
		if v, ok := props["Powered"]; ok {
			if powered, _ := v.Value().(bool); !powered {
				continue
			}
		}
		found = true
		obj := s.conn.Object(bluezBus, path)
		if start {
			filter := map[string]dbus.Variant{
				"Transport":     dbus.MakeVariant("le"),
				"DuplicateData": dbus.MakeVariant(true),
			}
			if err := obj.CallWithContext(ctx, adapterIface+".SetDiscoveryFilter", 0, filter).Err; err != nil {
				log.WithField("adapter", path).WithError(err).Debug("can't set discovery filter")
			}
		}
		if err := obj.CallWithContext(ctx, method, 0).Err; err != nil {
			// The daemon reports InProgress when another client already
			// drives discovery; the radio is scanning either way.
			if derr, ok := err.(dbus.Error); ok && derr.Name == errInProgress {
				continue
			}
			return errors.Wrapf(err, "%s failed on %s", method, path)
		}
	}
	if !found {
		return errors.New("no powered adapter")
	}
	return nil
}

// Connect establishes a connection to the device.
func (s *Session) Connect(ctx context.Context, id btleplug.DeviceID) error {
	obj := s.conn.Object(bluezBus, dbus.ObjectPath(id))
	return obj.CallWithContext(ctx, deviceIface+".Connect", 0).Err
}

// Disconnect tears down the connection to the device.
func (s *Session) Disconnect(ctx context.Context, id btleplug.DeviceID) error {
	obj := s.conn.Object(bluezBus, dbus.ObjectPath(id))
	return obj.CallWithContext(ctx, deviceIface+".Disconnect", 0).Err
}

// Events subscribes to the daemon's signal stream. Each call registers an
// independent signal channel; cancelling ctx tears it down and closes the
// returned channel.
func (s *Session) Events(ctx context.Context) (<-chan btleplug.Event, error) {
	matches := [][]dbus.MatchOption{
		{dbus.WithMatchSender(bluezBus), dbus.WithMatchInterface(omIface), dbus.WithMatchMember("InterfacesAdded")},
		{dbus.WithMatchSender(bluezBus), dbus.WithMatchInterface(omIface), dbus.WithMatchMember("InterfacesRemoved")},
		{dbus.WithMatchSender(bluezBus), dbus.WithMatchInterface(propsIface), dbus.WithMatchMember("PropertiesChanged")},
	}
	for i, m := range matches {
		if err := s.conn.AddMatchSignalContext(ctx, m...); err != nil {
			for _, added := range matches[:i] {
				_ = s.conn.RemoveMatchSignal(added...)
			}
			return nil, errors.Wrap(err, "can't add signal match")
		}
	}

	sig := make(chan *dbus.Signal, 64)
	s.conn.Signal(sig)

	out := make(chan btleplug.Event)
	go func() {
		defer close(out)
		defer func() {
			s.conn.RemoveSignal(sig)
			for _, m := range matches {
				_ = s.conn.RemoveMatchSignal(m...)
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case sg, ok := <-sig:
				if !ok {
					return
				}
				for _, e := range rawEvents(sg) {
					select {
					case out <- e:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()
	return out, nil
}

func (s *Session) managedObjects(ctx context.Context) (map[dbus.ObjectPath]map[string]map[string]dbus.Variant, error) {
	var objs map[dbus.ObjectPath]map[string]map[string]dbus.Variant
	obj := s.conn.Object(bluezBus, "/")
	if err := obj.CallWithContext(ctx, omIface+".GetManagedObjects", 0).Store(&objs); err != nil {
		return nil, errors.Wrap(err, "can't get managed objects")
	}
	return objs, nil
}

// rawEvents converts one D-Bus signal into zero or more session events.
func rawEvents(sig *dbus.Signal) []btleplug.Event {
	switch sig.Name {
	case omIface + ".InterfacesAdded":
		if len(sig.Body) < 2 {
			return nil
		}
		path, ok := sig.Body[0].(dbus.ObjectPath)
		if !ok {
			return nil
		}
		ifaces, ok := sig.Body[1].(map[string]map[string]dbus.Variant)
		if !ok {
			return nil
		}
		if _, ok := ifaces[deviceIface]; ok {
			return []btleplug.Event{btleplug.DeviceDiscoveredEvent{ID: btleplug.DeviceID(path)}}
		}
		return nil

	case omIface + ".InterfacesRemoved":
		if len(sig.Body) < 2 {
			return nil
		}
		path, ok := sig.Body[0].(dbus.ObjectPath)
		if !ok {
			return nil
		}
		ifaces, ok := sig.Body[1].([]string)
		if !ok {
			return nil
		}
		for _, iface := range ifaces {
			if iface == deviceIface {
				return []btleplug.Event{btleplug.DeviceRemovedEvent{ID: btleplug.DeviceID(path)}}
			}
		}
		return nil

	case propsIface + ".PropertiesChanged":
		if len(sig.Body) < 2 {
			return nil
		}
		iface, ok := sig.Body[0].(string)
		if !ok {
			return nil
		}
		changed, ok := sig.Body[1].(map[string]dbus.Variant)
		if !ok {
			return nil
		}
		switch iface {
		case deviceIface:
			return deviceEvents(btleplug.DeviceID(sig.Path), changed)
		case adapterIface:
			return adapterEvents(btleplug.AdapterID(sig.Path), changed)
		}
		return nil
	}
	return nil
}

func deviceEvents(id btleplug.DeviceID, changed map[string]dbus.Variant) []btleplug.Event {
	var out []btleplug.Event
	for name, v := range changed {
		switch name {
		case "Connected":
			if connected, ok := v.Value().(bool); ok {
				out = append(out, btleplug.DeviceConnectedEvent{ID: id, Connected: connected})
			}
		case "RSSI":
			if rssi, ok := v.Value().(int16); ok {
				out = append(out, btleplug.DeviceRSSIEvent{ID: id, RSSI: rssi})
			}
		case "ManufacturerData":
			out = append(out, btleplug.DeviceManufacturerDataEvent{ID: id, Data: manufacturerData(v)})
		case "ServiceData":
			out = append(out, btleplug.DeviceServiceDataEvent{ID: id, Data: serviceData(v)})
		}
	}
	return out
}

func adapterEvents(id btleplug.AdapterID, changed map[string]dbus.Variant) []btleplug.Event {
	var out []btleplug.Event
	for name, v := range changed {
		switch name {
		case "Powered":
			if powered, ok := v.Value().(bool); ok {
				out = append(out, btleplug.AdapterPoweredEvent{Adapter: id, Powered: powered})
			}
		case "Discovering":
			if discovering, ok := v.Value().(bool); ok {
				out = append(out, btleplug.AdapterDiscoveringEvent{Adapter: id, Discovering: discovering})
			}
		}
	}
	return out
}
