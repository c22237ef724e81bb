package linux

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/D0ntPanic/btleplug"
)

const devPath = dbus.ObjectPath("/org/bluez/hci0/dev_AA_BB_CC_DD_EE_01")

func TestAddrFromPath(t *testing.T) {
	assert.Equal(t, "AA:BB:CC:DD:EE:01", addrFromPath(devPath))
	assert.Equal(t, "", addrFromPath("/org/bluez/hci0"))
	assert.Equal(t, "", addrFromPath(""))
}

func TestDeviceInfoDecode(t *testing.T) {
	props := map[string]dbus.Variant{
		"Address":   dbus.MakeVariant("AA:BB:CC:DD:EE:01"),
		"Name":      dbus.MakeVariant("thermometer"),
		"RSSI":      dbus.MakeVariant(int16(-62)),
		"TxPower":   dbus.MakeVariant(int16(4)),
		"Connected": dbus.MakeVariant(true),
		"Paired":    dbus.MakeVariant(false),
		"UUIDs":     dbus.MakeVariant([]string{"0000180f-0000-1000-8000-00805f9b34fb", "bogus"}),
		"ManufacturerData": dbus.MakeVariant(map[uint16]dbus.Variant{
			0x004c: dbus.MakeVariant([]byte{0x02, 0x15}),
		}),
		"ServiceData": dbus.MakeVariant(map[string]dbus.Variant{
			"0000180f-0000-1000-8000-00805f9b34fb": dbus.MakeVariant([]byte{0x64}),
		}),
	}

	info := deviceInfo(devPath, props)
	assert.Equal(t, btleplug.DeviceID(devPath), info.ID)
	assert.Equal(t, "AA:BB:CC:DD:EE:01", info.Address)
	assert.Equal(t, "thermometer", info.Name)
	assert.Equal(t, int16(-62), info.RSSI)
	assert.Equal(t, int16(4), info.TxPower)
	assert.True(t, info.Connected)
	assert.False(t, info.Paired)
	require.Len(t, info.ServiceUUIDs, 1, "undecodable UUIDs are skipped")
	assert.True(t, info.ServiceUUIDs[0].Equal(btleplug.MustParseUUID("0000180f-0000-1000-8000-00805f9b34fb")))
	assert.Equal(t, []byte{0x02, 0x15}, info.ManufacturerData[0x004c])
	assert.Equal(t, []byte{0x64}, info.ServiceData["0000180f-0000-1000-8000-00805f9b34fb"])
}

func TestDeviceInfoAddressFromPath(t *testing.T) {
	info := deviceInfo(devPath, map[string]dbus.Variant{})
	assert.Equal(t, "AA:BB:CC:DD:EE:01", info.Address)
}

func TestDeviceInfoAliasFallback(t *testing.T) {
	info := deviceInfo(devPath, map[string]dbus.Variant{
		"Alias": dbus.MakeVariant("aliased"),
	})
	assert.Equal(t, "aliased", info.Name)
}

func TestAdapterInfoDecode(t *testing.T) {
	info := adapterInfo("/org/bluez/hci0", map[string]dbus.Variant{
		"Address":     dbus.MakeVariant("00:11:22:33:44:55"),
		"Name":        dbus.MakeVariant("hostname"),
		"Powered":     dbus.MakeVariant(true),
		"Discovering": dbus.MakeVariant(false),
	})
	assert.Equal(t, btleplug.AdapterID("/org/bluez/hci0"), info.ID)
	assert.Equal(t, "00:11:22:33:44:55", info.Address)
	assert.Equal(t, "hostname", info.Name)
	assert.True(t, info.Powered)
	assert.False(t, info.Discovering)
}

func TestRawEventsInterfacesAdded(t *testing.T) {
	sig := &dbus.Signal{
		Name: omIface + ".InterfacesAdded",
		Path: "/",
		Body: []interface{}{
			devPath,
			map[string]map[string]dbus.Variant{
				deviceIface: {"Address": dbus.MakeVariant("AA:BB:CC:DD:EE:01")},
			},
		},
	}
	events := rawEvents(sig)
	require.Len(t, events, 1)
	assert.Equal(t, btleplug.DeviceDiscoveredEvent{ID: btleplug.DeviceID(devPath)}, events[0])

	// Adapters showing up are not device discoveries.
	sig.Body[1] = map[string]map[string]dbus.Variant{adapterIface: {}}
	assert.Empty(t, rawEvents(sig))
}

func TestRawEventsInterfacesRemoved(t *testing.T) {
	sig := &dbus.Signal{
		Name: omIface + ".InterfacesRemoved",
		Path: "/",
		Body: []interface{}{devPath, []string{deviceIface}},
	}
	events := rawEvents(sig)
	require.Len(t, events, 1)
	assert.Equal(t, btleplug.DeviceRemovedEvent{ID: btleplug.DeviceID(devPath)}, events[0])
}

func TestRawEventsDeviceProperties(t *testing.T) {
	sig := &dbus.Signal{
		Name: propsIface + ".PropertiesChanged",
		Path: devPath,
		Body: []interface{}{
			deviceIface,
			map[string]dbus.Variant{"Connected": dbus.MakeVariant(true)},
			[]string{},
		},
	}
	events := rawEvents(sig)
	require.Len(t, events, 1)
	assert.Equal(t, btleplug.DeviceConnectedEvent{ID: btleplug.DeviceID(devPath), Connected: true}, events[0])

	sig.Body[1] = map[string]dbus.Variant{"RSSI": dbus.MakeVariant(int16(-71))}
	events = rawEvents(sig)
	require.Len(t, events, 1)
	assert.Equal(t, btleplug.DeviceRSSIEvent{ID: btleplug.DeviceID(devPath), RSSI: -71}, events[0])

	sig.Body[1] = map[string]dbus.Variant{
		"ManufacturerData": dbus.MakeVariant(map[uint16]dbus.Variant{
			0x0059: dbus.MakeVariant([]byte{0x01}),
		}),
	}
	events = rawEvents(sig)
	require.Len(t, events, 1)
	md, ok := events[0].(btleplug.DeviceManufacturerDataEvent)
	require.True(t, ok)
	assert.Equal(t, map[uint16][]byte{0x0059: {0x01}}, md.Data)

	// Properties this layer doesn't track yield nothing.
	sig.Body[1] = map[string]dbus.Variant{"ServicesResolved": dbus.MakeVariant(true)}
	assert.Empty(t, rawEvents(sig))
}

func TestRawEventsAdapterProperties(t *testing.T) {
	sig := &dbus.Signal{
		Name: propsIface + ".PropertiesChanged",
		Path: "/org/bluez/hci0",
		Body: []interface{}{
			adapterIface,
			map[string]dbus.Variant{"Discovering": dbus.MakeVariant(true)},
			[]string{},
		},
	}
	events := rawEvents(sig)
	require.Len(t, events, 1)
	assert.Equal(t, btleplug.AdapterDiscoveringEvent{Adapter: "/org/bluez/hci0", Discovering: true}, events[0])
}

func TestRawEventsMalformed(t *testing.T) {
	assert.Empty(t, rawEvents(&dbus.Signal{Name: "org.freedesktop.DBus.NameOwnerChanged"}))
	assert.Empty(t, rawEvents(&dbus.Signal{Name: omIface + ".InterfacesAdded", Body: []interface{}{devPath}}))
	assert.Empty(t, rawEvents(&dbus.Signal{
		Name: propsIface + ".PropertiesChanged",
		Body: []interface{}{42, "nope"},
	}))
}
