package linux

import (
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/D0ntPanic/btleplug"
)

// deviceInfo decodes org.bluez.Device1 properties into a session snapshot.
func deviceInfo(path dbus.ObjectPath, props map[string]dbus.Variant) btleplug.DeviceInfo {
	info := btleplug.DeviceInfo{ID: btleplug.DeviceID(path)}
	if v, ok := props["Address"]; ok {
		info.Address, _ = v.Value().(string)
	}
	if info.Address == "" {
		info.Address = addrFromPath(path)
	}
	if v, ok := props["Name"]; ok {
		info.Name, _ = v.Value().(string)
	}
	if info.Name == "" {
		if v, ok := props["Alias"]; ok {
			info.Name, _ = v.Value().(string)
		}
	}
	if v, ok := props["RSSI"]; ok {
		info.RSSI, _ = v.Value().(int16)
	}
	if v, ok := props["TxPower"]; ok {
		info.TxPower, _ = v.Value().(int16)
	}
	if v, ok := props["Connected"]; ok {
		info.Connected, _ = v.Value().(bool)
	}
	if v, ok := props["Paired"]; ok {
		info.Paired, _ = v.Value().(bool)
	}
	if v, ok := props["UUIDs"]; ok {
		if ss, ok := v.Value().([]string); ok {
			for _, s := range ss {
				u, err := btleplug.ParseUUID(s)
				if err != nil {
					continue
				}
				info.ServiceUUIDs = append(info.ServiceUUIDs, u)
			}
		}
	}
	if v, ok := props["ManufacturerData"]; ok {
		info.ManufacturerData = manufacturerData(v)
	}
	if v, ok := props["ServiceData"]; ok {
		info.ServiceData = serviceData(v)
	}
	return info
}

func adapterInfo(path dbus.ObjectPath, props map[string]dbus.Variant) AdapterInfo {
	info := AdapterInfo{ID: btleplug.AdapterID(path)}
	if v, ok := props["Address"]; ok {
		info.Address, _ = v.Value().(string)
	}
	if v, ok := props["Name"]; ok {
		info.Name, _ = v.Value().(string)
	}
	if v, ok := props["Powered"]; ok {
		info.Powered, _ = v.Value().(bool)
	}
	if v, ok := props["Discovering"]; ok {
		info.Discovering, _ = v.Value().(bool)
	}
	return info
}

func manufacturerData(v dbus.Variant) map[uint16][]byte {
	md, ok := v.Value().(map[uint16]dbus.Variant)
	if !ok {
		return nil
	}
	out := make(map[uint16][]byte, len(md))
	for id, dv := range md {
		if b, ok := dv.Value().([]byte); ok {
			out[id] = b
		}
	}
	return out
}

func serviceData(v dbus.Variant) map[string][]byte {
	sd, ok := v.Value().(map[string]dbus.Variant)
	if !ok {
		return nil
	}
	out := make(map[string][]byte, len(sd))
	for uuid, dv := range sd {
		if b, ok := dv.Value().([]byte); ok {
			out[uuid] = b
		}
	}
	return out
}

// addrFromPath recovers the MAC from a BlueZ device path suffix,
// e.g. /org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF.
func addrFromPath(path dbus.ObjectPath) string {
	s := string(path)
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	if !strings.HasPrefix(s, "dev_") {
		return ""
	}
	return strings.ReplaceAll(s[len("dev_"):], "_", ":")
}
