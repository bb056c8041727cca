package tinygo

import (
	"strings"

	"tinygo.org/x/bluetooth"
)

// IsAdapterError reports whether err means BlueZ could not be reached at all, as opposed to a
// refusal to advertise.
func IsAdapterError(err error) bool {
	msg := err.Error()
	// No system bus socket.
	if strings.Contains(msg, "dbus") && strings.HasSuffix(msg, "no such file or directory") {
		return true
	}
	// The bus is up but bluetoothd is not registered on it.
	if strings.Contains(msg, "org.bluez was not provided") {
		return true
	}
	// bluetoothd is running but the requested hciN does not exist.
	return strings.Contains(msg, "No such adapter") || strings.Contains(msg, "doesn't exist")
}

func AdapterErrorHelpMessage(err error) string {
	return "Failed to open BlueZ adapter: \n\t" + err.Error() + "\n" +
		"The bluez radio advertises through bluetoothd over the system D-Bus.\n" +
		"Start it with 'sudo systemctl start bluetooth', or check the adapter name with 'bluetoothctl list'.\n" +
		"In a container, mount the host bus: -v /var/run/dbus:/var/run/dbus\n" +
		"Without BlueZ, use -radio hci to drive the controller directly (needs CAP_NET_ADMIN)."
}

// newAdapter accepts a BlueZ adapter name such as "hci1"; empty selects the default adapter.
func newAdapter(id string) (*bluetooth.Adapter, error) {
	if id == "" {
		return bluetooth.DefaultAdapter, nil
	}
	if !strings.HasPrefix(id, "hci") {
		return nil, ErrAdapterInvalidID
	}
	return bluetooth.NewAdapter(id), nil
}
