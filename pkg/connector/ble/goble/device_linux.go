package goble

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"
	"github.com/go-ble/ble/linux/hci/cmd"
)

const hciTimeout = 5 * time.Second

// Non-connectable undirected advertising on all three channels, 100ms interval. The listener
// never connects, so ADV_NONCONN_IND keeps the controller from accepting connection requests.
var advParams = cmd.LESetAdvertisingParameters{
	AdvertisingIntervalMin:  0x00a0, // 100ms in 0.625ms units
	AdvertisingIntervalMax:  0x00a0,
	AdvertisingType:         0x03, // ADV_NONCONN_IND
	OwnAddressType:          0x00, // Public
	DirectAddressType:       0x00,
	AdvertisingChannelMap:   0x07, // 37, 38, 39
	AdvertisingFilterPolicy: 0x00,
}

func newDevice(id string) (*device, error) {
	opts := []ble.Option{
		ble.OptListenerTimeout(hciTimeout),
		ble.OptDialerTimeout(hciTimeout),
		ble.OptAdvParams(advParams),
	}
	if id != "" {
		devID, err := parseDeviceID(id)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ble.OptDeviceID(devID))
	}
	dev, err := linux.NewDevice(opts...)
	if err != nil {
		return nil, err
	}
	return &device{ctrl: dev.HCI, stop: dev.Stop}, nil
}

// parseDeviceID accepts "hci1" or "1".
func parseDeviceID(id string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(id, "hci"))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: '%s'", ErrAdapterInvalidID, id)
	}
	return n, nil
}

// IsAdapterError returns true if err means the controller could not be opened at all.
func IsAdapterError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "operation not permitted") ||
		strings.Contains(msg, "can't find") ||
		strings.Contains(msg, "no such device")
}

func AdapterErrorHelpMessage(err error) string {
	return "Failed to open HCI controller: \n\t" + err.Error() + "\n" +
		"Raw HCI access needs CAP_NET_ADMIN and CAP_NET_RAW:\n\n" +
		"\tsudo setcap 'cap_net_admin,cap_net_raw=eip' \"$(which beacon-remote)\"\n\n" +
		"Stop bluetoothd or pass -radio bluez if BlueZ already owns the controller."
}
