//go:build !linux

package goble

import "github.com/beaconmesh/beacon-remote/pkg/protocol"

func newDevice(_ string) (*device, error) {
	return nil, protocol.NewError("raw HCI advertising is only supported on Linux", false)
}

func IsAdapterError(_ error) bool {
	return false
}

func AdapterErrorHelpMessage(err error) string {
	return err.Error() + "\nUse -radio bluez or -radio sim on this platform."
}
