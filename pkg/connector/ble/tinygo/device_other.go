//go:build !linux

package tinygo

import "tinygo.org/x/bluetooth"

func IsAdapterError(_ error) bool {
	return false
}

func AdapterErrorHelpMessage(err error) string {
	return err.Error()
}

func newAdapter(id string) (*bluetooth.Adapter, error) {
	if id != "" {
		// Only BlueZ exposes more than one adapter.
		return nil, ErrAdapterInvalidID
	}
	return bluetooth.DefaultAdapter, nil
}
