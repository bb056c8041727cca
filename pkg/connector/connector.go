// Package connector defines the radio interface a beacon advertises through. Backends live in
// subpackages: ble/goble drives a Linux HCI controller directly, ble/tinygo goes through BlueZ or
// a SoftDevice, and sim records payloads in memory.
package connector

import "github.com/beaconmesh/beacon-remote/pkg/protocol"

// Radio is the process-wide advertising slot. Only one advertising payload can be active on it at
// a time, so a beacon claims it for its whole lifetime and silences it on exit.
//
// Implementations do not need to be thread safe; a beacon drives its radio from a single
// goroutine. Errors that implement [protocol.Error] can be classified with
// [protocol.Temporary].
type Radio interface {
	// IsAdvertising reports whether an advertising session may be active. Backends that cannot
	// query the controller should return true until they have stopped advertising themselves.
	IsAdvertising() bool

	// StopAdvertising silences the radio. Stopping an idle radio is not an error.
	StopAdvertising() error

	// SetAdvertisingPayload replaces the payload broadcast by the next StartAdvertising. The
	// payload is at most protocol.MaxPayloadLength bytes and may be reused by the caller after
	// the method returns.
	SetAdvertisingPayload(payload []byte) error

	// StartAdvertising broadcasts the most recent payload.
	StartAdvertising() error

	// Close releases the underlying device. Repeated calls to Close() must be idempotent.
	Close() error
}

// MaxPayloadLength is re-exported for backends that validate payload sizes.
const MaxPayloadLength = protocol.MaxPayloadLength
