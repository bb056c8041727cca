// Package tinygo advertises through tinygo.org/x/bluetooth: BlueZ over D-Bus on Linux,
// CoreBluetooth on macOS, WinRT on Windows and the Nordic SoftDevice on microcontrollers.
//
// These stacks build the advertising packet themselves from an AdvertisementOptions value, so the
// radio re-expresses each encoded payload as a single 128-bit service data element. The flags
// element is supplied by the stack.
package tinygo

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"tinygo.org/x/bluetooth"

	"github.com/beaconmesh/beacon-remote/internal/log"
	"github.com/beaconmesh/beacon-remote/pkg/connector"
	"github.com/beaconmesh/beacon-remote/pkg/protocol"
)

var ErrAdapterInvalidID = errors.New("the bluetooth adapter ID is invalid")

// advertisement is the subset of *bluetooth.Advertisement used by Radio.
type advertisement interface {
	Configure(options bluetooth.AdvertisementOptions) error
	Start() error
	Stop() error
}

var (
	device *bluetooth.Adapter
	mu     sync.Mutex
)

// Radio implements connector.Radio using the default advertisement of a bluetooth.Adapter.
type Radio struct {
	adv         advertisement
	options     bluetooth.AdvertisementOptions
	advertising bool
	closed      bool
}

var _ connector.Radio = (*Radio)(nil)

// NewRadio enables the adapter with the given ID (empty selects the platform default) and
// returns a Radio bound to its default advertisement.
func NewRadio(id string) (*Radio, error) {
	mu.Lock()
	defer mu.Unlock()

	if device != nil {
		log.Debug("Reusing existing BLE adapter")
	} else {
		log.Debug("Creating new BLE adapter")
		adapter, err := newAdapter(id)
		if err != nil {
			return nil, fmt.Errorf("ble: failed to create adapter: %w", err)
		}
		if err = adapter.Enable(); err != nil {
			return nil, fmt.Errorf("ble: failed to enable adapter: %w", err)
		}
		device = adapter
	}
	return newRadioWithAdvertisement(device.DefaultAdvertisement()), nil
}

func newRadioWithAdvertisement(adv advertisement) *Radio {
	return &Radio{adv: adv}
}

// IsAdvertising reports whether this Radio started an advertisement. The stack keeps
// advertisements from other applications separate, so only our own session needs clearing.
func (r *Radio) IsAdvertising() bool {
	return r.advertising
}

func (r *Radio) StopAdvertising() error {
	if r.closed {
		return protocol.ErrRadioUnavailable
	}
	if !r.advertising {
		return nil
	}
	if err := r.adv.Stop(); err != nil {
		return fmt.Errorf("ble: failed to stop advertisement: %w", err)
	}
	r.advertising = false
	return nil
}

// SetAdvertisingPayload reconfigures the advertisement with the service data carried by payload.
// A running advertisement is stopped first; StartAdvertising restarts it.
func (r *Radio) SetAdvertisingPayload(payload []byte) error {
	if r.closed {
		return protocol.ErrRadioUnavailable
	}
	if len(payload) > connector.MaxPayloadLength {
		return protocol.ErrPayloadTooLong
	}
	id, data, err := protocol.ServiceData(payload)
	if err != nil {
		return err
	}
	if err := r.StopAdvertising(); err != nil {
		return err
	}

	r.options = bluetooth.AdvertisementOptions{
		AdvertisementType: bluetooth.AdvertisingTypeNonConnInd,
		ServiceData: []bluetooth.ServiceDataElement{
			{UUID: id.UUID(), Data: append([]byte(nil), data...)},
		},
	}
	log.Debug("Advertising service data %s: %02x", id, data)
	if err := r.adv.Configure(r.options); err != nil {
		return fmt.Errorf("ble: failed to configure advertisement: %w", err)
	}
	return nil
}

func (r *Radio) StartAdvertising() error {
	if r.closed {
		return protocol.ErrRadioUnavailable
	}
	if err := r.adv.Start(); err != nil {
		return classify(err)
	}
	r.advertising = true
	return nil
}

// Close forgets the shared adapter so the next NewRadio enables it again.
func (r *Radio) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	mu.Lock()
	defer mu.Unlock()
	device = nil
	return nil
}

// classify marks BlueZ "busy" and "in progress" refusals as temporary.
func classify(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "busy") || strings.Contains(msg, "inprogress") || strings.Contains(msg, "in progress") {
		return fmt.Errorf("%w: %s", protocol.ErrRadioBusy, err)
	}
	return fmt.Errorf("ble: failed to start advertisement: %w", err)
}
