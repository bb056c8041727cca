// Package goble advertises through a Linux HCI controller using github.com/go-ble/ble. The
// payload is handed to the controller byte for byte, so listeners see exactly what
// protocol.Encode produced.
package goble

import (
	"fmt"
	"strings"
	"sync"

	"github.com/beaconmesh/beacon-remote/internal/log"
	"github.com/beaconmesh/beacon-remote/pkg/connector"
	"github.com/beaconmesh/beacon-remote/pkg/protocol"
)

// controller is the subset of *hci.HCI used to advertise.
type controller interface {
	SetAdvertisement(ad []byte, sr []byte) error
	Advertise() error
	StopAdvertising() error
}

type device struct {
	ctrl controller
	stop func() error
}

var (
	shared *device
	mu     sync.Mutex
)

// Radio implements connector.Radio on top of an HCI controller.
type Radio struct {
	dev         *device
	advertising bool
	known       bool
}

var _ connector.Radio = (*Radio)(nil)

// NewRadio opens the HCI controller with the given ID (for example "hci0"; empty selects the
// first controller). The controller is shared by every Radio in the process: opening a second
// HCI socket on the same controller fails on Linux.
func NewRadio(id string) (*Radio, error) {
	mu.Lock()
	defer mu.Unlock()

	if shared != nil {
		log.Debug("Reusing existing HCI device")
	} else {
		log.Debug("Opening HCI device '%s'", id)
		dev, err := newDevice(id)
		if err != nil {
			return nil, fmt.Errorf("ble: failed to open HCI device: %w", err)
		}
		shared = dev
	}
	return &Radio{dev: shared}, nil
}

func newRadioWithController(ctrl controller) *Radio {
	return &Radio{dev: &device{ctrl: ctrl}}
}

// IsAdvertising reports true until this Radio has stopped advertising at least once: the HCI
// interface gives no way to ask the controller whether another process left it advertising.
func (r *Radio) IsAdvertising() bool {
	return r.advertising || !r.known
}

func (r *Radio) StopAdvertising() error {
	if r.dev == nil {
		return protocol.ErrRadioUnavailable
	}
	if err := r.dev.ctrl.StopAdvertising(); err != nil {
		return classify(err)
	}
	r.advertising = false
	r.known = true
	return nil
}

func (r *Radio) SetAdvertisingPayload(payload []byte) error {
	if r.dev == nil {
		return protocol.ErrRadioUnavailable
	}
	if len(payload) > connector.MaxPayloadLength {
		return protocol.ErrPayloadTooLong
	}
	log.Debug("HCI advertising data: %02x", payload)
	if err := r.dev.ctrl.SetAdvertisement(payload, nil); err != nil {
		return classify(err)
	}
	return nil
}

func (r *Radio) StartAdvertising() error {
	if r.dev == nil {
		return protocol.ErrRadioUnavailable
	}
	if err := r.dev.ctrl.Advertise(); err != nil {
		return classify(err)
	}
	r.advertising = true
	r.known = true
	return nil
}

// Close releases the shared HCI device so a later NewRadio opens it afresh. It does not stop
// advertising; callers silence the radio first.
func (r *Radio) Close() error {
	if r.dev == nil {
		return nil
	}
	dev := r.dev
	r.dev = nil

	mu.Lock()
	defer mu.Unlock()
	if dev != shared {
		return nil
	}
	shared = nil
	if dev.stop == nil {
		return nil
	}
	if err := dev.stop(); err != nil {
		return fmt.Errorf("ble: failed to stop HCI device: %w", err)
	}
	log.Debug("Closed HCI device")
	return nil
}

// classify marks controller refusals as temporary so callers can tell a busy radio from a broken
// one.
func classify(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "disallowed") || strings.Contains(msg, "busy") {
		return fmt.Errorf("%w: %s", protocol.ErrRadioBusy, err)
	}
	return fmt.Errorf("ble: %w", err)
}
