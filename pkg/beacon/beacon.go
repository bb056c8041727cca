// Package beacon implements a BLE beacon remote: the operator steps through a catalog of command
// labels and every step, or an explicit resend, broadcasts the selected label with a fresh
// sequence number. Listeners treat a change in sequence number as a new command.
//
// A Beacon owns its radio for its whole lifetime. Radio failures are logged and otherwise
// ignored; the next transition simply pushes a new payload.
package beacon

import (
	"context"
	"errors"
	"fmt"

	"github.com/beaconmesh/beacon-remote/internal/log"
	"github.com/beaconmesh/beacon-remote/pkg/command"
	"github.com/beaconmesh/beacon-remote/pkg/connector"
	"github.com/beaconmesh/beacon-remote/pkg/display"
	"github.com/beaconmesh/beacon-remote/pkg/input"
	"github.com/beaconmesh/beacon-remote/pkg/protocol"
)

var (
	ErrNilRadio   = errors.New("beacon: radio is required")
	ErrNilCatalog = errors.New("beacon: command catalog is required")
)

// Transition is an operator intent.
type Transition int

const (
	// Next selects the following command and broadcasts it.
	Next Transition = iota
	// Previous selects the preceding command and broadcasts it.
	Previous
	// Resend broadcasts the selected command again under a new sequence number.
	Resend
	// Exit silences the radio and ends Run.
	Exit
)

func (t Transition) String() string {
	switch t {
	case Next:
		return "next"
	case Previous:
		return "previous"
	case Resend:
		return "resend"
	case Exit:
		return "exit"
	}
	return fmt.Sprintf("transition(%d)", int(t))
}

// State is a snapshot of a beacon.
type State struct {
	CommandIndex int
	Sequence     uint16
	Advertising  bool
}

type Option func(*Beacon)

// WithServiceID overrides protocol.DefaultServiceID.
func WithServiceID(id protocol.ServiceID) Option {
	return func(b *Beacon) {
		b.serviceID = id
	}
}

// WithRenderer sets the renderer notified after every state change. The renderer is called
// synchronously; wrap slow renderers with display.NewAsync.
func WithRenderer(r display.Renderer) Option {
	return func(b *Beacon) {
		b.renderer = r
	}
}

// Beacon is not safe for concurrent use. Run it from one goroutine.
type Beacon struct {
	catalog   *command.Catalog
	radio     connector.Radio
	renderer  display.Renderer
	serviceID protocol.ServiceID

	state   State
	packet  protocol.Packet
	started bool
	stopped bool
}

// New returns a beacon that will advertise the first label in catalog with sequence number 0.
// Nothing is sent until Start or Run.
func New(catalog *command.Catalog, radio connector.Radio, options ...Option) (*Beacon, error) {
	if catalog == nil {
		return nil, ErrNilCatalog
	}
	if radio == nil {
		return nil, ErrNilRadio
	}
	b := &Beacon{
		catalog:   catalog,
		radio:     radio,
		serviceID: protocol.DefaultServiceID,
		state:     State{Advertising: true},
	}
	for _, option := range options {
		option(b)
	}
	b.packet = b.encode()
	return b, nil
}

// Start claims the radio and broadcasts the initial state. A session left active by another
// owner is stopped first. Calling Start more than once has no effect.
func (b *Beacon) Start() {
	if b.started {
		return
	}
	b.started = true
	if b.radio.IsAdvertising() {
		log.Debug("Radio is busy advertising, taking it over")
		if err := b.radio.StopAdvertising(); err != nil {
			logRadioError("stop previous advertisement", err)
		}
	}
	b.push()
	b.render()
}

// Apply performs one transition and reports whether the beacon is done. Transitions after Exit
// have no effect.
func (b *Beacon) Apply(t Transition) (done bool) {
	if b.stopped {
		return true
	}
	b.Start()

	switch t {
	case Next:
		b.state.CommandIndex = b.catalog.Next(b.state.CommandIndex)
	case Previous:
		b.state.CommandIndex = b.catalog.Previous(b.state.CommandIndex)
	case Resend:
	case Exit:
		b.Stop()
		return true
	default:
		log.Warning("Ignoring unknown transition %s", t)
		return false
	}
	b.state.Sequence++
	log.Info("%s: %s (seq %d)", t, b.catalog.Label(b.state.CommandIndex), b.state.Sequence)
	b.push()
	b.render()
	return false
}

// HandleEvent maps a key event to a transition. Only short presses count: Up selects the next
// command, Down the previous one, OK resends, and Back exits. Every other event is ignored.
func (b *Beacon) HandleEvent(ev input.Event) (done bool) {
	if ev.Kind != input.KindShort {
		return b.stopped
	}
	switch ev.Key {
	case input.KeyUp:
		return b.Apply(Next)
	case input.KeyDown:
		return b.Apply(Previous)
	case input.KeyOK:
		return b.Apply(Resend)
	case input.KeyBack:
		return b.Apply(Exit)
	}
	return b.stopped
}

// Run starts the beacon if needed and handles events until an Exit transition (returning nil),
// until events is closed (returning nil), or until ctx is done (returning ctx.Err()). The radio is
// silent when Run returns.
func (b *Beacon) Run(ctx context.Context, events <-chan input.Event) error {
	b.Start()
	for {
		select {
		case <-ctx.Done():
			b.Stop()
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				log.Debug("Input closed")
				b.Stop()
				return nil
			}
			log.Debug("Input event: %s", ev)
			if b.HandleEvent(ev) {
				return nil
			}
		}
	}
}

// Stop silences the radio. Only the first call reaches the radio.
func (b *Beacon) Stop() {
	if b.stopped {
		return
	}
	b.stopped = true
	b.state.Advertising = false
	if err := b.radio.StopAdvertising(); err != nil {
		logRadioError("stop advertising", err)
	}
	log.Info("Stopped advertising")
	if b.started {
		b.render()
	}
}

func (b *Beacon) State() State {
	return b.state
}

// Packet returns the payload for the current state.
func (b *Beacon) Packet() protocol.Packet {
	return b.packet
}

// Command returns the label of the selected command.
func (b *Beacon) Command() string {
	return b.catalog.Label(b.state.CommandIndex)
}

func (b *Beacon) encode() protocol.Packet {
	return protocol.Encode(b.serviceID, b.state.Sequence, []byte(b.Command()))
}

// push re-encodes the state and hands it to the radio. StartAdvertising is called even if the
// payload was rejected.
func (b *Beacon) push() {
	b.packet = b.encode()
	if b.packet.Truncated() {
		log.Warning("Command %q does not fit in an advertisement; sending %d of %d bytes",
			b.Command(), b.packet.Len(), b.packet.RawLen())
	}
	log.Debug("Advertising %s", b.packet)
	if err := b.radio.SetAdvertisingPayload(b.packet.Bytes()); err != nil {
		logRadioError("set advertising payload", err)
	}
	if err := b.radio.StartAdvertising(); err != nil {
		logRadioError("start advertising", err)
	}
}

func (b *Beacon) render() {
	if b.renderer == nil {
		return
	}
	v := display.View{
		Command:     b.Command(),
		Sequence:    b.state.Sequence,
		Advertising: b.state.Advertising,
	}
	if err := b.renderer.Render(v); err != nil {
		log.Warning("Failed to render: %s", err)
	}
}

func logRadioError(action string, err error) {
	if protocol.Temporary(err) {
		log.Warning("Failed to %s (radio busy): %s", action, err)
		return
	}
	log.Warning("Failed to %s: %s", action, err)
}
