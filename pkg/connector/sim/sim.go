// Package sim provides an in-memory radio for hosts without Bluetooth hardware and for tests. It
// logs every payload and keeps a bounded history of what was advertised.
package sim

import (
	"github.com/beaconmesh/beacon-remote/internal/log"
	"github.com/beaconmesh/beacon-remote/internal/syncutil"
	"github.com/beaconmesh/beacon-remote/pkg/connector"
	"github.com/beaconmesh/beacon-remote/pkg/protocol"
)

// Op names a Radio method in the call log.
type Op string

const (
	OpStop  Op = "stop"
	OpSet   Op = "set"
	OpStart Op = "start"
	OpClose Op = "close"
)

// Call is one recorded Radio method invocation. Payload is set for OpSet only.
type Call struct {
	Op      Op
	Payload []byte
}

const historyCapacity = 64

// Radio is a simulated advertising slot. It is safe to inspect from other goroutines while a
// beacon drives it.
type Radio struct {
	mu          syncutil.Mutex
	advertising bool
	closed      bool
	payload     []byte
	history     ring
	failures    map[Op]error
}

var _ connector.Radio = (*Radio)(nil)

// New returns an idle simulated radio.
func New() *Radio {
	return &Radio{}
}

// NewAdvertising returns a simulated radio that some other application left advertising.
func NewAdvertising(payload []byte) *Radio {
	return &Radio{advertising: true, payload: append([]byte(nil), payload...)}
}

// FailNext makes the next call of op return err. Subsequent calls succeed again.
func (r *Radio) FailNext(op Op, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures == nil {
		r.failures = make(map[Op]error)
	}
	r.failures[op] = err
}

func (r *Radio) record(op Op, payload []byte) error {
	r.history.push(Call{Op: op, Payload: payload})
	if err, ok := r.failures[op]; ok {
		delete(r.failures, op)
		return err
	}
	if r.closed && op != OpClose {
		return protocol.ErrRadioUnavailable
	}
	return nil
}

func (r *Radio) IsAdvertising() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.advertising
}

func (r *Radio) StopAdvertising() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record(OpStop, nil); err != nil {
		return err
	}
	if r.advertising {
		log.Info("sim: advertising stopped")
	}
	r.advertising = false
	return nil
}

func (r *Radio) SetAdvertisingPayload(payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := append([]byte(nil), payload...)
	if err := r.record(OpSet, cp); err != nil {
		return err
	}
	if len(payload) > connector.MaxPayloadLength {
		return protocol.ErrPayloadTooLong
	}
	r.payload = cp
	return nil
}

func (r *Radio) StartAdvertising() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record(OpStart, nil); err != nil {
		return err
	}
	r.advertising = true
	log.Debug("sim: advertising %02x", r.payload)
	return nil
}

func (r *Radio) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.record(OpClose, nil)
}

// Payload returns a copy of the payload that is (or would be) advertised.
func (r *Radio) Payload() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]byte(nil), r.payload...)
}

// Calls returns the most recent calls, oldest first.
func (r *Radio) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history.snapshot()
}

// Count returns how many of the retained calls were op.
func (r *Radio) Count(op Op) int {
	n := 0
	for _, c := range r.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

type ring struct {
	data       [historyCapacity]Call
	head, tail int // head = oldest, tail = next push
	count      int
}

func (rb *ring) push(c Call) {
	if rb.count == historyCapacity {
		rb.head = (rb.head + 1) % historyCapacity
		rb.count--
	}
	rb.data[rb.tail] = c
	rb.tail = (rb.tail + 1) % historyCapacity
	rb.count++
}

func (rb *ring) snapshot() []Call {
	out := make([]Call, 0, rb.count)
	for i, c := rb.head, 0; c < rb.count; c++ {
		out = append(out, rb.data[i])
		i = (i + 1) % historyCapacity
	}
	return out
}
