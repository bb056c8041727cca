// Package input turns button presses into an ordered stream of key events. A [Source] produces
// events; [Stream] runs one on its own goroutine and hands the events to a beacon over a channel.
package input

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// QueueSize is the number of events buffered between a Source and its consumer.
const QueueSize = 8

type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyOK
	KeyBack
)

var keyNames = []string{"up", "down", "left", "right", "ok", "back"}

func (k Key) String() string {
	if k >= 0 && int(k) < len(keyNames) {
		return keyNames[k]
	}
	return fmt.Sprintf("key(%d)", int(k))
}

// Kind distinguishes the phases of a button press. A physical press produces KindPress, then
// KindShort or KindLong (with KindRepeat while held), then KindRelease.
type Kind int

const (
	KindPress Kind = iota
	KindRelease
	KindShort
	KindLong
	KindRepeat
)

var kindNames = []string{"press", "release", "short", "long", "repeat"}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event is one key event.
type Event struct {
	Key  Key
	Kind Kind
}

func (e Event) String() string {
	return e.Kind.String() + " " + e.Key.String()
}

var (
	ErrUnknownKey  = errors.New("unknown key")
	ErrUnknownKind = errors.New("unknown event kind")
)

var keyAliases = map[string]Key{
	"next":     KeyUp,
	"prev":     KeyDown,
	"previous": KeyDown,
	"send":     KeyOK,
	"resend":   KeyOK,
	"confirm":  KeyOK,
	"enter":    KeyOK,
	"exit":     KeyBack,
	"quit":     KeyBack,
}

// ParseKey accepts a key name (up, down, left, right, ok, back) or one of its aliases (next,
// prev, send, exit, ...). Matching is case-insensitive.
func ParseKey(name string) (Key, error) {
	name = strings.ToLower(name)
	for i, n := range keyNames {
		if n == name {
			return Key(i), nil
		}
	}
	if k, ok := keyAliases[name]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("%w '%s'", ErrUnknownKey, name)
}

// ParseKind accepts press, release, short, long or repeat.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(name)
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w '%s'", ErrUnknownKind, name)
}

// Source produces key events in order.
type Source interface {
	// Run sends events to out until the input is exhausted (returning nil), ctx is done, or the
	// input fails. Run must not close out.
	Run(ctx context.Context, out chan<- Event) error
}

// Stream runs src on a new goroutine. The returned channel is closed when src stops; wait
// blocks until then and returns the error src stopped with.
func Stream(ctx context.Context, src Source) (events <-chan Event, wait func() error) {
	ch := make(chan Event, QueueSize)
	done := make(chan struct{})
	var err error
	go func() {
		defer close(done)
		defer close(ch)
		err = src.Run(ctx, ch)
	}()
	return ch, func() error {
		<-done
		return err
	}
}

// send delivers ev unless ctx is done first.
func send(ctx context.Context, out chan<- Event, ev Event) error {
	select {
	case out <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
