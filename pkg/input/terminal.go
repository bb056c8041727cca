package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/beaconmesh/beacon-remote/internal/syncutil"
)

const (
	keyEsc       = 0x1b
	keyCtrlC     = 0x03
	keyCtrlD     = 0x04
	keyBackspace = 0x08
	keyDelete    = 0x7f
)

// Terminal reads single key presses from a terminal in raw mode. Arrow keys (or w/s, k/j)
// select, Enter or Space sends, and Backspace, Esc, q or Ctrl-C exit. Each key press is reported
// as the press/short/release sequence a physical button produces.
//
// Reads from a terminal cannot be interrupted, so after ctx is done Run returns only once the
// next key arrives. Close restores the terminal without waiting for Run.
type Terminal struct {
	in *os.File
	r  *bufio.Reader

	mu    syncutil.Mutex
	state *term.State
}

// NewTerminal returns a Source reading from f, normally os.Stdin.
func NewTerminal(f *os.File) *Terminal {
	return &Terminal{in: f, r: bufio.NewReader(f)}
}

// IsTerminal reports whether f is connected to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func (t *Terminal) Run(ctx context.Context, out chan<- Event) error {
	if err := t.makeRaw(); err != nil {
		return err
	}
	defer t.Close()
	return readKeys(ctx, t.r, out)
}

func (t *Terminal) makeRaw() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	fd := int(t.in.Fd())
	if t.state != nil || !term.IsTerminal(fd) {
		return nil
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to put terminal in raw mode: %w", err)
	}
	t.state = state
	return nil
}

// Close restores the terminal mode. It does not close the underlying file.
func (t *Terminal) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == nil {
		return nil
	}
	err := term.Restore(int(t.in.Fd()), t.state)
	t.state = nil
	return err
}

func readKeys(ctx context.Context, r *bufio.Reader, out chan<- Event) error {
	for ctx.Err() == nil {
		key, ok, err := readKey(r)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		for _, kind := range []Kind{KindPress, KindShort, KindRelease} {
			if err := send(ctx, out, Event{Key: key, Kind: kind}); err != nil {
				return err
			}
		}
	}
	return ctx.Err()
}

// readKey decodes the next key from a raw terminal byte stream. ok is false for bytes that do not
// map to a key.
func readKey(r *bufio.Reader) (key Key, ok bool, err error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, false, err
	}
	switch b {
	case '\r', '\n', ' ':
		return KeyOK, true, nil
	case keyBackspace, keyDelete, keyCtrlC, keyCtrlD, 'q', 'Q':
		return KeyBack, true, nil
	case 'w', 'k':
		return KeyUp, true, nil
	case 's', 'j':
		return KeyDown, true, nil
	case 'a', 'h':
		return KeyLeft, true, nil
	case 'd', 'l':
		return KeyRight, true, nil
	case keyEsc:
		// A lone Esc is Back; Esc followed by more input in the same read is a CSI sequence.
		if r.Buffered() == 0 {
			return KeyBack, true, nil
		}
		return readEscape(r)
	}
	return 0, false, nil
}

func readEscape(r *bufio.Reader) (Key, bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, false, err
	}
	if b != '[' && b != 'O' {
		return 0, false, nil
	}
	b, err = r.ReadByte()
	if err != nil {
		return 0, false, err
	}
	switch b {
	case 'A':
		return KeyUp, true, nil
	case 'B':
		return KeyDown, true, nil
	case 'C':
		return KeyRight, true, nil
	case 'D':
		return KeyLeft, true, nil
	}
	// Skip the rest of sequences such as "\x1b[3~" (Delete) or "\x1b[1;5A".
	for (b >= '0' && b <= '9') || b == ';' {
		if b, err = r.ReadByte(); err != nil {
			return 0, false, err
		}
	}
	return 0, false, nil
}
