package display

import (
	"github.com/beaconmesh/beacon-remote/internal/log"
	"github.com/beaconmesh/beacon-remote/internal/syncutil"
)

// Async renders on its own goroutine. Render never blocks: when the wrapped renderer falls
// behind, views that were never drawn are replaced by the newest one.
type Async struct {
	next    Renderer
	pending chan View
	done    chan struct{}

	mu     syncutil.Mutex
	closed bool
	last   error
}

// NewAsync starts a goroutine rendering through next. Call Close to stop it.
func NewAsync(next Renderer) *Async {
	a := &Async{
		next:    next,
		pending: make(chan View, 1),
		done:    make(chan struct{}),
	}
	go a.loop()
	return a
}

func (a *Async) loop() {
	defer close(a.done)
	for v := range a.pending {
		if err := a.next.Render(v); err != nil {
			log.Warning("Render failed: %s", err)
			a.mu.Lock()
			a.last = err
			a.mu.Unlock()
		}
	}
}

// Render queues v and returns the error of the most recent failed render, if any.
func (a *Async) Render(v View) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	for {
		select {
		case a.pending <- v:
			err := a.last
			a.last = nil
			return err
		default:
		}
		// Drop the stale view; the loop goroutine may have taken it in the meantime.
		select {
		case <-a.pending:
		default:
		}
	}
}

// Close stops accepting views and waits until the last queued view has been drawn.
func (a *Async) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.pending)
	a.mu.Unlock()
	<-a.done
}
