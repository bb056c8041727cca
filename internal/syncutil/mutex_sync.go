//go:build !deadlock

// Package syncutil provides the mutex type shared by the module's concurrent components. Builds with -tags=deadlock swap in github.com/sasha-s/go-deadlock so lock-order
// problems between the beacon loop and the render goroutine are reported.
package syncutil

import "sync"

// Mutex wraps sync.Mutex. Build with -tags=deadlock for deadlock detection.
type Mutex struct {
	sync.Mutex
}
