package session

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultDebounce is the search input coalescing window.
const DefaultDebounce = 120 * time.Millisecond

// Debouncer coalesces bursts of calls into one. Every Schedule bumps a
// generation counter and replaces the pending timer; a callback whose
// generation is no longer current is stale and must be ignored.
type Debouncer struct {
	clock clockwork.Clock
	wait  time.Duration

	mu    sync.Mutex
	gen   uint64
	timer clockwork.Timer
}

// NewDebouncer creates a Debouncer firing wait after the last Schedule.
func NewDebouncer(clock clockwork.Clock, wait time.Duration) *Debouncer {
	return &Debouncer{clock: clock, wait: wait}
}

// Schedule cancels the pending callback and arms fire with a new generation.
func (d *Debouncer) Schedule(fire func(gen uint64)) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.wait, func() { fire(gen) })
	return gen
}

// Current reports whether gen is the latest scheduled generation.
func (d *Debouncer) Current(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return gen == d.gen
}

// Cancel drops the pending callback and invalidates any that already fired.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
