// Package debounce coalesces bursts of events.
//
// Debouncer is timer driven and calls back on its own goroutine once events
// stop arriving. Gate is polled: the caller asks on every tick whether the
// latest key has been quiet long enough.
package debounce

import (
	"sync"
	"time"
)

var afterFunc = time.AfterFunc

type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	gen   uint64
	fn    func()
}

func New(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = afterFunc(d.delay, func() { d.fire(gen) })
}

// fire drops callbacks from timers that were replaced or stopped after they
// had already been scheduled.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	stale := gen != d.gen
	if !stale {
		d.timer = nil
	}
	d.mu.Unlock()
	if stale {
		return
	}
	d.fn()
}

func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
