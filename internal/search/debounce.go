// Package search wraps a search callback so remote queries only fire after
// the keyboard has been quiet for a fixed interval.
package search

import (
	"sync"
	"time"
)

// DefaultQuiet is the quiet period between the last keystroke and the query.
const DefaultQuiet = 300 * time.Millisecond

// Debouncer delays a one-argument callback. Each Trigger restarts the quiet
// timer; only the last call inside a quiet window fires.
type Debouncer struct {
	quiet time.Duration
	fn    func(string)

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewDebouncer wraps fn with the given quiet period (DefaultQuiet when <= 0).
func NewDebouncer(quiet time.Duration, fn func(string)) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	return &Debouncer{quiet: quiet, fn: fn}
}

// Trigger schedules fn(text) after the quiet period, superseding any pending
// call.
func (d *Debouncer) Trigger(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, func() {
		d.mu.Lock()
		stopped := d.stopped
		d.mu.Unlock()
		if !stopped {
			d.fn(text)
		}
	})
}

// Stop cancels any pending call and rejects future triggers. Call it when the
// owning screen is torn down so the callback cannot fire into dead state.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
