package service

import (
	"sync"
	"time"
)

// Debouncer coalesces a burst of inputs into one call: each Trigger
// cancels the pending timer and arms a new one, so only the last
// value inside a quiet window fires. At most one timer is live.
type Debouncer struct {
	mu     sync.Mutex
	window time.Duration
	fn     func(string)
	timer  *time.Timer
}

func NewDebouncer(window time.Duration, fn func(string)) *Debouncer {
	return &Debouncer{
		window: window,
		fn:     fn,
	}
}

func (d *Debouncer) Trigger(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() {
		d.fn(value)
	})
}

// Stop cancels any pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
