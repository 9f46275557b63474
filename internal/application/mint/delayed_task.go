package mint

import (
	"sync"
	"time"
)

// delayedTask runs at most one scheduled func. Scheduling again replaces the
// pending run; Cancel drops it. A run that lost a race with Cancel is skipped.
type delayedTask struct {
	mu     sync.Mutex
	timer  *time.Timer
	gen    uint64
	closed bool
}

func (d *delayedTask) Schedule(delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(delay, func() {
		d.mu.Lock()
		live := !d.closed && d.gen == gen
		d.mu.Unlock()
		if live {
			fn()
		}
	})
}

func (d *delayedTask) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Close cancels and refuses further scheduling.
func (d *delayedTask) Close() {
	d.Cancel()
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}
