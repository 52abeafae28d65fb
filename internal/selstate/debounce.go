package selstate

import (
	"sync"
	"time"
)

// DebouncedSaver coalesces frequent selection changes into occasional saves.
// Selection moves on every keypress; writing the state file each time would
// be wasteful, so writes are deferred until the selection settles.
type DebouncedSaver struct {
	dir      string
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	running bool
	latest  State
}

func NewDebouncedSaver(dir string, debounce time.Duration) *DebouncedSaver {
	if debounce <= 0 {
		debounce = time.Second
	}
	return &DebouncedSaver{dir: dir, debounce: debounce}
}

// Notify records the latest state and (re)arms the timer. Safe to call from
// any goroutine; a nil saver is a no-op.
func (d *DebouncedSaver) Notify(st State) {
	if d == nil {
		return
	}

	d.mu.Lock()
	d.pending = true
	d.latest = st
	if d.timer == nil {
		d.timer = time.AfterFunc(d.debounce, d.onTimer)
		d.mu.Unlock()
		return
	}
	d.timer.Reset(d.debounce)
	d.mu.Unlock()
}

func (d *DebouncedSaver) onTimer() {
	d.mu.Lock()
	if d.running {
		if d.timer != nil {
			d.timer.Reset(d.debounce)
		}
		d.mu.Unlock()
		return
	}
	if !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.running = true
	st := d.latest
	d.mu.Unlock()

	// Best-effort: errors are intentionally dropped; losing the remembered
	// selection is harmless.
	_ = Save(d.dir, &st)

	d.mu.Lock()
	d.running = false
	if d.pending && d.timer != nil {
		d.timer.Reset(d.debounce)
	}
	d.mu.Unlock()
}

// Flush writes the latest state immediately, cancelling any armed timer.
// Called on shutdown so the final selection is not lost to the debounce.
func (d *DebouncedSaver) Flush() error {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	if !d.pending {
		d.mu.Unlock()
		return nil
	}
	d.pending = false
	st := d.latest
	d.mu.Unlock()
	return Save(d.dir, &st)
}
