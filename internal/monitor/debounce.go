package monitor

import (
	"sync"
	"time"
)

// Debouncer collapses bursts of events for the same path into a single stable
// signal once the path has been quiet for a full window. There is no cap on
// total wait: a file rewritten continuously never settles, which is accepted
// starvation behavior for partially written files.
type Debouncer struct {
	window time.Duration
	emit   func(path string)

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
}

// NewDebouncer creates a debouncer that calls emit with the path after the
// quiet window elapses without a re-arm.
func NewDebouncer(window time.Duration, emit func(path string)) *Debouncer {
	if window <= 0 {
		window = time.Second
	}
	return &Debouncer{
		window: window,
		emit:   emit,
		timers: make(map[string]*time.Timer),
	}
}

// Observe arms or re-arms the settle timer for a path.
func (d *Debouncer) Observe(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if timer, ok := d.timers[path]; ok {
		timer.Reset(d.window)
		return
	}
	d.timers[path] = time.AfterFunc(d.window, func() {
		d.fire(path)
	})
}

func (d *Debouncer) fire(path string) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	delete(d.timers, path)
	d.mu.Unlock()
	d.emit(path)
}

// Pending returns the number of paths currently settling.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// Stop cancels all pending timers. A signal whose timer already fired may
// still be delivered concurrently with Stop.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	for path, timer := range d.timers {
		timer.Stop()
		delete(d.timers, path)
	}
}
