package ingest

import (
	"sync"

	"memedex/internal/task"
)

// Tracker owns the process-wide in-flight set: at most one task per path from
// first detection until the task reaches a terminal state. All methods are
// safe for concurrent use.
type Tracker struct {
	mu       sync.Mutex
	inFlight map[string]*task.Task
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{inFlight: make(map[string]*task.Task)}
}

// Observe returns the task tracking path, creating one in the detected state
// when the path is not yet in flight. The second return reports whether a new
// task was created.
func (tr *Tracker) Observe(path string, kind task.EventType) (*task.Task, bool) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if existing, ok := tr.inFlight[path]; ok {
		return existing, false
	}
	created := task.New(path, kind)
	tr.inFlight[path] = created
	return created, true
}

// Get returns the in-flight task for path, or nil.
func (tr *Tracker) Get(path string) *task.Task {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.inFlight[path]
}

// Release removes path from the in-flight set. Called when its task reaches a
// terminal state so a future file at the same path can be processed again.
func (tr *Tracker) Release(path string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	delete(tr.inFlight, path)
}

// Len returns the number of paths currently in flight.
func (tr *Tracker) Len() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return len(tr.inFlight)
}
