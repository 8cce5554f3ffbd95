package queue

import "sync"

// Metrics aggregates ingest outcome counters. Admitted and dropped are
// recorded by the queue itself; the remaining counters are recorded by the
// pipeline as tasks resolve.
type Metrics struct {
	mu        sync.Mutex
	admitted  uint64
	dropped   uint64
	skipped   uint64
	completed uint64
	failed    uint64
}

// NewMetrics returns a zeroed counter set.
func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) recordAdmitted() {
	m.mu.Lock()
	m.admitted++
	m.mu.Unlock()
}

func (m *Metrics) recordDropped() {
	m.mu.Lock()
	m.dropped++
	m.mu.Unlock()
}

// RecordSkipped counts a task skipped because the file was already indexed.
func (m *Metrics) RecordSkipped() {
	m.mu.Lock()
	m.skipped++
	m.mu.Unlock()
}

// RecordCompleted counts a task that finished the full pipeline.
func (m *Metrics) RecordCompleted() {
	m.mu.Lock()
	m.completed++
	m.mu.Unlock()
}

// RecordFailed counts a task that failed a pipeline step.
func (m *Metrics) RecordFailed() {
	m.mu.Lock()
	m.failed++
	m.mu.Unlock()
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Admitted  uint64
	Dropped   uint64
	Skipped   uint64
	Completed uint64
	Failed    uint64
}

// Snapshot returns a consistent copy of all counters.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Admitted:  m.admitted,
		Dropped:   m.dropped,
		Skipped:   m.skipped,
		Completed: m.completed,
		Failed:    m.failed,
	}
}
