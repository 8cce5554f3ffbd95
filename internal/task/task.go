package task

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle of an ingest task.
type Status string

const (
	StatusDetected   Status = "detected"
	StatusDebouncing Status = "debouncing"
	StatusStable     Status = "stable"
	StatusChecking   Status = "checking"
	StatusAdmitted   Status = "admitted"
	StatusDropped    Status = "dropped"
	StatusSkipped    Status = "skipped"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

var allStatuses = []Status{
	StatusDetected,
	StatusDebouncing,
	StatusStable,
	StatusChecking,
	StatusAdmitted,
	StatusDropped,
	StatusSkipped,
	StatusProcessing,
	StatusCompleted,
	StatusFailed,
}

// statusRank orders the lifecycle; transitions may only increase rank.
// Dropped/skipped/failed share the terminal tier with completed.
var statusRank = map[Status]int{
	StatusDetected:   0,
	StatusDebouncing: 1,
	StatusStable:     2,
	StatusChecking:   3,
	StatusAdmitted:   4,
	StatusProcessing: 5,
	StatusCompleted:  6,
	StatusFailed:     6,
	StatusDropped:    6,
	StatusSkipped:    6,
}

var terminalStatuses = map[Status]struct{}{
	StatusCompleted: {},
	StatusFailed:    {},
	StatusDropped:   {},
	StatusSkipped:   {},
}

// EventType distinguishes how the watcher noticed the file.
type EventType string

const (
	EventCreated  EventType = "created"
	EventModified EventType = "modified"
)

// Task tracks a single file from detection through ingest. Most fields are
// owned by whichever component currently holds the task; the status is the
// exception — the debounce timer reads it while a worker advances it — so all
// status access goes through the mutex-guarded accessors.
type Task struct {
	ID          string
	SourcePath  string
	EventType   EventType
	ContentHash string
	Caption     string
	FinalPath   string
	DetectedAt  time.Time

	mu        sync.Mutex
	status    Status
	errReason string
	updatedAt time.Time
}

// New creates a task in the detected state for the given file path.
func New(path string, eventType EventType) *Task {
	now := time.Now().UTC()
	return &Task{
		ID:         uuid.NewString(),
		SourcePath: path,
		EventType:  eventType,
		status:     StatusDetected,
		DetectedAt: now,
		updatedAt:  now,
	}
}

// Status returns the current lifecycle state.
func (t *Task) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// UpdatedAt returns the time of the most recent status change.
func (t *Task) UpdatedAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.updatedAt
}

// ErrReason returns the failure reason recorded by Fail, if any.
func (t *Task) ErrReason() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.errReason
}

// Transition moves the task to the given status, rejecting backwards moves and
// any move out of a terminal state.
func (t *Task) Transition(to Status) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.transitionLocked(to)
}

func (t *Task) transitionLocked(to Status) error {
	toRank, ok := statusRank[to]
	if !ok {
		return fmt.Errorf("unknown status %q", to)
	}
	if _, terminal := terminalStatuses[t.status]; terminal {
		return fmt.Errorf("task %s is %s; cannot transition to %s", t.ID, t.status, to)
	}
	fromRank := statusRank[t.status]
	if toRank <= fromRank {
		return fmt.Errorf("invalid transition %s -> %s for task %s", t.status, to, t.ID)
	}
	t.status = to
	t.updatedAt = time.Now().UTC()
	return nil
}

// Fail marks the task failed with the given reason.
func (t *Task) Fail(reason string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.transitionLocked(StatusFailed); err != nil {
		return err
	}
	t.errReason = reason
	return nil
}

// IsTerminal reports whether the task has reached a final state.
func (t *Task) IsTerminal() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := terminalStatuses[t.status]
	return ok
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusRank[normalized]
	return normalized, ok
}
