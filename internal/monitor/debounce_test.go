package monitor

import (
	"sync"
	"testing"
	"time"
)

type signalRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *signalRecorder) record(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *signalRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.paths)
}

func TestDebouncerCollapsesBurst(t *testing.T) {
	rec := &signalRecorder{}
	d := NewDebouncer(30*time.Millisecond, rec.record)
	defer d.Stop()

	for i := 0; i < 5; i++ {
		d.Observe("/watch/burst.png")
		time.Sleep(5 * time.Millisecond)
	}

	deadline := time.Now().Add(time.Second)
	for rec.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	// Allow a grace period to catch spurious extra signals.
	time.Sleep(60 * time.Millisecond)
	if got := rec.count(); got != 1 {
		t.Fatalf("signals = %d, want exactly 1", got)
	}
}

func TestDebouncerTracksPathsIndependently(t *testing.T) {
	rec := &signalRecorder{}
	d := NewDebouncer(20*time.Millisecond, rec.record)
	defer d.Stop()

	d.Observe("/watch/a.png")
	d.Observe("/watch/b.png")
	if d.Pending() != 2 {
		t.Fatalf("pending = %d, want 2", d.Pending())
	}

	deadline := time.Now().Add(time.Second)
	for rec.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := rec.count(); got != 2 {
		t.Fatalf("signals = %d, want 2", got)
	}
	if d.Pending() != 0 {
		t.Fatalf("pending after fire = %d, want 0", d.Pending())
	}
}

func TestDebouncerRearmDelaysSignal(t *testing.T) {
	rec := &signalRecorder{}
	d := NewDebouncer(50*time.Millisecond, rec.record)
	defer d.Stop()

	d.Observe("/watch/slow.png")
	time.Sleep(30 * time.Millisecond)
	d.Observe("/watch/slow.png")
	time.Sleep(30 * time.Millisecond)

	// 60ms since first observe but only 30ms since re-arm: not settled yet.
	if got := rec.count(); got != 0 {
		t.Fatalf("signal fired early: count = %d", got)
	}

	deadline := time.Now().Add(time.Second)
	for rec.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := rec.count(); got != 1 {
		t.Fatalf("signals = %d, want 1", got)
	}
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	rec := &signalRecorder{}
	d := NewDebouncer(20*time.Millisecond, rec.record)

	d.Observe("/watch/cancelled.png")
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	if got := rec.count(); got != 0 {
		t.Fatalf("signals after stop = %d, want 0", got)
	}
	d.Observe("/watch/late.png")
	if d.Pending() != 0 {
		t.Fatal("observe after stop should be ignored")
	}
}
