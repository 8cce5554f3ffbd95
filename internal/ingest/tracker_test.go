package ingest

import (
	"sync"
	"testing"

	"memedex/internal/task"
)

func TestTrackerObserveCreatesOnce(t *testing.T) {
	tr := NewTracker()

	first, created := tr.Observe("/watch/a.png", task.EventCreated)
	if !created {
		t.Fatal("first observe should create a task")
	}
	second, created := tr.Observe("/watch/a.png", task.EventModified)
	if created {
		t.Fatal("second observe must not create a new task")
	}
	if first.ID != second.ID {
		t.Fatal("observe returned a different task for the same path")
	}
	if tr.Len() != 1 {
		t.Fatalf("len = %d, want 1", tr.Len())
	}
}

func TestTrackerReleaseAllowsNewTask(t *testing.T) {
	tr := NewTracker()

	first, _ := tr.Observe("/watch/a.png", task.EventCreated)
	tr.Release("/watch/a.png")
	if tr.Get("/watch/a.png") != nil {
		t.Fatal("path still tracked after release")
	}

	second, created := tr.Observe("/watch/a.png", task.EventCreated)
	if !created {
		t.Fatal("observe after release should create a fresh task")
	}
	if first.ID == second.ID {
		t.Fatal("fresh task reused old identity")
	}
}

func TestTrackerConcurrentObserveSinglePath(t *testing.T) {
	tr := NewTracker()

	const goroutines = 16
	var wg sync.WaitGroup
	createdCount := make(chan bool, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, created := tr.Observe("/watch/contested.png", task.EventCreated)
			createdCount <- created
		}()
	}
	wg.Wait()
	close(createdCount)

	total := 0
	for created := range createdCount {
		if created {
			total++
		}
	}
	if total != 1 {
		t.Fatalf("task created %d times, want exactly 1", total)
	}
}
