package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"memedex/internal/task"
)

func TestEnqueueDequeueFIFO(t *testing.T) {
	q := NewBounded(10, nil)
	defer q.Close()

	for i := 0; i < 3; i++ {
		tk := task.New(fmt.Sprintf("/watch/%d.png", i), task.EventCreated)
		ok, err := q.Enqueue(tk)
		if err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
		if !ok {
			t.Fatalf("task %d rejected with room to spare", i)
		}
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		tk, err := q.Dequeue(ctx)
		if err != nil {
			t.Fatalf("Dequeue: %v", err)
		}
		want := fmt.Sprintf("/watch/%d.png", i)
		if tk.SourcePath != want {
			t.Fatalf("dequeued %q, want %q", tk.SourcePath, want)
		}
	}
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	const capacity = 100
	const offered = 150
	q := NewBounded(capacity, nil)
	defer q.Close()

	accepted := 0
	for i := 0; i < offered; i++ {
		tk := task.New(fmt.Sprintf("/watch/%d.png", i), task.EventCreated)
		ok, err := q.Enqueue(tk)
		if err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
		if ok {
			accepted++
		} else if tk.Status() != task.StatusDropped {
			t.Fatalf("rejected task status = %s, want dropped", tk.Status())
		}
	}

	if accepted != capacity {
		t.Fatalf("accepted = %d, want %d", accepted, capacity)
	}
	snap := q.Metrics().Snapshot()
	if snap.Admitted != capacity {
		t.Fatalf("admitted counter = %d, want %d", snap.Admitted, capacity)
	}
	if snap.Dropped != offered-capacity {
		t.Fatalf("dropped counter = %d, want %d", snap.Dropped, offered-capacity)
	}
}

func TestDequeueRespectsContext(t *testing.T) {
	q := NewBounded(1, nil)
	defer q.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := q.Dequeue(ctx); err == nil {
		t.Fatal("expected context error on empty queue")
	}
}

func TestCloseDrainsRemainingTasks(t *testing.T) {
	q := NewBounded(5, nil)
	tk := task.New("/watch/last.png", task.EventCreated)
	if ok, err := q.Enqueue(tk); err != nil || !ok {
		t.Fatalf("Enqueue: ok=%v err=%v", ok, err)
	}
	q.Close()

	ctx := context.Background()
	got, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	if got == nil || got.SourcePath != "/watch/last.png" {
		t.Fatalf("expected queued task after close, got %+v", got)
	}

	got, err = q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("Dequeue after drain: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil task on drained closed queue, got %+v", got)
	}
}

func TestEnqueueAfterClose(t *testing.T) {
	q := NewBounded(1, nil)
	q.Close()
	q.Close() // idempotent

	if _, err := q.Enqueue(task.New("/watch/x.png", task.EventCreated)); err != ErrClosed {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
}

func TestConcurrentProducersAndConsumers(t *testing.T) {
	const producers = 8
	const perProducer = 50
	q := NewBounded(producers*perProducer, nil)

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				if _, err := q.Enqueue(task.New(fmt.Sprintf("/w/%d-%d", p, i), task.EventCreated)); err != nil {
					t.Errorf("Enqueue: %v", err)
				}
			}
		}(p)
	}
	wg.Wait()
	q.Close()

	ctx := context.Background()
	consumed := 0
	for {
		tk, err := q.Dequeue(ctx)
		if err != nil {
			t.Fatalf("Dequeue: %v", err)
		}
		if tk == nil {
			break
		}
		consumed++
	}
	if consumed != producers*perProducer {
		t.Fatalf("consumed = %d, want %d", consumed, producers*perProducer)
	}
}

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordSkipped()
	m.RecordCompleted()
	m.RecordCompleted()
	m.RecordFailed()

	snap := m.Snapshot()
	if snap.Skipped != 1 || snap.Completed != 2 || snap.Failed != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
}
