package ingest

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"memedex/internal/logging"
	"memedex/internal/pipeline"
	"memedex/internal/queue"
	"memedex/internal/task"
)

// workerPool runs a fixed number of workers that drain the bounded queue
// through the pipeline executor. Workers exit when the queue is closed and
// empty; they are never cancelled mid-task.
type workerPool struct {
	count    int
	queue    *queue.Bounded
	tracker  *Tracker
	executor *pipeline.Executor
	logger   *slog.Logger

	group *errgroup.Group
	done  chan struct{}
}

type workerPoolOptions struct {
	count    int
	queue    *queue.Bounded
	tracker  *Tracker
	executor *pipeline.Executor
	logger   *slog.Logger
}

func newWorkerPool(opts workerPoolOptions) *workerPool {
	count := opts.count
	if count <= 0 {
		count = 1
	}
	return &workerPool{
		count:    count,
		queue:    opts.queue,
		tracker:  opts.tracker,
		executor: opts.executor,
		logger:   opts.logger,
		done:     make(chan struct{}),
	}
}

func (p *workerPool) start(ctx context.Context) {
	p.group, _ = errgroup.WithContext(ctx)
	for i := 0; i < p.count; i++ {
		worker := i
		p.group.Go(func() error {
			p.run(ctx, worker)
			return nil
		})
	}
	go func() {
		_ = p.group.Wait()
		close(p.done)
	}()
}

// wait blocks until all workers exit or the timeout elapses. Returns false on
// timeout.
func (p *workerPool) wait(timeout time.Duration) bool {
	select {
	case <-p.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (p *workerPool) run(ctx context.Context, id int) {
	logger := p.logger.With(logging.Int("worker", id))
	for {
		t, err := p.queue.Dequeue(ctx)
		if err != nil {
			return
		}
		if t == nil {
			// Queue closed and drained.
			return
		}
		p.process(ctx, logger, t)
	}
}

func (p *workerPool) process(ctx context.Context, logger *slog.Logger, t *task.Task) {
	defer p.tracker.Release(t.SourcePath)

	if err := t.Transition(task.StatusProcessing); err != nil {
		logger.Warn("task in unexpected state, discarding",
			logging.String(logging.FieldTaskID, t.ID),
			logging.Error(err))
		return
	}

	start := time.Now()
	if err := p.executor.Run(ctx, t); err != nil {
		_ = t.Fail(err.Error())
		p.queue.Metrics().RecordFailed()
		logger.Error("ingest failed",
			logging.String(logging.FieldTaskID, t.ID),
			logging.String(logging.FieldPath, t.SourcePath),
			logging.Duration("elapsed", time.Since(start)),
			logging.Error(err))
		return
	}

	_ = t.Transition(task.StatusCompleted)
	p.queue.Metrics().RecordCompleted()
	logger.Info("ingest completed",
		logging.String(logging.FieldTaskID, t.ID),
		logging.String(logging.FieldPath, t.SourcePath),
		logging.String("final_path", t.FinalPath),
		logging.Duration("elapsed", time.Since(start)))
}
