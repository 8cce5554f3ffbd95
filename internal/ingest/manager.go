package ingest

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"memedex/internal/catalog"
	"memedex/internal/config"
	"memedex/internal/fileutil"
	"memedex/internal/logging"
	"memedex/internal/monitor"
	"memedex/internal/pipeline"
	"memedex/internal/queue"
	"memedex/internal/task"
)

// IndexChecker is the slice of the catalog the admission path needs.
type IndexChecker interface {
	ExistsByHash(ctx context.Context, hash string) (bool, error)
}

// Manager coordinates the full ingest path for one watched directory.
type Manager struct {
	cfg      *config.Config
	source   monitor.Source
	tracker  *Tracker
	queue    *queue.Bounded
	executor *pipeline.Executor
	index    IndexChecker
	logger   *slog.Logger

	debouncer Debouncer

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	eventWG sync.WaitGroup
	workers *workerPool
}

// Debouncer is the settle-timer dependency; satisfied by monitor.Debouncer.
type Debouncer interface {
	Observe(path string)
	Stop()
}

// Options bundles the manager's collaborators.
type Options struct {
	Config   *config.Config
	Source   monitor.Source
	Executor *pipeline.Executor
	Index    IndexChecker
	Metrics  *queue.Metrics
	Logger   *slog.Logger
}

// NewManager constructs an ingest manager. The bounded queue is created here
// from the configured capacity.
func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		cfg:      opts.Config,
		source:   opts.Source,
		tracker:  NewTracker(),
		queue:    queue.NewBounded(opts.Config.Monitor.QueueSize, opts.Metrics),
		executor: opts.Executor,
		index:    opts.Index,
		logger:   logging.NewComponentLogger(logger, "ingest"),
	}
}

// Metrics exposes the queue counters for status reporting.
func (m *Manager) Metrics() *queue.Metrics {
	return m.queue.Metrics()
}

// Start attaches the event source and launches the event loop and workers.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("ingest already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	events, err := m.source.Start(runCtx)
	if err != nil {
		cancel()
		m.mu.Unlock()
		return err
	}

	debouncer := monitor.NewDebouncer(m.cfg.DebounceWindow(), m.onStable)
	m.debouncer = debouncer

	// Workers run on the background context, not runCtx: shutdown must not
	// cancel in-flight pipeline calls, only stop new dequeues via queue close.
	m.workers = newWorkerPool(workerPoolOptions{
		count:    m.cfg.Monitor.Workers,
		queue:    m.queue,
		tracker:  m.tracker,
		executor: m.executor,
		logger:   m.logger,
	})
	m.workers.start(context.Background())

	m.cancel = cancel
	m.running = true
	m.eventWG.Add(1)
	m.mu.Unlock()

	go m.eventLoop(runCtx, events)

	m.logger.Info("ingest started",
		logging.String("directory", m.cfg.Paths.DataDir),
		logging.Int("workers", m.cfg.Monitor.Workers),
		logging.Int("queue_capacity", m.queue.Capacity()),
		logging.Bool("polling", m.cfg.Monitor.UsePolling))
	return nil
}

// Stop halts event delivery, stops admitting work, and waits up to the drain
// timeout for in-flight tasks. Tasks still running past the bound are
// abandoned (logged), never interrupted mid-operation.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	workers := m.workers
	debouncer := m.debouncer
	m.mu.Unlock()

	cancel()
	_ = m.source.Stop()
	debouncer.Stop()
	m.eventWG.Wait()

	// No new admissions; workers finish what is queued or in flight.
	m.queue.Close()
	drainTimeout := m.cfg.DrainTimeout()
	if drained := workers.wait(drainTimeout); !drained {
		m.logger.Warn("drain timeout exceeded, abandoning in-flight tasks",
			logging.Duration("drain_timeout", drainTimeout),
			logging.Int("in_flight", m.tracker.Len()))
	}

	snap := m.queue.Metrics().Snapshot()
	m.logger.Info("ingest stopped",
		logging.Int64("admitted", int64(snap.Admitted)),
		logging.Int64("completed", int64(snap.Completed)),
		logging.Int64("failed", int64(snap.Failed)),
		logging.Int64("dropped", int64(snap.Dropped)),
		logging.Int64("skipped", int64(snap.Skipped)))
}

func (m *Manager) eventLoop(ctx context.Context, events <-chan monitor.Event) {
	defer m.eventWG.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			m.onEvent(event)
		}
	}
}

// onEvent applies the extension allow-list and arms the debouncer. Rejected
// paths are dropped silently: no task, no counter.
func (m *Manager) onEvent(event monitor.Event) {
	if !monitor.Allowed(event.Path) {
		return
	}
	// Modifications only re-arm the settle timer for tracked paths. A write to
	// an untracked path means the file predates this run; it is not picked up.
	if event.Kind == monitor.EventModified && m.tracker.Get(event.Path) == nil {
		return
	}

	kind := task.EventCreated
	if event.Kind == monitor.EventModified {
		kind = task.EventModified
	}
	t, created := m.tracker.Observe(event.Path, kind)
	if created {
		_ = t.Transition(task.StatusDebouncing)
		m.logger.Debug("file detected",
			logging.String(logging.FieldTaskID, t.ID),
			logging.String(logging.FieldPath, event.Path),
			logging.String(logging.FieldEventType, string(event.Kind)))
	}
	m.debouncer.Observe(event.Path)
}

// onStable handles a settled path: duplicate checks, then queue admission.
func (m *Manager) onStable(path string) {
	t := m.tracker.Get(path)
	if t == nil {
		return
	}
	// A stable signal for a task already past debouncing (queued or running)
	// is a duplicate in-flight signal; drop it silently.
	if t.Status() != task.StatusDebouncing {
		return
	}
	if err := t.Transition(task.StatusStable); err != nil {
		return
	}

	// A zero-length file is either a reserved output name a worker has not
	// promoted onto yet, or a writer that has created but not filled the file;
	// neither is a decodable image. Untrack it so the write that fills it
	// starts a fresh task.
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		m.tracker.Release(path)
		return
	}

	_ = t.Transition(task.StatusChecking)

	if m.alreadyIndexed(t) {
		_ = t.Transition(task.StatusSkipped)
		m.queue.Metrics().RecordSkipped()
		m.tracker.Release(path)
		m.logger.Info("file already indexed, skipping",
			logging.String(logging.FieldTaskID, t.ID),
			logging.String(logging.FieldPath, path))
		return
	}

	_ = t.Transition(task.StatusAdmitted)
	accepted, err := m.queue.Enqueue(t)
	if err != nil || !accepted {
		m.tracker.Release(path)
		if err != nil {
			return
		}
		snap := m.queue.Metrics().Snapshot()
		m.logger.Warn("queue full, dropping file",
			logging.String(logging.FieldTaskID, t.ID),
			logging.String(logging.FieldPath, path),
			logging.Int("depth", m.queue.Len()),
			logging.Int("capacity", m.queue.Capacity()),
			logging.Int64("total_dropped", int64(snap.Dropped)))
	}
}

// alreadyIndexed hashes the settled file and asks the catalog whether that
// content is known. Hash or lookup failures admit the file anyway; the
// catalog upsert is content-addressed, so a duplicate slipping through cannot
// produce a second entry.
func (m *Manager) alreadyIndexed(t *task.Task) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hash, err := fileutil.HashFile(t.SourcePath)
	if err != nil {
		m.logger.Warn("cannot hash file for dedup check", logging.Error(err),
			logging.String(logging.FieldPath, t.SourcePath))
		return false
	}
	t.ContentHash = hash

	exists, err := m.index.ExistsByHash(ctx, hash)
	if err != nil {
		m.logger.Warn("index lookup failed, admitting anyway", logging.Error(err),
			logging.String(logging.FieldPath, t.SourcePath))
		return false
	}
	return exists
}

var (
	_ Debouncer    = (*monitor.Debouncer)(nil)
	_ IndexChecker = (*catalog.Store)(nil)
)
