package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"memedex/internal/catalog"
	"memedex/internal/config"
	"memedex/internal/ingest"
	"memedex/internal/logging"
	"memedex/internal/monitor"
	"memedex/internal/pipeline"
	"memedex/internal/queue"
	"memedex/internal/services/captioner"
	"memedex/internal/services/embedder"
)

// Daemon coordinates the ingest subsystem and enforces single-instance execution.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *catalog.Store
	ingest *ingest.Manager

	lockPath string
	lock     *flock.Flock

	running         atomic.Bool
	monitorDisabled atomic.Bool
	cancel          context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running         bool
	MonitorEnabled  bool
	MonitorDisabled bool // attach failed; subsystem off for process lifetime
	CatalogPath     string
	LockFilePath    string
	CatalogEntries  int
	Metrics         queue.Snapshot
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *catalog.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, and logger")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "memedexd.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}

	if cfg.Monitor.Enabled {
		source, err := monitor.NewSource(monitor.Options{
			Directory:    cfg.Paths.DataDir,
			UsePolling:   cfg.Monitor.UsePolling,
			PollInterval: cfg.PollInterval(),
			Logger:       logging.NewComponentLogger(logger, "monitor"),
		})
		if err != nil {
			return nil, fmt.Errorf("create event source: %w", err)
		}

		executor := pipeline.NewExecutor(pipeline.Options{
			Captioner: captioner.NewClient(captioner.Config{
				BaseURL:        cfg.Captioner.BaseURL,
				TimeoutSeconds: cfg.Captioner.TimeoutSeconds,
			}),
			Embedder: embedder.NewClient(embedder.Config{
				BaseURL:        cfg.Embedder.BaseURL,
				Model:          cfg.Embedder.Model,
				TimeoutSeconds: cfg.Embedder.TimeoutSeconds,
			}),
			Index:      store,
			DataDir:    cfg.Paths.DataDir,
			StagingDir: cfg.Paths.StagingDir,
			Logger:     logging.NewComponentLogger(logger, "pipeline"),
		})

		d.ingest = ingest.NewManager(ingest.Options{
			Config:   cfg,
			Source:   source,
			Executor: executor,
			Index:    store,
			Logger:   logger,
		})
	}

	return d, nil
}

// Start acquires the daemon lock and launches the ingest subsystem. An event
// source that cannot attach is reported once and leaves the daemon running
// with monitoring disabled.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	if err := d.cfg.EnsureDirectories(); err != nil {
		return err
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another memedex daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if d.ingest != nil {
		if err := d.ingest.Start(runCtx); err != nil {
			d.monitorDisabled.Store(true)
			d.logger.Error("file monitor failed to start; ingest disabled for this run",
				logging.Error(err),
				logging.String("directory", d.cfg.Paths.DataDir))
		}
	} else {
		d.logger.Info("file monitor disabled by configuration")
	}

	d.running.Store(true)
	d.logger.Info("memedex daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.ingest != nil && !d.monitorDisabled.Load() {
		d.ingest.Stop()
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("memedex daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:         d.running.Load(),
		MonitorEnabled:  d.cfg.Monitor.Enabled,
		MonitorDisabled: d.monitorDisabled.Load(),
		CatalogPath:     d.store.Path(),
		LockFilePath:    d.lockPath,
	}
	if count, err := d.store.Count(ctx); err == nil {
		status.CatalogEntries = count
	}
	if d.ingest != nil {
		status.Metrics = d.ingest.Metrics().Snapshot()
	}
	return status
}
