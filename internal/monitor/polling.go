package monitor

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"memedex/internal/logging"
)

const defaultPollInterval = 2 * time.Second

// pollingSource scans the watched directory on a timer and synthesizes
// created/modified events from directory listings. Used for filesystems that
// do not deliver change notifications reliably (network mounts, some FUSE
// filesystems).
type pollingSource struct {
	directory string
	interval  time.Duration
	logger    *slog.Logger
	cancel    context.CancelFunc

	// known maps path -> last seen modification time. Only touched by the
	// scan loop goroutine.
	known map[string]time.Time
}

func newPollingSource(opts Options) (*pollingSource, error) {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &pollingSource{
		directory: opts.Directory,
		interval:  interval,
		logger:    logger,
		known:     make(map[string]time.Time),
	}, nil
}

// Start begins scanning. The first scan primes the known-file set so files
// present before startup are not reprocessed; only files appearing afterwards
// produce events.
func (s *pollingSource) Start(ctx context.Context) (<-chan Event, error) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	if err := s.prime(ctx); err != nil {
		cancel()
		return nil, err
	}
	s.logger.Info("polling directory",
		logging.String("directory", s.directory),
		logging.Duration("interval", s.interval))

	events := make(chan Event, 64)
	go s.loop(ctx, events)
	return events, nil
}

func (s *pollingSource) prime(ctx context.Context) error {
	for {
		entries, err := os.ReadDir(s.directory)
		if err == nil {
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				info, err := entry.Info()
				if err != nil {
					continue
				}
				s.known[filepath.Join(s.directory, entry.Name())] = info.ModTime()
			}
			return nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		s.logger.Warn("watch directory missing, retrying",
			logging.String("directory", s.directory),
			logging.Duration("retry_in", attachRetryInterval))
		select {
		case <-time.After(attachRetryInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *pollingSource) loop(ctx context.Context, events chan<- Event) {
	defer close(events)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.scan(ctx, events)
		}
	}
}

func (s *pollingSource) scan(ctx context.Context, events chan<- Event) {
	entries, err := os.ReadDir(s.directory)
	if err != nil {
		s.logger.Warn("poll scan failed", logging.Error(err))
		return
	}

	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(s.directory, entry.Name())
		seen[path] = struct{}{}

		previous, tracked := s.known[path]
		s.known[path] = info.ModTime()

		var kind EventKind
		switch {
		case !tracked:
			kind = EventCreated
		case info.ModTime().After(previous):
			kind = EventModified
		default:
			continue
		}

		select {
		case events <- Event{Path: path, Kind: kind}:
		case <-ctx.Done():
			return
		}
	}

	// Forget files that disappeared so re-creation registers as new.
	for path := range s.known {
		if _, ok := seen[path]; !ok {
			delete(s.known, path)
		}
	}
}

// Stop halts the scan loop.
func (s *pollingSource) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}
