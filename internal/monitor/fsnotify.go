package monitor

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"memedex/internal/logging"
)

// attachRetryInterval is how often the notify source retries watching a
// directory that does not exist yet.
const attachRetryInterval = time.Second

// notifySource delivers events from the OS notification facility via fsnotify.
type notifySource struct {
	directory string
	watcher   *fsnotify.Watcher
	logger    *slog.Logger
}

func newNotifySource(opts Options) (*notifySource, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &notifySource{
		directory: opts.Directory,
		watcher:   watcher,
		logger:    logger,
	}, nil
}

// Start attaches to the watched directory and begins delivering events. A
// directory that does not exist yet is retried until it appears; any other
// attach failure is returned so the caller can disable the subsystem.
func (s *notifySource) Start(ctx context.Context) (<-chan Event, error) {
	if err := s.attach(ctx); err != nil {
		return nil, err
	}

	events := make(chan Event, 64)
	go s.loop(ctx, events)
	return events, nil
}

func (s *notifySource) attach(ctx context.Context) error {
	for {
		err := s.watcher.Add(s.directory)
		if err == nil {
			s.logger.Info("watching directory", logging.String("directory", s.directory))
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

func (s *notifySource) loop(ctx context.Context, events chan<- Event) {
	defer close(events)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			var kind EventKind
			switch {
			case event.Op.Has(fsnotify.Create):
				kind = EventCreated
			case event.Op.Has(fsnotify.Write):
				kind = EventModified
			default:
				continue
			}
			path, err := filepath.Abs(event.Name)
			if err != nil {
				path = event.Name
			}
			select {
			case events <- Event{Path: path, Kind: kind}:
			case <-ctx.Done():
				return
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("watcher error", logging.Error(err))
		}
	}
}

// Stop closes the underlying watcher.
func (s *notifySource) Stop() error {
	return s.watcher.Close()
}
