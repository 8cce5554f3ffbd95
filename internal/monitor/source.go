package monitor

import (
	"context"
	"log/slog"
	"time"
)

// EventKind distinguishes creation from modification events.
type EventKind string

const (
	EventCreated  EventKind = "created"
	EventModified EventKind = "modified"
)

// Event is a raw filesystem notification for a single path.
type Event struct {
	Path string
	Kind EventKind
}

// Source delivers filesystem events for a watched directory. Start may be
// called once; the returned channel closes when the source stops or the
// context is cancelled.
type Source interface {
	Start(ctx context.Context) (<-chan Event, error)
	Stop() error
}

// Options configures source construction.
type Options struct {
	Directory    string
	UsePolling   bool
	PollInterval time.Duration
	Logger       *slog.Logger
}

// NewSource selects the event source implementation from configuration:
// polling when requested, native notifications otherwise.
func NewSource(opts Options) (Source, error) {
	if opts.UsePolling {
		return newPollingSource(opts)
	}
	return newNotifySource(opts)
}
