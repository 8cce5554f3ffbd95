// Package testsupport provides shared helpers for package tests: temp-backed
// configurations, catalog stores, and image fixtures.
package testsupport

import (
	"path/filepath"
	"testing"

	"memedex/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.CatalogPath = filepath.Join(base, "catalog.db")
	cfg.Monitor.DebounceSeconds = 0.02
	cfg.Monitor.DrainTimeoutSeconds = 5

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithPolling switches the generated config to the polling event source.
func WithPolling(intervalSeconds float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Monitor.UsePolling = true
		cfg.Monitor.PollIntervalSeconds = intervalSeconds
	}
}

// WithMonitorDisabled turns the file monitor off.
func WithMonitorDisabled() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Monitor.Enabled = false
	}
}

// WithWorkers overrides the worker count and queue capacity.
func WithWorkers(workers, queueSize int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Monitor.Workers = workers
		cfg.Monitor.QueueSize = queueSize
	}
}
