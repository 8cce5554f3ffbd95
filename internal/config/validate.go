package config

import (
	"errors"
	"fmt"

	"memedex/internal/services"
)

// Validate ensures the configuration is usable. Failures carry
// services.ErrConfiguration so callers can classify them.
func (c *Config) Validate() error {
	for _, check := range []func() error{
		c.validatePaths,
		c.validateMonitor,
		c.validateServices,
	} {
		if err := check(); err != nil {
			return fmt.Errorf("%w: %w", services.ErrConfiguration, err)
		}
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.StagingDir == "" {
		return errors.New("paths.staging_dir must be set")
	}
	if c.Paths.CatalogPath == "" {
		return errors.New("paths.catalog_path must be set")
	}
	if c.Paths.DataDir == c.Paths.StagingDir {
		return errors.New("paths.staging_dir must differ from paths.data_dir")
	}
	return nil
}

func (c *Config) validateMonitor() error {
	for key, value := range map[string]int{
		"monitor.workers":               c.Monitor.Workers,
		"monitor.queue_size":            c.Monitor.QueueSize,
		"monitor.drain_timeout_seconds": c.Monitor.DrainTimeoutSeconds,
	} {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	if c.Monitor.DebounceSeconds <= 0 {
		return errors.New("monitor.debounce_seconds must be positive")
	}
	if c.Monitor.PollIntervalSeconds <= 0 {
		return errors.New("monitor.poll_interval_seconds must be positive")
	}
	return nil
}

func (c *Config) validateServices() error {
	if c.Captioner.BaseURL == "" {
		return errors.New("captioner.base_url must be set")
	}
	if c.Embedder.BaseURL == "" {
		return errors.New("embedder.base_url must be set")
	}
	if c.Embedder.Model == "" {
		return errors.New("embedder.model must be set")
	}
	return nil
}
