package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	c.applyEnvOverrides()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMonitor()
	c.normalizeServices()
	c.normalizeLogging()
	return nil
}

// applyEnvOverrides maps deployment environment variables onto config fields.
// Environment values win over file values so containerized installs can steer
// the daemon without editing TOML.
func (c *Config) applyEnvOverrides() {
	if value, ok := lookupEnv("DATA_PATH"); ok {
		c.Paths.DataDir = value
	}
	if value, ok := envBool("ENABLE_FILE_MONITOR"); ok {
		c.Monitor.Enabled = value
	}
	if value, ok := envInt("MAX_WORKER_THREADS"); ok {
		c.Monitor.Workers = value
	}
	if value, ok := envInt("MAX_QUEUE_SIZE"); ok {
		c.Monitor.QueueSize = value
	}
	if value, ok := envBool("USE_POLLING_OBSERVER"); ok {
		c.Monitor.UsePolling = value
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CatalogPath) == "" {
		c.Paths.CatalogPath = defaultCatalogPath
	}
	if c.Paths.CatalogPath, err = expandPath(c.Paths.CatalogPath); err != nil {
		return fmt.Errorf("paths.catalog_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeMonitor() {
	if c.Monitor.Workers <= 0 {
		c.Monitor.Workers = defaultWorkers
	}
	if c.Monitor.QueueSize <= 0 {
		c.Monitor.QueueSize = defaultQueueSize
	}
	if c.Monitor.DebounceSeconds <= 0 {
		c.Monitor.DebounceSeconds = defaultDebounceSeconds
	}
	if c.Monitor.PollIntervalSeconds <= 0 {
		c.Monitor.PollIntervalSeconds = defaultPollIntervalSeconds
	}
	if c.Monitor.DrainTimeoutSeconds <= 0 {
		c.Monitor.DrainTimeoutSeconds = defaultDrainTimeoutSeconds
	}
}

func (c *Config) normalizeServices() {
	c.Captioner.BaseURL = strings.TrimSpace(c.Captioner.BaseURL)
	if c.Captioner.BaseURL == "" {
		c.Captioner.BaseURL = defaultCaptionerBaseURL
	}
	if c.Captioner.TimeoutSeconds <= 0 {
		c.Captioner.TimeoutSeconds = defaultCaptionerTimeout
	}
	c.Embedder.BaseURL = strings.TrimSpace(c.Embedder.BaseURL)
	if c.Embedder.BaseURL == "" {
		c.Embedder.BaseURL = defaultEmbedderBaseURL
	}
	c.Embedder.Model = strings.TrimSpace(c.Embedder.Model)
	if c.Embedder.Model == "" {
		c.Embedder.Model = defaultEmbedderModel
	}
	if c.Embedder.TimeoutSeconds <= 0 {
		c.Embedder.TimeoutSeconds = defaultEmbedderTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

func envBool(key string) (bool, bool) {
	value, ok := lookupEnv(key)
	if !ok {
		return false, false
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}

func envInt(key string) (int, bool) {
	value, ok := lookupEnv(key)
	if !ok {
		return 0, false
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return parsed, true
}
