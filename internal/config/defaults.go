package config

const (
	defaultDataDir     = "~/.local/share/memedex/data"
	defaultStagingDir  = "~/.local/share/memedex/staging"
	defaultLogDir      = "~/.local/share/memedex/logs"
	defaultCatalogPath = "~/.local/share/memedex/catalog.db"

	defaultWorkers             = 4
	defaultQueueSize           = 100
	defaultDebounceSeconds     = 1.0
	defaultPollIntervalSeconds = 2.0
	defaultDrainTimeoutSeconds = 10

	defaultCaptionerBaseURL = "http://localhost:2020/v1"
	defaultCaptionerTimeout = 120

	defaultEmbedderBaseURL = "http://localhost:11434"
	defaultEmbedderModel   = "nomic-embed-text"
	defaultEmbedderTimeout = 60

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:     defaultDataDir,
			StagingDir:  defaultStagingDir,
			LogDir:      defaultLogDir,
			CatalogPath: defaultCatalogPath,
		},
		Monitor: Monitor{
			Enabled:             true,
			Workers:             defaultWorkers,
			QueueSize:           defaultQueueSize,
			DebounceSeconds:     defaultDebounceSeconds,
			PollIntervalSeconds: defaultPollIntervalSeconds,
			DrainTimeoutSeconds: defaultDrainTimeoutSeconds,
		},
		Captioner: Captioner{
			BaseURL:        defaultCaptionerBaseURL,
			TimeoutSeconds: defaultCaptionerTimeout,
		},
		Embedder: Embedder{
			BaseURL:        defaultEmbedderBaseURL,
			Model:          defaultEmbedderModel,
			TimeoutSeconds: defaultEmbedderTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
