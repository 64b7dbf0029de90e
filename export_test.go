package pgentry

import "time"

// ConfigSnapshot holds a copy of entryConfig fields for test assertions.
// Exported only via export_test.go so that the _test package can verify
// option closures actually mutate the config without accessing internals.
type ConfigSnapshot struct {
	MaxAttempts    int
	ConnectTimeout time.Duration
	RetryDelay     time.Duration
	LogDir         string
	Supervise      bool
	HasLogger      bool
}

// ApplyOptionsForTesting creates a default entryConfig, applies the given
// options, and returns a ConfigSnapshot of the result. This tests the
// option closures directly without constructing an Entrypoint.
func ApplyOptionsForTesting(opts ...Option) ConfigSnapshot {
	cfg := defaultEntryConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return ConfigSnapshot{
		MaxAttempts:    cfg.maxAttempts,
		ConnectTimeout: cfg.connectTimeout,
		RetryDelay:     cfg.retryDelay,
		LogDir:         cfg.logDir,
		Supervise:      cfg.supervise,
		HasLogger:      cfg.logger != nil,
	}
}
