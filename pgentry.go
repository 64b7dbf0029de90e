package pgentry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pgentry/pgentry/internal/dbwait"
	"github.com/pgentry/pgentry/internal/envcfg"
	"github.com/pgentry/pgentry/internal/launcher"
)

// entryConfig holds the assembled configuration for an Entrypoint.
// Options mutate it during New.
type entryConfig struct {
	maxAttempts    int
	connectTimeout time.Duration
	retryDelay     time.Duration
	logDir         string
	supervise      bool
	logger         *slog.Logger // nil means the package logger
}

// defaultEntryConfig returns the configuration New starts from before
// applying options.
func defaultEntryConfig() entryConfig {
	return entryConfig{
		maxAttempts:    DefaultMaxAttempts,
		connectTimeout: DefaultConnectTimeout,
		retryDelay:     DefaultRetryDelay,
		logDir:         DefaultLogDir,
	}
}

// Entrypoint runs the container startup sequence. The zero value is not
// usable; construct with New.
//
// An Entrypoint holds no open resources and no background goroutines. All
// methods read the connection descriptor from the environment at call time,
// so the same Entrypoint observes environment changes between calls.
type Entrypoint struct {
	config entryConfig
}

// New creates an Entrypoint with the given options applied on top of the
// package defaults (see the Default* constants).
//
// New panics if an option received an invalid value; see the With*
// functions for the individual rules.
func New(opts ...Option) *Entrypoint {
	cfg := defaultEntryConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Entrypoint{config: cfg}
}

// log returns the logger for this Entrypoint: the one set via WithLogger,
// or the package logger.
func (e *Entrypoint) log() *slog.Logger {
	if e.config.logger != nil {
		return e.config.logger
	}
	return Logger()
}

// Run executes the full startup sequence: load the connection descriptor
// from the environment, wait for the database to become ready, fix log
// directory ownership, and launch argv as the restricted runtime identity.
//
// On the default exec path a nil return is unreachable: the process image
// is replaced by the target command and Run never comes back. In supervise
// mode (see WithSupervise) the target runs as a child instead; Run returns
// nil when it exits zero and an *ExitError mirroring its status otherwise.
//
// An empty argv fails with ErrEmptyCommand before the gate runs. A gate
// failure, including ErrAttemptsExhausted, returns before any part of the
// launch sequence has started.
func (e *Entrypoint) Run(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return launcher.ErrEmptyCommand
	}

	db, err := envcfg.Load()
	if err != nil {
		return fmt.Errorf("entrypoint configuration: %w", err)
	}

	if err := e.waitForDatabase(ctx, db); err != nil {
		return err
	}

	d := launcher.New(launcher.Config{
		LogDir:    e.config.logDir,
		Supervise: e.config.supervise,
		Logger:    e.log(),
	})
	return d.Launch(ctx, argv)
}

// WaitForDatabase runs only the readiness gate: probe the database until it
// accepts a connection or the attempt ceiling is reached. It is the
// standalone form of the gate for init containers and scripts that need to
// block on the database without launching anything.
func (e *Entrypoint) WaitForDatabase(ctx context.Context) error {
	db, err := envcfg.Load()
	if err != nil {
		return fmt.Errorf("entrypoint configuration: %w", err)
	}
	return e.waitForDatabase(ctx, db)
}

// waitForDatabase announces the gate and polls the probe with the
// configured budget.
func (e *Entrypoint) waitForDatabase(ctx context.Context, db envcfg.Database) error {
	log := e.log()
	log.Info("(Entrypoint) Waiting for PostgreSQL",
		"database", db.Redacted(),
		"max_attempts", e.config.maxAttempts,
		"connect_timeout", e.config.connectTimeout,
		"retry_delay", e.config.retryDelay)

	return dbwait.Wait(ctx, dbwait.Config{
		MaxAttempts:    e.config.maxAttempts,
		ConnectTimeout: e.config.connectTimeout,
		RetryDelay:     e.config.retryDelay,
		Logger:         log,
	}, dbwait.Probe(db))
}

// CheckDatabase performs exactly one probe, bounded by the configured
// connect timeout, and reports the result. There is no retry. It backs
// container health checks, where the orchestrator owns the retry policy.
func (e *Entrypoint) CheckDatabase(ctx context.Context) error {
	db, err := envcfg.Load()
	if err != nil {
		return fmt.Errorf("entrypoint configuration: %w", err)
	}

	probeCtx, cancel := context.WithTimeout(ctx, e.config.connectTimeout)
	defer cancel()
	if err := dbwait.Probe(db)(probeCtx); err != nil {
		return fmt.Errorf("database health check: %w", err)
	}
	return nil
}
