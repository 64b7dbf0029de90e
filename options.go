package pgentry

import (
	"fmt"
	"log/slog"
	"time"
)

// requirePositive panics if v <= 0 with a descriptive message.
func requirePositive[T int | time.Duration](name string, v T) {
	if v <= 0 {
		panic(fmt.Sprintf("pgentry: %s must be greater than 0, got %v", name, v))
	}
}

// Option configures an Entrypoint during construction via New.
// Each With* function returns an Option that sets a specific field.
//
// Several With* functions panic on invalid input (non-positive counts and
// durations, nil loggers). These panics are intentional: option values are
// typically compile-time constants, so an invalid value indicates a
// programmer error rather than a runtime condition. The pattern mirrors
// [regexp.MustCompile]: fail fast during initialization instead of
// returning errors that would be universally fatal anyway.
type Option func(*entryConfig)

// WithMaxAttempts sets the readiness gate's attempt ceiling. Once the
// ceiling is reached without a successful probe, Run and WaitForDatabase
// fail with ErrAttemptsExhausted.
//
// Default: 30.
//
// Panics if n <= 0.
func WithMaxAttempts(n int) Option {
	requirePositive("max attempts", n)
	return func(c *entryConfig) {
		c.maxAttempts = n
	}
}

// WithConnectTimeout sets the budget for a single probe: dialing the
// database, completing the handshake, and the ping. An attempt that
// overruns it counts as a failed attempt.
//
// Default: 2 seconds.
//
// Panics if d <= 0.
func WithConnectTimeout(d time.Duration) Option {
	requirePositive("connect timeout", d)
	return func(c *entryConfig) {
		c.connectTimeout = d
	}
}

// WithRetryDelay sets the pause between failed probe attempts. There is no
// delay after the final attempt; with N attempts the gate sleeps N-1 times.
//
// Default: 1 second.
//
// Panics if d <= 0.
func WithRetryDelay(d time.Duration) Option {
	requirePositive("retry delay", d)
	return func(c *entryConfig) {
		c.retryDelay = d
	}
}

// WithLogDir sets the shared log directory whose ownership is fixed before
// the privilege drop. A directory that does not exist at launch time is
// skipped with a log line, not treated as an error.
//
// The empty string disables the fix-up step entirely.
//
// Default: "/app/logs".
func WithLogDir(dir string) Option {
	return func(c *entryConfig) {
		c.logDir = dir
	}
}

// WithSupervise switches Run from process replacement to spawn-and-wait:
// the target command runs as a child with signals forwarded to it, and Run
// returns an *ExitError mirroring the child's exit status instead of never
// returning. Meant for platforms and tests where exec is unavailable or
// undesirable.
//
// Default: false (exec).
func WithSupervise(enabled bool) Option {
	return func(c *entryConfig) {
		c.supervise = enabled
	}
}

// WithLogger sets the logger for this Entrypoint only, overriding the
// package logger configured via SetLogger. The provided logger should
// already carry any desired attributes.
//
// Panics if l is nil. Use SetLogger(nil) to reset the package logger
// instead.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("pgentry: logger must not be nil")
	}
	return func(c *entryConfig) {
		c.logger = l
	}
}
