package dbwait

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/pgentry/pgentry/internal/sentinel"
)

// Sentinel errors returned by Wait for invalid configuration and for
// retry-budget exhaustion. Callers match these with errors.Is through
// wrapped error chains.
const (
	// ErrMaxAttemptsNotPositive indicates a non-positive attempt ceiling.
	ErrMaxAttemptsNotPositive = sentinel.Error("max attempts must be positive")

	// ErrConnectTimeoutNotPositive indicates a non-positive per-attempt budget.
	ErrConnectTimeoutNotPositive = sentinel.Error("connect timeout must be positive")

	// ErrRetryDelayNotPositive indicates a non-positive inter-attempt delay.
	ErrRetryDelayNotPositive = sentinel.Error("retry delay must be positive")

	// ErrAttemptsExhausted is returned when the database did not accept a
	// connection within the attempt ceiling. The dispatcher phase must not
	// run after this error.
	ErrAttemptsExhausted = sentinel.Error("database never became ready")
)

// ProbeFunc performs one connection attempt. The context carries the
// per-attempt timeout; implementations must release any handle they acquire
// before returning, on every path.
type ProbeFunc func(ctx context.Context) error

// Config bounds the retry loop of Wait.
type Config struct {
	MaxAttempts    int           // Attempt ceiling (attempts are 1-indexed in logs)
	ConnectTimeout time.Duration // Per-attempt budget handed to the probe via context
	RetryDelay     time.Duration // Sleep between failed attempts
	Logger         *slog.Logger  // Optional logger (defaults to slog.Default())
}

// validate checks the loop bounds, reporting all violations at once.
func (c Config) validate() error {
	var errs []error
	if c.MaxAttempts <= 0 {
		errs = append(errs, ErrMaxAttemptsNotPositive)
	}
	if c.ConnectTimeout <= 0 {
		errs = append(errs, ErrConnectTimeoutNotPositive)
	}
	if c.RetryDelay <= 0 {
		errs = append(errs, ErrRetryDelayNotPositive)
	}
	return errors.Join(errs...)
}

// Wait blocks until probe succeeds once, a fatal error occurs, the attempt
// ceiling is reached, or ctx is canceled.
//
// Each failed retryable attempt is logged with its 1-based index and cause,
// then the loop sleeps RetryDelay and tries again. The ceiling check happens
// after a failed probe, so exactly MaxAttempts probes run with MaxAttempts-1
// sleeps between them; exhaustion returns ErrAttemptsExhausted without a
// trailing delay. A non-retryable error (see Retryable) aborts immediately.
// Cancellation of ctx interrupts both a blocked probe and the sleep.
func Wait(ctx context.Context, cfg Config, probe ProbeFunc) error {
	if err := cfg.validate(); err != nil {
		return fmt.Errorf("wait for database: %w", err)
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	// attempt is incremented without synchronization because
	// PollUntilContextCancel invokes the condition sequentially; the
	// closure never runs concurrently with itself.
	attempt := 0
	err := wait.PollUntilContextCancel(ctx, cfg.RetryDelay, true,
		func(pollCtx context.Context) (bool, error) {
			attempt++

			attemptCtx, cancel := context.WithTimeout(pollCtx, cfg.ConnectTimeout)
			probeErr := probe(attemptCtx)
			cancel()

			if probeErr == nil {
				log.Info("(Entrypoint) Database is ready", "attempt", attempt)
				return true, nil
			}
			if !Retryable(probeErr) {
				return false, fmt.Errorf("attempt %d: %w", attempt, probeErr)
			}
			if attempt >= cfg.MaxAttempts {
				return false, fmt.Errorf("%w after %d attempts: last error: %v",
					ErrAttemptsExhausted, cfg.MaxAttempts, probeErr)
			}

			log.Info("(Entrypoint) Database not ready yet",
				"attempt", attempt, "max_attempts", cfg.MaxAttempts, "error", probeErr)
			return false, nil
		})
	if err != nil {
		return fmt.Errorf("wait for database: %w", err)
	}
	return nil
}
