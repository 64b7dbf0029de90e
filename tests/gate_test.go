//go:build integration

package pgentry_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pgentry/pgentry"
	"github.com/pgentry/pgentry/tests/internal/testutil"
)

// TestGateExhaustsAgainstUnresponsiveListener runs the readiness gate
// against a server that accepts TCP connections but never speaks the
// protocol. Every attempt must reach the listener, and the gate must stop
// at exactly the attempt ceiling with the configured pacing.
func TestGateExhaustsAgainstUnresponsiveListener(t *testing.T) {
	listener := testutil.StartUnresponsiveListener(t)
	testutil.SetDatabaseEnv(t, "127.0.0.1", listener.Port())

	const (
		attempts = 4
		delay    = 25 * time.Millisecond
	)

	entry := pgentry.New(
		pgentry.WithMaxAttempts(attempts),
		pgentry.WithConnectTimeout(2*time.Second),
		pgentry.WithRetryDelay(delay),
	)

	start := time.Now()
	err := entry.WaitForDatabase(context.Background())
	elapsed := time.Since(start)

	if !errors.Is(err, pgentry.ErrAttemptsExhausted) {
		t.Fatalf("expected ErrAttemptsExhausted, got %v", err)
	}
	if got := listener.Accepts(); got != attempts {
		t.Errorf("listener accepted %d connections, want exactly %d", got, attempts)
	}
	// N attempts are separated by N-1 delays, with no delay after the last.
	if minElapsed := time.Duration(attempts-1) * delay; elapsed < minElapsed {
		t.Errorf("gate returned after %v, want at least %v", elapsed, minElapsed)
	}
}

// TestGateExhaustsOnRefusedConnection covers the plain connection-refused
// path: nothing listens on the port at all.
func TestGateExhaustsOnRefusedConnection(t *testing.T) {
	testutil.SetDatabaseEnv(t, "127.0.0.1", testutil.ClosedPort(t))

	entry := pgentry.New(
		pgentry.WithMaxAttempts(3),
		pgentry.WithConnectTimeout(2*time.Second),
		pgentry.WithRetryDelay(20*time.Millisecond),
	)

	start := time.Now()
	err := entry.WaitForDatabase(context.Background())
	elapsed := time.Since(start)

	if !errors.Is(err, pgentry.ErrAttemptsExhausted) {
		t.Fatalf("expected ErrAttemptsExhausted, got %v", err)
	}
	if !strings.Contains(err.Error(), "3 attempts") {
		t.Errorf("error does not report the attempt count: %v", err)
	}
	if elapsed < 40*time.Millisecond {
		t.Errorf("gate returned after %v, expected two retry delays", elapsed)
	}
	// Refused connections fail immediately, so the whole gate should finish
	// well inside the per-attempt budget.
	if elapsed > 3*time.Second {
		t.Errorf("gate took %v, refused connections should not consume the connect timeout", elapsed)
	}
}

// TestGateCancellationInterruptsRetryDelay verifies that a canceled context
// cuts the gate short in the middle of a long inter-attempt sleep.
func TestGateCancellationInterruptsRetryDelay(t *testing.T) {
	testutil.SetDatabaseEnv(t, "127.0.0.1", testutil.ClosedPort(t))

	entry := pgentry.New(
		pgentry.WithMaxAttempts(1000),
		pgentry.WithConnectTimeout(2*time.Second),
		pgentry.WithRetryDelay(10*time.Second),
	)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := entry.WaitForDatabase(ctx)
	elapsed := time.Since(start)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if elapsed >= 5*time.Second {
		t.Errorf("cancellation took %v, want prompt interruption", elapsed)
	}
}

// TestRunDoesNotLaunchWhenGateFails drives Run end to end against a dead
// endpoint and verifies the failure is the gate's, not the launcher's: the
// target command must never be resolved or started.
func TestRunDoesNotLaunchWhenGateFails(t *testing.T) {
	testutil.SetDatabaseEnv(t, "127.0.0.1", testutil.ClosedPort(t))

	entry := pgentry.New(
		pgentry.WithMaxAttempts(2),
		pgentry.WithConnectTimeout(time.Second),
		pgentry.WithRetryDelay(10*time.Millisecond),
	)

	err := entry.Run(context.Background(), []string{"pgentry-integration-never-launched", "--flag"})
	if !errors.Is(err, pgentry.ErrAttemptsExhausted) {
		t.Fatalf("expected ErrAttemptsExhausted, got %v", err)
	}
	if strings.Contains(err.Error(), "pgentry-integration-never-launched") {
		t.Errorf("error mentions the target command, launch must not run: %v", err)
	}
}

// TestCheckDatabaseReportsDeadEndpoint covers the health check against a
// dead endpoint: one probe, one failure, no retry loop.
func TestCheckDatabaseReportsDeadEndpoint(t *testing.T) {
	testutil.SetDatabaseEnv(t, "127.0.0.1", testutil.ClosedPort(t))

	entry := pgentry.New(pgentry.WithConnectTimeout(time.Second))

	start := time.Now()
	err := entry.CheckDatabase(context.Background())
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected an error probing a dead endpoint")
	}
	if errors.Is(err, pgentry.ErrAttemptsExhausted) {
		t.Errorf("health check must not retry: %v", err)
	}
	if elapsed > 5*time.Second {
		t.Errorf("single probe took %v", elapsed)
	}
}
