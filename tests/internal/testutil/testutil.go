//go:build integration

// Package testutil provides shared helpers for integration test packages.
package testutil

import (
	"log/slog"
	"net"
	"os"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/pgentry/pgentry"
)

// SetupTestLogging installs a process-wide text logger at the level named by
// PGENTRY_LOG_LEVEL (default INFO) and routes the pgentry package logger
// through it.
func SetupTestLogging() {
	levelStr := os.Getenv("PGENTRY_LOG_LEVEL")
	if levelStr == "" {
		levelStr = "INFO"
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))

	pgentry.SetLogger(slog.Default().With("component", "pgentry"))
}

// SetDatabaseEnv points the DB_* connection descriptor at host:port using
// t.Setenv, so the variables are restored when the test finishes. Name,
// user and password get fixed test values.
func SetDatabaseEnv(t *testing.T, host string, port int) {
	t.Helper()

	t.Setenv("DB_HOST", host)
	t.Setenv("DB_PORT", strconv.Itoa(port))
	t.Setenv("DB_NAME", "app_db")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "app-secret")
}

// LiveDatabase describes a real PostgreSQL endpoint supplied through the
// PGENTRY_TEST_DB_* environment variables for tests that need a database
// that actually answers the wire protocol.
type LiveDatabase struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// RequireLiveDatabaseOrSkip reads the PGENTRY_TEST_DB_* variables and skips
// the test when no endpoint is configured. The returned descriptor is
// already applied to the DB_* variables via t.Setenv.
func RequireLiveDatabaseOrSkip(t *testing.T) LiveDatabase {
	t.Helper()

	db := LiveDatabase{
		Host:     os.Getenv("PGENTRY_TEST_DB_HOST"),
		Port:     os.Getenv("PGENTRY_TEST_DB_PORT"),
		Name:     os.Getenv("PGENTRY_TEST_DB_NAME"),
		User:     os.Getenv("PGENTRY_TEST_DB_USER"),
		Password: os.Getenv("PGENTRY_TEST_DB_PASSWORD"),
	}
	if db.Host == "" {
		t.Skip("PGENTRY_TEST_DB_HOST not set, skipping live database test")
	}
	if db.Port == "" {
		db.Port = "5432"
	}

	t.Setenv("DB_HOST", db.Host)
	t.Setenv("DB_PORT", db.Port)
	t.Setenv("DB_NAME", db.Name)
	t.Setenv("DB_USER", db.User)
	t.Setenv("DB_PASSWORD", db.Password)

	return db
}

// UnresponsiveListener is a TCP listener that accepts connections and closes
// them immediately, before any protocol exchange. Probes against it reach
// the server but never complete a handshake.
type UnresponsiveListener struct {
	ln      net.Listener
	accepts atomic.Int32
}

// StartUnresponsiveListener starts an UnresponsiveListener on a free
// loopback port and registers its shutdown with t.Cleanup.
func StartUnresponsiveListener(t *testing.T) *UnresponsiveListener {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	u := &UnresponsiveListener{ln: ln}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			u.accepts.Add(1)
			conn.Close()
		}
	}()
	t.Cleanup(func() { ln.Close() })

	return u
}

// Port returns the listener's port.
func (u *UnresponsiveListener) Port() int {
	return u.ln.Addr().(*net.TCPAddr).Port
}

// Accepts returns how many connections the listener has accepted so far.
func (u *UnresponsiveListener) Accepts() int {
	return int(u.accepts.Load())
}

// ClosedPort returns a loopback port that was just bound and released, so
// connecting to it is refused. There is a small window for reuse by another
// process; loopback plus an ephemeral port makes that unlikely enough for
// tests.
func ClosedPort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	if err := ln.Close(); err != nil {
		t.Fatalf("close listener: %v", err)
	}

	return port
}
