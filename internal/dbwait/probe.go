package dbwait

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pgentry/pgentry/internal/envcfg"
)

// probeCloseTimeout bounds the graceful close of a probe connection. The
// close is best-effort; a database that accepted the connection moments ago
// will process the terminate message well within a second.
const probeCloseTimeout = time.Second

// Probe returns a ProbeFunc that opens one PostgreSQL connection described
// by db, pings it, and closes it. This is a liveness probe, not a held
// connection: the handle is released on every path, including immediately
// after a successful ping.
func Probe(db envcfg.Database) ProbeFunc {
	return func(ctx context.Context) error {
		cfg, err := pgx.ParseConfig(db.URL())
		if err != nil {
			return fmt.Errorf("parse connection config: %w", err)
		}

		conn, err := pgx.ConnectConfig(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connect %s: %w", db.Addr(), err)
		}
		defer func() {
			// A fresh context: ctx may already be expired, and an expired
			// context would skip the graceful terminate message.
			closeCtx, cancel := context.WithTimeout(context.Background(), probeCloseTimeout)
			defer cancel()
			_ = conn.Close(closeCtx) // best-effort close of the probe connection
		}()

		if err := conn.Ping(ctx); err != nil {
			return fmt.Errorf("ping %s: %w", db.Addr(), err)
		}
		return nil
	}
}

// Retryable reports whether err is a transient connectivity failure worth
// another attempt. Classification is by error kind:
//
//   - context.Canceled is never retryable: it is the container runtime
//     telling us to stop.
//   - *pgconn.ParseConfigError is never retryable: the descriptor itself is
//     broken, a configuration error.
//   - context.DeadlineExceeded (the per-attempt budget), *pgconn.ConnectError
//     (refused, reset, unreachable), *pgconn.PgError (the server is up but
//     rejecting us, e.g. still starting or credentials not provisioned yet)
//     and net.Error are all transient while the database boots.
//
// Anything unclassified is treated as fatal: failing loudly on an unknown
// kind beats burning the whole attempt budget on it.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var parseErr *pgconn.ParseConfigError
	if errors.As(err, &parseErr) {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return false
}
