// Package pgentry implements the startup sequence for containers that sit in
// front of a PostgreSQL database: wait for the database to accept connections,
// fix the ownership of the shared log directory, drop root privileges, and
// hand control to the real workload.
//
// # Basic Usage
//
//	import "github.com/pgentry/pgentry"
//
//	ctx := context.Background()
//
//	entry := pgentry.New()
//	if err := entry.Run(ctx, os.Args[1:]); err != nil {
//	    log.Fatal(err)
//	}
//
// On success Run replaces the current process with the target command, so it
// never returns. It returns only on failure, or in supervise mode, where the
// target runs as a child and Run reports its exit status.
//
// # Readiness Gate
//
// The gate reads the connection descriptor from the DB_HOST, DB_PORT,
// DB_NAME, DB_USER and DB_PASSWORD environment variables and probes the
// database until it accepts a full protocol handshake. Probes that fail for
// transient reasons (connection refused, timeout, server still starting up)
// are retried up to the attempt ceiling with a fixed delay between attempts;
// anything else, such as an unresolvable descriptor, aborts immediately.
// A database that never becomes ready surfaces as ErrAttemptsExhausted and
// the target command is not launched.
//
// # Launch
//
// Before the privilege drop the shared log directory has its ownership fixed
// recursively so the unprivileged workload can write to it. A deployment
// that does not mount the directory gets a logged skip, not an error. The
// command vector is then executed as the restricted appuser:appgroup
// identity, verbatim and unmodified.
package pgentry
