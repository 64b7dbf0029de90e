// Package dbwait implements the readiness gate that blocks container
// startup until PostgreSQL accepts a connection.
//
// Wait drives a bounded retry state machine: one probe per attempt, a fixed
// per-attempt connect budget, a fixed delay between failed attempts, and a
// hard attempt ceiling. Attempts are 1-indexed in log output. Probe failures
// are split into retryable and fatal by error kind, never by message text;
// exhausting the ceiling yields a distinct sentinel so callers can tell "the
// database never came up" from "the configuration is broken".
package dbwait
