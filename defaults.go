package pgentry

import (
	"time"

	"github.com/pgentry/pgentry/internal/launcher"
)

// Default configuration values for New.
// These constants are exported so callers can reference the defaults when
// building custom configurations relative to them (e.g.,
// 2 * DefaultConnectTimeout).
const (
	// DefaultMaxAttempts is the readiness gate's attempt ceiling. Together
	// with DefaultRetryDelay this gives the database roughly half a minute
	// to come up before startup fails.
	DefaultMaxAttempts = 30

	// DefaultConnectTimeout is the budget for a single probe attempt,
	// covering the TCP dial, the protocol handshake, and the ping.
	DefaultConnectTimeout = 2 * time.Second

	// DefaultRetryDelay is the pause between failed probe attempts.
	DefaultRetryDelay = 1 * time.Second

	// DefaultLogDir is the shared log volume whose ownership is fixed
	// before the privilege drop. Deployments that do not mount it get a
	// logged skip at launch time, not an error.
	DefaultLogDir = "/app/logs"

	// RunAsUser and RunAsGroup name the restricted identity the target
	// command runs under. The container image creates this pair at build
	// time; it is deliberately not configurable at runtime.
	RunAsUser  = launcher.RunAsUser
	RunAsGroup = launcher.RunAsGroup
)
