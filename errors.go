package pgentry

import (
	"github.com/pgentry/pgentry/internal/dbwait"
	"github.com/pgentry/pgentry/internal/envcfg"
	"github.com/pgentry/pgentry/internal/launcher"
)

// Sentinel errors for error inspection with errors.Is.
// These are immutable constants safe for use in wrapped error chain comparison.
const (
	// ErrMissingVariable is returned by Run, WaitForDatabase and
	// CheckDatabase when a required DB_* environment variable is unset or
	// empty. The error message names every missing variable.
	ErrMissingVariable = envcfg.ErrMissingVariable

	// ErrInvalidPort is returned when DB_PORT is set but is not an integer
	// in the range 1-65535.
	ErrInvalidPort = envcfg.ErrInvalidPort

	// ErrAttemptsExhausted is returned by Run and WaitForDatabase when the
	// database did not accept a connection within the attempt ceiling. The
	// target command is never launched in that case.
	ErrAttemptsExhausted = dbwait.ErrAttemptsExhausted

	// ErrEmptyCommand is returned by Run when the command vector is empty.
	ErrEmptyCommand = launcher.ErrEmptyCommand

	// ErrUnknownIdentity is returned by Run when the restricted runtime
	// identity (RunAsUser, RunAsGroup) does not exist in the container
	// image.
	ErrUnknownIdentity = launcher.ErrUnknownIdentity
)

// ExitError mirrors the exit status of the target command in supervise
// mode: Code is the child's exit code, or 128 plus the signal number when
// the child was killed by a signal. Run never returns an ExitError on the
// default exec path, where the process is replaced outright.
type ExitError = launcher.ExitError
