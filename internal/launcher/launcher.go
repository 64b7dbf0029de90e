package launcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pgentry/pgentry/internal/fileutil"
)

// Config holds the configuration for a Dispatcher.
type Config struct {
	LogDir    string       // Shared log volume re-owned before the drop; "" disables the step
	Supervise bool         // Spawn-and-wait with signal forwarding instead of exec
	Logger    *slog.Logger // Optional logger (defaults to slog.Default())
}

// Dispatcher performs the one-time privileged launch sequence: ownership
// fix-up, command classification, privilege drop, process handoff. It runs
// strictly after the readiness gate has passed; nothing in it retries.
type Dispatcher struct {
	config Config

	// Seams overridden in tests; New wires the real implementations.
	lookupIdentity  func() (Identity, error)
	chown           fileutil.ChownFunc
	execTarget      func(id Identity, argv []string) error
	superviseTarget func(log *slog.Logger, id Identity, argv []string) error
}

// New creates a Dispatcher with the given configuration.
func New(cfg Config) *Dispatcher {
	return &Dispatcher{
		config:          cfg,
		lookupIdentity:  lookupRunIdentity,
		chown:           os.Lchown,
		execTarget:      execAsIdentity,
		superviseTarget: superviseAsIdentity,
	}
}

func (d *Dispatcher) logger() *slog.Logger {
	if d.config.Logger != nil {
		return d.config.Logger
	}
	return slog.Default()
}

// Launch runs the dispatch sequence for argv. On the exec path a
// successful Launch never returns; every return is an error. In supervise
// mode Launch returns when the child exits: nil for status 0, *ExitError
// carrying the mirrored status otherwise.
func (d *Dispatcher) Launch(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return ErrEmptyCommand
	}

	log := d.logger()

	id, err := d.lookupIdentity()
	if err != nil {
		return fmt.Errorf("resolve runtime identity: %w", err)
	}

	// The fix-up must complete while still privileged, strictly before
	// the drop below.
	if err := d.fixOwnership(ctx, id); err != nil {
		return fmt.Errorf("fix log directory ownership: %w", err)
	}

	kind := Classify(argv)
	log.Info(kind.Announcement(), "command", argv, "user", id.User, "group", id.Group)

	if d.config.Supervise {
		return d.superviseTarget(log, id, argv)
	}
	return d.execTarget(id, argv)
}
