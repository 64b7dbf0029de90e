package launcher

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
)

// superviseSignalBuffer sizes the signal relay channel. Signals arriving
// while the relay forwards a previous one must not be dropped.
const superviseSignalBuffer = 16

// ExitError carries the exit status of a supervised child so the
// entrypoint process can mirror it transparently.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.Code)
}

// superviseAsIdentity launches argv as a child running under id and
// mirrors its lifetime. This approximates process replacement for images
// that must keep the entrypoint as PID 1: signals are forwarded, the exit
// status is mirrored, and the observer still sees one logical process.
// The child starts directly under the restricted credentials; there is no
// window where the target code runs privileged.
func superviseAsIdentity(log *slog.Logger, id Identity, argv []string) error {
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return fmt.Errorf("locate target %q: %w", argv[0], err)
	}

	cmd := exec.Command(path)
	cmd.Args = argv // verbatim vector, argv[0] included
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()
	configureSysProcAttr(cmd)
	setCredential(cmd, id)

	return superviseCmd(log, cmd)
}

// superviseCmd starts cmd, forwards every signal the supervisor receives
// to it, and returns nil for a zero exit, *ExitError for any other exit
// (128+signum for signal deaths), or a start/wait failure.
func superviseCmd(log *slog.Logger, cmd *exec.Cmd) error {
	// Register before Start so no signal can slip through unobserved.
	signals := make(chan os.Signal, superviseSignalBuffer)
	signal.Notify(signals)
	defer signal.Stop(signals)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", cmd.Path, err)
	}
	log.Info("(Entrypoint) Supervising command", "pid", cmd.Process.Pid)

	exited := make(chan struct{})
	var g errgroup.Group

	g.Go(func() error {
		defer close(exited)
		return cmd.Wait()
	})
	g.Go(func() error {
		for {
			select {
			case sig := <-signals:
				// SIGCHLD is the child's own exit notification and SIGURG
				// is runtime-internal; neither is meant for the child.
				if sig == syscall.SIGCHLD || sig == syscall.SIGURG {
					continue
				}
				// Best-effort: the child may already be gone.
				_ = cmd.Process.Signal(sig)
			case <-exited:
				return nil
			}
		}
	})

	err := g.Wait()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			log.Info("(Entrypoint) Command killed by signal", "signal", status.Signal().String())
			return &ExitError{Code: 128 + int(status.Signal())}
		}
		return &ExitError{Code: exitErr.ExitCode()}
	}
	return fmt.Errorf("wait for %s: %w", cmd.Path, err)
}

// setCredential makes the child start directly under id.
func setCredential(cmd *exec.Cmd, id Identity) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Credential = &syscall.Credential{
		Uid:    uint32(id.UID),
		Gid:    uint32(id.GID),
		Groups: []uint32{uint32(id.GID)},
	}
}
