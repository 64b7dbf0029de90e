package launcher

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/pgentry/pgentry/internal/sentinel"
)

// ErrEmptyCommand is returned when the entrypoint is invoked without a
// command vector to hand off to.
const ErrEmptyCommand = sentinel.Error("command must not be empty")

// execAsIdentity drops privileges to id and replaces the current process
// image with argv. On success it never returns: the entrypoint becomes the
// target process, keeping its PID and its signal relationship with the
// container runtime. Every return is therefore an error.
//
// Drop order matters: supplementary groups first, then gid, then uid. Once
// setuid succeeds the process has no privilege left to change its groups.
func execAsIdentity(id Identity, argv []string) error {
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return fmt.Errorf("locate target %q: %w", argv[0], err)
	}

	if err := syscall.Setgroups([]int{id.GID}); err != nil {
		return fmt.Errorf("setgroups %d: %w", id.GID, err)
	}
	if err := syscall.Setgid(id.GID); err != nil {
		return fmt.Errorf("setgid %d: %w", id.GID, err)
	}
	if err := syscall.Setuid(id.UID); err != nil {
		return fmt.Errorf("setuid %d: %w", id.UID, err)
	}

	if err := syscall.Exec(path, argv, os.Environ()); err != nil {
		return fmt.Errorf("exec %s: %w", path, err)
	}
	return nil // unreachable: Exec does not return on success
}
