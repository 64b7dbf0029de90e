//go:build linux

package launcher

import (
	"os/exec"
	"syscall"
)

// configureSysProcAttr asks the kernel to SIGTERM the supervised child if
// the entrypoint dies first, so a crashed supervisor cannot leave the
// service running unobserved. Pdeathsig is Linux-only.
func configureSysProcAttr(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Pdeathsig = syscall.SIGTERM
}
