//go:build !windows

package launcher

import (
	"os/exec"
	"syscall"
)

// configureSysProcAttr detaches the child on Unix-like systems: a new
// session (setsid) cuts it loose from the controlling terminal so it
// survives supervisor exit, and as session leader it heads its own
// process group for group signaling.
func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
