//go:build !windows

package terminator

import "syscall"

// Workers are session leaders, so the negative pid addresses the whole
// process group and children started by the worker go down with it.
// The direct-pid fallback covers records written for non-leaders.

func signalGraceful(pid int) {
	if err := syscall.Kill(-pid, syscall.SIGTERM); err != nil {
		_ = syscall.Kill(pid, syscall.SIGTERM)
	}
}

func signalForced(pid int) {
	if err := syscall.Kill(-pid, syscall.SIGKILL); err != nil {
		_ = syscall.Kill(pid, syscall.SIGKILL)
	}
}
