//go:build windows

package terminator

import "syscall"

const processTerminate = 0x0001

// Windows has no graceful POSIX signal for detached console-less
// processes; both phases terminate the process directly. The two-phase
// shape is preserved so the caller's grace window still applies.

func signalGraceful(pid int) { terminate(pid) }
func signalForced(pid int)   { terminate(pid) }

func terminate(pid int) {
	if pid <= 0 {
		return
	}
	h, err := syscall.OpenProcess(processTerminate, false, uint32(pid))
	if err != nil {
		// Already gone.
		return
	}
	defer func() { _ = syscall.CloseHandle(h) }()
	_ = syscall.TerminateProcess(h, 1)
}
