//go:build !windows

package detector

import (
	"bytes"
	"errors"
	"os"
	"runtime"
	"strconv"
	"syscall"
)

// Alive returns true if a process with the given pid exists. EPERM means
// the process exists but belongs to another user, which still counts.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}

// zombieLike reports a process that exists but is already dead as a
// worker. On Linux /proc states it directly; elsewhere an empty process
// group (the pid is a session leader) is the observable equivalent.
func zombieLike(pid int) bool {
	if runtime.GOOS == "linux" {
		return zombieLinux(pid)
	}
	return syscall.Kill(-pid, 0) != nil
}

// zombieLinux returns true if /proc/<pid>/status reports state Z.
func zombieLinux(pid int) bool {
	b, err := os.ReadFile("/proc/" + strconv.Itoa(pid) + "/status")
	if err != nil {
		return false
	}
	return bytes.Contains(b, []byte("State:\tZ"))
}
