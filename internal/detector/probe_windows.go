//go:build windows

package detector

import "syscall"

// Alive returns true if a process with the given pid exists on Windows.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	h, err := syscall.OpenProcess(syscall.PROCESS_QUERY_INFORMATION, false, uint32(pid))
	if err != nil {
		return false
	}
	defer func() { _ = syscall.CloseHandle(h) }()
	return true
}

// zombieLike has no Windows equivalent; exited processes stop being
// openable.
func zombieLike(int) bool { return false }
