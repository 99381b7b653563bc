//go:build !windows

package detector

import (
	"os/exec"
	"runtime"
	"testing"
	"time"
)

func TestRunningZombie(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("zombie state check relies on /proc")
	}
	cmd := exec.Command("true")
	if err := cmd.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	pid := cmd.Process.Pid
	// The child exits immediately but stays a zombie until Wait.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if zombieLinux(pid) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !zombieLinux(pid) {
		_ = cmd.Wait()
		t.Skipf("child did not become observable as zombie in time")
	}
	if Running(pid, time.Now()) {
		_ = cmd.Wait()
		t.Fatalf("zombie must not count as running")
	}
	_ = cmd.Wait()
}
