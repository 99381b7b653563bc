//go:build !windows

package terminator

import (
	"os/exec"
	"syscall"
	"testing"
	"time"

	"github.com/mkweon/sente/internal/detector"
	"github.com/mkweon/sente/internal/registry"
)

// startGroup spawns command in its own process group, the way the
// launcher does, so group signaling is exercised.
func startGroup(t *testing.T, name string, args ...string) *exec.Cmd {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		t.Fatalf("start %s: %v", name, err)
	}
	return cmd
}

func TestTerminateGraceful(t *testing.T) {
	spec := testSpec(t)
	cmd := startGroup(t, "sleep", "30")
	defer func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}()
	if err := registry.Write(spec.PIDFile, cmd.Process.Pid); err != nil {
		t.Fatalf("write record: %v", err)
	}

	term := &Terminator{Grace: 300 * time.Millisecond}
	out := term.Terminate(spec)
	if out.Action != ActionStopped {
		t.Fatalf("action: %v (err %v)", out.Action, out.Err)
	}
	if registry.Exists(spec.PIDFile) {
		t.Fatalf("pid file should be removed after stop")
	}
	_ = cmd.Wait()
	if detector.Alive(cmd.Process.Pid) {
		t.Fatalf("worker still alive after graceful stop")
	}
}

// A worker that ignores the graceful signal must be killed after the
// grace period, and the record removed regardless.
func TestTerminateForcedAfterGrace(t *testing.T) {
	spec := testSpec(t)
	cmd := startGroup(t, "sh", "-c", `trap '' TERM; sleep 30`)
	defer func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}()
	if err := registry.Write(spec.PIDFile, cmd.Process.Pid); err != nil {
		t.Fatalf("write record: %v", err)
	}
	// Give the shell a moment to install the trap.
	time.Sleep(150 * time.Millisecond)

	term := &Terminator{Grace: 300 * time.Millisecond}
	out := term.Terminate(spec)
	if out.Action != ActionKilled {
		t.Fatalf("action: %v (err %v)", out.Action, out.Err)
	}
	if !out.Forced() {
		t.Fatalf("kill path should report forced")
	}
	if registry.Exists(spec.PIDFile) {
		t.Fatalf("pid file should be removed after kill")
	}
	_ = cmd.Wait()
}

func TestTerminateDoubleStopIdempotent(t *testing.T) {
	spec := testSpec(t)
	cmd := startGroup(t, "sleep", "30")
	defer func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}()
	if err := registry.Write(spec.PIDFile, cmd.Process.Pid); err != nil {
		t.Fatalf("write record: %v", err)
	}

	term := &Terminator{Grace: 300 * time.Millisecond}
	if out := term.Terminate(spec); out.Action != ActionStopped {
		t.Fatalf("first stop: %v", out.Action)
	}
	if out := term.Terminate(spec); out.Action != ActionNone {
		t.Fatalf("second stop should find nothing: %v", out.Action)
	}
}
