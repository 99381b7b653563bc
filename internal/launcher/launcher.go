// Package launcher spawns workers as detached background processes:
// combined output appended to the worker's log file, PID recorded in
// the registry, no readiness handshake beyond the caller's settle
// delay.
package launcher

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mkweon/sente/internal/registry"
	"github.com/mkweon/sente/internal/worker"
)

// Launcher carries the launch-time environment shared by all workers.
type Launcher struct {
	Env  *worker.Env // composed environment; nil means plain OS env
	Base string      // base directory, prepended to PYTHONPATH
}

// Launch spawns the worker detached from the supervisor, appends its
// stdout and stderr to spec.LogPath and records the new PID in the
// registry, overwriting any previous record. The child is never waited
// on; liveness is the detector's job from here.
func (l *Launcher) Launch(spec worker.Spec) (int, error) {
	if err := spec.Validate(); err != nil {
		return 0, err
	}
	cmd := spec.BuildCommand()
	if spec.WorkDir != "" {
		cmd.Dir = spec.WorkDir
	}
	env := l.Env
	if env == nil {
		env = worker.NewEnv()
	}
	merged := env.Merge(spec.Env)
	merged = worker.PrependPath(merged, "PYTHONPATH", l.Base)
	cmd.Env = merged
	configureSysProcAttr(cmd)

	logf, err := openLog(spec.LogPath)
	if err != nil {
		return 0, fmt.Errorf("worker %s: %w", spec.Name, err)
	}
	cmd.Stdout = logf
	cmd.Stderr = logf

	if err := cmd.Start(); err != nil {
		_ = logf.Close()
		return 0, fmt.Errorf("spawn worker %s: %w", spec.Name, err)
	}
	pid := cmd.Process.Pid
	// The child holds its own descriptor; the parent's copy is done.
	_ = logf.Close()

	if err := registry.Write(spec.PIDFile, pid); err != nil {
		// The worker is up but untracked; surface that clearly.
		return pid, fmt.Errorf("worker %s spawned with pid %d but not recorded: %w", spec.Name, pid, err)
	}
	// Never reaped here, so release the handle instead of leaking it.
	_ = cmd.Process.Release()
	return pid, nil
}

// openLog opens the append-only combined output file, creating parents
// as needed. Worker logs are never rotated by the supervisor.
func openLog(path string) (*os.File, error) {
	if path == "" {
		return nil, fmt.Errorf("log path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, fmt.Errorf("open log %s: %w", path, err)
	}
	return f, nil
}
