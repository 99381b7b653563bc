package worker

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Spec describes one supervised worker. Command is the full command line
// including the interpreter; LogPath receives the worker's combined
// stdout/stderr and PIDFile records the spawned process identifier.
type Spec struct {
	Name    string   `json:"name"`
	Command string   `json:"command"`
	WorkDir string   `json:"work_dir"`
	Env     []string `json:"env"`
	LogPath string   `json:"log_path"`
	PIDFile string   `json:"pid_file"`
}

// Defaults returns the built-in worker set of the commentary engine:
// the analysis core, the continuous-learning process and the watchdog
// monitor, rooted at base and started with the given interpreter.
func Defaults(base, interpreter string) []Spec {
	mk := func(name, script string) Spec {
		s := Spec{
			Name:    name,
			Command: interpreter + " " + script,
			WorkDir: base,
		}
		s.Normalize(base)
		return s
	}
	return []Spec{
		mk("core", "integrated_system.py"),
		mk("learning", "continuous_learning.py"),
		mk("monitor", "debug_monitor.py"),
	}
}

// Normalize fills derived paths that were left empty: the log file under
// base/logs and the pid file directly under base, both named after the
// worker.
func (s *Spec) Normalize(base string) {
	if s.LogPath == "" {
		s.LogPath = filepath.Join(base, "logs", s.Name+".log")
	}
	if s.PIDFile == "" {
		s.PIDFile = filepath.Join(base, s.Name+".pid")
	}
	if s.WorkDir == "" {
		s.WorkDir = base
	}
}

// Validate rejects specs that cannot be supervised. The name doubles as a
// file name component, so it must not contain path separators.
func (s *Spec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("worker name is empty")
	}
	if strings.ContainsAny(s.Name, `/\`) {
		return fmt.Errorf("worker name %q contains a path separator", s.Name)
	}
	if strings.TrimSpace(s.Command) == "" {
		return fmt.Errorf("worker %s: command is empty", s.Name)
	}
	return nil
}

// BuildCommand constructs an *exec.Cmd for the spec's command line.
// It avoids invoking a shell when not necessary, and it also respects
// an explicit shell invocation already present in the command string
// (e.g., "sh -c 'echo hi'"), avoiding double-wrapping with another shell.
func (s *Spec) BuildCommand() *exec.Cmd {
	cmdStr := strings.TrimSpace(s.Command)
	if cmdStr == "" {
		// #nosec G204
		return exec.Command("/bin/true")
	}
	// If the command already explicitly uses a shell, honor it without adding another layer.
	if _, afterC, ok := parseExplicitShell(cmdStr); ok {
		// Always use absolute shell path to avoid PATH dependency when Env is overridden.
		// #nosec G204
		return exec.Command("/bin/sh", "-c", afterC)
	}
	// Fallback: when metacharacters are present, use /bin/sh -c
	if strings.ContainsAny(cmdStr, "|&;<>*?`$\"'(){}[]~") {
		// #nosec G204
		return exec.Command("/bin/sh", "-c", cmdStr)
	}
	parts := strings.Fields(cmdStr)
	name := parts[0]
	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}
	// ok: intentional execution, input is validated and safe
	// #nosec G204
	return exec.Command(name, args...)
}

// Program returns the first token of the command line, the binary that
// exec resolves when no shell wrapping applies.
func (s *Spec) Program() string {
	parts := strings.Fields(strings.TrimSpace(s.Command))
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// parseExplicitShell detects patterns like "sh -c <ARG>" or "/bin/sh -c <ARG>" at the
// beginning of cmdStr. It returns (shellPath, afterCArg, true) when matched.
// It preserves the substring after "-c " verbatim to avoid breaking quoting.
func parseExplicitShell(cmdStr string) (string, string, bool) {
	trim := strings.TrimLeft(cmdStr, " \t")
	candidates := []string{"sh -c ", "/bin/sh -c ", "/usr/bin/sh -c "}
	for _, p := range candidates {
		if strings.HasPrefix(trim, p) {
			after := trim[len(p):]
			// If after is wrapped in single or double quotes, strip one pair so that
			// we pass the actual script to the shell (the outer quotes would otherwise
			// inhibit parsing/redirection inside the script).
			if n := len(after); n >= 2 {
				if (after[0] == '\'' && after[n-1] == '\'') || (after[0] == '"' && after[n-1] == '"') {
					after = after[1 : n-1]
				}
			}
			return strings.Fields(p)[0], after, true
		}
	}
	return "", "", false
}
