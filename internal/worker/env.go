package worker

import (
	"os"
	"strings"
)

// Env composes the environment handed to spawned workers: the OS
// environment as the base, global overrides from configuration, then
// per-worker overrides, with simple ${VAR} expansion over the result.
type Env struct {
	Var  map[string]string // global overrides (K->V)
	base map[string]string // cached OS environment
}

func NewEnv() *Env {
	return &Env{Var: make(map[string]string)}
}

// FromOS caches the current process environment as the base.
func (e *Env) FromOS() {
	base := make(map[string]string)
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			k := kv[:i]
			v := kv[i+1:]
			if k == "" {
				continue
			}
			base[k] = v
		}
	}
	e.base = base
}

// Set sets a global override K=V.
func (e *Env) Set(k, v string) {
	if e.Var == nil {
		e.Var = make(map[string]string)
	}
	e.Var[k] = v
}

// Merge composes the final environment list applying order:
// base = OS env (or cached), then global overrides, then perWorker
// (slice of "K=V") overrides. ${VAR} expansion uses the composed map
// (single pass, no recursion).
func (e *Env) Merge(perWorker []string) []string {
	if e.base == nil {
		e.FromOS()
	}
	m := make(map[string]string, len(e.base)+len(e.Var)+len(perWorker))
	for k, v := range e.base {
		m[k] = v
	}
	for k, v := range e.Var {
		if k == "" {
			continue
		}
		m[k] = v
	}
	for _, kv := range perWorker {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			k := kv[:i]
			v := kv[i+1:]
			if k == "" { // skip malformed entries with empty key
				continue
			}
			m[k] = v
		}
	}
	expanded := make(map[string]string, len(m))
	for k, v := range m {
		expanded[k] = expand(v, m)
	}
	out := make([]string, 0, len(expanded))
	for k, v := range expanded {
		if k == "" {
			continue
		}
		out = append(out, k+"="+v)
	}
	return out
}

func expand(s string, m map[string]string) string {
	res := s
	for k, v := range m {
		res = strings.ReplaceAll(res, "${"+k+"}", v)
	}
	return res
}

// PrependPath returns env with dir prepended to the named list variable
// (PATH-style separator), creating the variable when absent. Workers import
// shared modules from the base directory, so the launcher prepends it to
// PYTHONPATH before spawning.
func PrependPath(env []string, key, dir string) []string {
	if dir == "" {
		return env
	}
	prefix := key + "="
	for i, kv := range env {
		if !strings.HasPrefix(kv, prefix) {
			continue
		}
		cur := kv[len(prefix):]
		if cur == "" {
			env[i] = prefix + dir
		} else {
			env[i] = prefix + dir + string(os.PathListSeparator) + cur
		}
		return env
	}
	return append(env, prefix+dir)
}
