package worker

import (
	"os"
	"strings"
	"testing"
)

func envValue(env []string, key string) (string, bool) {
	prefix := key + "="
	for _, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			return kv[len(prefix):], true
		}
	}
	return "", false
}

func TestMergePrecedence(t *testing.T) {
	t.Setenv("SENTE_ENV_BASE", "from-os")
	t.Setenv("SENTE_ENV_GLOBAL", "from-os")
	t.Setenv("SENTE_ENV_WORKER", "from-os")

	e := NewEnv()
	e.FromOS()
	e.Set("SENTE_ENV_GLOBAL", "from-global")
	e.Set("SENTE_ENV_WORKER", "from-global")

	env := e.Merge([]string{"SENTE_ENV_WORKER=from-worker"})

	if v, _ := envValue(env, "SENTE_ENV_BASE"); v != "from-os" {
		t.Fatalf("base var: got %q", v)
	}
	if v, _ := envValue(env, "SENTE_ENV_GLOBAL"); v != "from-global" {
		t.Fatalf("global override: got %q", v)
	}
	if v, _ := envValue(env, "SENTE_ENV_WORKER"); v != "from-worker" {
		t.Fatalf("per-worker override: got %q", v)
	}
}

func TestMergeExpandsVariables(t *testing.T) {
	e := NewEnv()
	e.FromOS()
	e.Set("SENTE_ROOT", "/opt/sente")
	env := e.Merge([]string{"SENTE_DATA=${SENTE_ROOT}/learning_data"})
	if v, _ := envValue(env, "SENTE_DATA"); v != "/opt/sente/learning_data" {
		t.Fatalf("expansion: got %q", v)
	}
}

func TestMergeSkipsMalformedEntries(t *testing.T) {
	e := NewEnv()
	e.FromOS()
	env := e.Merge([]string{"=oops", "novalue"})
	if _, ok := envValue(env, ""); ok {
		t.Fatalf("empty key should be dropped")
	}
	for _, kv := range env {
		if kv == "novalue" {
			t.Fatalf("separator-less entry should be dropped")
		}
	}
}

func TestPrependPath(t *testing.T) {
	sep := string(os.PathListSeparator)

	env := []string{"PYTHONPATH=/existing"}
	env = PrependPath(env, "PYTHONPATH", "/base")
	if v, _ := envValue(env, "PYTHONPATH"); v != "/base"+sep+"/existing" {
		t.Fatalf("prepend: got %q", v)
	}

	env = PrependPath([]string{"HOME=/root"}, "PYTHONPATH", "/base")
	if v, ok := envValue(env, "PYTHONPATH"); !ok || v != "/base" {
		t.Fatalf("create: got %q ok=%v", v, ok)
	}

	env = PrependPath([]string{"PYTHONPATH="}, "PYTHONPATH", "/base")
	if v, _ := envValue(env, "PYTHONPATH"); v != "/base" {
		t.Fatalf("empty value should not keep a trailing separator: %q", v)
	}

	before := []string{"PYTHONPATH=/x"}
	after := PrependPath(before, "PYTHONPATH", "")
	if v, _ := envValue(after, "PYTHONPATH"); v != "/x" {
		t.Fatalf("empty dir should be a no-op, got %q", v)
	}
}
