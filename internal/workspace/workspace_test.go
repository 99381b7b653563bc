package workspace

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestPrepareCreatesLayout(t *testing.T) {
	base := t.TempDir()
	if err := Prepare(base); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	for _, dir := range []string{LogsDir, BackupsDir, LearningDataDir} {
		fi, err := os.Stat(filepath.Join(base, dir))
		if err != nil {
			t.Fatalf("stat %s: %v", dir, err)
		}
		if !fi.IsDir() {
			t.Fatalf("%s is not a directory", dir)
		}
	}
}

func TestPrepareIdempotent(t *testing.T) {
	base := t.TempDir()
	if err := Prepare(base); err != nil {
		t.Fatalf("first prepare: %v", err)
	}
	// Drop a file into logs to verify nothing is wiped.
	marker := filepath.Join(base, LogsDir, "core.log")
	if err := os.WriteFile(marker, []byte("kept"), 0o640); err != nil {
		t.Fatalf("seed marker: %v", err)
	}
	if err := Prepare(base); err != nil {
		t.Fatalf("second prepare: %v", err)
	}
	b, err := os.ReadFile(marker)
	if err != nil || string(b) != "kept" {
		t.Fatalf("existing content disturbed: %q err=%v", b, err)
	}
}

func TestPrepareFailsOnUnwritableBase(t *testing.T) {
	if runtime.GOOS == "windows" || os.Getuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
	base := t.TempDir()
	if err := os.Chmod(base, 0o500); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	defer func() { _ = os.Chmod(base, 0o750) }()
	if err := Prepare(base); err == nil {
		t.Fatalf("expected error for unwritable base")
	}
}

func TestLogs(t *testing.T) {
	if got := Logs("/srv/sente"); got != filepath.Join("/srv/sente", "logs") {
		t.Fatalf("logs path: %q", got)
	}
}
