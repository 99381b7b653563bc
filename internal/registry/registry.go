// Package registry owns the on-disk pid-file records that make up the
// supervisor's registry. The files are the single source of truth for
// "this worker was started": every operation reads or writes them
// directly, so the registry survives supervisor restarts and crashes.
// A record's presence never guarantees the process is alive; callers
// must probe the OS before trusting a stored PID.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Record is one pid-file entry: the stored identifier plus the file's
// modification time, which doubles as the moment the record was written.
type Record struct {
	PID        int
	RecordedAt time.Time
}

// Write stores pid as decimal text at path, overwriting any previous
// value. The parent directory is created when missing.
func Write(path string, pid int) error {
	if path == "" {
		return fmt.Errorf("pid file path is empty")
	}
	if pid <= 0 {
		return fmt.Errorf("refusing to record pid %d in %s", pid, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create pid file dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)), 0o600); err != nil {
		return fmt.Errorf("write pid file %s: %w", path, err)
	}
	return nil
}

// Read returns the record stored at path. A missing file surfaces as an
// os.IsNotExist error from the underlying read; a file whose first line
// is not a decimal number is a corrupt record and reported as such.
func Read(path string) (Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}
	line, _, _ := strings.Cut(string(b), "\n")
	pid, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || pid <= 0 {
		return Record{}, fmt.Errorf("corrupt pid file %s: %q", path, strings.TrimSpace(line))
	}
	rec := Record{PID: pid}
	if fi, err := os.Stat(path); err == nil {
		rec.RecordedAt = fi.ModTime()
	}
	return rec, nil
}

// Exists reports whether a record is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Remove deletes the record at path. Removing an absent record is a
// no-op, matching the terminator's unconditional cleanup step.
func Remove(path string) error {
	err := os.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
