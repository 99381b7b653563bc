// Package workspace prepares the on-disk layout the workers expect
// before any of them is spawned.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// Subdirectories created under the base directory. The workers write
// into all three; the supervisor itself only appends to logs.
const (
	LogsDir         = "logs"
	BackupsDir      = "backups"
	LearningDataDir = "learning_data"
)

// Prepare idempotently creates the required subdirectories under base.
// An already-existing directory is a no-op. Any failure is fatal to the
// start operation and must abort before a single worker is spawned.
func Prepare(base string) error {
	for _, dir := range []string{LogsDir, BackupsDir, LearningDataDir} {
		path := filepath.Join(base, dir)
		if err := os.MkdirAll(path, 0o750); err != nil {
			return fmt.Errorf("prepare workspace dir %s: %w", path, err)
		}
	}
	return nil
}

// Logs returns the log directory under base.
func Logs(base string) string { return filepath.Join(base, LogsDir) }
