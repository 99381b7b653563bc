// Package detector answers one question about a recorded PID: does it
// still refer to the worker the registry remembers? Liveness alone is
// not enough. The kernel recycles identifiers, so a PID that is alive
// may belong to an unrelated process born after the record was written,
// and a reaped-but-unwaited worker is alive to kill(2) while long gone
// as a worker.
package detector

import (
	"time"
)

// startSkew absorbs the coarse granularity of the start-time sources
// (whole seconds from /proc, file mtime rounded by the filesystem).
const startSkew = 2 * time.Second

// Running reports whether pid refers to a live, non-zombie process that
// already existed when the record was written. A process whose start
// time postdates recordedAt is a reused PID, not the recorded worker.
// Start times are best-effort: when unavailable the check degrades to
// plain liveness.
//
// Recorded pids are session leaders (the launcher spawns with setsid),
// which the zombie probe relies on off Linux.
func Running(pid int, recordedAt time.Time) bool {
	if !Alive(pid) {
		return false
	}
	if zombieLike(pid) {
		return false
	}
	if recordedAt.IsZero() {
		return true
	}
	start := StartUnix(pid)
	if start <= 0 {
		return true
	}
	return start <= recordedAt.Add(startSkew).Unix()
}
