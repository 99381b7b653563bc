// Package inspector reports what the registry and the OS agree on for
// each worker: whether the recorded process is alive, what it costs,
// and the tail of its log. It never mutates records; cleaning up stale
// ones is the terminator's job.
package inspector

import (
	"os"
	"time"

	"github.com/mkweon/sente/internal/detector"
	"github.com/mkweon/sente/internal/registry"
	"github.com/mkweon/sente/internal/worker"
)

type State string

const (
	StateRunning  State = "running"
	StateNoRecord State = "no_record"
	StateStale    State = "stale"
)

// Describe renders the state the way operators read it.
func (s State) Describe() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStale:
		return "not running (stale record)"
	default:
		return "not running (no record)"
	}
}

// WorkerStatus is one worker's inspection result. CPUPercent and
// MemPercent are best-effort; negative values mean the metric was
// unavailable.
type WorkerStatus struct {
	Name       string    `json:"name"`
	State      State     `json:"state"`
	PID        int       `json:"pid,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
	CPUPercent float64   `json:"cpu_percent"`
	MemPercent float64   `json:"mem_percent"`
	LogTail    []string  `json:"log_tail,omitempty"`
	LogMissing bool      `json:"log_missing,omitempty"`
	Detail     string    `json:"detail,omitempty"`
}

// Inspector probes workers. TailLines bounds the surfaced log tail;
// zero means the default of 5.
type Inspector struct {
	TailLines int
}

func (i *Inspector) tailLines() int {
	if i.TailLines <= 0 {
		return 5
	}
	return i.TailLines
}

// Inspect reads the worker's registry record, probes the OS for the
// recorded PID and samples resource usage when it is alive. The log
// tail is surfaced in every state; a missing log file is a normal
// display state, not an error.
func (i *Inspector) Inspect(spec worker.Spec) WorkerStatus {
	st := WorkerStatus{Name: spec.Name, State: StateNoRecord, CPUPercent: -1, MemPercent: -1}

	rec, err := registry.Read(spec.PIDFile)
	switch {
	case err == nil:
		st.PID = rec.PID
		st.RecordedAt = rec.RecordedAt
		if detector.Running(rec.PID, rec.RecordedAt) {
			st.State = StateRunning
			st.CPUPercent, st.MemPercent = Usage(rec.PID)
		} else {
			st.State = StateStale
		}
	case os.IsNotExist(err):
		st.State = StateNoRecord
	default:
		// A record exists but cannot be trusted (unreadable or corrupt).
		st.State = StateStale
		st.Detail = err.Error()
	}

	tail, err := Tail(spec.LogPath, i.tailLines())
	if err != nil {
		if os.IsNotExist(err) {
			st.LogMissing = true
		} else if st.Detail == "" {
			st.Detail = err.Error()
		}
	} else {
		st.LogTail = tail
	}
	return st
}
