// Package terminator implements the two-phase stop: graceful signal,
// fixed grace wait, re-probe, forced kill, then unconditional record
// removal. Per worker the phase order is mandatory; across workers each
// shutdown is independent.
package terminator

import (
	"os"
	"time"

	"github.com/mkweon/sente/internal/detector"
	"github.com/mkweon/sente/internal/registry"
	"github.com/mkweon/sente/internal/worker"
)

type Action string

const (
	// ActionNone: no record on disk, nothing to do.
	ActionNone Action = "none"
	// ActionStale: record pointed at a dead process; record removed.
	ActionStale Action = "stale"
	// ActionStopped: worker exited within the grace period.
	ActionStopped Action = "stopped"
	// ActionKilled: worker survived the graceful signal and was killed.
	ActionKilled Action = "killed"
	// ActionUnkillable: even the forced signal left the process behind.
	// The record is removed anyway so the registry cannot wedge.
	ActionUnkillable Action = "unkillable"
)

// Describe renders the action the way operators read it.
func (a Action) Describe() string {
	switch a {
	case ActionNone:
		return "not running (no record)"
	case ActionStale:
		return "not running (stale record removed)"
	case ActionStopped:
		return "stopped"
	case ActionKilled:
		return "killed (did not stop in time)"
	case ActionUnkillable:
		return "still running after kill (record removed)"
	default:
		return string(a)
	}
}

// Outcome reports what happened to one worker during stop.
type Outcome struct {
	Name   string `json:"name"`
	Action Action `json:"action"`
	PID    int    `json:"pid,omitempty"`
	Err    error  `json:"-"`
}

// Forced reports whether the forced signal was sent.
func (o Outcome) Forced() bool {
	return o.Action == ActionKilled || o.Action == ActionUnkillable
}

// Terminator stops workers. Grace is the fixed wait between the
// graceful and forced signals; zero means the default of 2 seconds.
type Terminator struct {
	Grace time.Duration
}

func (t *Terminator) grace() time.Duration {
	if t.Grace <= 0 {
		return 2 * time.Second
	}
	return t.Grace
}

// killSettle bounds the post-kill wait before declaring a process
// unkillable. SIGKILL takes effect promptly or not at all.
const killSettle = 200 * time.Millisecond

// Terminate stops one worker: read record, probe, signal gracefully,
// wait the fixed grace period, re-probe, escalate if it survived, and
// remove the pid file unconditionally once the sequence completes.
// The graceful-wait-reprobe-forced order must not be reordered.
func (t *Terminator) Terminate(spec worker.Spec) Outcome {
	out := Outcome{Name: spec.Name}

	rec, err := registry.Read(spec.PIDFile)
	if err != nil {
		if os.IsNotExist(err) {
			out.Action = ActionNone
			return out
		}
		// Present but unreadable or corrupt: treat as stale, clean up.
		out.Action = ActionStale
		out.Err = err
		if rerr := registry.Remove(spec.PIDFile); rerr != nil {
			out.Err = rerr
		}
		return out
	}
	out.PID = rec.PID

	if !detector.Running(rec.PID, rec.RecordedAt) {
		out.Action = ActionStale
		out.Err = registry.Remove(spec.PIDFile)
		return out
	}

	signalGraceful(rec.PID)
	time.Sleep(t.grace())

	if detector.Running(rec.PID, rec.RecordedAt) {
		signalForced(rec.PID)
		time.Sleep(killSettle)
		if detector.Running(rec.PID, rec.RecordedAt) {
			out.Action = ActionUnkillable
		} else {
			out.Action = ActionKilled
		}
	} else {
		out.Action = ActionStopped
	}

	if err := registry.Remove(spec.PIDFile); err != nil && out.Err == nil {
		out.Err = err
	}
	return out
}
