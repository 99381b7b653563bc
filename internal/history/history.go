// Package history defines the supervisor's lifecycle-event log: every
// launch, stop, forced kill and stale-record cleanup is appended to a
// local store and optionally exported to external sinks.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType defines the kind of lifecycle event.
type EventType string

const (
	EventStart      EventType = "start"
	EventLaunchFail EventType = "launch_failed"
	EventStop       EventType = "stop"
	EventKill       EventType = "kill"
	EventStale      EventType = "stale_cleanup"
	EventUnkillable EventType = "unkillable"
)

// Event is one recorded lifecycle transition of a worker.
type Event struct {
	ID         string    `json:"id"`
	Worker     string    `json:"worker"`
	PID        int       `json:"pid"`
	Type       EventType `json:"type"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent stamps a fresh event with a unique id and the current time.
func NewEvent(worker string, pid int, typ EventType, detail string) Event {
	return Event{
		ID:         uuid.NewString(),
		Worker:     worker,
		PID:        pid,
		Type:       typ,
		Detail:     detail,
		OccurredAt: time.Now().UTC(),
	}
}

// Sink is a destination for history events (analytics/statistics
// systems). Implementations must be safe for concurrent use.
type Sink interface {
	Send(ctx context.Context, e Event) error
	Close() error
}

// Store is the local, queryable event log backing the history command.
type Store interface {
	Sink
	// Recent returns the newest events, most recent first. An empty
	// worker selects all workers.
	Recent(ctx context.Context, worker string, limit int) ([]Event, error)
}
