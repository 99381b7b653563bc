// Package supervisor ties the pieces together: it prepares the
// workspace, launches the configured workers in order, inspects and
// stops them, and feeds the lifecycle event log. Control flow is
// strictly sequential across workers; the workers themselves run as
// independent OS processes.
package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/mkweon/sente/internal/config"
	"github.com/mkweon/sente/internal/detector"
	"github.com/mkweon/sente/internal/history"
	"github.com/mkweon/sente/internal/history/factory"
	"github.com/mkweon/sente/internal/inspector"
	"github.com/mkweon/sente/internal/launcher"
	"github.com/mkweon/sente/internal/metrics"
	"github.com/mkweon/sente/internal/registry"
	"github.com/mkweon/sente/internal/terminator"
	"github.com/mkweon/sente/internal/worker"
	"github.com/mkweon/sente/internal/workspace"
)

type Supervisor struct {
	cfg    config.Config
	log    *slog.Logger
	launch *launcher.Launcher
	insp   *inspector.Inspector
	term   *terminator.Terminator
	store  history.Store
	sinks  []history.Sink
}

func New(cfg config.Config) *Supervisor {
	env := worker.NewEnv()
	env.FromOS()
	for _, kv := range cfg.Env {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env.Set(k, v)
		}
	}
	return &Supervisor{
		cfg:    cfg,
		log:    cfg.Log.NewSlogger(),
		launch: &launcher.Launcher{Env: env, Base: cfg.BaseDir},
		insp:   &inspector.Inspector{TailLines: cfg.TailLines},
		term:   &terminator.Terminator{Grace: cfg.Grace},
	}
}

// Logger exposes the supervisor's slog logger for embedders.
func (s *Supervisor) Logger() *slog.Logger { return s.log }

// Workers returns the supervised worker set in start order.
func (s *Supervisor) Workers() []worker.Spec {
	out := make([]worker.Spec, len(s.cfg.Workers))
	copy(out, s.cfg.Workers)
	return out
}

// OpenHistory wires the local event store and any export sinks from the
// configuration. History is an operator convenience: callers typically
// log the error and carry on unsupervised by it.
func (s *Supervisor) OpenHistory() error {
	if s.cfg.History.Store != "" {
		st, err := factory.NewStoreFromDSN(s.cfg.History.Store)
		if err != nil {
			return fmt.Errorf("open history store: %w", err)
		}
		s.store = st
	}
	for _, dsn := range s.cfg.History.Sinks {
		sink, err := factory.NewSinkFromDSN(dsn)
		if err != nil {
			return fmt.Errorf("open history sink %s: %w", dsn, err)
		}
		s.sinks = append(s.sinks, sink)
	}
	return nil
}

// Close releases the history store and sinks.
func (s *Supervisor) Close() {
	if s.store != nil {
		_ = s.store.Close()
		s.store = nil
	}
	for _, sink := range s.sinks {
		_ = sink.Close()
	}
	s.sinks = nil
}

// record appends a lifecycle event to the store and all sinks.
// Recording never fails an operation; failures are logged and dropped.
func (s *Supervisor) record(ctx context.Context, ev history.Event) {
	if s.store != nil {
		if err := s.store.Send(ctx, ev); err != nil {
			s.log.Warn("history store rejected event", "worker", ev.Worker, "event", ev.Type, "error", err)
		}
	}
	for _, sink := range s.sinks {
		if err := sink.Send(ctx, ev); err != nil {
			s.log.Warn("history sink rejected event", "worker", ev.Worker, "event", ev.Type, "error", err)
		}
	}
}

// StartAll prepares the workspace and launches every worker in order.
// Only setup failures (workspace, missing interpreter) are fatal;
// individual launch failures are reported and the loop continues.
func (s *Supervisor) StartAll(ctx context.Context) error {
	if err := workspace.Prepare(s.cfg.BaseDir); err != nil {
		return err
	}
	if s.cfg.Interpreter != "" {
		if _, err := exec.LookPath(s.cfg.Interpreter); err != nil {
			return fmt.Errorf("required interpreter %q not found: %w", s.cfg.Interpreter, err)
		}
	}
	if s.cfg.Engine != "" {
		if _, err := exec.LookPath(s.cfg.Engine); err != nil {
			s.log.Warn("analysis engine not found; workers fall back to degraded mode",
				"engine", s.cfg.Engine)
		}
	}

	for _, spec := range s.cfg.Workers {
		if rec, err := registry.Read(spec.PIDFile); err == nil && detector.Running(rec.PID, rec.RecordedAt) {
			s.log.Warn("worker already running; skipping", "worker", spec.Name, "pid", rec.PID)
			continue
		}
		pid, err := s.launch.Launch(spec)
		if err != nil {
			s.log.Error("failed to start worker", "worker", spec.Name, "error", err)
			metrics.IncLaunchFailure(spec.Name)
			s.record(ctx, history.NewEvent(spec.Name, pid, history.EventLaunchFail, err.Error()))
			continue
		}
		s.log.Info("worker started", "worker", spec.Name, "pid", pid, "log", spec.LogPath)
		metrics.IncStart(spec.Name)
		s.record(ctx, history.NewEvent(spec.Name, pid, history.EventStart, ""))
		// Fixed settle delay; there is no readiness handshake with the
		// workers.
		sleepCtx(ctx, s.cfg.Settle)
	}
	return nil
}

// StopAll stops every worker in reverse start order, so the monitor
// goes down before the processes it watches. Stop never fails; each
// worker reports its own outcome.
func (s *Supervisor) StopAll(ctx context.Context) []terminator.Outcome {
	specs := s.cfg.Workers
	outcomes := make([]terminator.Outcome, 0, len(specs))
	for i := len(specs) - 1; i >= 0; i-- {
		spec := specs[i]
		out := s.term.Terminate(spec)
		switch out.Action {
		case terminator.ActionStopped:
			s.log.Info("worker stopped", "worker", out.Name, "pid", out.PID)
			metrics.IncStop(out.Name, metrics.ModeGraceful)
			s.record(ctx, history.NewEvent(out.Name, out.PID, history.EventStop, ""))
		case terminator.ActionKilled:
			s.log.Warn("worker killed after grace period", "worker", out.Name, "pid", out.PID)
			metrics.IncStop(out.Name, metrics.ModeForced)
			s.record(ctx, history.NewEvent(out.Name, out.PID, history.EventKill, ""))
		case terminator.ActionUnkillable:
			s.log.Error("worker survived forced kill; record removed", "worker", out.Name, "pid", out.PID)
			metrics.IncStop(out.Name, metrics.ModeForced)
			s.record(ctx, history.NewEvent(out.Name, out.PID, history.EventUnkillable, "survived SIGKILL"))
		case terminator.ActionStale:
			s.log.Info("removed stale record", "worker", out.Name, "pid", out.PID)
			metrics.IncStaleCleanup(out.Name)
			s.record(ctx, history.NewEvent(out.Name, out.PID, history.EventStale, ""))
		default:
			s.log.Info("worker not running", "worker", out.Name)
		}
		if out.Err != nil {
			s.log.Warn("stop reported an error", "worker", out.Name, "error", out.Err)
		}
		outcomes = append(outcomes, out)
	}
	return outcomes
}

// StatusAll inspects every worker in start order. Purely informational;
// stale records are reported, never touched.
func (s *Supervisor) StatusAll() []inspector.WorkerStatus {
	out := make([]inspector.WorkerStatus, 0, len(s.cfg.Workers))
	for _, spec := range s.cfg.Workers {
		out = append(out, s.insp.Inspect(spec))
	}
	return out
}

// Status inspects a single worker by name.
func (s *Supervisor) Status(name string) (inspector.WorkerStatus, error) {
	for _, spec := range s.cfg.Workers {
		if spec.Name == name {
			return s.insp.Inspect(spec), nil
		}
	}
	return inspector.WorkerStatus{}, fmt.Errorf("unknown worker %q", name)
}

// History returns recent lifecycle events, newest first.
func (s *Supervisor) History(ctx context.Context, workerName string, limit int) ([]history.Event, error) {
	if s.store == nil {
		return nil, fmt.Errorf("history store not configured")
	}
	return s.store.Recent(ctx, workerName, limit)
}

// sleepCtx sleeps for d unless ctx ends first.
func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
