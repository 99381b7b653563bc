package sente

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	cfg "github.com/mkweon/sente/internal/config"
	"github.com/mkweon/sente/internal/history"
	"github.com/mkweon/sente/internal/inspector"
	"github.com/mkweon/sente/internal/metrics"
	iapi "github.com/mkweon/sente/internal/server"
	"github.com/mkweon/sente/internal/supervisor"
	"github.com/mkweon/sente/internal/terminator"
	"github.com/mkweon/sente/internal/worker"
)

// Re-export core types for external consumers.
// These are aliases so conversions are zero-cost.

type Config = cfg.Config

type HistoryConfig = cfg.HistoryConfig

type WorkerSpec = worker.Spec

type WorkerStatus = inspector.WorkerStatus

type WorkerState = inspector.State

type StopOutcome = terminator.Outcome

type Event = history.Event

type HistorySink = history.Sink

// Supervisor is a thin facade over internal/supervisor.Supervisor.
// It provides a stable public API for embedding.

type Supervisor struct{ inner *supervisor.Supervisor }

func New(c Config) *Supervisor { return &Supervisor{inner: supervisor.New(c)} }

// DefaultConfig returns the built-in configuration: the worker trio
// rooted at the current directory, python3 as interpreter and a local
// SQLite history store.
func DefaultConfig() Config { return cfg.Default() }

// LoadConfig reads a TOML config file and overlays it on the defaults.
func LoadConfig(path string) (Config, error) { return cfg.Load(path) }

func (s *Supervisor) Logger() *slog.Logger                      { return s.inner.Logger() }
func (s *Supervisor) Workers() []WorkerSpec                     { return s.inner.Workers() }
func (s *Supervisor) OpenHistory() error                        { return s.inner.OpenHistory() }
func (s *Supervisor) Close()                                    { s.inner.Close() }
func (s *Supervisor) StartAll(ctx context.Context) error        { return s.inner.StartAll(ctx) }
func (s *Supervisor) StopAll(ctx context.Context) []StopOutcome { return s.inner.StopAll(ctx) }
func (s *Supervisor) StatusAll() []WorkerStatus                 { return s.inner.StatusAll() }
func (s *Supervisor) Status(name string) (WorkerStatus, error)  { return s.inner.Status(name) }
func (s *Supervisor) Watch(ctx context.Context) error           { return s.inner.Watch(ctx) }
func (s *Supervisor) History(ctx context.Context, worker string, limit int) ([]Event, error) {
	return s.inner.History(ctx, worker, limit)
}

// Metrics helpers (public facade)

func RegisterMetrics(r prometheus.Registerer) error { return metrics.Register(r) }
func RegisterMetricsDefault() error                 { return metrics.Register(prometheus.DefaultRegisterer) }

// NewHTTPServer starts an HTTP server exposing the read-only status API
// for the given supervisor.
func NewHTTPServer(addr, basePath string, s *Supervisor) (*http.Server, error) {
	return iapi.NewServer(addr, basePath, s.inner)
}
