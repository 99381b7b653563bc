package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	workerStarts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sente",
			Subsystem: "worker",
			Name:      "starts_total",
			Help:      "Number of successful worker launches.",
		}, []string{"worker"},
	)
	workerLaunchFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sente",
			Subsystem: "worker",
			Name:      "launch_failures_total",
			Help:      "Number of failed worker launches.",
		}, []string{"worker"},
	)
	workerStops = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sente",
			Subsystem: "worker",
			Name:      "stops_total",
			Help:      "Number of stops, split by graceful stop vs forced kill.",
		}, []string{"worker", "mode"},
	)
	staleCleanups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sente",
			Subsystem: "worker",
			Name:      "stale_cleanups_total",
			Help:      "Number of stale pid-file records removed.",
		}, []string{"worker"},
	)
	workerUp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "sente",
			Subsystem: "worker",
			Name:      "up",
			Help:      "1 if the recorded worker process is alive, else 0.",
		}, []string{"worker"},
	)
	workerCPU = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "sente",
			Subsystem: "worker",
			Name:      "cpu_percent",
			Help:      "Best-effort CPU utilization of the worker process.",
		}, []string{"worker"},
	)
	workerMem = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "sente",
			Subsystem: "worker",
			Name:      "memory_percent",
			Help:      "Best-effort memory utilization of the worker process.",
		}, []string{"worker"},
	)
)

// Stop modes recorded by IncStop.
const (
	ModeGraceful = "graceful"
	ModeForced   = "forced"
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{workerStarts, workerLaunchFailures, workerStops, staleCleanups, workerUp, workerCPU, workerMem}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			// If already registered, ignore (allows double Register with default registry)
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler returns an http.Handler that serves Prometheus metrics for the DefaultGatherer.
// The caller is responsible for starting an HTTP server and wiring the route.
func Handler() http.Handler { return promhttp.Handler() }

// Below are lightweight helpers used by internal packages to record metrics.
// They no-op if Register hasn't been called.

func IncStart(worker string) {
	if regOK.Load() {
		workerStarts.WithLabelValues(worker).Inc()
	}
}

func IncLaunchFailure(worker string) {
	if regOK.Load() {
		workerLaunchFailures.WithLabelValues(worker).Inc()
	}
}

func IncStop(worker, mode string) {
	if regOK.Load() {
		workerStops.WithLabelValues(worker, mode).Inc()
	}
}

func IncStaleCleanup(worker string) {
	if regOK.Load() {
		staleCleanups.WithLabelValues(worker).Inc()
	}
}

func SetUp(worker string, up bool) {
	if regOK.Load() {
		var v float64
		if up {
			v = 1
		}
		workerUp.WithLabelValues(worker).Set(v)
	}
}

func SetUsage(worker string, cpu, mem float64) {
	if regOK.Load() {
		workerCPU.WithLabelValues(worker).Set(cpu)
		workerMem.WithLabelValues(worker).Set(mem)
	}
}
