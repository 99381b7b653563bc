package supervisor

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mkweon/sente/internal/inspector"
	"github.com/mkweon/sente/internal/metrics"
)

// Watch samples worker status on a fixed interval, publishes the
// results as Prometheus gauges and logs state transitions. Registry
// changes (pid files appearing or vanishing) trigger an immediate
// sample instead of waiting for the next tick. Watch blocks until ctx
// is done.
func (s *Supervisor) Watch(ctx context.Context) error {
	interval := s.cfg.WatchInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		defer func() { _ = watcher.Close() }()
		for _, dir := range s.registryDirs() {
			if werr := watcher.Add(dir); werr != nil {
				s.log.Warn("cannot watch registry dir", "dir", dir, "error", werr)
			}
		}
	} else {
		s.log.Warn("registry watching disabled", "error", err)
	}

	last := make(map[string]inspector.State)
	s.sample(last)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if watcher != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				s.sample(last)
			case ev := <-watcher.Events:
				if strings.HasSuffix(ev.Name, ".pid") && ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
					s.sample(last)
				}
			case werr := <-watcher.Errors:
				s.log.Warn("registry watcher error", "error", werr)
			}
		} else {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				s.sample(last)
			}
		}
	}
}

// registryDirs returns the unique directories holding pid files.
func (s *Supervisor) registryDirs() []string {
	seen := make(map[string]struct{})
	dirs := make([]string, 0, 1)
	for _, spec := range s.cfg.Workers {
		d := filepath.Dir(spec.PIDFile)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dirs = append(dirs, d)
	}
	return dirs
}

// sample inspects all workers once, pushes gauges and logs transitions.
func (s *Supervisor) sample(last map[string]inspector.State) {
	for _, st := range s.StatusAll() {
		running := st.State == inspector.StateRunning
		metrics.SetUp(st.Name, running)
		if running {
			metrics.SetUsage(st.Name, st.CPUPercent, st.MemPercent)
		} else {
			metrics.SetUsage(st.Name, 0, 0)
		}
		if prev, ok := last[st.Name]; ok && prev != st.State {
			s.log.Info("worker state changed",
				"worker", st.Name, "from", prev.Describe(), "to", st.State.Describe(), "pid", st.PID)
		}
		last[st.Name] = st.State
	}
}
