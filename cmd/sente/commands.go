package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkweon/sente"
)

type command struct{}

// Start prepares the workspace and launches every worker in order.
// Spawn failures are warnings; only a setup failure (workspace or
// missing interpreter) makes the command fail.
func (c command) Start(f StartFlags, configPath string) error {
	cfg, err := sente.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if f.Settle > 0 {
		cfg.Settle = f.Settle
	}

	sup := sente.New(cfg)
	defer sup.Close()
	if err := sup.OpenHistory(); err != nil {
		sup.Logger().Warn("history disabled", "error", err)
	}

	return sup.StartAll(context.Background())
}

// Stop terminates workers in reverse launch order and prints the
// per-worker outcome. Worker state never affects the exit code.
func (c command) Stop(f StopFlags, configPath string) error {
	cfg, err := sente.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if f.Grace > 0 {
		cfg.Grace = f.Grace
	}

	sup := sente.New(cfg)
	defer sup.Close()
	if err := sup.OpenHistory(); err != nil {
		sup.Logger().Warn("history disabled", "error", err)
	}

	for _, o := range sup.StopAll(context.Background()) {
		if o.PID > 0 {
			fmt.Printf("%s: %s (pid %d)\n", o.Name, o.Action.Describe(), o.PID)
		} else {
			fmt.Printf("%s: %s\n", o.Name, o.Action.Describe())
		}
	}
	return nil
}

// Status prints liveness, resource usage and recent log output for one
// or all workers. Purely informational.
func (c command) Status(f StatusFlags, configPath string) error {
	cfg, err := sente.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if f.Tail > 0 {
		cfg.TailLines = f.Tail
	}

	sup := sente.New(cfg)

	if f.Name != "" {
		st, err := sup.Status(f.Name)
		if err != nil {
			return err
		}
		if f.JSON {
			printJSON(st)
		} else {
			printStatus(st)
		}
		return nil
	}

	statuses := sup.StatusAll()
	if f.JSON {
		printJSON(statuses)
		return nil
	}
	for _, st := range statuses {
		printStatus(st)
	}
	return nil
}

// Watch runs the monitor loop until interrupted, optionally serving
// the read-only HTTP status API.
func (c command) Watch(f WatchFlags, configPath string) error {
	cfg, err := sente.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if f.Listen != "" {
		cfg.Listen = f.Listen
	}
	if f.Interval > 0 {
		cfg.WatchInterval = f.Interval
	}

	sup := sente.New(cfg)
	defer sup.Close()
	if err := sup.OpenHistory(); err != nil {
		sup.Logger().Warn("history disabled", "error", err)
	}
	if err := sente.RegisterMetricsDefault(); err != nil {
		sup.Logger().Warn("metrics registration failed", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Listen != "" {
		server, err := sente.NewHTTPServer(cfg.Listen, "", sup)
		if err != nil {
			return fmt.Errorf("failed to create HTTP server: %w", err)
		}
		defer func() { _ = server.Close() }()
		sup.Logger().Info("status API listening", "addr", cfg.Listen)
	}

	return sup.Watch(ctx)
}

// History prints recent lifecycle events from the configured store.
func (c command) History(f HistoryFlags, configPath string) error {
	cfg, err := sente.LoadConfig(configPath)
	if err != nil {
		return err
	}

	sup := sente.New(cfg)
	defer sup.Close()
	if err := sup.OpenHistory(); err != nil {
		return err
	}

	events, err := sup.History(context.Background(), f.Worker, f.Limit)
	if err != nil {
		return err
	}
	if f.JSON {
		printJSON(events)
		return nil
	}
	for _, ev := range events {
		line := fmt.Sprintf("%s  %-13s %s pid=%d", ev.OccurredAt.Format(time.RFC3339), ev.Type, ev.Worker, ev.PID)
		if ev.Detail != "" {
			line += "  " + ev.Detail
		}
		fmt.Println(line)
	}
	return nil
}
