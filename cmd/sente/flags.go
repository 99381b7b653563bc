package main

import "time"

// StartFlags Flag structs to decouple cobra from logic for testing.
type StartFlags struct {
	Settle time.Duration
}

type StopFlags struct {
	Grace time.Duration
}

type StatusFlags struct {
	Name string
	Tail int
	JSON bool
}

type WatchFlags struct {
	Listen   string
	Interval time.Duration
}

type HistoryFlags struct {
	Worker string
	Limit  int
	JSON   bool
}
