package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mkweon/sente"
	"github.com/mkweon/sente/internal/inspector"
)

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

// printStatus renders one worker's status as indented text: a headline
// with liveness and resource usage, then the log tail.
func printStatus(st sente.WorkerStatus) {
	switch {
	case st.State == inspector.StateRunning:
		fmt.Printf("%s: %s pid=%d cpu=%s mem=%s\n", st.Name, st.State.Describe(), st.PID, pct(st.CPUPercent), pct(st.MemPercent))
	case st.PID > 0:
		fmt.Printf("%s: %s pid=%d\n", st.Name, st.State.Describe(), st.PID)
	default:
		fmt.Printf("%s: %s\n", st.Name, st.State.Describe())
	}
	if st.Detail != "" {
		fmt.Printf("  %s\n", st.Detail)
	}
	if st.LogMissing {
		fmt.Println("  log file not found")
		return
	}
	for _, line := range st.LogTail {
		fmt.Printf("  %s\n", line)
	}
}

// pct formats a usage percentage; negative values mean the sample was
// unavailable.
func pct(v float64) string {
	if v < 0 {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}
