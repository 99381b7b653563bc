package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := buildRoot()
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GlobalFlags holds persistent flags shared by every subcommand.
type GlobalFlags struct {
	ConfigPath string
}

// buildRoot creates the root command and wires the subcommands.
func buildRoot() *cobra.Command {
	globalFlags := &GlobalFlags{}
	startFlags := &StartFlags{}
	stopFlags := &StopFlags{}
	statusFlags := &StatusFlags{}
	watchFlags := &WatchFlags{}
	historyFlags := &HistoryFlags{}

	senteCommand := command{}

	root := createRootCommand(globalFlags)
	root.AddCommand(
		createStartCommand(senteCommand, globalFlags, startFlags),
		createStopCommand(senteCommand, globalFlags, stopFlags),
		createStatusCommand(senteCommand, globalFlags, statusFlags),
		createWatchCommand(senteCommand, globalFlags, watchFlags),
		createHistoryCommand(senteCommand, globalFlags, historyFlags),
	)
	return root
}

// createRootCommand creates the root command with minimal persistent flags
func createRootCommand(flags *GlobalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:   "sente",
		Short: "Supervisor for the Go engine worker trio",
		Long: `Sente supervises the long-running workers of a Go-playing system:
the core engine loop, the continuous-learning worker and the debug
monitor. It launches them detached with per-worker log and pid files,
stops them gracefully with a forced fallback, and reports liveness,
resource usage and recent log output.

Examples:
  sente start                       # Launch all workers
  sente status                      # Liveness, cpu/mem, recent logs
  sente stop                        # Graceful stop, forced after grace
  sente watch --listen=:8080        # Monitor loop with HTTP status API`,
	}

	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "path to TOML config file (optional)")

	return root
}

// createStartCommand creates the start subcommand
func createStartCommand(senteCommand command, globalFlags *GlobalFlags, startFlags *StartFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start all workers",
		Long: `Prepare the workspace and launch every configured worker in order,
recording one pid file per worker. Workers that fail to spawn are
reported as warnings; the command fails only when the workspace cannot
be prepared or the required interpreter is missing.

Examples:
  sente start
  sente start --settle=5s
  sente start --config=sente.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return senteCommand.Start(*startFlags, globalFlags.ConfigPath)
		},
	}

	cmd.Flags().DurationVar(&startFlags.Settle, "settle", 0, "override the post-spawn settle delay")

	return cmd
}

// createStopCommand creates the stop subcommand
func createStopCommand(senteCommand command, globalFlags *GlobalFlags, stopFlags *StopFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop all workers",
		Long: `Stop every worker in reverse launch order: graceful signal first,
forced termination after the grace period. Pid files are removed
whether or not the worker was still alive; the exit code is zero
regardless of worker state.

Examples:
  sente stop
  sente stop --grace=5s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return senteCommand.Stop(*stopFlags, globalFlags.ConfigPath)
		},
	}

	cmd.Flags().DurationVar(&stopFlags.Grace, "grace", 0, "override the graceful-shutdown grace period")

	return cmd
}

// createStatusCommand creates the status subcommand
func createStatusCommand(senteCommand command, globalFlags *GlobalFlags, statusFlags *StatusFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show worker status",
		Long: `Report each worker's liveness, pid, cpu/memory usage and the tail of
its log file. Purely informational; the exit code is always zero.

Examples:
  sente status                      # All workers
  sente status --name=core          # One worker
  sente status --json               # Machine-readable output`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return senteCommand.Status(*statusFlags, globalFlags.ConfigPath)
		},
	}

	cmd.Flags().StringVar(&statusFlags.Name, "name", "", "worker name (optional)")
	cmd.Flags().IntVar(&statusFlags.Tail, "tail", 0, "override the number of log lines shown")
	cmd.Flags().BoolVar(&statusFlags.JSON, "json", false, "print JSON instead of text")

	return cmd
}

// createWatchCommand creates the watch subcommand
func createWatchCommand(senteCommand command, globalFlags *GlobalFlags, watchFlags *WatchFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Monitor workers continuously",
		Long: `Sample worker liveness and resource usage on an interval, react to
pid-file changes immediately, and export Prometheus metrics. With
--listen (or [listen] in the config) it also serves the read-only
HTTP status API. Runs until interrupted.

Examples:
  sente watch
  sente watch --interval=10s
  sente watch --listen=:8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return senteCommand.Watch(*watchFlags, globalFlags.ConfigPath)
		},
	}

	cmd.Flags().StringVar(&watchFlags.Listen, "listen", "", "HTTP listen address for the status API")
	cmd.Flags().DurationVar(&watchFlags.Interval, "interval", 0, "override the sampling interval")

	return cmd
}

// createHistoryCommand creates the history subcommand
func createHistoryCommand(senteCommand command, globalFlags *GlobalFlags, historyFlags *HistoryFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent lifecycle events",
		Long: `Print recent worker lifecycle events (starts, stops, kills, stale
cleanups) from the configured history store, newest first.

Examples:
  sente history
  sente history --worker=core --limit=20
  sente history --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return senteCommand.History(*historyFlags, globalFlags.ConfigPath)
		},
	}

	cmd.Flags().StringVar(&historyFlags.Worker, "worker", "", "filter by worker name")
	cmd.Flags().IntVar(&historyFlags.Limit, "limit", 50, "maximum number of events")
	cmd.Flags().BoolVar(&historyFlags.JSON, "json", false, "print JSON instead of text")

	return cmd
}
