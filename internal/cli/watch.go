package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rebelpaulo/mission-control-data/internal/daemon"
	"github.com/rebelpaulo/mission-control-data/internal/exporter"
)

type watchOptions struct {
	Interval  time.Duration
	Debounce  time.Duration
	NoPublish bool
	Status    bool
}

func newWatchCmd() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Export periodically and whenever skills change",
		Long: `Run an export immediately, then again every interval and shortly after
a skill directory is added or removed. Stops on SIGINT or SIGTERM.

Only one watcher may run per data directory. Use --status to report whether
one is running.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cmd.Flags(), opts)
		},
	}

	cmd.Flags().DurationVar(&opts.Interval, "interval", daemon.DefaultInterval, "Time between exports (overrides config)")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", daemon.DefaultDebounce, "Delay after a skills change before exporting")
	cmd.Flags().BoolVar(&opts.NoPublish, "no-publish", false, "Write snapshots without committing or pushing")
	cmd.Flags().BoolVar(&opts.Status, "status", false, "Report whether a watcher is running and exit")

	return cmd
}

func runWatch(ctx context.Context, flags *pflag.FlagSet, opts *watchOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	stateDir, err := daemon.StateDir(cfg.DataDir)
	if err != nil {
		return err
	}
	if opts.Status {
		return printWatchStatus(cfg.DataDir, stateDir)
	}
	if flagChanged(flags, "interval") {
		if opts.Interval <= 0 {
			return fmt.Errorf("--interval must be positive")
		}
		cfg.Interval = opts.Interval
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	exp, err := buildExporter(ctx, cfg, logger, cfg.Publish && !opts.NoPublish)
	if err != nil {
		return err
	}

	d := daemon.New(stateDir, exp, daemon.Options{
		Interval: cfg.Interval,
		Debounce: opts.Debounce,
		WatchDir: cfg.SkillsDir,
		Logger:   logger,
		OnExport: func(result *exporter.Result, err error) {
			if err == nil {
				_ = printResult(cfg, result)
			}
		},
	})
	return d.Run(ctx)
}

type watchStatusOutput struct {
	OK       bool   `json:"ok"`
	Running  bool   `json:"running"`
	PID      int    `json:"pid,omitempty"`
	DataDir  string `json:"data_dir"`
	StateDir string `json:"state_dir"`
}

func printWatchStatus(dataDir, stateDir string) error {
	running := daemon.IsRunning(stateDir)
	pid := daemon.GetRunningPID(stateDir)
	if globalOpts.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(watchStatusOutput{
			OK:       true,
			Running:  running,
			PID:      pid,
			DataDir:  dataDir,
			StateDir: stateDir,
		})
	}
	if !running {
		fmt.Printf("No watcher running for %s\n", dataDir)
		return nil
	}
	fmt.Printf("Watcher running for %s (pid %d)\n", dataDir, pid)
	return nil
}

// flagChanged reports whether name was set on the command line.
func flagChanged(flags *pflag.FlagSet, name string) bool {
	f := flags.Lookup(name)
	return f != nil && f.Changed
}
