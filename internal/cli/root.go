package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rebelpaulo/mission-control-data/internal/config"
	"github.com/rebelpaulo/mission-control-data/internal/store/file"
)

// Exit codes
const (
	ExitOK            = 0
	ExitInternalError = 10
)

// GlobalOptions holds options shared across all commands
type GlobalOptions struct {
	ConfigPath string
	DataDir    string
	JSON       bool
	Quiet      bool
	LogLevel   string
}

var globalOpts = &GlobalOptions{}

// logOutput receives structured logs; tests swap it out.
var logOutput io.Writer = os.Stderr

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mcbridge",
	Short: "Export OpenClaw state as Mission Control snapshots",
	Long: `mcbridge queries the openclaw CLI and the local workspace, writes a
snapshot of agents, sessions, skills, workflows and logs as JSON documents
into a data directory, and publishes that directory with git so a static
dashboard can render it.

Missing or failing data sources never fail an export: placeholder records
are written instead.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&globalOpts.ConfigPath, "config", "", "Path to config file (overrides discovered config)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.DataDir, "data-dir", "", "Directory the snapshot is written to (or set MCBRIDGE_DATA_DIR)")
	rootCmd.PersistentFlags().BoolVar(&globalOpts.JSON, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&globalOpts.Quiet, "quiet", false, "Suppress human-readable output")
	rootCmd.PersistentFlags().StringVar(&globalOpts.LogLevel, "log-level", "", "Log level (error|warn|info|debug)")

	// Add subcommands
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newMonitorCmd())
	rootCmd.AddCommand(newConfigCmd())
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitInternalError)
	}
}

// loadConfig resolves the effective configuration. Command-line flags
// override every config source.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(globalOpts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if globalOpts.DataDir != "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = config.ExpandPath(globalOpts.DataDir, cwd)
	}
	if globalOpts.LogLevel != "" {
		cfg.LogLevel = globalOpts.LogLevel
	}
	return cfg, nil
}

// newLogger builds the text logger used by every component.
func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "error":
		lvl = slog.LevelError
	case "warn", "warning", "":
		lvl = slog.LevelWarn
	case "info":
		lvl = slog.LevelInfo
	case "debug":
		lvl = slog.LevelDebug
	default:
		return nil, fmt.Errorf("invalid log level %q (want error|warn|info|debug)", level)
	}
	return slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: lvl})), nil
}

// getStore returns the snapshot store for cfg
func getStore(cfg *config.Config) (*file.FileStore, error) {
	return file.New(cfg.DataDir)
}
