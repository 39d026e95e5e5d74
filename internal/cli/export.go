package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rebelpaulo/mission-control-data/internal/config"
	"github.com/rebelpaulo/mission-control-data/internal/exporter"
	"github.com/rebelpaulo/mission-control-data/internal/extract"
	"github.com/rebelpaulo/mission-control-data/internal/git"
	"github.com/rebelpaulo/mission-control-data/internal/openclaw"
)

type exportOptions struct {
	NoPublish bool
}

func newExportCmd() *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write one snapshot and publish it",
		Long: `Query openclaw, read the skills and workflow directories, write the
snapshot documents into the data directory and publish them with git.

Publishing failures are reported but do not fail the command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.NoPublish, "no-publish", false, "Write the snapshot without committing or pushing")

	return cmd
}

func runExport(ctx context.Context, opts *exportOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	exp, err := buildExporter(ctx, cfg, logger, cfg.Publish && !opts.NoPublish)
	if err != nil {
		return err
	}

	result, err := exp.Run(ctx, time.Now())
	if err != nil {
		return err
	}
	return printResult(cfg, result)
}

// buildExporter wires the openclaw client, the file store and, when
// publish is set, the git publisher.
func buildExporter(ctx context.Context, cfg *config.Config, logger *slog.Logger, publish bool) (*exporter.Exporter, error) {
	st, err := getStore(cfg)
	if err != nil {
		return nil, err
	}

	ex, err := extract.New(cfg.HostPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid host_pattern: %w", err)
	}

	client := openclaw.New(openclaw.Options{
		Binary:       cfg.OpenClawBin,
		LogUnit:      cfg.LogUnit,
		JournalLines: cfg.JournalLines,
		QueryTimeout: cfg.QueryTimeout,
		LogTimeout:   cfg.LogTimeout,
		Logger:       logger,
	})

	var pub exporter.Publisher
	if publish {
		if p := newPublisher(ctx, cfg, logger); p != nil {
			pub = p
		}
	}

	return exporter.New(client, st, pub, exporter.Config{
		SkillsDir:    cfg.SkillsDir,
		WorkflowsDir: cfg.WorkflowsDir,
		LogLines:     cfg.LogLines,
		Extractor:    ex,
		Logger:       logger,
	}), nil
}

// newPublisher returns nil when the publish directory is not inside a git
// working tree.
func newPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) *git.Publisher {
	dir := cfg.PublishDir()
	root, err := git.FindRepoRoot(ctx, dir)
	if err != nil {
		logger.Warn("publishing disabled: not a git repository", "dir", dir, "error", err)
		return nil
	}
	return git.NewPublisher(git.NewRepository(root, 0), git.PublishOptions{
		Remote: cfg.Remote,
		Branch: cfg.Branch,
		Logger: logger,
	})
}

type exportOutput struct {
	OK           bool   `json:"ok"`
	DataDir      string `json:"data_dir"`
	Timestamp    string `json:"timestamp"`
	Host         string `json:"host"`
	Status       string `json:"status"`
	Agents       int    `json:"agents"`
	Sessions     int    `json:"sessions"`
	Skills       int    `json:"skills"`
	Workflows    int    `json:"workflows"`
	Published    bool   `json:"published"`
	PublishError string `json:"publish_error,omitempty"`
}

func printResult(cfg *config.Config, result *exporter.Result) error {
	summary := result.Snapshot.Summary()

	if globalOpts.JSON {
		out := exportOutput{
			OK:        true,
			DataDir:   cfg.DataDir,
			Timestamp: summary.Timestamp,
			Host:      summary.Host,
			Status:    summary.Status,
			Agents:    summary.Agents,
			Sessions:  summary.Sessions,
			Skills:    summary.Skills,
			Workflows: summary.Workflows,
			Published: result.Published,
		}
		if result.PublishErr != nil {
			out.PublishError = result.PublishErr.Error()
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if globalOpts.Quiet {
		return nil
	}

	fmt.Printf("Snapshot written to %s at %s\n", cfg.DataDir, summary.Timestamp)
	fmt.Printf("  Agents: %d\n", summary.Agents)
	fmt.Printf("  Sessions: %d\n", summary.Sessions)
	fmt.Printf("  Skills: %d\n", summary.Skills)
	fmt.Printf("  Workflows: %d\n", summary.Workflows)
	switch {
	case result.Published:
		fmt.Println("Published.")
	case result.PublishErr != nil:
		fmt.Printf("Publish failed: %v\n", result.PublishErr)
	}
	return nil
}
