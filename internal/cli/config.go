package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rebelpaulo/mission-control-data/internal/config"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after merging defaults, the global config file,
MCBRIDGE_* environment variables, .mcbridge/config.yaml files, --config and
command-line flags. The closest .mcbridge directory, when one is found, is
reported as a trailing comment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfig()
		},
	}
}

func runConfig() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repoConfig := config.RepoConfigDir()

	if globalOpts.JSON {
		out := map[string]any{
			"ok":            true,
			"data_dir":      cfg.DataDir,
			"skills_dir":    cfg.SkillsDir,
			"workflows_dir": cfg.WorkflowsDir,
			"repo_dir":      cfg.PublishDir(),
			"publish":       cfg.Publish,
			"remote":        cfg.Remote,
			"branch":        cfg.Branch,
			"interval":      cfg.Interval.String(),
			"log_level":     cfg.LogLevel,
		}
		if repoConfig != "" {
			out["repo_config_dir"] = repoConfig
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	data, err := cfg.YAML()
	if err != nil {
		return err
	}
	if _, err := os.Stdout.Write(data); err != nil {
		return err
	}
	if repoConfig != "" {
		fmt.Printf("# repo config: %s\n", repoConfig)
	}
	return nil
}
