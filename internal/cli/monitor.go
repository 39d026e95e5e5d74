package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/rebelpaulo/mission-control-data/internal/monitor"
)

type monitorOptions struct {
	Refresh time.Duration
}

func newMonitorCmd() *cobra.Command {
	opts := &monitorOptions{}

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Interactive dashboard over the latest snapshot",
		Long: `Open a full-screen dashboard showing the snapshot in the data directory.
The dashboard reloads the snapshot periodically, so it follows a running
` + "`mcbridge watch`" + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonitor(opts)
		},
	}

	cmd.Flags().DurationVar(&opts.Refresh, "refresh", 5*time.Second, "Reload interval")

	return cmd
}

func runMonitor(opts *monitorOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := getStore(cfg)
	if err != nil {
		return err
	}
	return monitor.NewDashboard(st, opts.Refresh).Run()
}
