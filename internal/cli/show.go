package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rebelpaulo/mission-control-data/internal/model"
	"github.com/rebelpaulo/mission-control-data/internal/monitor"
	"github.com/rebelpaulo/mission-control-data/internal/snapshot"
	"github.com/rebelpaulo/mission-control-data/internal/store"
)

// showSections lists the sections accepted by `show`, in display order.
var showSections = []string{"agents", "sessions", "skills", "workflows", "runs", "logs"}

type showOptions struct {
	Width int
}

func newShowCmd() *cobra.Command {
	opts := &showOptions{}

	cmd := &cobra.Command{
		Use:   "show [SECTION]",
		Short: "Print the last written snapshot",
		Long: `Print the snapshot in the data directory as tables.

SECTION limits the output to one of: ` + strings.Join(showSections, ", ") + `.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: showSections,
		RunE: func(cmd *cobra.Command, args []string) error {
			section := ""
			if len(args) == 1 {
				section = args[0]
			}
			return runShow(section, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Width, "width", 100, "Table width in cells")

	return cmd
}

func runShow(section string, opts *showOptions) error {
	if section != "" && !validSection(section) {
		return fmt.Errorf("unknown section %q (want one of %s)", section, strings.Join(showSections, ", "))
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := getStore(cfg)
	if err != nil {
		return err
	}

	snap, err := st.Load()
	if errors.Is(err, store.ErrNoSnapshot) {
		return fmt.Errorf("no snapshot in %s (run `mcbridge export` first)", st.DataDir())
	}
	if err != nil {
		return err
	}

	if globalOpts.JSON {
		return showJSON(snap, section, time.Now())
	}
	return showHuman(snap, section, opts.Width, time.Now())
}

func validSection(section string) bool {
	for _, s := range showSections {
		if s == section {
			return true
		}
	}
	return false
}

type showOutput struct {
	OK        bool                   `json:"ok"`
	Age       string                 `json:"age"`
	Heartbeat *model.Heartbeat       `json:"heartbeat,omitempty"`
	System    *model.SystemStatus    `json:"system,omitempty"`
	Agents    []model.AgentRecord    `json:"agents,omitempty"`
	Sessions  []model.SessionRecord  `json:"sessions,omitempty"`
	Skills    []model.SkillRecord    `json:"skills,omitempty"`
	Workflows []model.WorkflowRecord `json:"workflows,omitempty"`
	Runs      []model.RunRecord      `json:"runs,omitempty"`
	Logs      []string               `json:"logs,omitempty"`
}

func showJSON(snap *snapshot.Snapshot, section string, now time.Time) error {
	out := showOutput{
		OK:  true,
		Age: monitor.Age(snap.GeneratedAt, now),
	}
	all := section == ""
	if all {
		out.Heartbeat = &snap.Heartbeat
		out.System = &snap.System
	}
	if all || section == "agents" {
		out.Agents = snap.Agents
	}
	if all || section == "sessions" {
		out.Sessions = snap.Sessions
	}
	if all || section == "skills" {
		out.Skills = snap.Skills
	}
	if all || section == "workflows" {
		out.Workflows = snap.Workflows
	}
	if all || section == "runs" {
		out.Runs = snap.Runs
	}
	if all || section == "logs" {
		out.Logs = snap.Logs.Logs
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func showHuman(snap *snapshot.Snapshot, section string, width int, now time.Time) error {
	styles := monitor.DefaultStyles()
	sys := snap.System

	if section == "" {
		host := sys.Host
		if host == "" {
			host = "-"
		}
		fmt.Printf("Snapshot: %s (generated %s)\n", snap.Heartbeat.Timestamp, monitor.Age(snap.GeneratedAt, now))
		fmt.Printf("Host: %s  OpenClaw: %s  agents: %d  sessions: %d  skills: %d\n",
			host, styles.StyleStatus(string(sys.OpenClaw.Status)),
			sys.OpenClaw.Agents, sys.OpenClaw.Sessions, sys.OpenClaw.Skills)
	}

	tables := []struct {
		name  string
		table monitor.Table
		empty bool
	}{
		{"agents", monitor.AgentsTable(snap), len(snap.Agents) == 0},
		{"sessions", monitor.SessionsTable(snap), len(snap.Sessions) == 0},
		{"skills", monitor.SkillsTable(snap), len(snap.Skills) == 0},
		{"workflows", monitor.WorkflowsTable(snap), len(snap.Workflows) == 0},
		{"runs", monitor.RunsTable(snap), len(snap.Runs) == 0},
	}
	for _, t := range tables {
		if section != "" && section != t.name {
			continue
		}
		if section == "" {
			fmt.Printf("\n%s\n", strings.ToUpper(t.name))
		}
		if t.empty {
			fmt.Printf("No %s\n", t.name)
			continue
		}
		fmt.Println(t.table.Render(styles, width))
	}

	if section == "" || section == "logs" {
		if section == "" {
			fmt.Printf("\nLOGS\n")
		}
		for _, line := range snap.Logs.Logs {
			fmt.Println(line)
		}
	}
	return nil
}
