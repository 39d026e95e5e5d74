// Package monitor renders the persisted snapshot as a full-screen dashboard
// that reloads itself while exports keep rewriting the data directory.
package monitor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rebelpaulo/mission-control-data/internal/snapshot"
	"github.com/rebelpaulo/mission-control-data/internal/store"
)

type tab int

const (
	tabAgents tab = iota
	tabSessions
	tabSkills
	tabWorkflows
	tabLogs
)

var tabs = []struct {
	id    tab
	label string
}{
	{tabAgents, "Agents"},
	{tabSessions, "Sessions"},
	{tabSkills, "Skills"},
	{tabWorkflows, "Workflows"},
	{tabLogs, "Logs"},
}

// Loader reads the latest snapshot. store.Store satisfies it.
type Loader interface {
	Load() (*snapshot.Snapshot, error)
}

// Dashboard is the bubbletea model for the monitor UI.
type Dashboard struct {
	loader Loader

	snap    *snapshot.Snapshot
	loadErr error
	tab     tab
	width   int
	height  int

	keymap KeyMap
	styles Styles

	lastRefresh     time.Time
	refreshing      bool
	refreshInterval time.Duration
	now             func() time.Time
}

type snapshotMsg struct {
	snap *snapshot.Snapshot
	err  error
}

type tickMsg time.Time

// NewDashboard creates a dashboard model. A non-positive interval selects
// the default refresh interval.
func NewDashboard(loader Loader, refreshInterval time.Duration) *Dashboard {
	if refreshInterval <= 0 {
		refreshInterval = defaultRefreshInterval
	}
	return &Dashboard{
		loader:          loader,
		keymap:          DefaultKeyMap(),
		styles:          DefaultStyles(),
		refreshInterval: refreshInterval,
		now:             time.Now,
	}
}

// Run starts the bubbletea program.
func (d *Dashboard) Run() error {
	program := tea.NewProgram(d, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// Init implements tea.Model.
func (d *Dashboard) Init() tea.Cmd {
	d.refreshing = true
	return tea.Batch(d.refreshCmd(), d.tickCmd())
}

// Update implements tea.Model.
func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		return d, nil
	case snapshotMsg:
		d.refreshing = false
		d.lastRefresh = d.now()
		d.loadErr = msg.err
		if msg.err == nil {
			d.snap = msg.snap
		}
		return d, nil
	case tickMsg:
		if d.refreshing {
			return d, d.tickCmd()
		}
		d.refreshing = true
		return d, tea.Batch(d.refreshCmd(), d.tickCmd())
	case tea.KeyMsg:
		return d.handleKey(msg)
	default:
		return d, nil
	}
}

func (d *Dashboard) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return d, tea.Quit
	}

	switch key := msg.String(); key {
	case d.keymap.Quit, "esc":
		return d, tea.Quit
	case d.keymap.Refresh:
		d.refreshing = true
		return d, d.refreshCmd()
	case d.keymap.Next, "right", "l":
		d.tab = (d.tab + 1) % tab(len(tabs))
	case d.keymap.Prev, "left", "h":
		d.tab = (d.tab + tab(len(tabs)) - 1) % tab(len(tabs))
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(tabs) {
			d.tab = tabs[n-1].id
		}
	}
	return d, nil
}

func (d *Dashboard) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		snap, err := d.loader.Load()
		return snapshotMsg{snap: snap, err: err}
	}
}

func (d *Dashboard) tickCmd() tea.Cmd {
	return tea.Tick(d.refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// View implements tea.Model.
func (d *Dashboard) View() string {
	lines := []string{
		d.styles.Title.Render("MISSION CONTROL"),
		"",
		d.renderMeta(),
		"",
		d.renderTabs(),
		"",
		d.renderBody(),
	}
	if d.loadErr != nil && d.snap != nil {
		lines = append(lines, "", d.styles.Faint.Render("reload failed: "+d.loadErr.Error()))
	}
	lines = append(lines, "", d.styles.Muted.Render(d.keymap.HelpLine()))
	return d.styles.Box.Render(strings.Join(lines, "\n"))
}

func (d *Dashboard) renderMeta() string {
	if d.snap == nil {
		return d.styles.Muted.Render("waiting for snapshot")
	}
	sys := d.snap.System
	host := sys.Host
	if host == "" {
		host = "-"
	}
	parts := []string{
		"host: " + host,
		"openclaw: " + d.styles.StyleStatus(string(sys.OpenClaw.Status)),
		fmt.Sprintf("agents: %d", sys.OpenClaw.Agents),
		fmt.Sprintf("sessions: %d", sys.OpenClaw.Sessions),
		fmt.Sprintf("skills: %d", sys.OpenClaw.Skills),
		"generated " + Age(d.snap.GeneratedAt, d.now()),
	}
	return strings.Join(parts, "  ")
}

func (d *Dashboard) renderTabs() string {
	parts := make([]string, len(tabs))
	for i, t := range tabs {
		label := fmt.Sprintf("%d %s", i+1, t.label)
		if t.id == d.tab {
			parts[i] = d.styles.TabActive.Render(label)
		} else {
			parts[i] = d.styles.TabIdle.Render(label)
		}
	}
	return strings.Join(parts, " ")
}

func (d *Dashboard) renderBody() string {
	if d.snap == nil {
		if errors.Is(d.loadErr, store.ErrNoSnapshot) {
			return "No snapshot found. Run `mcbridge export` first."
		}
		if d.loadErr != nil {
			return "Failed to load snapshot: " + d.loadErr.Error()
		}
		return "Loading..."
	}

	width := d.safeWidth()
	switch d.tab {
	case tabSessions:
		return SessionsTable(d.snap).Render(d.styles, width)
	case tabSkills:
		return SkillsTable(d.snap).Render(d.styles, width)
	case tabWorkflows:
		body := WorkflowsTable(d.snap).Render(d.styles, width)
		if len(d.snap.Workflows) == 0 {
			body = "No workflows."
		}
		return body + "\n\n" + RunsTable(d.snap).Render(d.styles, width)
	case tabLogs:
		return d.renderLogs(width)
	default:
		return AgentsTable(d.snap).Render(d.styles, width)
	}
}

func (d *Dashboard) renderLogs(width int) string {
	if len(d.snap.Logs.Logs) == 0 {
		return "No log lines."
	}
	lines := make([]string, len(d.snap.Logs.Logs))
	for i, line := range d.snap.Logs.Logs {
		lines[i] = truncate(line, width)
	}
	return strings.Join(lines, "\n")
}

func (d *Dashboard) safeWidth() int {
	frame := d.styles.Box.GetHorizontalFrameSize()
	if d.width > frame {
		return d.width - frame
	}
	return defaultWidth
}

// AgentsTable lists the snapshot's agents.
func AgentsTable(snap *snapshot.Snapshot) Table {
	t := Table{
		Headers:   []string{"NAME", "STATUS", "MODEL", "SESSIONS", "TOKENS"},
		Widths:    []int{12, 8, 8, 8},
		StatusCol: 1,
	}
	for _, a := range snap.Agents {
		t.Rows = append(t.Rows, []string{a.Name, string(a.Status), a.Model, strconv.Itoa(a.Sessions), a.Tokens})
	}
	return t
}

// SessionsTable lists the snapshot's sessions.
func SessionsTable(snap *snapshot.Snapshot) Table {
	t := Table{
		Headers:   []string{"ID", "AGENT", "MODEL", "DURATION", "TOKENS", "STATUS"},
		Widths:    []int{20, 12, 8, 8, 8},
		StatusCol: 5,
	}
	for _, s := range snap.Sessions {
		t.Rows = append(t.Rows, []string{s.ID, s.Agent, s.Model, s.Duration, s.Tokens, string(s.Status)})
	}
	return t
}

// SkillsTable lists the snapshot's skills.
func SkillsTable(snap *snapshot.Snapshot) Table {
	t := Table{
		Headers:   []string{"NAME", "VERSION", "STATUS", "DESCRIPTION"},
		Widths:    []int{20, 8, 8},
		StatusCol: 2,
	}
	for _, s := range snap.Skills {
		t.Rows = append(t.Rows, []string{s.Name, s.Version, string(s.Status), s.Description})
	}
	return t
}

// WorkflowsTable lists the snapshot's workflows.
func WorkflowsTable(snap *snapshot.Snapshot) Table {
	t := Table{
		Headers:   []string{"ID", "NAME", "AGENTS", "RUNS", "DESCRIPTION"},
		Widths:    []int{16, 22, 6, 6},
		StatusCol: -1,
	}
	for _, w := range snap.Workflows {
		t.Rows = append(t.Rows, []string{w.ID, w.Name, strconv.Itoa(w.Agents), strconv.Itoa(w.Runs), w.Description})
	}
	return t
}

// RunsTable lists the snapshot's workflow runs.
func RunsTable(snap *snapshot.Snapshot) Table {
	t := Table{
		Headers:   []string{"RUN", "WORKFLOW", "STATUS", "PROGRESS", "STARTED"},
		Widths:    []int{10, 16, 8, 8},
		StatusCol: 2,
	}
	for _, r := range snap.Runs {
		t.Rows = append(t.Rows, []string{r.ID, r.Workflow, r.Status, fmt.Sprintf("%d%%", r.Progress), r.Started})
	}
	return t
}
