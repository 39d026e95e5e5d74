// Package snapshot assembles extracted records into the document set
// published to the dashboard.
package snapshot

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/rebelpaulo/mission-control-data/internal/extract"
	"github.com/rebelpaulo/mission-control-data/internal/fallback"
	"github.com/rebelpaulo/mission-control-data/internal/model"
)

// Document file names, in write order.
const (
	HeartbeatFile = "status.json"
	SystemFile    = "system.json"
	AgentsFile    = "agents.json"
	SessionsFile  = "sessions.json"
	SkillsFile    = "skills.json"
	WorkflowsFile = "workflows.json"
	RunsFile      = "runs.json"
	LogsFile      = "logs.json"
)

// FileNames lists every document file in write order.
var FileNames = []string{
	HeartbeatFile,
	SystemFile,
	AgentsFile,
	SessionsFile,
	SkillsFile,
	WorkflowsFile,
	RunsFile,
	LogsFile,
}

// Inputs is everything one export gathered from the outside world. Empty
// strings stand for a command that failed, timed out or printed nothing.
type Inputs struct {
	StatusText   string
	AgentsText   string
	SessionsText string
	LogText      string
	Skills       []model.SkillRecord
	Workflows    []model.WorkflowRecord
}

// Snapshot is the complete document set of one export. It is not modified
// after Assemble returns.
type Snapshot struct {
	GeneratedAt time.Time
	Heartbeat   model.Heartbeat
	System      model.SystemStatus
	Agents      []model.AgentRecord
	Sessions    []model.SessionRecord
	Skills      []model.SkillRecord
	Workflows   []model.WorkflowRecord
	Runs        []model.RunRecord
	Logs        model.LogList
	// Defaulted names the collections replaced by fallback fixtures, in
	// document order.
	Defaulted []string
}

// Options tunes assembly.
type Options struct {
	Extractor *extract.Extractor
	LogLines  int
}

// Assemble builds a Snapshot from in, stamping generatedAt on every
// document that carries a timestamp.
func Assemble(in Inputs, generatedAt time.Time, opts Options) *Snapshot {
	ex := opts.Extractor
	if ex == nil {
		ex = extract.Default()
	}
	logLines := opts.LogLines
	if logLines <= 0 {
		logLines = extract.DefaultLogLines
	}
	ts := model.FormatTimestamp(generatedAt)

	agents := extract.Agents(in.AgentsText)
	sessions := extract.Sessions(in.SessionsText)
	logs := extract.Logs(in.LogText, logLines)

	snap := &Snapshot{
		GeneratedAt: generatedAt.UTC(),
		Heartbeat:   model.Heartbeat{Timestamp: ts, Status: model.HeartbeatOK},
		System:      ex.Status(in.StatusText, ts),
		Agents:      fallback.Agents(agents),
		Sessions:    fallback.Sessions(sessions),
		Skills:      fallback.Skills(in.Skills),
		Workflows:   in.Workflows,
		Runs:        PlaceholderRuns(generatedAt),
		Logs:        model.LogList{Logs: fallback.Logs(logs, ts)},
	}
	if len(agents) == 0 {
		snap.Defaulted = append(snap.Defaulted, AgentsFile)
	}
	if len(sessions) == 0 {
		snap.Defaulted = append(snap.Defaulted, SessionsFile)
	}
	if len(in.Skills) == 0 {
		snap.Defaulted = append(snap.Defaulted, SkillsFile)
	}
	if len(logs) == 0 {
		snap.Defaulted = append(snap.Defaulted, LogsFile)
	}
	if snap.Workflows == nil {
		snap.Workflows = []model.WorkflowRecord{}
	}

	snap.System.OpenClaw.Skills = len(snap.Skills)
	return snap
}

// PlaceholderRuns returns the single in-progress run shown until the
// orchestrator exposes real run history.
func PlaceholderRuns(generatedAt time.Time) []model.RunRecord {
	return []model.RunRecord{
		{
			ID:       "run-001",
			Workflow: "feature-dev",
			Status:   "running",
			Progress: 65,
			Started:  generatedAt.UTC().Format("15:04") + " UTC",
		},
	}
}

// Document is one file of the snapshot.
type Document struct {
	Name  string
	Value any
}

// Marshal encodes the document as indented JSON with a trailing newline.
func (d Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d.Value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Documents returns the snapshot's documents in FileNames order.
func (s *Snapshot) Documents() []Document {
	return []Document{
		{Name: HeartbeatFile, Value: s.Heartbeat},
		{Name: SystemFile, Value: s.System},
		{Name: AgentsFile, Value: s.Agents},
		{Name: SessionsFile, Value: s.Sessions},
		{Name: SkillsFile, Value: s.Skills},
		{Name: WorkflowsFile, Value: s.Workflows},
		{Name: RunsFile, Value: s.Runs},
		{Name: LogsFile, Value: s.Logs},
	}
}

// Summary is the per-export count line printed by the CLI.
type Summary struct {
	Timestamp string `json:"timestamp"`
	Host      string `json:"host"`
	Status    string `json:"status"`
	Agents    int    `json:"agents"`
	Sessions  int    `json:"sessions"`
	Skills    int    `json:"skills"`
	Workflows int    `json:"workflows"`
}

// Summary returns the record counts of the snapshot.
func (s *Snapshot) Summary() Summary {
	return Summary{
		Timestamp: s.Heartbeat.Timestamp,
		Host:      s.System.Host,
		Status:    string(s.System.OpenClaw.Status),
		Agents:    len(s.Agents),
		Sessions:  len(s.Sessions),
		Skills:    len(s.Skills),
		Workflows: len(s.Workflows),
	}
}
