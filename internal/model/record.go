package model

import "time"

// TimestampLayout is the UTC layout stamped on every snapshot document.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// FormatTimestamp renders t in TimestampLayout after converting it to UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// OpenClawStatus is the nested status block of the system document.
type OpenClawStatus struct {
	Status   State `json:"status"`
	Agents   int   `json:"agents"`
	Sessions int   `json:"sessions"`
	Skills   int   `json:"skills"`
}

// SystemStatus describes the orchestrator host as seen by `openclaw status`.
// Agents and Sessions are extracted from the status text and may disagree
// with the record collections; Skills is set from the skill collection.
type SystemStatus struct {
	Timestamp string         `json:"timestamp"`
	Host      string         `json:"host"`
	OpenClaw  OpenClawStatus `json:"openclaw"`
}

// AgentRecord is one known agent role.
type AgentRecord struct {
	Name     string `json:"name"`
	Status   State  `json:"status"`
	Model    string `json:"model"`
	Sessions int    `json:"sessions"`
	Tokens   string `json:"tokens"`
}

// SessionRecord is one agent session, identified as "<agent>:<session>".
type SessionRecord struct {
	ID       string `json:"id"`
	Agent    string `json:"agent"`
	Model    string `json:"model"`
	Duration string `json:"duration"`
	Tokens   string `json:"tokens"`
	Status   State  `json:"status"`
}

// SkillRecord is one installed skill.
type SkillRecord struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Version     string     `json:"version"`
	Status      SkillState `json:"status"`
}

// WorkflowRecord is one workflow from the workflow catalog.
type WorkflowRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Agents      int    `json:"agents"`
	Runs        int    `json:"runs"`
}

// RunRecord is a workflow execution shown on the dashboard.
type RunRecord struct {
	ID       string `json:"id"`
	Workflow string `json:"workflow"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Started  string `json:"started"`
}

// Heartbeat is the liveness document written on every export.
type Heartbeat struct {
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
}

// LogList wraps the recent log lines.
type LogList struct {
	Logs []string `json:"logs"`
}
