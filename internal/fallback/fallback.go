// Package fallback holds the records substituted when a collection comes
// back empty, so the dashboard never renders an empty agents, sessions,
// skills or logs panel. Each collection is checked on its own; records are
// never patched individually.
package fallback

import (
	"github.com/rebelpaulo/mission-control-data/internal/model"
)

// DefaultAgents returns the agent fixture.
func DefaultAgents() []model.AgentRecord {
	return []model.AgentRecord{
		{Name: model.AgentMain, Status: model.StateOnline, Model: model.PlaceholderModel, Sessions: 1, Tokens: "45.2k"},
		{Name: model.AgentPlanner, Status: model.StateOnline, Model: model.PlaceholderModel, Sessions: 0, Tokens: "12.8k"},
		{Name: model.AgentDeveloper, Status: model.StateIdle, Model: model.PlaceholderModel, Sessions: 0, Tokens: "8.4k"},
		{Name: model.AgentReviewer, Status: model.StateOffline, Model: model.PlaceholderModel, Sessions: 0, Tokens: "0"},
	}
}

// DefaultSessions returns the session fixture.
func DefaultSessions() []model.SessionRecord {
	return []model.SessionRecord{
		{
			ID:       "main:main",
			Agent:    model.AgentMain,
			Model:    model.PlaceholderModel,
			Duration: "active",
			Tokens:   "45.2k",
			Status:   model.StateOnline,
		},
	}
}

// DefaultSkills returns the skill fixture.
func DefaultSkills() []model.SkillRecord {
	return []model.SkillRecord{
		{Name: "github", Description: "GitHub integration", Version: "1.0.0", Status: model.SkillActive},
		{Name: "playwright-mcp", Description: "Browser automation", Version: "1.0.0", Status: model.SkillActive},
		{Name: "prompt-guard", Description: "Security protection", Version: "3.1.0", Status: model.SkillActive},
		{Name: "antfarm", Description: "Multi-agent workflows", Version: "1.0.0", Status: model.SkillActive},
		{Name: "gog", Description: "Google Workspace", Version: "1.0.0", Status: model.SkillActive},
		{Name: "openai-whisper", Description: "Audio transcription", Version: "1.0.0", Status: model.SkillActive},
	}
}

// DefaultLogs returns the log fixture stamped with timestamp.
func DefaultLogs(timestamp string) []string {
	return []string{
		"System online",
		"Dashboard connected",
		"Bridge active",
		"Last update: " + timestamp,
	}
}

// Agents returns extracted, or DefaultAgents when it is empty.
func Agents(extracted []model.AgentRecord) []model.AgentRecord {
	if len(extracted) == 0 {
		return DefaultAgents()
	}
	return extracted
}

// Sessions returns extracted, or DefaultSessions when it is empty.
func Sessions(extracted []model.SessionRecord) []model.SessionRecord {
	if len(extracted) == 0 {
		return DefaultSessions()
	}
	return extracted
}

// Skills returns discovered, or DefaultSkills when it is empty.
func Skills(discovered []model.SkillRecord) []model.SkillRecord {
	if len(discovered) == 0 {
		return DefaultSkills()
	}
	return discovered
}

// Logs returns lines, or DefaultLogs(timestamp) when it is empty.
func Logs(lines []string, timestamp string) []string {
	if len(lines) == 0 {
		return DefaultLogs(timestamp)
	}
	return lines
}
