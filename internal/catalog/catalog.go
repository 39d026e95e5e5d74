// Package catalog enumerates installed skills and the workflow catalog
// from the openclaw workspace.
package catalog

import (
	"os"
	"path/filepath"

	"github.com/rebelpaulo/mission-control-data/internal/model"
)

// UnknownSkillDescription is reported for skills missing from the curated table.
const UnknownSkillDescription = "Unknown skill"

// DefaultSkillVersion is reported when the curated table has no version.
const DefaultSkillVersion = "1.0.0"

// SkillInfo is the curated metadata for one skill.
type SkillInfo struct {
	Description string
	Version     string
}

var skillTable = map[string]SkillInfo{
	"github":         {"GitHub integration", "1.0.0"},
	"playwright-mcp": {"Browser automation", "1.0.0"},
	"prompt-guard":   {"Prompt injection defense", "3.1.0"},
	"find-skills":    {"Skill discovery", "1.0.0"},
	"dont-hack-me":   {"Security audit", "1.0.0"},
	"antfarm":        {"Multi-agent workflows", "1.0.0"},
	"gog":            {"Google Workspace", "1.0.0"},
	"openai-whisper": {"Audio transcription", "1.0.0"},
	"apify":          {"Web scraping platform", "1.0.0"},
	"channels-setup": {"Channel configuration", "1.0.0"},
	"healthcheck":    {"Security hardening", "1.0.0"},
	"skill-creator":  {"Skill development", "1.0.0"},
	"tmux":           {"Tmux control", "1.0.0"},
	"video-frames":   {"Video processing", "1.0.0"},
	"weather":        {"Weather data", "1.0.0"},
}

// LookupSkill returns the curated metadata for name, or the generic
// description and DefaultSkillVersion when name is not curated.
func LookupSkill(name string) SkillInfo {
	if info, ok := skillTable[name]; ok {
		return info
	}
	return SkillInfo{Description: UnknownSkillDescription, Version: DefaultSkillVersion}
}

// Skills returns one active record per subdirectory of dir, sorted by name.
// A missing or unreadable directory yields no records.
func Skills(dir string) []model.SkillRecord {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var skills []model.SkillRecord
	for _, entry := range entries {
		if !isDir(dir, entry) {
			continue
		}
		info := LookupSkill(entry.Name())
		skills = append(skills, model.SkillRecord{
			Name:        entry.Name(),
			Description: info.Description,
			Version:     info.Version,
			Status:      model.SkillActive,
		})
	}
	return skills
}

// isDir follows symlinks so linked skill checkouts are counted.
func isDir(dir string, entry os.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.IsDir()
}

// workflowCatalog is published whenever the workflow root exists.
var workflowCatalog = []model.WorkflowRecord{
	{ID: "feature-dev", Name: "Feature Development", Description: "Complete feature dev workflow", Agents: 7, Runs: 12},
	{ID: "bug-fix", Name: "Bug Fix", Description: "Bug triage and fix workflow", Agents: 6, Runs: 8},
	{ID: "security-audit", Name: "Security Audit", Description: "Security scanning workflow", Agents: 7, Runs: 3},
}

// Workflows returns the workflow catalog if dir exists, otherwise an empty
// list. The directory contents are not inspected.
func Workflows(dir string) []model.WorkflowRecord {
	workflows := []model.WorkflowRecord{}
	if dir == "" {
		return workflows
	}
	if _, err := os.Stat(dir); err != nil {
		return workflows
	}
	return append(workflows, workflowCatalog...)
}
