package model

// State represents the liveness of the orchestrator, an agent or a session
type State string

const (
	StateOnline  State = "online"
	StateIdle    State = "idle"
	StateOffline State = "offline"
)

// SkillState represents whether an installed skill is enabled
type SkillState string

const (
	SkillActive SkillState = "active"
)

// HeartbeatOK is the only heartbeat status ever written.
const HeartbeatOK = "ok"

// PlaceholderModel is reported for every agent and session; the CLI output
// carries no model information.
const PlaceholderModel = "k2p5"

// Agent roles recognised in `openclaw agents list` output.
const (
	AgentMain      = "main"
	AgentPlanner   = "planner"
	AgentDeveloper = "developer"
	AgentReviewer  = "reviewer"
)

// KnownAgents lists the agent roles in display order.
var KnownAgents = []string{AgentMain, AgentPlanner, AgentDeveloper, AgentReviewer}

var knownAgentSet = func() map[string]bool {
	m := make(map[string]bool, len(KnownAgents))
	for _, name := range KnownAgents {
		m[name] = true
	}
	return m
}()

// IsKnownAgent reports whether name is exactly one of KnownAgents.
func IsKnownAgent(name string) bool {
	return knownAgentSet[name]
}
