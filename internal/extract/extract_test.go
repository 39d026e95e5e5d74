package extract

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebelpaulo/mission-control-data/internal/model"
)

const ts = "2026-01-02T03:04:05.000000Z"

const statusOutput = `OpenClaw status
Host        iv-7f3k2a9 (linux x64)
Gateway     running · pid 4121
Agents      4 · 1 bootstrapping
Heartbeat   sessions 7 · last 12s ago
`

func TestStatusParsesFields(t *testing.T) {
	got := Default().Status(statusOutput, ts)

	assert.Equal(t, ts, got.Timestamp)
	assert.Equal(t, "iv-7f3k2a9", got.Host)
	assert.Equal(t, 4, got.OpenClaw.Agents)
	assert.Equal(t, 7, got.OpenClaw.Sessions)
	assert.Equal(t, 0, got.OpenClaw.Skills)
	assert.Equal(t, model.StateOnline, got.OpenClaw.Status)
}

func TestStatusSessionCount(t *testing.T) {
	got := Default().Status("sessions 7", ts)
	assert.Equal(t, 7, got.OpenClaw.Sessions)
}

func TestStatusOversizedCountSaturates(t *testing.T) {
	got := Default().Status("sessions 99999999999999999999\nAgents 123456789012345678901 · 1 bootstrapping", ts)
	assert.Equal(t, math.MaxInt, got.OpenClaw.Sessions)
	assert.Equal(t, math.MaxInt, got.OpenClaw.Agents)
}

func TestStatusEmptyTextIsOnlinePlaceholder(t *testing.T) {
	got := Default().Status("", ts)

	assert.Equal(t, "", got.Host)
	assert.Equal(t, model.OpenClawStatus{Status: model.StateOnline}, got.OpenClaw)
}

func TestStatusWithoutLivenessKeywordIsOffline(t *testing.T) {
	got := Default().Status("gateway stopped\nsessions 0", ts)
	assert.Equal(t, model.StateOffline, got.OpenClaw.Status)
}

func TestStatusLivenessIsCaseInsensitive(t *testing.T) {
	got := Default().Status("Gateway RUNNING", ts)
	assert.Equal(t, model.StateOnline, got.OpenClaw.Status)
}

func TestStatusCustomHostPattern(t *testing.T) {
	e, err := New(`node-\d+`)
	require.NoError(t, err)

	got := e.Status("host node-42 active", ts)
	assert.Equal(t, "node-42", got.Host)
}

func TestNewRejectsBadPattern(t *testing.T) {
	_, err := New(`(`)
	assert.Error(t, err)
}

func TestAgents(t *testing.T) {
	text := `NAME       STATE
main       active   k2p5
planner    idle
developer  active  tokens=12k
reviewer   disabled
scheduler  running
Developer  active
`
	got := Agents(text)
	require.Len(t, got, 4)

	assert.Equal(t, model.AgentRecord{Name: "main", Status: model.StateOnline, Model: "k2p5", Sessions: 1, Tokens: "45.2k"}, got[0])
	assert.Equal(t, model.AgentRecord{Name: "planner", Status: model.StateIdle, Model: "k2p5", Sessions: 0, Tokens: "0"}, got[1])
	assert.Equal(t, "developer", got[2].Name)
	assert.Equal(t, model.StateOnline, got[2].Status)
	assert.Equal(t, model.StateOffline, got[3].Status)
}

func TestAgentsDeveloperActive(t *testing.T) {
	got := Agents("developer active since 10:00")
	require.Len(t, got, 1)
	assert.Equal(t, "developer", got[0].Name)
	assert.Equal(t, model.StateOnline, got[0].Status)
}

func TestAgentsSkipsUnknownRole(t *testing.T) {
	assert.Empty(t, Agents("scheduler running"))
}

func TestAgentsRequiresTrailingWhitespace(t *testing.T) {
	assert.Empty(t, Agents("main"))
}

func TestAgentStateOfflineOverridesOnline(t *testing.T) {
	assert.Equal(t, model.StateOffline, AgentState("main active but disabled"))
	assert.Equal(t, model.StateOffline, AgentState("main ONLINE offline"))
	assert.Equal(t, model.StateOnline, AgentState("main Online"))
	assert.Equal(t, model.StateIdle, AgentState("main waiting"))
}

func TestSessions(t *testing.T) {
	text := `KEY              MODEL  AGE
main:main        k2p5   3m
planner:abc123   k2p5   1h
no session here
note: this line has no id
`
	got := Sessions(text)
	require.Len(t, got, 2)

	assert.Equal(t, model.SessionRecord{
		ID:       "main:main",
		Agent:    "main",
		Model:    "k2p5",
		Duration: "active",
		Tokens:   "45.2k",
		Status:   model.StateOnline,
	}, got[0])
	assert.Equal(t, "planner:abc123", got[1].ID)
	assert.Equal(t, "planner", got[1].Agent)
}

func TestSessionsFirstMatchPerLine(t *testing.T) {
	got := Sessions("at 10:30 dev:s1")
	require.Len(t, got, 1)
	assert.Equal(t, "10:30", got[0].ID)
}

func TestLogs(t *testing.T) {
	text := `Mar 04 10:00:01 iv-1 openclaw[12]: one
Mar 04 10:00:02 iv-1 openclaw[12]: two
-- boot marker --
Mar 04 10:00:03 iv-1 openclaw[12]: three
Mar 04 10:00:04 iv-1 openclaw[12]: four: with colon
Mar 04 10:00:05 iv-1 openclaw[12]: five
Mar 04 10:00:06 iv-1 openclaw[12]: six
`
	got := Logs(text, DefaultLogLines)
	assert.Equal(t, []string{
		"-- boot marker --",
		"three",
		"four: with colon",
		"five",
		"six",
	}, got)
}

func TestLogsBlankOutput(t *testing.T) {
	assert.Empty(t, Logs("", DefaultLogLines))
	assert.Empty(t, Logs("  \n\n", DefaultLogLines))
	assert.Empty(t, Logs("line", 0))
}

func TestExtractorsNeverPanicOnOddInput(t *testing.T) {
	inputs := []string{"", "\n\n\n", ":", "::::", "sessions", "sessions x", "· bootstrapping", "\x00\xff"}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			Default().Status(in, ts)
			Agents(in)
			Sessions(in)
			Logs(in, DefaultLogLines)
		}, "%q", in)
	}
}
