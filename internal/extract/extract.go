// Package extract turns the free-text output of the openclaw CLI into
// snapshot records. Every function accepts empty input and never fails:
// a missing match simply leaves the corresponding field at its zero value
// or yields no record.
package extract

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rebelpaulo/mission-control-data/internal/model"
)

// DefaultHostPattern matches the host identifier printed by `openclaw status`.
const DefaultHostPattern = `iv-[a-z0-9]+`

// DefaultLogLines is how many trailing log lines are kept.
const DefaultLogLines = 5

var (
	defaultHostRegex = regexp.MustCompile(DefaultHostPattern)
	agentCountRegex  = regexp.MustCompile(`(\d+)\s*·\s*\d+\s*bootstrapping`)
	sessionsRegex    = regexp.MustCompile(`sessions\s+(\d+)`)
	agentLineRegex   = regexp.MustCompile(`^\s*(\w+)\s+`)
	sessionIDRegex   = regexp.MustCompile(`(\w+):(\w+)`)
)

// Keywords inspected case-insensitively.
var (
	liveKeywords         = []string{"active", "running"}
	agentOnlineKeywords  = []string{"active", "online"}
	agentOfflineKeywords = []string{"offline", "disabled"}
)

// Fixed display values; the CLI output has no token telemetry.
const (
	onlineTokens    = "45.2k"
	idleTokens      = "0"
	sessionDuration = "active"
)

// Extractor holds the patterns used for status extraction.
type Extractor struct {
	hostRegex *regexp.Regexp
}

// New returns an Extractor using hostPattern to find the host identifier.
// An empty pattern selects DefaultHostPattern.
func New(hostPattern string) (*Extractor, error) {
	if hostPattern == "" {
		return &Extractor{hostRegex: defaultHostRegex}, nil
	}
	re, err := regexp.Compile(hostPattern)
	if err != nil {
		return nil, err
	}
	return &Extractor{hostRegex: re}, nil
}

// Default returns an Extractor using DefaultHostPattern.
func Default() *Extractor {
	return &Extractor{hostRegex: defaultHostRegex}
}

// Status parses `openclaw status` output. Empty text yields an empty host,
// zero counts and the placeholder state online.
func (e *Extractor) Status(text, timestamp string) model.SystemStatus {
	status := model.SystemStatus{
		Timestamp: timestamp,
		OpenClaw:  model.OpenClawStatus{Status: model.StateOnline},
	}
	if text == "" {
		return status
	}

	status.Host = e.hostRegex.FindString(text)
	if n, ok := firstInt(agentCountRegex, text); ok {
		status.OpenClaw.Agents = n
	}
	if n, ok := firstInt(sessionsRegex, text); ok {
		status.OpenClaw.Sessions = n
	}

	if containsAny(strings.ToLower(text), liveKeywords) {
		status.OpenClaw.Status = model.StateOnline
	} else {
		status.OpenClaw.Status = model.StateOffline
	}
	return status
}

// Agents parses `openclaw agents list` output. Only lines whose leading
// token is exactly a known agent role produce a record.
func Agents(text string) []model.AgentRecord {
	var agents []model.AgentRecord
	for _, line := range strings.Split(text, "\n") {
		m := agentLineRegex.FindStringSubmatch(line)
		if m == nil || !model.IsKnownAgent(m[1]) {
			continue
		}
		state := AgentState(line)
		record := model.AgentRecord{
			Name:   m[1],
			Status: state,
			Model:  model.PlaceholderModel,
			Tokens: idleTokens,
		}
		if state == model.StateOnline {
			record.Sessions = 1
			record.Tokens = onlineTokens
		}
		agents = append(agents, record)
	}
	return agents
}

// AgentState derives an agent state from one line of agent output. An
// offline keyword overrides an online keyword on the same line.
func AgentState(line string) model.State {
	lower := strings.ToLower(line)
	state := model.StateIdle
	if containsAny(lower, agentOnlineKeywords) {
		state = model.StateOnline
	}
	if containsAny(lower, agentOfflineKeywords) {
		state = model.StateOffline
	}
	return state
}

// Sessions parses `openclaw sessions list` output. Every line containing a
// word:word token yields one session; only the first token per line counts.
func Sessions(text string) []model.SessionRecord {
	var sessions []model.SessionRecord
	for _, line := range strings.Split(text, "\n") {
		m := sessionIDRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		sessions = append(sessions, model.SessionRecord{
			ID:       m[1] + ":" + m[2],
			Agent:    m[1],
			Model:    model.PlaceholderModel,
			Duration: sessionDuration,
			Tokens:   onlineTokens,
			Status:   model.StateOnline,
		})
	}
	return sessions
}

// Logs keeps the last n lines of log output and strips a leading
// "<prefix>: " segment from each. Blank output yields no lines.
func Logs(text string, n int) []string {
	text = strings.TrimSpace(text)
	if text == "" || n <= 0 {
		return nil
	}

	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}

	logs := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, rest, ok := strings.Cut(line, ": "); ok {
			line = rest
		}
		logs = append(logs, line)
	}
	return logs
}

// firstInt returns the first captured digit run. Counts too large for an
// int saturate at math.MaxInt.
func firstInt(re *regexp.Regexp, text string) (int, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if errors.Is(err, strconv.ErrRange) {
		return math.MaxInt, true
	}
	if err != nil {
		return 0, false
	}
	return n, true
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
