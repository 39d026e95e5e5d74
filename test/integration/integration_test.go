package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"testing"
	"time"
)

var (
	bridgeBinary string
	fakeOpenClaw string
)

const fakeOpenClawScript = `#!/bin/sh
case "$1" in
status)
  echo "Gateway running on iv-int42"
  echo "Agents 3 · 1 bootstrapping"
  echo "sessions 2"
  ;;
agents)
  echo "main       online   k2p5"
  echo "developer  active   k2p5"
  echo "reviewer   disabled"
  echo "scheduler  running"
  ;;
sessions)
  echo "main:main        12m"
  echo "developer:task7  3m"
  ;;
*)
  exit 2
  ;;
esac
`

func TestMain(m *testing.M) {
	tmpDir, err := os.MkdirTemp("", "mcbridge-integration-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	bridgeBinary = filepath.Join(tmpDir, "mcbridge")
	cmd := exec.Command("go", "build", "-o", bridgeBinary, "../../cmd/mcbridge")
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("failed to build mcbridge: " + err.Error() + "\n" + string(out))
	}

	fakeOpenClaw = filepath.Join(tmpDir, "openclaw")
	if err := os.WriteFile(fakeOpenClaw, []byte(fakeOpenClawScript), 0755); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

type workspace struct {
	home    string
	repo    string
	origin  string
	dataDir string
	skills  string
}

func runGitCmd(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v error: %v (%s)", args, err, strings.TrimSpace(string(out)))
	}
	return strings.TrimSpace(string(out))
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	root := t.TempDir()
	ws := &workspace{
		home:   filepath.Join(root, "home"),
		repo:   filepath.Join(root, "bridge"),
		origin: filepath.Join(root, "origin.git"),
		skills: filepath.Join(root, "skills"),
	}
	ws.dataDir = filepath.Join(ws.repo, "data")

	for _, dir := range []string{ws.home, ws.repo, ws.origin, ws.skills} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	for _, skill := range []string{"github", "weather"} {
		if err := os.Mkdir(filepath.Join(ws.skills, skill), 0755); err != nil {
			t.Fatal(err)
		}
	}

	runGitCmd(t, ws.origin, "init", "--bare")
	runGitCmd(t, ws.repo, "init")
	runGitCmd(t, ws.repo, "config", "user.email", "test@test.com")
	runGitCmd(t, ws.repo, "config", "user.name", "Test")
	if err := os.WriteFile(filepath.Join(ws.repo, "README.md"), []byte("# Bridge"), 0644); err != nil {
		t.Fatal(err)
	}
	runGitCmd(t, ws.repo, "add", ".")
	runGitCmd(t, ws.repo, "commit", "-m", "initial")
	runGitCmd(t, ws.repo, "branch", "-M", "main")
	runGitCmd(t, ws.repo, "remote", "add", "origin", ws.origin)
	return ws
}

func (ws *workspace) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	fullArgs := append([]string{"--data-dir", ws.dataDir}, args...)
	cmd := exec.Command(bridgeBinary, fullArgs...)
	cmd.Dir = ws.home
	cmd.Env = append(os.Environ(),
		"HOME="+ws.home,
		"MCBRIDGE_OPENCLAW_BIN="+fakeOpenClaw,
		"MCBRIDGE_SKILLS_DIR="+ws.skills,
		"MCBRIDGE_WORKFLOWS_DIR="+filepath.Join(ws.home, "no-antfarm"),
		"MCBRIDGE_LOG_UNIT=mcbridge-integration-missing",
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		t.Logf("stderr: %s", stderr.String())
	}
	return stdout.String(), err
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
}

func TestExportWritesAndPublishes(t *testing.T) {
	ws := newWorkspace(t)

	out, err := ws.run(t, "--json", "export")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var summary struct {
		OK        bool   `json:"ok"`
		Timestamp string `json:"timestamp"`
		Host      string `json:"host"`
		Agents    int    `json:"agents"`
		Sessions  int    `json:"sessions"`
		Skills    int    `json:"skills"`
		Workflows int    `json:"workflows"`
		Published bool   `json:"published"`
	}
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode summary: %v (%s)", err, out)
	}
	if !summary.OK || !summary.Published {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Host != "iv-int42" || summary.Agents != 3 || summary.Sessions != 2 || summary.Skills != 2 || summary.Workflows != 0 {
		t.Fatalf("unexpected counts: %+v", summary)
	}

	var agents []struct {
		Name   string `json:"name"`
		Status string `json:"status"`
	}
	readJSON(t, filepath.Join(ws.dataDir, "agents.json"), &agents)
	want := map[string]string{"main": "online", "developer": "online", "reviewer": "offline"}
	if len(agents) != len(want) {
		t.Fatalf("agents = %+v", agents)
	}
	for _, a := range agents {
		if want[a.Name] != a.Status {
			t.Fatalf("agent %s status = %s, want %s", a.Name, a.Status, want[a.Name])
		}
	}

	var system struct {
		OpenClaw struct {
			Agents   int `json:"agents"`
			Sessions int `json:"sessions"`
			Skills   int `json:"skills"`
		} `json:"openclaw"`
	}
	readJSON(t, filepath.Join(ws.dataDir, "system.json"), &system)
	if system.OpenClaw.Agents != 3 || system.OpenClaw.Sessions != 2 || system.OpenClaw.Skills != 2 {
		t.Fatalf("system = %+v", system)
	}

	if got := runGitCmd(t, ws.repo, "log", "-1", "--format=%s"); got != "Update: "+summary.Timestamp {
		t.Fatalf("commit message = %q", got)
	}
	if runGitCmd(t, ws.repo, "rev-parse", "HEAD") != runGitCmd(t, ws.origin, "rev-parse", "main") {
		t.Fatal("origin main does not match local HEAD")
	}
}

func TestExportFallsBackWithoutOpenClaw(t *testing.T) {
	ws := newWorkspace(t)
	if err := os.RemoveAll(ws.skills); err != nil {
		t.Fatal(err)
	}

	cmd := exec.Command(bridgeBinary, "--data-dir", ws.dataDir, "--quiet", "export", "--no-publish")
	cmd.Dir = ws.home
	cmd.Env = append(os.Environ(),
		"HOME="+ws.home,
		"MCBRIDGE_OPENCLAW_BIN="+filepath.Join(ws.home, "missing-openclaw"),
		"MCBRIDGE_SKILLS_DIR="+ws.skills,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("export failed: %v (%s)", err, out)
	}

	var agents, sessions, skills []json.RawMessage
	readJSON(t, filepath.Join(ws.dataDir, "agents.json"), &agents)
	readJSON(t, filepath.Join(ws.dataDir, "sessions.json"), &sessions)
	readJSON(t, filepath.Join(ws.dataDir, "skills.json"), &skills)
	if len(agents) != 4 || len(sessions) != 1 || len(skills) != 6 {
		t.Fatalf("fallback counts = %d/%d/%d, want 4/1/6", len(agents), len(sessions), len(skills))
	}

	var system struct {
		OpenClaw struct {
			Status string `json:"status"`
			Skills int    `json:"skills"`
		} `json:"openclaw"`
	}
	readJSON(t, filepath.Join(ws.dataDir, "system.json"), &system)
	if system.OpenClaw.Status != "online" || system.OpenClaw.Skills != 6 {
		t.Fatalf("system = %+v", system)
	}

	if got := runGitCmd(t, ws.repo, "log", "-1", "--format=%s"); got != "initial" {
		t.Fatalf("--no-publish committed: %q", got)
	}
}

func TestWatchPublishesOnlySnapshotDocuments(t *testing.T) {
	ws := newWorkspace(t)

	cmd := exec.Command(bridgeBinary, "--data-dir", ws.dataDir, "--quiet", "watch", "--interval", "1h")
	cmd.Dir = ws.home
	cmd.Env = append(os.Environ(),
		"HOME="+ws.home,
		"XDG_CACHE_HOME="+filepath.Join(ws.home, ".cache"),
		"MCBRIDGE_OPENCLAW_BIN="+fakeOpenClaw,
		"MCBRIDGE_SKILLS_DIR="+ws.skills,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("start watch: %v", err)
	}

	pushed := false
	for deadline := time.Now().Add(20 * time.Second); time.Now().Before(deadline); {
		if err := exec.Command("git", "-C", ws.origin, "rev-parse", "--verify", "main").Run(); err == nil {
			pushed = true
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	_ = cmd.Process.Signal(syscall.SIGTERM)
	waitErr := make(chan error, 1)
	go func() { waitErr <- cmd.Wait() }()
	select {
	case err := <-waitErr:
		if err != nil {
			t.Fatalf("watch exited with %v (%s)", err, stderr.String())
		}
	case <-time.After(10 * time.Second):
		_ = cmd.Process.Kill()
		t.Fatal("watch did not stop on SIGTERM")
	}
	if !pushed {
		t.Fatalf("watch never pushed (%s)", stderr.String())
	}

	files := strings.Split(runGitCmd(t, ws.origin, "ls-tree", "-r", "--name-only", "main"), "\n")
	sort.Strings(files)
	want := []string{
		"README.md",
		"data/agents.json",
		"data/logs.json",
		"data/runs.json",
		"data/sessions.json",
		"data/skills.json",
		"data/status.json",
		"data/system.json",
		"data/workflows.json",
	}
	if strings.Join(files, ",") != strings.Join(want, ",") {
		t.Fatalf("pushed tree = %v, want %v", files, want)
	}
}

func TestShowAfterExport(t *testing.T) {
	ws := newWorkspace(t)
	if _, err := ws.run(t, "export", "--no-publish"); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	out, err := ws.run(t, "--json", "show", "skills")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	var got struct {
		OK     bool `json:"ok"`
		Skills []struct {
			Name string `json:"name"`
		} `json:"skills"`
		Agents []json.RawMessage `json:"agents"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v (%s)", err, out)
	}
	if !got.OK || len(got.Skills) != 2 || got.Skills[0].Name != "github" || got.Agents != nil {
		t.Fatalf("unexpected show output: %+v", got)
	}

	out, err = ws.run(t, "show")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	for _, want := range []string{"AGENTS", "developer", "SKILLS", "weather", "LOGS"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}
}

func TestShowWithoutSnapshot(t *testing.T) {
	ws := newWorkspace(t)
	if _, err := ws.run(t, "show"); err == nil {
		t.Fatal("expected show to fail without a snapshot")
	}
}

func TestConfigPrintsEffectiveSettings(t *testing.T) {
	ws := newWorkspace(t)
	out, err := ws.run(t, "config")
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	for _, want := range []string{"data_dir: " + ws.dataDir, "repo_dir: " + ws.repo, "interval: 5m0s"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}
}
