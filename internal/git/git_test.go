package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runGitCmd(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, strings.TrimSpace(string(out)))
	return strings.TrimSpace(string(out))
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

// initRepo creates a working tree with a bare origin so pushes succeed.
func initRepo(t *testing.T) (work, origin string) {
	t.Helper()
	requireGit(t)

	origin = t.TempDir()
	runGitCmd(t, origin, "init", "--bare")

	work = t.TempDir()
	runGitCmd(t, work, "init")
	runGitCmd(t, work, "config", "user.email", "test@example.com")
	runGitCmd(t, work, "config", "user.name", "Test")
	require.NoError(t, os.WriteFile(filepath.Join(work, "README.md"), []byte("test"), 0644))
	runGitCmd(t, work, "add", "README.md")
	runGitCmd(t, work, "commit", "-m", "init")
	runGitCmd(t, work, "branch", "-M", "main")
	runGitCmd(t, work, "remote", "add", "origin", origin)
	return work, origin
}

func TestFindRepoRoot(t *testing.T) {
	repo, _ := initRepo(t)
	sub := filepath.Join(repo, "data")
	require.NoError(t, os.MkdirAll(sub, 0755))

	root, err := FindRepoRoot(context.Background(), sub)
	require.NoError(t, err)

	rootEval, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	repoEval, err := filepath.EvalSymlinks(repo)
	require.NoError(t, err)
	assert.Equal(t, repoEval, rootEval)
}

func TestFindRepoRootOutsideRepo(t *testing.T) {
	requireGit(t)
	_, err := FindRepoRoot(context.Background(), t.TempDir())
	assert.Error(t, err)
}

func TestRunReportsOutputOnFailure(t *testing.T) {
	repo, _ := initRepo(t)
	r := NewRepository(repo, time.Minute)

	_, err := r.Run(context.Background(), "rev-parse", "--verify", "no-such-ref")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git rev-parse --verify no-such-ref")
}

func TestRunTimeoutKillsForkedChildren(t *testing.T) {
	script := filepath.Join(t.TempDir(), "git")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nsleep 6\necho late\n"), 0755))
	orig := execCommandContext
	execCommandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, script, args...)
	}
	t.Cleanup(func() { execCommandContext = orig })

	r := NewRepository(t.TempDir(), 200*time.Millisecond)
	start := time.Now()
	_, err := r.Run(context.Background(), "push", "origin", "main")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestPublishCommitsAndPushes(t *testing.T) {
	repo, origin := initRepo(t)
	require.NoError(t, os.MkdirAll(filepath.Join(repo, "data"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(repo, "data", "status.json"), []byte(`{"status": "ok"}`), 0644))

	p := NewPublisher(NewRepository(repo, 0), PublishOptions{})
	result, err := p.Sync(context.Background(), "2026-10-16T10:00:00.000000Z")
	require.NoError(t, err)
	assert.Equal(t, PublishResult{Staged: true, Committed: true, Pushed: true}, result)

	assert.Equal(t, "Update: 2026-10-16T10:00:00.000000Z", runGitCmd(t, repo, "log", "-1", "--format=%s"))
	assert.Equal(t, runGitCmd(t, repo, "rev-parse", "HEAD"), runGitCmd(t, origin, "rev-parse", "main"))
}

func TestPublishWithNothingToCommitStillPushes(t *testing.T) {
	repo, _ := initRepo(t)

	p := NewPublisher(NewRepository(repo, 0), PublishOptions{Remote: "origin", Branch: "main"})
	result, err := p.Sync(context.Background(), "ts")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit")
	assert.True(t, result.Staged)
	assert.False(t, result.Committed)
	assert.True(t, result.Pushed)
}

func TestPublishWithoutRemoteReportsPushFailure(t *testing.T) {
	repo, _ := initRepo(t)
	runGitCmd(t, repo, "remote", "remove", "origin")
	require.NoError(t, os.WriteFile(filepath.Join(repo, "new.json"), []byte("{}"), 0644))

	p := NewPublisher(NewRepository(repo, 0), PublishOptions{})
	result, err := p.Sync(context.Background(), "ts")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "push origin main")
	assert.True(t, result.Committed)
	assert.False(t, result.Pushed)
}

func TestPublishOutsideRepoFailsEveryStep(t *testing.T) {
	requireGit(t)
	p := NewPublisher(NewRepository(t.TempDir(), 0), PublishOptions{})

	result, err := p.Sync(context.Background(), "ts")
	require.Error(t, err)
	assert.Equal(t, PublishResult{}, result)
}

func TestCommitMessage(t *testing.T) {
	assert.Equal(t, "Update: 2026-01-01T00:00:00.000000Z", CommitMessage("2026-01-01T00:00:00.000000Z"))
}

func TestPublishReturnsJoinedError(t *testing.T) {
	requireGit(t)
	p := NewPublisher(NewRepository(t.TempDir(), 0), PublishOptions{})
	err := p.Publish(context.Background(), "ts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stage")
	assert.Contains(t, err.Error(), "push")
}
