package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

var execCommandContext = exec.CommandContext

const (
	// DefaultTimeout bounds each git invocation.
	DefaultTimeout = 30 * time.Second
	// DefaultRemote is the remote pushed to.
	DefaultRemote = "origin"
	// DefaultBranch is the branch pushed.
	DefaultBranch = "main"

	// waitDelay caps pipe draining after a timeout kill; ssh under push
	// keeps the output pipe open otherwise.
	waitDelay = time.Second
)

// Repository runs git commands inside one working tree.
type Repository struct {
	dir     string
	timeout time.Duration
}

// NewRepository returns a Repository targeting dir. A non-positive timeout
// selects DefaultTimeout.
func NewRepository(dir string, timeout time.Duration) *Repository {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Repository{dir: dir, timeout: timeout}
}

// Dir returns the repository directory.
func (r *Repository) Dir() string {
	return r.dir
}

// Run executes git with args in the repository and returns combined output.
func (r *Repository) Run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var output bytes.Buffer
	cmd := execCommandContext(ctx, "git", append([]string{"-C", r.dir}, args...)...)
	cmd.Stdout = &output
	cmd.Stderr = &output
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("git %s timed out after %v", strings.Join(args, " "), r.timeout)
		}
		return output.String(), fmt.Errorf("git %s in %s: %w (output: %s)",
			strings.Join(args, " "), r.dir, err, strings.TrimSpace(output.String()))
	}
	return output.String(), nil
}

// FindRepoRoot returns the top-level directory of the git working tree
// containing startDir.
func FindRepoRoot(ctx context.Context, startDir string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	cmd := execCommandContext(ctx, "git", "-C", startDir, "rev-parse", "--show-toplevel")
	cmd.WaitDelay = waitDelay
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}

	return strings.TrimSpace(string(output)), nil
}
