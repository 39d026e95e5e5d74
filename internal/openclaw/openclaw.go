// Package openclaw queries the openclaw CLI and the system journal. Every
// query is bounded by a timeout and reports failure as empty output; callers
// treat empty output as "nothing known" rather than an error.
package openclaw

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

var execCommandContext = exec.CommandContext

const (
	// DefaultBinary is the openclaw executable looked up on PATH.
	DefaultBinary = "openclaw"
	// DefaultLogUnit is the systemd unit whose journal is tailed.
	DefaultLogUnit = "openclaw"
	// DefaultJournalLines is how many journal lines are requested.
	DefaultJournalLines = 10
	// DefaultQueryTimeout bounds status, agents and sessions queries.
	DefaultQueryTimeout = 30 * time.Second
	// DefaultLogTimeout bounds the journal query.
	DefaultLogTimeout = 10 * time.Second

	// waitDelay caps how long a killed command's inherited pipes are
	// drained. Children of the command would otherwise hold stdout open.
	waitDelay = time.Second
)

// Options configures a Client. Zero values select the defaults.
type Options struct {
	Binary       string
	LogUnit      string
	JournalLines int
	QueryTimeout time.Duration
	LogTimeout   time.Duration
	Logger       *slog.Logger
}

// Client runs openclaw and journalctl queries.
type Client struct {
	binary       string
	logUnit      string
	journalLines int
	queryTimeout time.Duration
	logTimeout   time.Duration
	logger       *slog.Logger
}

// New creates a Client from opts.
func New(opts Options) *Client {
	c := &Client{
		binary:       opts.Binary,
		logUnit:      opts.LogUnit,
		journalLines: opts.JournalLines,
		queryTimeout: opts.QueryTimeout,
		logTimeout:   opts.LogTimeout,
		logger:       opts.Logger,
	}
	if c.binary == "" {
		c.binary = DefaultBinary
	}
	if c.logUnit == "" {
		c.logUnit = DefaultLogUnit
	}
	if c.journalLines <= 0 {
		c.journalLines = DefaultJournalLines
	}
	if c.queryTimeout <= 0 {
		c.queryTimeout = DefaultQueryTimeout
	}
	if c.logTimeout <= 0 {
		c.logTimeout = DefaultLogTimeout
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

// Status returns the output of `openclaw status`.
func (c *Client) Status(ctx context.Context) string {
	return c.query(ctx, c.queryTimeout, false, c.binary, "status")
}

// Agents returns the output of `openclaw agents list`.
func (c *Client) Agents(ctx context.Context) string {
	return c.query(ctx, c.queryTimeout, false, c.binary, "agents", "list")
}

// Sessions returns the output of `openclaw sessions list`.
func (c *Client) Sessions(ctx context.Context) string {
	return c.query(ctx, c.queryTimeout, false, c.binary, "sessions", "list")
}

// LogTail returns the most recent journal lines of the openclaw unit. Output
// is only used when journalctl exits successfully.
func (c *Client) LogTail(ctx context.Context) string {
	return c.query(ctx, c.logTimeout, true, "journalctl",
		"-u", c.logUnit,
		"-n", strconv.Itoa(c.journalLines),
		"--no-pager",
	)
}

// query runs name with args under timeout and returns its stdout. A
// non-zero exit still yields stdout unless requireSuccess is set.
func (c *Client) query(ctx context.Context, timeout time.Duration, requireSuccess bool, name string, args ...string) string {
	out, err := run(ctx, timeout, name, args...)
	if err == nil {
		return out
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && !requireSuccess {
		c.logger.Debug("command exited non-zero, keeping output",
			"command", commandLine(name, args), "exit_code", exitErr.ExitCode())
		return out
	}

	c.logger.Warn("command unavailable", "command", commandLine(name, args), "error", err)
	return ""
}

// run executes one command. Timeouts are reported as errors wrapping
// context.DeadlineExceeded.
func run(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := execCommandContext(ctx, name, args...)
	cmd.WaitDelay = waitDelay
	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%s timed out after %v: %w", name, timeout, ctx.Err())
		}
		return string(output), err
	}
	return string(output), nil
}

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
