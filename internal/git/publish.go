package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// PublishOptions configures a Publisher.
type PublishOptions struct {
	Remote string
	Branch string
	Logger *slog.Logger
}

// Publisher stages, commits and pushes the snapshot repository.
type Publisher struct {
	repo   *Repository
	remote string
	branch string
	logger *slog.Logger
}

// NewPublisher creates a Publisher for repo.
func NewPublisher(repo *Repository, opts PublishOptions) *Publisher {
	p := &Publisher{
		repo:   repo,
		remote: opts.Remote,
		branch: opts.Branch,
		logger: opts.Logger,
	}
	if p.remote == "" {
		p.remote = DefaultRemote
	}
	if p.branch == "" {
		p.branch = DefaultBranch
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p
}

// PublishResult records which publish steps succeeded.
type PublishResult struct {
	Staged    bool
	Committed bool
	Pushed    bool
}

// CommitMessage returns the commit message for a snapshot stamped timestamp.
func CommitMessage(timestamp string) string {
	return "Update: " + timestamp
}

// Publish runs Sync and reports only the joined error.
func (p *Publisher) Publish(ctx context.Context, timestamp string) error {
	_, err := p.Sync(ctx, timestamp)
	return err
}

// Sync runs add, commit and push. Every step is attempted even when an
// earlier one fails; a commit with nothing to commit is expected between
// identical snapshots. The returned error joins all step failures.
func (p *Publisher) Sync(ctx context.Context, timestamp string) (PublishResult, error) {
	var result PublishResult
	var errs []error

	if _, err := p.repo.Run(ctx, "add", "-A"); err != nil {
		errs = append(errs, fmt.Errorf("stage: %w", err))
	} else {
		result.Staged = true
	}

	if _, err := p.repo.Run(ctx, "commit", "-m", CommitMessage(timestamp)); err != nil {
		errs = append(errs, fmt.Errorf("commit: %w", err))
	} else {
		result.Committed = true
	}

	if _, err := p.repo.Run(ctx, "push", p.remote, p.branch); err != nil {
		errs = append(errs, fmt.Errorf("push %s %s: %w", p.remote, p.branch, err))
	} else {
		result.Pushed = true
	}

	err := errors.Join(errs...)
	if err != nil {
		p.logger.Warn("publish incomplete",
			"repo", p.repo.Dir(),
			"staged", result.Staged,
			"committed", result.Committed,
			"pushed", result.Pushed,
			"error", err)
	} else {
		p.logger.Info("snapshot published", "repo", p.repo.Dir(), "remote", p.remote, "branch", p.branch)
	}
	return result, err
}
