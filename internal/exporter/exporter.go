// Package exporter runs one snapshot export: query openclaw, read the
// workspace, assemble the snapshot, write it and publish it.
package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rebelpaulo/mission-control-data/internal/catalog"
	"github.com/rebelpaulo/mission-control-data/internal/extract"
	"github.com/rebelpaulo/mission-control-data/internal/model"
	"github.com/rebelpaulo/mission-control-data/internal/snapshot"
	"github.com/rebelpaulo/mission-control-data/internal/store"
)

// Source provides raw command output. Empty strings mean the command
// failed or printed nothing.
type Source interface {
	Status(ctx context.Context) string
	Agents(ctx context.Context) string
	Sessions(ctx context.Context) string
	LogTail(ctx context.Context) string
}

// Publisher pushes the written snapshot somewhere. Failures are reported
// but never fail the export.
type Publisher interface {
	Publish(ctx context.Context, timestamp string) error
}

// Config configures an Exporter.
type Config struct {
	SkillsDir    string
	WorkflowsDir string
	LogLines     int
	Extractor    *extract.Extractor
	Logger       *slog.Logger
}

// Exporter runs exports.
type Exporter struct {
	source    Source
	store     store.Store
	publisher Publisher
	cfg       Config
	logger    *slog.Logger
}

// New creates an Exporter. publisher may be nil to skip publishing.
func New(source Source, st store.Store, publisher Publisher, cfg Config) *Exporter {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Exporter{
		source:    source,
		store:     st,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

// Result describes one export.
type Result struct {
	Snapshot *snapshot.Snapshot
	// PublishErr is set when publishing was attempted and failed.
	PublishErr error
	Published  bool
}

// Gather collects the export inputs. Queries run one after another.
func (e *Exporter) Gather(ctx context.Context) snapshot.Inputs {
	in := snapshot.Inputs{
		StatusText:   e.source.Status(ctx),
		AgentsText:   e.source.Agents(ctx),
		SessionsText: e.source.Sessions(ctx),
		Skills:       catalog.Skills(e.cfg.SkillsDir),
		Workflows:    catalog.Workflows(e.cfg.WorkflowsDir),
		LogText:      e.source.LogTail(ctx),
	}

	e.logger.Debug("inputs gathered",
		"status_bytes", len(in.StatusText),
		"agents_bytes", len(in.AgentsText),
		"sessions_bytes", len(in.SessionsText),
		"log_bytes", len(in.LogText),
		"skills", len(in.Skills),
		"workflows", len(in.Workflows))
	return in
}

// Run performs one export stamped with generatedAt. Only a failure to write
// the snapshot is returned as an error.
func (e *Exporter) Run(ctx context.Context, generatedAt time.Time) (*Result, error) {
	in := e.Gather(ctx)
	snap := snapshot.Assemble(in, generatedAt, snapshot.Options{
		Extractor: e.cfg.Extractor,
		LogLines:  e.cfg.LogLines,
	})
	for _, doc := range snap.Defaulted {
		e.logger.Debug("nothing extracted, using defaults", "document", doc)
	}

	if err := e.store.Save(snap); err != nil {
		return nil, fmt.Errorf("write snapshot: %w", err)
	}
	e.logger.Info("snapshot written",
		"dir", e.store.DataDir(),
		"timestamp", snap.Heartbeat.Timestamp,
		"agents", len(snap.Agents),
		"sessions", len(snap.Sessions),
		"skills", len(snap.Skills),
		"workflows", len(snap.Workflows))

	result := &Result{Snapshot: snap}
	if e.publisher == nil {
		return result, nil
	}
	if err := e.publisher.Publish(ctx, model.FormatTimestamp(generatedAt)); err != nil {
		e.logger.Warn("publish failed", "error", err)
		result.PublishErr = err
		return result, nil
	}
	result.Published = true
	return result, nil
}
