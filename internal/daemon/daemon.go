// Package daemon runs exports repeatedly: on a fixed interval and whenever
// the skills directory changes.
package daemon

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rebelpaulo/mission-control-data/internal/exporter"
)

const (
	DefaultInterval = 5 * time.Minute
	DefaultDebounce = 2 * time.Second
)

// Runner performs one export.
type Runner interface {
	Run(ctx context.Context, generatedAt time.Time) (*exporter.Result, error)
}

// Options configures a Daemon. Zero values select the defaults.
type Options struct {
	Interval time.Duration
	Debounce time.Duration
	// WatchDir triggers an export when its entries change. Empty disables
	// change triggers.
	WatchDir string
	Logger   *slog.Logger
	// OnExport is called after every export with its outcome.
	OnExport func(*exporter.Result, error)
	// Now stamps each export. Defaults to time.Now.
	Now func() time.Time
}

// Daemon runs exports until stopped. Exports never overlap.
type Daemon struct {
	stateDir string
	runner   Runner
	interval time.Duration
	debounce time.Duration
	watchDir string
	logger   *slog.Logger
	onExport func(*exporter.Result, error)
	now      func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
}

// New creates a Daemon whose PID file lives in stateDir.
func New(stateDir string, runner Runner, opts Options) *Daemon {
	d := &Daemon{
		stateDir: stateDir,
		runner:   runner,
		interval: opts.Interval,
		debounce: opts.Debounce,
		watchDir: opts.WatchDir,
		logger:   opts.Logger,
		onExport: opts.OnExport,
		now:      opts.Now,
		stopCh:   make(chan struct{}),
	}
	if d.interval <= 0 {
		d.interval = DefaultInterval
	}
	if d.debounce <= 0 {
		d.debounce = DefaultDebounce
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if d.now == nil {
		d.now = time.Now
	}
	return d
}

// Run exports immediately, then on every tick and after skills changes,
// until ctx is done, Stop is called or SIGINT/SIGTERM arrives.
func (d *Daemon) Run(ctx context.Context) error {
	if err := AcquirePID(d.stateDir); err != nil {
		return err
	}
	defer RemovePID(d.stateDir)

	events, errs, closeWatcher := d.watch()
	defer closeWatcher()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info("watch started",
		"pid", os.Getpid(),
		"state_dir", d.stateDir,
		"interval", d.interval,
		"watch_dir", d.watchDir)

	d.export(ctx)

	var pending <-chan time.Time
	for {
		select {
		case <-ticker.C:
			d.export(ctx)
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				d.logger.Debug("skills changed", "path", ev.Name, "op", ev.Op.String())
				pending = time.After(d.debounce)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			d.logger.Warn("skills watch error", "error", err)
		case <-pending:
			pending = nil
			d.export(ctx)
		case sig := <-sigCh:
			d.logger.Info("received signal, shutting down", "signal", sig.String())
			return nil
		case <-d.stopCh:
			d.logger.Info("watch stopped")
			return nil
		case <-ctx.Done():
			d.logger.Info("watch stopped", "reason", ctx.Err())
			return nil
		}
	}
}

// Stop signals the daemon to stop. It is safe to call more than once.
func (d *Daemon) Stop() {
	d.stopOnce.Do(func() { close(d.stopCh) })
}

func (d *Daemon) export(ctx context.Context) {
	result, err := d.runner.Run(ctx, d.now())
	if err != nil {
		d.logger.Error("export failed", "error", err)
	}
	if d.onExport != nil {
		d.onExport(result, err)
	}
}

// watch starts an fsnotify watcher on watchDir. When the directory is
// missing or cannot be watched, nil channels are returned and only the
// interval triggers exports.
func (d *Daemon) watch() (<-chan fsnotify.Event, <-chan error, func()) {
	noop := func() {}
	if d.watchDir == "" {
		return nil, nil, noop
	}
	if info, err := os.Stat(d.watchDir); err != nil || !info.IsDir() {
		d.logger.Debug("skills directory not watchable", "dir", d.watchDir)
		return nil, nil, noop
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		d.logger.Warn("file watcher unavailable", "error", err)
		return nil, nil, noop
	}
	if err := watcher.Add(d.watchDir); err != nil {
		d.logger.Warn("watch skills directory", "dir", d.watchDir, "error", fmt.Errorf("add watch: %w", err))
		watcher.Close()
		return nil, nil, noop
	}
	return watcher.Events, watcher.Errors, func() { watcher.Close() }
}
