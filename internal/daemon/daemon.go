package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"log/slog"

	"github.com/gofrs/flock"

	"docsort/internal/config"
	"docsort/internal/dateresolve"
	"docsort/internal/journal"
	"docsort/internal/logging"
	"docsort/internal/pipeline"
	"docsort/internal/watcher"
)

// Daemon coordinates the watcher and pipeline and enforces single-instance
// execution via a lock file.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *journal.Store
	watcher *watcher.Watcher

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	WatchRoot    string
	JournalPath  string
	LockFilePath string
	PID          int
	Journal      journal.Summary
}

// New constructs a daemon with initialized dependencies. msgReader may be
// nil; the resolver then treats .msg files with the creation-time fallback.
func New(cfg *config.Config, store *journal.Store, msgReader dateresolve.MessageDateReader, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || logger == nil {
		return nil, errors.New("daemon requires config, journal store, and logger")
	}

	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		lockPath: filepath.Join(cfg.Paths.LogDir, "docsortd.lock"),
	}
	d.lock = flock.New(d.lockPath)

	p := pipeline.New(cfg, store, msgReader, logger)
	w, err := watcher.New(cfg.Paths.WatchDir, p.Handle, logger)
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	d.watcher = w
	return d, nil
}

// Start acquires the daemon lock and launches the watch subscription. Setup
// failures (missing root, watch subscription) are fatal to startup.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another docsort daemon instance is already running")
	}

	if err := d.watcher.Start(ctx); err != nil {
		_ = d.lock.Unlock()
		return err
	}

	d.running.Store(true)
	d.logger.Info("docsort daemon started",
		logging.String("watch_root", d.cfg.Paths.WatchDir),
		logging.String("lock", d.lockPath),
	)
	return nil
}

// Stop halts the watch subscription, lets any in-flight pipeline run finish,
// and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	d.watcher.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("docsort daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status returns daemon runtime information including journal counts.
func (d *Daemon) Status(ctx context.Context) (Status, error) {
	summary, err := d.store.Summarize(ctx)
	if err != nil {
		return Status{}, err
	}
	return Status{
		Running:      d.running.Load(),
		WatchRoot:    d.cfg.Paths.WatchDir,
		JournalPath:  d.store.Path(),
		LockFilePath: d.lockPath,
		PID:          os.Getpid(),
		Journal:      summary,
	}, nil
}

// History returns the most recent journal records.
func (d *Daemon) History(ctx context.Context, limit int) ([]journal.Record, error) {
	return d.store.Recent(ctx, limit)
}
