package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"docsort/internal/config"
	"docsort/internal/dateresolve"
	"docsort/internal/journal"
	"docsort/internal/logging"
	"docsort/internal/mover"
	"docsort/internal/services"
	"docsort/internal/stability"
	"docsort/internal/watcher"
)

// Pipeline runs the stability gate, date resolution, and move for one
// creation event at a time.
type Pipeline struct {
	cfg      *config.Config
	gate     *stability.Gate
	resolver *dateresolve.Resolver
	mover    *mover.Mover
	journal  *journal.Store
	logger   *slog.Logger
}

// New constructs the pipeline with components derived from the config.
// msgReader may be nil; .msg files then use the creation-time fallback.
func New(cfg *config.Config, store *journal.Store, msgReader dateresolve.MessageDateReader, logger *slog.Logger) *Pipeline {
	gate := stability.New(
		time.Duration(cfg.Sorting.StabilityTimeoutSeconds)*time.Second,
		time.Duration(cfg.Sorting.StabilityPollSeconds)*time.Second,
		logger,
	)
	fileMover := mover.New(
		cfg.Sorting.MoveAttempts,
		time.Duration(cfg.Sorting.MoveRetryDelaySeconds)*time.Second,
		logger,
	)
	return NewWithDependencies(cfg, store, gate, dateresolve.New(msgReader, logger), fileMover, logger)
}

// NewWithDependencies allows injecting collaborators (used in tests).
func NewWithDependencies(cfg *config.Config, store *journal.Store, gate *stability.Gate, resolver *dateresolve.Resolver, fileMover *mover.Mover, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		gate:     gate,
		resolver: resolver,
		mover:    fileMover,
		journal:  store,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Handle processes one creation event to completion. It never panics past
// its boundary and never returns an error: a single bad event must not take
// down the watch subscription.
func (p *Pipeline) Handle(ctx context.Context, event watcher.Event) {
	ctx = services.WithEventID(ctx, event.ID)
	ctx = services.WithSourcePath(ctx, event.Path)
	logger := logging.WithContext(ctx, p.logger)

	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error("unexpected failure while handling event; event dropped",
				logging.Any("panic", recovered),
				logging.String(logging.FieldEventType, "event_handler_panic"),
				logging.String(logging.FieldErrorHint, "report this with the log line above"),
				logging.String(logging.FieldImpact, "the file stays in place; the watcher keeps running"),
			)
		}
	}()

	// The file may have vanished or turned out to be a directory between
	// notification and handling.
	info, err := os.Stat(event.Path)
	if err != nil || info.IsDir() {
		return
	}

	logger.Info("processing new file", logging.String("name", event.Name))

	if !p.gate.Wait(ctx, event.Path) {
		logger.Info("file did not stabilize in time; proceeding best-effort",
			logging.String(logging.FieldEventType, "stability_timeout"),
		)
	}

	resolution := p.resolver.Resolve(ctx, event.Path)
	logger.Info("effective date resolved",
		logging.Time("date", resolution.Date),
		logging.String("date_source", string(resolution.Source)),
	)

	// Moving a file into a watched month directory raises a creation event of
	// its own. Such an event resolves to the path it already has; there is
	// nothing to move and nothing to record.
	destination := filepath.Join(p.cfg.Paths.WatchDir, mover.MonthDir(resolution.Date), mover.TargetFileName(resolution.Date, event.Name))
	if destination == filepath.Clean(event.Path) {
		logger.Debug("file already at its destination", logging.String("path", event.Path))
		return
	}

	finalPath, moveErr := p.mover.Place(ctx, event.Path, p.cfg.Paths.WatchDir, resolution.Date)
	if moveErr != nil {
		logger.Error("unable to place file; left at original location",
			logging.Error(moveErr),
			logging.String(logging.FieldEventType, "move_failed"),
			logging.String(logging.FieldErrorHint, "check target directory permissions and whether the file is still locked"),
			logging.String(logging.FieldImpact, "the file must be sorted manually"),
		)
	}

	p.record(ctx, event, resolution, finalPath, moveErr)
}

func (p *Pipeline) record(ctx context.Context, event watcher.Event, resolution dateresolve.Resolution, finalPath string, moveErr error) {
	if p.journal == nil {
		return
	}
	record := journal.Record{
		EventID:      event.ID,
		SourcePath:   event.Path,
		FinalPath:    finalPath,
		Extension:    strings.ToLower(filepath.Ext(event.Path)),
		ResolvedDate: resolution.Date.Format("2006-01-02"),
		DateSource:   string(resolution.Source),
		Status:       journal.StatusCompleted,
	}
	if moveErr != nil {
		record.Status = journal.StatusFailed
		record.ErrorMessage = moveErr.Error()
	}
	if _, err := p.journal.Add(ctx, record); err != nil {
		logging.WithContext(ctx, p.logger).Warn("unable to record journal entry",
			logging.Error(err),
			logging.String(logging.FieldEventType, "journal_write_failed"),
			logging.String(logging.FieldImpact, "history output will miss this file"),
		)
	}
}
