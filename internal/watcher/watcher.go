package watcher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"log/slog"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"docsort/internal/logging"
	"docsort/internal/services"
)

// Event describes one physical file creation under the watched root. A later
// event for the same path is a distinct Event.
type Event struct {
	ID         string
	Path       string
	Name       string
	DetectedAt time.Time
}

// Handler processes one qualifying creation event. Invocations are
// sequential, in arrival order, with at most one in flight.
type Handler func(ctx context.Context, event Event)

const pendingBuffer = 256

// Watcher subscribes to filesystem creation events under a root path and
// dispatches each qualifying event to the handler exactly once. It is not
// restartable once stopped.
type Watcher struct {
	root    string
	logger  *slog.Logger
	handler Handler

	fsw     *fsnotify.Watcher
	pending chan Event

	mu      sync.Mutex
	running bool
	stopped bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New constructs a watcher rooted at root. The handler must not be nil.
func New(root string, handler Handler, logger *slog.Logger) (*Watcher, error) {
	if handler == nil {
		return nil, errors.New("watcher requires a handler")
	}
	return &Watcher{
		root:    root,
		logger:  logging.NewComponentLogger(logger, "watcher"),
		handler: handler,
		pending: make(chan Event, pendingBuffer),
	}, nil
}

// Start validates the root, registers the directory tree, and launches the
// event and consumer goroutines. A missing root is a setup error; monitoring
// never begins.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return errors.New("watcher already running")
	}
	if w.stopped {
		return errors.New("watcher cannot be restarted")
	}

	info, err := os.Stat(w.root)
	if err != nil {
		return services.Wrap(services.ErrSetup, "watcher", "stat root", "watch root is not accessible", err)
	}
	if !info.IsDir() {
		return services.Wrap(services.ErrSetup, "watcher", "stat root", "watch root is not a directory", nil)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return services.Wrap(services.ErrSetup, "watcher", "create subscription", "unable to create filesystem watcher", err)
	}
	w.fsw = fsw

	if err := w.addRecursive(w.root); err != nil {
		_ = fsw.Close()
		w.fsw = nil
		return services.Wrap(services.ErrSetup, "watcher", "register tree", "unable to watch directory tree", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.ctx = runCtx
	w.cancel = cancel
	w.running = true

	w.wg.Add(2)
	go w.eventLoop()
	go w.consumeLoop()

	w.logger.Info("watching for new files", logging.String("root", w.root))
	return nil
}

// Stop tears down the subscription and waits for the in-flight pipeline run,
// if any, to finish. The watcher cannot be restarted afterwards.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.stopped = true
	cancel := w.cancel
	fsw := w.fsw
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if fsw != nil {
		_ = fsw.Close()
	}
	w.wg.Wait()
	w.logger.Info("watch subscription released", logging.String("root", w.root))
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// Entries that vanish mid-walk are not an error.
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			return addErr
		}
		return nil
	})
}

// eventLoop translates fsnotify notifications into pipeline events. It owns
// the pending channel and closes it on exit so the consumer drains and stops.
func (w *Watcher) eventLoop() {
	defer w.wg.Done()
	defer close(w.pending)

	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Create) {
				w.handleCreate(event.Name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch notification error",
				logging.Error(err),
				logging.String(logging.FieldEventType, "watch_error"),
				logging.String(logging.FieldImpact, "a creation event may have been missed"),
			)
		}
	}
}

func (w *Watcher) handleCreate(path string) {
	info, err := os.Stat(path)
	if err != nil {
		// Races between notification delivery and the item's final state
		// are expected; the event is dropped silently.
		return
	}

	if info.IsDir() {
		w.trackNewDirectory(path)
		return
	}

	switch decideExtension(path) {
	case extensionSupported:
	case extensionReserved:
		return
	case extensionUnsupported:
		w.logger.Debug("ignoring unsupported file type",
			logging.String("path", path),
			logging.String("extension", filepath.Ext(path)),
		)
		return
	}

	w.enqueue(Event{
		ID:         uuid.NewString(),
		Path:       path,
		Name:       filepath.Base(path),
		DetectedAt: time.Now(),
	})
}

// trackNewDirectory registers a freshly created directory and then rescans it
// for files that landed before the registration took effect.
func (w *Watcher) trackNewDirectory(dir string) {
	if err := w.addRecursive(dir); err != nil {
		w.logger.Warn("unable to watch new directory",
			logging.String("path", dir),
			logging.Error(err),
			logging.String(logging.FieldEventType, "watch_register_failed"),
			logging.String(logging.FieldImpact, "files created under this directory will not be sorted"),
		)
		return
	}
	w.logger.Debug("watching new directory", logging.String("path", dir))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		w.handleCreate(filepath.Join(dir, entry.Name()))
	}
}

func (w *Watcher) enqueue(event Event) {
	select {
	case w.pending <- event:
	case <-w.ctx.Done():
	default:
		w.logger.Warn("event queue full; dropping creation event",
			logging.String("path", event.Path),
			logging.String(logging.FieldEventType, "event_queue_full"),
			logging.String(logging.FieldImpact, "the file stays in place and must be sorted manually"),
		)
	}
}

// consumeLoop runs the handler for each queued event, one at a time. The
// handler gets a context that outlives Stop, so a run that has already begun
// finishes its move instead of aborting mid-retry; events still queued when
// the shutdown starts are dropped.
func (w *Watcher) consumeLoop() {
	defer w.wg.Done()

	handlerCtx := context.WithoutCancel(w.ctx)
	for event := range w.pending {
		if w.ctx.Err() != nil {
			w.logger.Debug("discarding queued event during shutdown",
				logging.String("path", event.Path),
			)
			continue
		}
		w.handler(handlerCtx, event)
	}
}
