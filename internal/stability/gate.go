package stability

import (
	"context"
	"os"
	"time"

	"log/slog"

	"docsort/internal/logging"
)

// Gate blocks until a newly created file is no longer being written, up to a
// bounded wait. It is a best-effort check: callers proceed on a false result
// and must tolerate residual lock contention themselves.
type Gate struct {
	timeout time.Duration
	poll    time.Duration
	logger  *slog.Logger
}

// New constructs a gate with the given wait budget and poll interval.
func New(timeout, poll time.Duration, logger *slog.Logger) *Gate {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if poll <= 0 {
		poll = time.Second
	}
	return &Gate{
		timeout: timeout,
		poll:    poll,
		logger:  logging.NewComponentLogger(logger, "stability-gate"),
	}
}

// Wait returns true once the file can be opened for writing and a probe sees
// the same size as the probe before it, so an actively growing file never
// passes on its first sample. It returns false once the wait budget is
// exhausted or the context is canceled; neither is an error.
func (g *Gate) Wait(ctx context.Context, path string) bool {
	deadline := time.Now().Add(g.timeout)
	lastSize, haveSample := fileSize(path)

	for {
		if time.Now().After(deadline) {
			g.logger.Debug("stability wait budget exhausted; proceeding anyway",
				logging.String("path", path),
				logging.Duration("waited", g.timeout),
			)
			return false
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(g.poll):
		}

		size, sizeKnown := fileSize(path)
		if haveSample && sizeKnown && size == lastSize && probeOpen(path) {
			return true
		}
		lastSize, haveSample = size, sizeKnown
	}
}

// probeOpen attempts a read-write open and releases it immediately. A writer
// still holding the file open with an exclusive lock makes the open fail on
// platforms that enforce it; elsewhere the size comparison carries the check.
func probeOpen(path string) bool {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return false
	}
	_ = file.Close()
	return true
}

func fileSize(path string) (int64, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	return info.Size(), true
}
