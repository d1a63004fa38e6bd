package mover

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"log/slog"

	"docsort/internal/logging"
	"docsort/internal/services"
)

// Mover places files into their year-month destination with bounded retries.
type Mover struct {
	attempts int
	delay    time.Duration
	logger   *slog.Logger
}

// New constructs a mover. attempts is the total try count (not extra
// retries); delay is the fixed pause between attempts.
func New(attempts int, delay time.Duration, logger *slog.Logger) *Mover {
	if attempts <= 0 {
		attempts = 3
	}
	if delay <= 0 {
		delay = 2 * time.Second
	}
	return &Mover{
		attempts: attempts,
		delay:    delay,
		logger:   logging.NewComponentLogger(logger, "mover"),
	}
}

// Place computes a collision-free destination under baseDir/yyyyMM and moves
// sourcePath there. The destination name is re-derived on every attempt since
// the directory state may have changed between retries. After exhausting
// retries the source file is left in place and a move error is returned.
func (m *Mover) Place(ctx context.Context, sourcePath, baseDir string, resolvedDate time.Time) (string, error) {
	logger := logging.WithContext(ctx, m.logger)
	targetDir := filepath.Join(baseDir, MonthDir(resolvedDate))
	name := TargetFileName(resolvedDate, filepath.Base(sourcePath))

	var lastErr error
	for attempt := 1; attempt <= m.attempts; attempt++ {
		finalPath, err := m.tryPlace(sourcePath, targetDir, name)
		if err == nil {
			logger.Info("file placed",
				logging.String("final_path", finalPath),
				logging.Int("attempt", attempt),
			)
			return finalPath, nil
		}
		lastErr = err
		logger.Warn("move attempt failed",
			logging.Error(err),
			logging.Int("attempt", attempt),
			logging.Int("attempts_total", m.attempts),
			logging.String(logging.FieldEventType, "move_attempt_failed"),
		)

		if attempt == m.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", services.Wrap(services.ErrMove, "mover", "place", "canceled while retrying", ctx.Err())
		case <-time.After(m.delay):
		}
	}

	return "", services.Wrap(services.ErrMove, "mover", "place",
		fmt.Sprintf("giving up after %d attempts; source left at %s", m.attempts, sourcePath), lastErr)
}

func (m *Mover) tryPlace(sourcePath, targetDir, name string) (string, error) {
	// MkdirAll treats an existing directory as success, which covers the
	// concurrent-creation race.
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", fmt.Errorf("create target directory: %w", err)
	}

	// A file already sitting at its computed destination must not be treated
	// as a collision with itself, or it would be renamed on every pass.
	if filepath.Join(targetDir, name) == filepath.Clean(sourcePath) {
		return sourcePath, nil
	}

	destPath, err := nextAvailablePath(targetDir, name)
	if err != nil {
		return "", fmt.Errorf("resolve destination: %w", err)
	}

	if err := moveFile(sourcePath, destPath); err != nil {
		return "", err
	}

	// Post-condition: destination present, source gone.
	if _, err := os.Stat(destPath); err != nil {
		return "", fmt.Errorf("verify destination: %w", err)
	}
	if _, err := os.Stat(sourcePath); err == nil {
		return "", fmt.Errorf("source still present after move: %s", sourcePath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("verify source removal: %w", err)
	}

	return destPath, nil
}

// moveFile renames where the filesystem allows it and falls back to a
// verified copy plus delete across filesystem boundaries.
func moveFile(src, dst string) error {
	renameErr := os.Rename(src, dst)
	if renameErr == nil {
		return nil
	}

	var linkErr *os.LinkError
	if errors.As(renameErr, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		if err := copyFile(src, dst); err != nil {
			return fmt.Errorf("copy across filesystems: %w", err)
		}
		if err := os.Remove(src); err != nil {
			return fmt.Errorf("remove source after copy: %w", err)
		}
		return nil
	}

	return fmt.Errorf("rename: %w", renameErr)
}

// copyFile copies src to dst and verifies the result by hashing the
// destination as written to disk, not the bytes that passed through the copy.
func copyFile(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	written, err := io.Copy(out, io.TeeReader(in, srcHasher))
	if err != nil {
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}

	if written != srcInfo.Size() {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcInfo.Size(), written)
	}
	dstSum, err := hashFile(dst)
	if err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("hash destination: %w", err)
	}
	if !bytes.Equal(srcHasher.Sum(nil), dstSum) {
		_ = os.Remove(dst)
		return errors.New("copy hash mismatch: file corrupted during copy")
	}
	return nil
}

func hashFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}
