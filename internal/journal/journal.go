package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"docsort/internal/config"
)

// Store persists the move journal backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the journal database under the log
// directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "journal.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Add inserts a record and returns it with the assigned ID.
func (s *Store) Add(ctx context.Context, record Record) (Record, error) {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	var res sql.Result
	err := s.retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ensureContext(ctx),
			`INSERT INTO moves (event_id, source_path, final_path, extension, resolved_date, date_source, status, error_message, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			record.EventID, record.SourcePath, record.FinalPath, record.Extension,
			record.ResolvedDate, record.DateSource, string(record.Status),
			record.ErrorMessage, record.CreatedAt.Format(time.RFC3339Nano),
		)
		return execErr
	})
	if err != nil {
		return Record{}, fmt.Errorf("insert journal record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Record{}, fmt.Errorf("read journal record id: %w", err)
	}
	record.ID = id
	return record, nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT id, event_id, source_path, final_path, extension, resolved_date, date_source, status, error_message, created_at
		 FROM moves ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, scanErr := scanRecord(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Summarize returns aggregate counts per outcome.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT status, COUNT(1) FROM moves GROUP BY status`)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize journal: %w", err)
	}
	defer rows.Close()

	var summary Summary
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return Summary{}, err
		}
		summary.Total += count
		switch Status(status) {
		case StatusCompleted:
			summary.Completed = count
		case StatusFailed:
			summary.Failed = count
		}
	}
	return summary, rows.Err()
}

// Clear removes all records and reports how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	var res sql.Result
	err := s.retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ensureContext(ctx), `DELETE FROM moves`)
		return execErr
	})
	if err != nil {
		return 0, fmt.Errorf("clear journal: %w", err)
	}
	return res.RowsAffected()
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var record Record
	var status, createdAt string
	if err := rows.Scan(&record.ID, &record.EventID, &record.SourcePath, &record.FinalPath,
		&record.Extension, &record.ResolvedDate, &record.DateSource, &status,
		&record.ErrorMessage, &createdAt); err != nil {
		return Record{}, fmt.Errorf("scan journal record: %w", err)
	}
	record.Status = Status(status)
	if parsed, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		record.CreatedAt = parsed
	}
	return record, nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func (s *Store) retryOnBusy(ctx context.Context, op func() error) error {
	ctx = ensureContext(ctx)
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
