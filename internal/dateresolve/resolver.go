package dateresolve

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"docsort/internal/logging"
)

// Source identifies where an effective date came from.
type Source string

const (
	SourceCreationTime Source = "creation_time"
	SourceEmailHeader  Source = "eml_header"
	SourceMsgContainer Source = "msg_container"
)

// Resolution is the effective date used to organize a file. Once computed it
// is authoritative for naming; nothing downstream re-derives it.
type Resolution struct {
	Date   time.Time
	Source Source
}

// MessageDateReader extracts the sent date from an Outlook container stream.
// Implementations return ok=false when the container carries no usable date.
type MessageDateReader interface {
	ReadSentDate(r io.ReaderAt, size int64) (time.Time, bool, error)
}

// Resolver produces the effective date for a file based on its extension.
// Every internal failure degrades to the creation-timestamp fallback; Resolve
// never fails the pipeline.
type Resolver struct {
	msgReader MessageDateReader
	logger    *slog.Logger
}

// New constructs a resolver. msgReader may be nil, in which case .msg files
// fall back to the creation timestamp.
func New(msgReader MessageDateReader, logger *slog.Logger) *Resolver {
	return &Resolver{
		msgReader: msgReader,
		logger:    logging.NewComponentLogger(logger, "date-resolver"),
	}
}

// Resolve returns the effective date for the file at path.
func (r *Resolver) Resolve(ctx context.Context, path string) Resolution {
	logger := logging.WithContext(ctx, r.logger)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".eml":
		if date, ok := r.resolveEmail(path, logger); ok {
			return Resolution{Date: date, Source: SourceEmailHeader}
		}
	case ".msg":
		if date, ok := r.resolveContainer(path, logger); ok {
			return Resolution{Date: date, Source: SourceMsgContainer}
		}
	}

	return Resolution{Date: r.creationTime(path, logger), Source: SourceCreationTime}
}

func (r *Resolver) resolveEmail(path string, logger *slog.Logger) (time.Time, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("unable to read email content; using creation time",
			logging.Error(err),
			logging.String(logging.FieldEventType, "eml_read_failed"),
		)
		return time.Time{}, false
	}

	date, ok := scanDateHeaders(decodeText(raw))
	if !ok {
		logger.Info("no parseable date header; using creation time",
			logging.String(logging.FieldEventType, "eml_header_missing"),
		)
		return time.Time{}, false
	}
	return date, true
}

// resolveContainer delegates to the injected container-date capability. The
// file handle is released regardless of outcome, and a panicking reader is
// treated the same as one that found no date.
func (r *Resolver) resolveContainer(path string, logger *slog.Logger) (date time.Time, ok bool) {
	if r.msgReader == nil {
		logger.Info("message container reader not configured; using creation time",
			logging.String(logging.FieldEventType, "msg_reader_unavailable"),
		)
		return time.Time{}, false
	}

	file, err := os.Open(path)
	if err != nil {
		logger.Warn("unable to open message container; using creation time",
			logging.Error(err),
			logging.String(logging.FieldEventType, "msg_open_failed"),
		)
		return time.Time{}, false
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return time.Time{}, false
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Warn("message container reader panicked; using creation time",
				logging.Any("panic", recovered),
				logging.String(logging.FieldEventType, "msg_reader_panic"),
			)
			date, ok = time.Time{}, false
		}
	}()

	date, ok, err = r.msgReader.ReadSentDate(file, info.Size())
	if err != nil {
		logger.Info("message container yielded no sent date; using creation time",
			logging.Error(err),
			logging.String(logging.FieldEventType, "msg_date_unavailable"),
		)
		return time.Time{}, false
	}
	return date, ok
}

func (r *Resolver) creationTime(path string, logger *slog.Logger) time.Time {
	if t, ok := birthTime(path); ok {
		return t
	}
	info, err := os.Stat(path)
	if err != nil {
		logger.Warn("unable to stat file for creation time; using current time",
			logging.Error(err),
			logging.String(logging.FieldEventType, "creation_time_unavailable"),
		)
		return time.Now()
	}
	return info.ModTime()
}
