package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"docsort/internal/services"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.input); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestConsoleHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	NewComponentLogger(logger, "watcher").Info("watching for new files",
		String("root", "/intake"),
		Int("dirs", 3),
	)

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, " INFO watcher: watching for new files") {
		t.Fatalf("line = %q", line)
	}
	if !strings.Contains(line, "root=/intake") || !strings.Contains(line, "dirs=3") {
		t.Fatalf("attrs missing: %q", line)
	}
}

func TestConsoleHandlerQuotesSpacedValues(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, new(slog.LevelVar)))

	logger.Warn("move attempt failed", String("path", "/intake/my file.pdf"))

	if !strings.Contains(buf.String(), `path="/intake/my file.pdf"`) {
		t.Fatalf("line = %q", buf.String())
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record leaked through warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestJSONHandlerFieldNames(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newJSONHandler(&buf, new(slog.LevelVar)))

	logger.Error("move failed", String(FieldEventType, "move_failed"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("unmarshal: %v (%q)", err, buf.String())
	}
	if record["msg"] != "move failed" {
		t.Fatalf("msg = %v", record["msg"])
	}
	if record["level"] != "error" {
		t.Fatalf("level = %v", record["level"])
	}
	if _, ok := record["ts"].(string); !ok {
		t.Fatalf("ts missing: %v", record)
	}
	if record[FieldEventType] != "move_failed" {
		t.Fatalf("event_type = %v", record[FieldEventType])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

func TestWithContextAddsEventFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, new(slog.LevelVar)))

	ctx := services.WithEventID(context.Background(), "evt-42")
	ctx = services.WithSourcePath(ctx, "/intake/invoice.eml")
	WithContext(ctx, logger).Info("processing new file")

	out := buf.String()
	if !strings.Contains(out, "event_id=evt-42") {
		t.Fatalf("event_id missing: %q", out)
	}
	if !strings.Contains(out, "source_path=/intake/invoice.eml") {
		t.Fatalf("source_path missing: %q", out)
	}
}

func TestWithContextToleratesNilLogger(t *testing.T) {
	logger := WithContext(context.Background(), nil)
	logger.Info("goes nowhere")
}
