package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docsort/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("exists should be false for a missing file")
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Sorting.StabilityTimeoutSeconds != 10 || cfg.Sorting.StabilityPollSeconds != 1 {
		t.Fatalf("stability defaults wrong: %+v", cfg.Sorting)
	}
	if cfg.Sorting.MoveAttempts != 3 || cfg.Sorting.MoveRetryDelaySeconds != 2 {
		t.Fatalf("move defaults wrong: %+v", cfg.Sorting)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("logging defaults wrong: %+v", cfg.Logging)
	}
	if !filepath.IsAbs(cfg.Paths.WatchDir) || !filepath.IsAbs(cfg.Paths.LogDir) {
		t.Fatalf("paths not expanded: %+v", cfg.Paths)
	}
}

func TestLoadParsesFile(t *testing.T) {
	base := t.TempDir()
	path := writeConfig(t, `
[paths]
watch_dir = "`+filepath.Join(base, "intake")+`"
log_dir = "`+filepath.Join(base, "logs")+`"

[sorting]
stability_timeout_seconds = 4
stability_poll_seconds = 2
move_attempts = 5
move_retry_delay_seconds = 1

[logging]
format = "json"
level = "debug"
`)

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("exists should be true")
	}
	if cfg.Paths.WatchDir != filepath.Join(base, "intake") {
		t.Fatalf("watch_dir = %q", cfg.Paths.WatchDir)
	}
	if cfg.Sorting.StabilityTimeoutSeconds != 4 || cfg.Sorting.MoveAttempts != 5 {
		t.Fatalf("sorting = %+v", cfg.Sorting)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := writeConfig(t, "[paths\nwatch_dir = broken")
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestLoadRejectsLogDirInsideWatch(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "same")
	path := writeConfig(t, `
[paths]
watch_dir = "`+dir+`"
log_dir = "`+dir+`"
`)
	_, _, _, err := config.Load(path)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if !strings.Contains(err.Error(), "log_dir") {
		t.Fatalf("error = %v", err)
	}
}

func TestLoadRejectsPollLongerThanTimeout(t *testing.T) {
	path := writeConfig(t, `
[sorting]
stability_timeout_seconds = 2
stability_poll_seconds = 5
`)
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected a validation error")
	}
}

func TestLoadRejectsUnknownLogFormat(t *testing.T) {
	path := writeConfig(t, `
[logging]
format = "yaml"
`)
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected a validation error")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	got, err := config.ExpandPath("~/docs")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "docs") {
		t.Fatalf("ExpandPath(~/docs) = %q", got)
	}

	got, err = config.ExpandPath("relative/dir")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Fatalf("ExpandPath(relative/dir) = %q, want absolute", got)
	}
}

func TestCreateSampleRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("Load(sample) exists=%v err=%v", exists, err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WatchDir = filepath.Join(base, "a", "intake")
	cfg.Paths.LogDir = filepath.Join(base, "b", "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.WatchDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("directory %s missing: %v", dir, err)
		}
	}
}
