package testsupport

import (
	"path/filepath"
	"testing"

	"docsort/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test,
// already normalized the way Load would leave it.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WatchDir = filepath.Join(base, "intake")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithFastSorting shrinks stability and retry windows so tests do not block
// on real-time waits.
func WithFastSorting() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Sorting.StabilityTimeoutSeconds = 1
		cfg.Sorting.StabilityPollSeconds = 1
		cfg.Sorting.MoveAttempts = 1
		cfg.Sorting.MoveRetryDelaySeconds = 1
	}
}
