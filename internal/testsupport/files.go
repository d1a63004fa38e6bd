package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"docsort/internal/config"
	"docsort/internal/journal"
)

// WriteFile creates a file with the given content, making parent directories
// as needed, and returns its path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// MustOpenJournal opens a journal store against the test config and closes it
// when the test finishes.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()
	store, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}
