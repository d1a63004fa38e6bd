package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"

	"docsort/internal/journal"
	"docsort/internal/pipeline"
	"docsort/internal/testsupport"
	"docsort/internal/watcher"
)

func eventFor(path string) watcher.Event {
	return watcher.Event{
		ID:         uuid.NewString(),
		Path:       path,
		Name:       filepath.Base(path),
		DetectedAt: time.Now(),
	}
}

func TestHandleMovesEmailByHeaderDate(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFastSorting())
	store := testsupport.MustOpenJournal(t, cfg)
	p := pipeline.New(cfg, store, nil, nil)

	source := testsupport.WriteFile(t, cfg.Paths.WatchDir, "invoice.eml",
		"From: a@example.com\r\nDate: Mon, 3 Jun 2024 10:15:00 +0000\r\n\r\nbody")

	p.Handle(context.Background(), eventFor(source))

	want := filepath.Join(cfg.Paths.WatchDir, "202406", "20240603 invoice.eml")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected file at %s: %v", want, err)
	}
	if _, err := os.Stat(source); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("source still present: %v", err)
	}

	records, err := store.Recent(context.Background(), 1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d journal records, want 1", len(records))
	}
	rec := records[0]
	if rec.Status != journal.StatusCompleted || rec.FinalPath != want {
		t.Fatalf("record = %+v", rec)
	}
	if rec.DateSource != "eml_header" || rec.ResolvedDate != "2024-06-03" {
		t.Fatalf("record date fields = %+v", rec)
	}
}

func TestHandleMovesPdfByCreationTime(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFastSorting())
	store := testsupport.MustOpenJournal(t, cfg)
	p := pipeline.New(cfg, store, nil, nil)

	source := testsupport.WriteFile(t, cfg.Paths.WatchDir, "scan.pdf", "%PDF-1.4")
	p.Handle(context.Background(), eventFor(source))

	matches, err := filepath.Glob(filepath.Join(cfg.Paths.WatchDir, "*", "* scan.pdf"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d placed files, want 1", len(matches))
	}
	final := matches[0]

	name := filepath.Base(final)
	if ok, _ := regexp.MatchString(`^\d{8} scan\.pdf$`, name); !ok {
		t.Fatalf("final name = %q, want a date prefix", name)
	}
	monthDir := filepath.Base(filepath.Dir(final))
	if monthDir != name[:6] {
		t.Fatalf("month dir %q does not match prefix of %q", monthDir, name)
	}
}

func TestHandleKeepsExistingDatePrefix(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFastSorting())
	store := testsupport.MustOpenJournal(t, cfg)
	p := pipeline.New(cfg, store, nil, nil)

	source := testsupport.WriteFile(t, cfg.Paths.WatchDir, "20240603 named.pdf", "%PDF")
	p.Handle(context.Background(), eventFor(source))

	matches, err := filepath.Glob(filepath.Join(cfg.Paths.WatchDir, "*", "20240603 named.pdf"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("prefixed file not placed once: %v", matches)
	}
}

func TestHandleDisambiguatesCollidingEvents(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFastSorting())
	store := testsupport.MustOpenJournal(t, cfg)
	p := pipeline.New(cfg, store, nil, nil)

	content := "Date: Mon, 3 Jun 2024 10:15:00 +0000\r\n\r\nbody"
	first := testsupport.WriteFile(t, cfg.Paths.WatchDir, "invoice.eml", content)
	second := testsupport.WriteFile(t, filepath.Join(cfg.Paths.WatchDir, "sub"), "invoice.eml", content)

	p.Handle(context.Background(), eventFor(first))
	p.Handle(context.Background(), eventFor(second))

	monthDir := filepath.Join(cfg.Paths.WatchDir, "202406")
	for _, name := range []string{"20240603 invoice.eml", "20240603 invoice_1.eml"} {
		if _, err := os.Stat(filepath.Join(monthDir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
}

func TestHandleSkipsFileAlreadyAtDestination(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFastSorting())
	store := testsupport.MustOpenJournal(t, cfg)
	p := pipeline.New(cfg, store, nil, nil)

	// Placing a file raises a creation event for the destination itself; that
	// event must neither rename the file nor add a journal row.
	source := testsupport.WriteFile(t, cfg.Paths.WatchDir, "invoice.eml",
		"Date: Mon, 3 Jun 2024 10:15:00 +0000\r\n\r\nbody")
	p.Handle(context.Background(), eventFor(source))

	placed := filepath.Join(cfg.Paths.WatchDir, "202406", "20240603 invoice.eml")
	if _, err := os.Stat(placed); err != nil {
		t.Fatalf("expected file at %s: %v", placed, err)
	}

	p.Handle(context.Background(), eventFor(placed))

	if _, err := os.Stat(placed); err != nil {
		t.Fatalf("placed file was moved again: %v", err)
	}
	matches, err := filepath.Glob(filepath.Join(cfg.Paths.WatchDir, "202406", "*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("month directory holds %v, want only the placed file", matches)
	}
	records, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d journal records, want 1 for one physical file", len(records))
	}
}

func TestHandleRecordsFailedMove(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFastSorting())
	store := testsupport.MustOpenJournal(t, cfg)
	p := pipeline.New(cfg, store, nil, nil)

	source := testsupport.WriteFile(t, cfg.Paths.WatchDir, "invoice.eml",
		"Date: Mon, 3 Jun 2024 10:15:00 +0000\r\n\r\nbody")
	// Block the month directory so every attempt fails.
	if err := os.WriteFile(filepath.Join(cfg.Paths.WatchDir, "202406"), []byte("blocker"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	p.Handle(context.Background(), eventFor(source))

	if _, err := os.Stat(source); err != nil {
		t.Fatalf("source should be left in place: %v", err)
	}
	records, err := store.Recent(context.Background(), 1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 1 || records[0].Status != journal.StatusFailed {
		t.Fatalf("records = %+v", records)
	}
	if records[0].ErrorMessage == "" {
		t.Fatal("failed record has no error message")
	}
}

func TestHandleIgnoresVanishedFile(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFastSorting())
	store := testsupport.MustOpenJournal(t, cfg)
	p := pipeline.New(cfg, store, nil, nil)

	p.Handle(context.Background(), eventFor(filepath.Join(cfg.Paths.WatchDir, "gone.pdf")))

	records, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("vanished file produced journal records: %+v", records)
	}
}

func TestHandleMsgWithoutReaderFallsBack(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFastSorting())
	store := testsupport.MustOpenJournal(t, cfg)
	p := pipeline.New(cfg, store, nil, nil)

	source := testsupport.WriteFile(t, cfg.Paths.WatchDir, "mail.msg", "payload")
	p.Handle(context.Background(), eventFor(source))

	records, err := store.Recent(context.Background(), 1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records", len(records))
	}
	if records[0].DateSource != "creation_time" {
		t.Fatalf("date source = %q, want creation_time", records[0].DateSource)
	}
	if records[0].Status != journal.StatusCompleted {
		t.Fatalf("status = %q", records[0].Status)
	}
}

func TestHandleSurvivesNilJournal(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFastSorting())
	p := pipeline.New(cfg, nil, nil, nil)

	source := testsupport.WriteFile(t, cfg.Paths.WatchDir, "scan.pdf", "%PDF")
	p.Handle(context.Background(), eventFor(source))

	matches, err := filepath.Glob(filepath.Join(cfg.Paths.WatchDir, "*", "* scan.pdf"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("file not placed without a journal: %v", matches)
	}
}
