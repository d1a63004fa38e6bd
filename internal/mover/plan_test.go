package mover

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestHasDatePrefix(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"20240603 invoice.pdf", true},
		{"20240603  double-space.pdf", true},
		{"invoice.pdf", false},
		{"20240603invoice.pdf", false},
		{"2024-06-03 invoice.pdf", false},
		{"2024060a name.pdf", false},
		{"20240603", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := HasDatePrefix(tc.name); got != tc.want {
			t.Errorf("HasDatePrefix(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestTargetFileNamePrependsDate(t *testing.T) {
	date := time.Date(2024, time.June, 3, 10, 15, 0, 0, time.UTC)
	if got := TargetFileName(date, "invoice.eml"); got != "20240603 invoice.eml" {
		t.Fatalf("TargetFileName = %q", got)
	}
}

func TestTargetFileNameKeepsExistingPrefix(t *testing.T) {
	date := time.Date(2023, time.November, 2, 0, 0, 0, 0, time.UTC)
	if got := TargetFileName(date, "20240603 already-named.pdf"); got != "20240603 already-named.pdf" {
		t.Fatalf("TargetFileName = %q, want original name kept", got)
	}
}

func TestTargetFileNameSanitizesInvalidRunes(t *testing.T) {
	date := time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)
	got := TargetFileName(date, `re:port*2024?.pdf`)
	want := "20240603 re_port_2024_.pdf"
	if got != want {
		t.Fatalf("TargetFileName = %q, want %q", got, want)
	}
}

func TestMonthDir(t *testing.T) {
	date := time.Date(2023, time.November, 2, 23, 59, 0, 0, time.UTC)
	if got := MonthDir(date); got != "202311" {
		t.Fatalf("MonthDir = %q", got)
	}
}

func TestNextAvailablePathAppendsDisambiguator(t *testing.T) {
	dir := t.TempDir()
	name := "20240603 invoice.eml"

	path, err := nextAvailablePath(dir, name)
	if err != nil {
		t.Fatalf("nextAvailablePath: %v", err)
	}
	if path != filepath.Join(dir, name) {
		t.Fatalf("first candidate = %q", path)
	}

	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	path, err = nextAvailablePath(dir, name)
	if err != nil {
		t.Fatalf("nextAvailablePath: %v", err)
	}
	if filepath.Base(path) != "20240603 invoice_1.eml" {
		t.Fatalf("collision candidate = %q", filepath.Base(path))
	}

	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	path, err = nextAvailablePath(dir, name)
	if err != nil {
		t.Fatalf("nextAvailablePath: %v", err)
	}
	if filepath.Base(path) != "20240603 invoice_2.eml" {
		t.Fatalf("second collision candidate = %q", filepath.Base(path))
	}
}
