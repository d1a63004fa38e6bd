package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderStatusLinePlain(t *testing.T) {
	line := renderStatusLine("State", statusOK, "running (pid 42)", false)
	if line != "  State:     [OK] running (pid 42)" {
		t.Fatalf("line = %q", line)
	}
}

func TestRenderStatusLineWithoutMessage(t *testing.T) {
	line := renderStatusLine("Files", statusInfo, "", false)
	if !strings.HasSuffix(line, "[INFO]") {
		t.Fatalf("line = %q", line)
	}
}

func TestRenderStatusLineColorized(t *testing.T) {
	line := renderStatusLine("State", statusError, "not running", true)
	if !strings.HasPrefix(line, ansiRed) || !strings.HasSuffix(line, ansiReset) {
		t.Fatalf("line = %q", line)
	}
}

func TestRenderStatusLineInfoHasNoColor(t *testing.T) {
	line := renderStatusLine("Journal", statusInfo, "3 entries", true)
	if strings.Contains(line, "\x1b[") {
		t.Fatalf("info line should be uncolored: %q", line)
	}
}

func TestIsTerminalWriterBuffer(t *testing.T) {
	if isTerminalWriter(&bytes.Buffer{}) {
		t.Fatal("a bytes.Buffer is not a terminal")
	}
}
