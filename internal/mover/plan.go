package mover

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	monthDirLayout   = "200601"
	datePrefixLayout = "20060102"
)

// MonthDir returns the year-month subdirectory name for a resolved date.
func MonthDir(date time.Time) string {
	return date.Format(monthDirLayout)
}

// TargetFileName derives the destination base name: names already carrying an
// 8-digit date prefix and a space are kept unchanged, everything else gets a
// yyyyMMdd prefix. The result is sanitized for use as a file name.
func TargetFileName(date time.Time, originalName string) string {
	if HasDatePrefix(originalName) {
		return sanitizeFileName(originalName)
	}
	return sanitizeFileName(date.Format(datePrefixLayout) + " " + originalName)
}

// HasDatePrefix reports whether name already begins with an 8-digit date
// followed by a space.
func HasDatePrefix(name string) bool {
	if len(name) < 9 || name[8] != ' ' {
		return false
	}
	for _, r := range name[:8] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// invalidNameRunes covers the characters rejected by common filesystems;
// control characters are replaced as well.
const invalidNameRunes = `/\:*?"<>|`

func sanitizeFileName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r < ' ' || strings.ContainsRune(invalidNameRunes, r) {
			b.WriteRune('_')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const maxCollisionAttempts = 10000

// nextAvailablePath resolves name collisions inside dir by appending a
// numeric disambiguator before the extension. The directory state is checked
// fresh on every call, so callers re-run this after retries.
func nextAvailablePath(dir, name string) (string, error) {
	candidate := filepath.Join(dir, name)
	if free, err := pathFree(candidate); err != nil {
		return "", err
	} else if free {
		return candidate, nil
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 1; n <= maxCollisionAttempts; n++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
		free, err := pathFree(candidate)
		if err != nil {
			return "", err
		}
		if free {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("exhausted destination name slots for %s in %s", name, dir)
}

func pathFree(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	return false, err
}
