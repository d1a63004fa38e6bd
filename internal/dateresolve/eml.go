package dateresolve

import (
	"bufio"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// emailDateHeaders is the fixed tie-break order when the primary Date header
// is absent. The order mirrors observed intake behavior and is not a semantic
// priority.
var emailDateHeaders = []string{"date", "sent", "delivery-date", "received"}

// extraDateLayouts supplements net/mail.ParseDate for headers written by
// non-conforming mailers.
var extraDateLayouts = []string{
	time.RFC1123,
	time.RFC1123Z,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05",
	"02.01.2006 15:04",
}

// scanDateHeaders walks the message text line by line looking for a date
// header. For each header name, in order, the first line whose value parses
// wins; unparseable candidates are skipped.
func scanDateHeaders(content string) (time.Time, bool) {
	for _, header := range emailDateHeaders {
		scanner := bufio.NewScanner(strings.NewReader(content))
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			value, ok := headerValue(scanner.Text(), header)
			if !ok {
				continue
			}
			if header == "received" {
				// The date portion of a Received header follows the
				// last semicolon.
				if idx := strings.LastIndex(value, ";"); idx >= 0 {
					value = value[idx+1:]
				}
			}
			if date, ok := parseDateValue(value); ok {
				return date, true
			}
		}
	}
	return time.Time{}, false
}

// headerValue returns the value of line when it starts with the given header
// name (case-insensitive, anchored at line start).
func headerValue(line, header string) (string, bool) {
	if len(line) <= len(header) {
		return "", false
	}
	if !strings.EqualFold(line[:len(header)], header) {
		return "", false
	}
	rest := line[len(header):]
	if !strings.HasPrefix(rest, ":") {
		return "", false
	}
	return strings.TrimSpace(rest[1:]), true
}

func parseDateValue(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if date, err := mail.ParseDate(value); err == nil {
		return date, true
	}
	for _, layout := range extraDateLayouts {
		if date, err := time.Parse(layout, value); err == nil {
			return date, true
		}
	}
	return time.Time{}, false
}

// decodeText interprets raw bytes as UTF-8 when valid and falls back to a
// permissive Windows-1252 decode otherwise, so a legacy-encoded message still
// exposes its ASCII header names.
func decodeText(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}
