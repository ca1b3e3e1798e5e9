package board

import (
	"strings"
	"time"
)

// Placeholder is displayed for absent owners, deadlines and timestamps.
const Placeholder = "—"

// DisplayLayout is the layout used to render creation timestamps.
const DisplayLayout = "Jan 2, 2006 3:04 PM"

// Layouts accepted for created_at. Naive layouts are read as UTC, matching
// how the service normalizes naive datetimes.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a created_at value.
// The second result is false for empty or unparsable input.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatTimestamp renders raw in the local zone, or Placeholder if it does
// not parse. Sorting uses ParseTimestamp, so both agree on what is invalid.
func FormatTimestamp(raw string) string {
	t, ok := ParseTimestamp(raw)
	if !ok {
		return Placeholder
	}
	return t.Local().Format(DisplayLayout)
}

// OrPlaceholder returns s, or Placeholder when s is blank.
func OrPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}
