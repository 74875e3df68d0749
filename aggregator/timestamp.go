package aggregator

import (
	"fmt"
	"strings"
	"time"
)

// Layouts tried in order against the normalized timestamp string. STH
// timestamps usually look like "2025-01-01T10:00:15.123Z", but the
// separator and the sub-second fraction vary between versions.
var sthLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// NormalizeTimestamp parses an STH recvTime string as a UTC instant
// and returns it in the given location
func NormalizeTimestamp(s string, loc *time.Location) (time.Time, error) {
	normalized := strings.TrimSuffix(strings.ReplaceAll(s, "T", " "), "Z")

	for _, layout := range sthLayouts {
		t, err := time.Parse(layout, normalized)
		if err == nil {
			return t.In(loc), nil
		}
	}

	// Some STH builds emit an explicit zone offset instead of "Z". Fall
	// back to a general ISO-8601 parse of the original string.
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.In(loc), nil
		}
	}

	return time.Time{}, fmt.Errorf("Timestamp: %q does not match any accepted format", s)
}
