package classify

import (
	"strings"
	"time"
)

// TimestampKind describes how a raw timestamp cell resolved.
type TimestampKind int

const (
	// TimestampAbsent means the cell was empty.
	TimestampAbsent TimestampKind = iota
	// TimestampInvalid means the cell held a placeholder or unparseable value.
	TimestampInvalid
	// TimestampValid means the cell parsed to a real instant.
	TimestampValid
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp resolves a raw worksheet timestamp. Placeholder values such
// as "20XX-XX-XXTXX:XX:XXZ" are Invalid, not errors; empty cells are Absent.
// Valid values accept ISO-8601 with or without a trailing zone marker.
func ParseTimestamp(raw string) (time.Time, TimestampKind) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, TimestampAbsent
	}
	if strings.Contains(trimmed, "XX") {
		return time.Time{}, TimestampInvalid
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, trimmed); err == nil {
			return ts, TimestampValid
		}
	}
	return time.Time{}, TimestampInvalid
}
