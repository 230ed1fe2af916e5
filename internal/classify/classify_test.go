package classify_test

import (
	"fmt"
	"testing"
	"time"

	"adujour/internal/classify"
	"adujour/internal/sheet"
)

func record(music, status, added, finished string) sheet.Record {
	return sheet.Record{
		Music:           music,
		AppleLink:       "https://music.apple.com/x",
		Status:          status,
		DateAddedRaw:    added,
		DateFinishedRaw: finished,
	}
}

func TestClassifyCurrentStatusTakesPrecedence(t *testing.T) {
	records := []sheet.Record{
		record("Album A - Artist", "Current", "2025-01-01T00:00:00Z", "2025-02-01T00:00:00Z"),
	}
	result := classify.Classify(records, time.Now())

	if len(result.Current) != 1 {
		t.Fatalf("expected 1 current album, got %d", len(result.Current))
	}
	if len(result.Finished) != 0 || len(result.Added) != 0 {
		t.Fatalf("current record leaked into other buckets: added=%d finished=%d", len(result.Added), len(result.Finished))
	}
	if result.Current[0].Category != classify.CategoryCurrent {
		t.Fatalf("unexpected category %q", result.Current[0].Category)
	}
}

func TestClassifyFinishedBeatsAdded(t *testing.T) {
	records := []sheet.Record{
		record("Album B - Artist", "Done", "2025-01-01T00:00:00Z", "2025-02-01T00:00:00Z"),
	}
	result := classify.Classify(records, time.Now())
	if len(result.Finished) != 1 || len(result.Added) != 0 {
		t.Fatalf("expected finished classification, got added=%d finished=%d", len(result.Added), len(result.Finished))
	}
}

func TestClassifyPlaceholderTimestampExcluded(t *testing.T) {
	records := []sheet.Record{
		record("Album C - Artist", "Open", "20XX-XX-XXTXX:XX:XXZ", ""),
	}
	result := classify.Classify(records, time.Now())
	if result.Total() != 0 {
		t.Fatalf("placeholder timestamp should classify nowhere, got %d albums", result.Total())
	}
}

func TestClassifyUnmatchedRecordDroppedSilently(t *testing.T) {
	records := []sheet.Record{
		record("Album D - Artist", "Open", "", ""),
	}
	result := classify.Classify(records, time.Now())
	if result.Total() != 0 {
		t.Fatalf("expected record to drop, got %d albums", result.Total())
	}
}

func TestClassifyTruncatesAddedToLimitNewestFirst(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	records := make([]sheet.Record, 0, 25)
	for i := 0; i < 25; i++ {
		ts := base.AddDate(0, 0, i).Format(time.RFC3339)
		records = append(records, record(fmt.Sprintf("Album %02d - Artist", i), "Open", ts, ""))
	}

	result := classify.Classify(records, time.Now())
	if len(result.Added) != classify.RecentLimit {
		t.Fatalf("expected %d added albums, got %d", classify.RecentLimit, len(result.Added))
	}
	// Newest first: the record added on day 24 leads, day 5 is last kept.
	if result.Added[0].Title != "Album 24" {
		t.Fatalf("expected newest album first, got %q", result.Added[0].Title)
	}
	if result.Added[len(result.Added)-1].Title != "Album 05" {
		t.Fatalf("expected oldest kept album to be day 5, got %q", result.Added[len(result.Added)-1].Title)
	}
	for i := 1; i < len(result.Added); i++ {
		if result.Added[i].DateAdded.After(result.Added[i-1].DateAdded) {
			t.Fatalf("added bucket not non-increasing at index %d", i)
		}
	}
}

func TestClassifyStableTieOrder(t *testing.T) {
	ts := "2025-06-01T12:00:00Z"
	records := []sheet.Record{
		record("First - Artist", "Open", ts, ""),
		record("Second - Artist", "Open", ts, ""),
	}
	result := classify.Classify(records, time.Now())
	if len(result.Added) != 2 {
		t.Fatalf("expected 2 added albums, got %d", len(result.Added))
	}
	if result.Added[0].Title != "First" || result.Added[1].Title != "Second" {
		t.Fatalf("tie order not stable: %q, %q", result.Added[0].Title, result.Added[1].Title)
	}
}

func TestClassifyCurrentHasNoCap(t *testing.T) {
	records := make([]sheet.Record, 0, 25)
	for i := 0; i < 25; i++ {
		records = append(records, record(fmt.Sprintf("Current %d - Artist", i), "Current", "", ""))
	}
	result := classify.Classify(records, time.Now())
	if len(result.Current) != 25 {
		t.Fatalf("current bucket should be uncapped, got %d", len(result.Current))
	}
}

func TestClassifyDeterministic(t *testing.T) {
	records := []sheet.Record{
		record("A - X", "Open", "2025-01-01T00:00:00Z", ""),
		record("B - Y", "Done", "", "2025-03-01T00:00:00Z"),
		record("C - Z", "Current", "", ""),
	}
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	first := classify.Classify(records, now)
	second := classify.Classify(records, now)
	if first.Total() != second.Total() {
		t.Fatalf("classification not deterministic: %d vs %d", first.Total(), second.Total())
	}
	for i := range first.Added {
		if first.Added[i] != second.Added[i] {
			t.Fatalf("added bucket differs at %d", i)
		}
	}
}

func TestParseTimestampKinds(t *testing.T) {
	cases := []struct {
		raw  string
		want classify.TimestampKind
	}{
		{"", classify.TimestampAbsent},
		{"   ", classify.TimestampAbsent},
		{"20XX-XX-XXTXX:XX:XXZ", classify.TimestampInvalid},
		{"not a date", classify.TimestampInvalid},
		{"2025-05-04T10:20:30Z", classify.TimestampValid},
		{"2025-05-04T10:20:30", classify.TimestampValid},
		{"2025-05-04", classify.TimestampValid},
	}
	for _, tc := range cases {
		if _, kind := classify.ParseTimestamp(tc.raw); kind != tc.want {
			t.Fatalf("ParseTimestamp(%q) kind = %v, want %v", tc.raw, kind, tc.want)
		}
	}
}

func TestSplitMusic(t *testing.T) {
	cases := []struct {
		music  string
		title  string
		artist string
	}{
		{"In Rainbows - Radiohead", "In Rainbows", "Radiohead"},
		{"Blue – Joni Mitchell", "Blue", "Joni Mitchell"},
		{"Self-Titled - The Band", "Self-Titled", "The Band"},
		{"Standalone", "Standalone", "Unknown Artist"},
	}
	for _, tc := range cases {
		title, artist := classify.SplitMusic(tc.music)
		if title != tc.title || artist != tc.artist {
			t.Fatalf("SplitMusic(%q) = %q, %q; want %q, %q", tc.music, title, artist, tc.title, tc.artist)
		}
	}
}
