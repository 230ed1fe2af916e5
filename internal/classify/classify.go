package classify

import (
	"sort"
	"strings"
	"time"

	"adujour/internal/sheet"
)

// RecentLimit caps the RecentlyAdded and RecentlyFinished buckets.
const RecentLimit = 20

// Result holds the three ordered buckets for one run.
type Result struct {
	Current     []Album
	Added       []Album
	Finished    []Album
	GeneratedAt time.Time
}

// Total returns the number of classified albums across all buckets.
func (r Result) Total() int {
	return len(r.Current) + len(r.Added) + len(r.Finished)
}

// Classify sorts records into the three buckets. Pure and deterministic for a
// given records slice and now value: no hidden state, no I/O.
//
// Rules, in order:
//   - Status "Current" always enters Current, uncapped, regardless of
//     timestamps (status takes precedence; the finished branch is never
//     evaluated for these records).
//   - A valid "date finished" timestamp enters Finished.
//   - Otherwise a valid "date added" timestamp enters Added.
//   - Anything else is dropped silently.
//
// Added and Finished sort newest-first on their respective timestamps with
// stable input-order ties, then truncate to RecentLimit.
func Classify(records []sheet.Record, now time.Time) Result {
	result := Result{GeneratedAt: now}

	for _, rec := range records {
		album := newAlbum(rec)
		added, addedKind := ParseTimestamp(rec.DateAddedRaw)
		finished, finishedKind := ParseTimestamp(rec.DateFinishedRaw)
		if addedKind == TimestampValid {
			album.DateAdded = added
		}
		if finishedKind == TimestampValid {
			album.DateFinished = finished
		}

		switch {
		case strings.EqualFold(rec.Status, "Current"):
			album.Category = CategoryCurrent
			result.Current = append(result.Current, album)
		case finishedKind == TimestampValid:
			album.Category = CategoryRecentlyFinished
			result.Finished = append(result.Finished, album)
		case addedKind == TimestampValid:
			album.Category = CategoryRecentlyAdded
			result.Added = append(result.Added, album)
		}
	}

	sort.SliceStable(result.Added, func(i, j int) bool {
		return result.Added[i].DateAdded.After(result.Added[j].DateAdded)
	})
	sort.SliceStable(result.Finished, func(i, j int) bool {
		return result.Finished[i].DateFinished.After(result.Finished[j].DateFinished)
	})

	if len(result.Added) > RecentLimit {
		result.Added = result.Added[:RecentLimit]
	}
	if len(result.Finished) > RecentLimit {
		result.Finished = result.Finished[:RecentLimit]
	}

	return result
}
