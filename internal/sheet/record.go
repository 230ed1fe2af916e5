package sheet

import "strings"

// Column headers expected in the worksheet's first row.
const (
	ColumnMusic        = "Music"
	ColumnAppleLink    = "Apple Music Link"
	ColumnSpotifyLink  = "Spotify Link"
	ColumnStatus       = "Status"
	ColumnDateAdded    = "Date Added"
	ColumnDateFinished = "Date Finished"
	ColumnRating       = "🌞"
)

// Record is one raw worksheet row. It is the immutable source of truth for a
// single album entry; everything derived from it is recomputed each run.
type Record struct {
	Row             int
	Music           string
	AppleLink       string
	SpotifyLink     string
	Status          string
	DateAddedRaw    string
	DateFinishedRaw string
	Rating          string
}

// recordsFromRows converts a header row plus data rows into Records, applying
// the same row filters the worksheet has always used: entries without a Music
// cell or without at least one streaming link are skipped.
func recordsFromRows(rows [][]string) []Record {
	if len(rows) == 0 {
		return nil
	}
	index := headerIndex(rows[0])
	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec := Record{
			Row:             i + 2, // 1-based, after the header row
			Music:           cell(row, index, ColumnMusic),
			AppleLink:       cell(row, index, ColumnAppleLink),
			SpotifyLink:     cell(row, index, ColumnSpotifyLink),
			Status:          cell(row, index, ColumnStatus),
			DateAddedRaw:    cell(row, index, ColumnDateAdded),
			DateFinishedRaw: cell(row, index, ColumnDateFinished),
			Rating:          cell(row, index, ColumnRating),
		}
		if rec.Music == "" {
			continue
		}
		if rec.AppleLink == "" && rec.SpotifyLink == "" {
			continue
		}
		if rec.Status == "" {
			rec.Status = "Open"
		}
		records = append(records, rec)
	}
	return records
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		if _, ok := index[trimmed]; !ok {
			index[trimmed] = i
		}
	}
	return index
}

func cell(row []string, index map[string]int, column string) string {
	i, ok := index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
