package testsupport

import "adujour/internal/sheet"

// RecordOption mutates a generated record.
type RecordOption func(*sheet.Record)

// NewRecord builds a worksheet record with sensible defaults.
func NewRecord(row int, music string, opts ...RecordOption) sheet.Record {
	rec := sheet.Record{
		Row:       row,
		Music:     music,
		Status:    "Open",
		AppleLink: "https://music.apple.com/us/album/fixture/1",
	}
	for _, opt := range opts {
		opt(&rec)
	}
	return rec
}

// WithStatus sets the status token.
func WithStatus(status string) RecordOption {
	return func(r *sheet.Record) { r.Status = status }
}

// WithDateAdded sets the raw date-added cell.
func WithDateAdded(raw string) RecordOption {
	return func(r *sheet.Record) { r.DateAddedRaw = raw }
}

// WithDateFinished sets the raw date-finished cell.
func WithDateFinished(raw string) RecordOption {
	return func(r *sheet.Record) { r.DateFinishedRaw = raw }
}

// WithSpotify sets the Spotify link.
func WithSpotify(link string) RecordOption {
	return func(r *sheet.Record) { r.SpotifyLink = link }
}
