package classify

import (
	"strings"
	"time"

	"adujour/internal/sheet"
)

// Category names the bucket an album landed in.
type Category string

const (
	CategoryCurrent          Category = "Current"
	CategoryRecentlyAdded    Category = "RecentlyAdded"
	CategoryRecentlyFinished Category = "RecentlyFinished"
)

// Album is the normalized view of a Record: title and artist split out,
// timestamps resolved, category assigned. Derived each run, never persisted.
type Album struct {
	Title        string
	Artist       string
	AppleLink    string
	SpotifyLink  string
	Status       string
	Rating       string
	DateAdded    time.Time
	DateFinished time.Time
	Category     Category
}

// unknownArtist is the fallback when the Music cell has no separator.
const unknownArtist = "Unknown Artist"

func newAlbum(rec sheet.Record) Album {
	title, artist := SplitMusic(rec.Music)
	return Album{
		Title:       title,
		Artist:      artist,
		AppleLink:   rec.AppleLink,
		SpotifyLink: rec.SpotifyLink,
		Status:      rec.Status,
		Rating:      rec.Rating,
	}
}

// SplitMusic parses the "Album - Artist" cell format. Both the plain hyphen
// and the em dash (which Apple Music paste produces) act as separators; the
// rightmost one wins so album titles containing dashes survive.
func SplitMusic(music string) (title, artist string) {
	music = strings.TrimSpace(music)
	for _, sep := range []string{" – ", " - "} {
		if idx := strings.LastIndex(music, sep); idx >= 0 {
			title = strings.TrimSpace(music[:idx])
			artist = strings.TrimSpace(music[idx+len(sep):])
			if title != "" && artist != "" {
				return title, artist
			}
		}
	}
	return music, unknownArtist
}
