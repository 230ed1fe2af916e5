package site

import "strings"

// AppleEmbedURL converts an Apple Music link to its embeddable form. Returns
// empty for anything that is not an Apple Music URL.
func AppleEmbedURL(link string) string {
	link = strings.TrimSpace(link)
	if !strings.HasPrefix(link, "https://music.apple.com") {
		return ""
	}
	return strings.Replace(link, "music.apple.com", "embed.music.apple.com", 1)
}

// SpotifyEmbedURL converts a Spotify link to its embeddable form.
// https://open.spotify.com/album/<id> becomes
// https://open.spotify.com/embed/album/<id>?utm_source=generator.
func SpotifyEmbedURL(link string) string {
	link = strings.TrimSpace(link)
	if !strings.HasPrefix(link, "https://open.spotify.com") {
		return ""
	}
	parts := strings.Split(link, "/")
	if len(parts) < 5 {
		return ""
	}
	contentType := parts[3]
	contentID := strings.SplitN(parts[4], "?", 2)[0]
	if contentType == "" || contentID == "" {
		return ""
	}
	return "https://open.spotify.com/embed/" + contentType + "/" + contentID + "?utm_source=generator"
}
