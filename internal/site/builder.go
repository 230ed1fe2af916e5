package site

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"adujour/internal/classify"
	"adujour/internal/config"
	"adujour/internal/fileutil"
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// StaticBuilder renders the default Album du Jour site: an index page with a
// currently-listening hero card and two collapsible recent sections, plus the
// stylesheet, scripts, and optional copied assets.
type StaticBuilder struct {
	outDir     string
	assetsDir  string
	title      string
	subtitle   string
	libraryURL string

	titleCaser cases.Caser
}

// NewStaticBuilder constructs the default builder from configuration.
func NewStaticBuilder(cfg *config.Config) *StaticBuilder {
	return &StaticBuilder{
		outDir:     cfg.Paths.ArtifactDir,
		assetsDir:  cfg.Paths.AssetsDir,
		title:      cfg.Site.Title,
		subtitle:   cfg.Site.Subtitle,
		libraryURL: cfg.Site.LibraryURL,
		titleCaser: cases.Title(language.English),
	}
}

type card struct {
	Title        string
	Artist       string
	AppleLink    string
	SpotifyLink  string
	AppleEmbed   string
	SpotifyEmbed string
	DateLabel    string
	Rating       string
	Status       string
}

type section struct {
	ID      string
	Heading string
	Cards   []card
}

type page struct {
	Title         string
	Subtitle      string
	GeneratedAt   string
	LibraryURL    string
	Current       []card
	Sections      []section
	CurrentCount  int
	AddedCount    int
	FinishedCount int
	TotalCount    int
}

// Build renders the artifact tree. The output directory is recreated from
// scratch each run.
func (b *StaticBuilder) Build(ctx context.Context, result classify.Result) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}
	if err := os.RemoveAll(b.outDir); err != nil {
		return Artifact{}, fmt.Errorf("clear artifact directory: %w", err)
	}
	if err := os.MkdirAll(b.outDir, 0o755); err != nil {
		return Artifact{}, fmt.Errorf("create artifact directory: %w", err)
	}

	var files []string
	write := func(rel string, data []byte) error {
		target := filepath.Join(b.outDir, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", rel, err)
		}
		files = append(files, rel)
		return nil
	}

	index, err := b.renderIndex(result)
	if err != nil {
		return Artifact{}, err
	}
	if err := write(EntryFile, index); err != nil {
		return Artifact{}, err
	}

	for _, name := range []string{"styles.css", "scripts.js"} {
		data, err := staticFS.ReadFile("static/" + name)
		if err != nil {
			return Artifact{}, fmt.Errorf("read embedded %s: %w", name, err)
		}
		if err := write(name, data); err != nil {
			return Artifact{}, err
		}
	}

	if err := write("README.md", b.renderReadme(result)); err != nil {
		return Artifact{}, err
	}

	if b.assetsDir != "" {
		if _, err := os.Stat(b.assetsDir); err == nil {
			assetTarget := filepath.Join(b.outDir, "assets")
			if err := fileutil.CopyTree(b.assetsDir, assetTarget); err != nil {
				return Artifact{}, fmt.Errorf("copy assets: %w", err)
			}
			copied, err := relFiles(assetTarget, b.outDir)
			if err != nil {
				return Artifact{}, err
			}
			files = append(files, copied...)
		}
	}

	sort.Strings(files)
	return Artifact{Root: b.outDir, Files: files}, nil
}

func (b *StaticBuilder) renderIndex(result classify.Result) ([]byte, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}

	data := page{
		Title:       b.title,
		Subtitle:    b.subtitle,
		GeneratedAt: result.GeneratedAt.Format("January 2, 2006 at 3:04 PM"),
		LibraryURL:  b.libraryURL,
		Current:     b.cards(result.Current),
		Sections: []section{
			{ID: "recently-added", Heading: "📀 Recently Added", Cards: b.cards(result.Added)},
			{ID: "recently-finished", Heading: "✅ Recently Finished", Cards: b.cards(result.Finished)},
		},
		CurrentCount:  len(result.Current),
		AddedCount:    len(result.Added),
		FinishedCount: len(result.Finished),
		TotalCount:    result.Total(),
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render index: %w", err)
	}
	return []byte(buf.String()), nil
}

func (b *StaticBuilder) cards(albums []classify.Album) []card {
	out := make([]card, 0, len(albums))
	for _, album := range albums {
		out = append(out, card{
			Title:        b.displayTitle(album.Title),
			Artist:       album.Artist,
			AppleLink:    album.AppleLink,
			SpotifyLink:  album.SpotifyLink,
			AppleEmbed:   AppleEmbedURL(album.AppleLink),
			SpotifyEmbed: SpotifyEmbedURL(album.SpotifyLink),
			DateLabel:    dateLabel(album),
			Rating:       album.Rating,
			Status:       strings.ToLower(album.Status),
		})
	}
	return out
}

// displayTitle tames ALL-CAPS entries that arrive from store-page paste.
func (b *StaticBuilder) displayTitle(title string) string {
	hasLetter := strings.IndexFunc(title, unicode.IsLetter) >= 0
	if hasLetter && title == strings.ToUpper(title) {
		return b.titleCaser.String(strings.ToLower(title))
	}
	return title
}

func dateLabel(album classify.Album) string {
	switch {
	case !album.DateFinished.IsZero():
		return "Finished: " + album.DateFinished.Format("Jan 2, 2006")
	case !album.DateAdded.IsZero():
		return "Added: " + album.DateAdded.Format("Jan 2, 2006")
	default:
		return ""
	}
}

func (b *StaticBuilder) renderReadme(result classify.Result) []byte {
	var sb strings.Builder
	sb.WriteString("# " + b.title + " - Build Files\n\n")
	sb.WriteString("Generated static site files. Do not edit by hand; every run overwrites this directory.\n\n")
	fmt.Fprintf(&sb, "- Currently Listening: %d\n", len(result.Current))
	fmt.Fprintf(&sb, "- Recently Added: %d\n", len(result.Added))
	fmt.Fprintf(&sb, "- Recently Finished: %d\n", len(result.Finished))
	fmt.Fprintf(&sb, "\nGenerated on %s\n", result.GeneratedAt.Format(time.RFC3339))
	return []byte(sb.String())
}

func relFiles(dir, base string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		out = append(out, rel)
		return nil
	})
	return out, err
}
