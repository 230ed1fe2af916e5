package site

import (
	"context"

	"adujour/internal/classify"
)

// EntryFile is the artifact's designated entry file. Its presence is the
// build success signal the pipeline checks before any branch work.
const EntryFile = "index.html"

// Artifact describes one generated, publishable file tree.
type Artifact struct {
	Root  string
	Files []string
}

// Builder produces a publishable artifact from classified albums. The
// pipeline treats the output as opaque beyond the entry file and the
// whitelist walk, so renderers are swappable.
type Builder interface {
	Build(ctx context.Context, result classify.Result) (Artifact, error)
}
