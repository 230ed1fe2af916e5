// Package site renders the publishable artifact tree from classified albums.
//
// The pipeline only depends on the Builder interface and the EntryFile
// contract; the bundled StaticBuilder is one renderer among possible many. It
// produces the index page, stylesheet, scripts, an optional copied assets
// directory, and a build README, recreating the output directory on every
// run.
package site
