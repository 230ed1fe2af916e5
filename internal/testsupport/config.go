// Package testsupport provides fixtures shared across package tests:
// preconfigured configs, artifact trees, and record builders.
package testsupport

import (
	"path/filepath"
	"testing"

	"adujour/internal/config"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per
// test. It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	repo := t.TempDir()
	cfg := config.Default()
	cfg.Paths.RepoDir = repo
	cfg.Paths.ArtifactDir = filepath.Join(repo, "build")
	cfg.Paths.StateDir = t.TempDir()
	cfg.Paths.LogDir = filepath.Join(cfg.Paths.StateDir, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithCSVSource points the sheet source at a local CSV file.
func WithCSVSource(path string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Sheet.CSVPath = path
		cfg.Sheet.SpreadsheetID = ""
	}
}

// WithStrategy selects the isolation strategy token.
func WithStrategy(strategy string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Deploy.Strategy = strategy
	}
}
