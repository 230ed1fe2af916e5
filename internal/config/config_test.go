package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"adujour/internal/config"
)

func TestLoadDefaultsUseEnvSpreadsheetIDAndExpandPaths(t *testing.T) {
	t.Setenv("ADUJOUR_SPREADSHEET_ID", "sheet-123")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.Sheet.SpreadsheetID != "sheet-123" {
		t.Fatalf("expected spreadsheet ID from env, got %q", cfg.Sheet.SpreadsheetID)
	}
	wantState := filepath.Join(tempHome, ".local", "share", "adujour")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if !filepath.IsAbs(cfg.Paths.ArtifactDir) {
		t.Fatalf("expected absolute artifact dir, got %q", cfg.Paths.ArtifactDir)
	}
	if cfg.Deploy.Remote != "origin" {
		t.Fatalf("unexpected remote: %q", cfg.Deploy.Remote)
	}
	if cfg.Deploy.Branch != "gh-pages" {
		t.Fatalf("unexpected deploy branch: %q", cfg.Deploy.Branch)
	}
	if cfg.Deploy.Strategy != "subtree" {
		t.Fatalf("expected subtree default strategy, got %q", cfg.Deploy.Strategy)
	}
	if len(cfg.Deploy.Whitelist) == 0 || cfg.Deploy.Whitelist[0] != "index.html" {
		t.Fatalf("unexpected whitelist: %v", cfg.Deploy.Whitelist)
	}
	if cfg.Logging.Format != "auto" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}
}

func TestLoadParsesFileAndValidatesStrategy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := strings.Join([]string{
		`[sheet]`,
		`spreadsheet_id = "abc"`,
		`[deploy]`,
		`strategy = "rebase"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "deploy.strategy") {
		t.Fatalf("expected strategy validation error, got %v", err)
	}
}

func TestLoadRejectsMissingSource(t *testing.T) {
	t.Setenv("ADUJOUR_SPREADSHEET_ID", "")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	// Run from an empty directory so no project-level adujour.toml is found.
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(tempHome); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	_, _, _, err = config.Load("")
	if err == nil || !strings.Contains(err.Error(), "spreadsheet_id") {
		t.Fatalf("expected spreadsheet validation error, got %v", err)
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[deploy]") {
		t.Fatalf("sample config missing deploy section")
	}
}

func TestNormalizeRelativePathsAnchorToRepo(t *testing.T) {
	dir := t.TempDir()
	repo := filepath.Join(dir, "repo")
	if err := os.MkdirAll(repo, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "config.toml")
	body := strings.Join([]string{
		`[paths]`,
		`repo_dir = "` + repo + `"`,
		`artifact_dir = "public"`,
		`credentials_path = "secrets/sa.json"`,
		`[sheet]`,
		`spreadsheet_id = "abc"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Paths.ArtifactDir != filepath.Join(repo, "public") {
		t.Fatalf("artifact dir not anchored to repo: %q", cfg.Paths.ArtifactDir)
	}
	if cfg.Paths.CredentialsPath != filepath.Join(repo, "secrets", "sa.json") {
		t.Fatalf("credentials path not anchored to repo: %q", cfg.Paths.CredentialsPath)
	}
}
