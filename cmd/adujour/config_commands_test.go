package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigInitWritesSample(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")

	out, err := runCLI(t, []string{"config", "init", "--path", target})
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// A second init without --overwrite refuses to clobber.
	if _, err := runCLI(t, []string{"config", "init", "--path", target}); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigValidateWithExplicitFile(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")
	contents := "[paths]\nrepo_dir = " + tomlQuote(tmp) + "\n\n[sheet]\ncsv_path = " + tomlQuote(filepath.Join(tmp, "albums.csv")) + "\n"
	if err := os.WriteFile(target, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, []string{"config", "validate", "--config", target})
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "is valid")
	requireContains(t, out, "gh-pages")
}

func TestConfigShowRendersTOML(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")
	contents := "[paths]\nrepo_dir = " + tomlQuote(tmp) + "\n\n[sheet]\ncsv_path = " + tomlQuote(filepath.Join(tmp, "albums.csv")) + "\n\n[deploy]\nbranch = \"pages\"\n"
	if err := os.WriteFile(target, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, []string{"config", "show", "--config", target})
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, target)
	requireContains(t, out, "branch = 'pages'")
	requireContains(t, out, "[deploy]")
}

func tomlQuote(s string) string {
	return "\"" + s + "\""
}
