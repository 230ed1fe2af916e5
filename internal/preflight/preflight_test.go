package preflight_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"adujour/internal/config"
	"adujour/internal/preflight"
	"adujour/internal/services/git"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	if res := preflight.CheckDirectoryAccess("dir", dir); !res.Passed {
		t.Fatalf("expected pass, got %+v", res)
	}
	if res := preflight.CheckDirectoryAccess("dir", filepath.Join(dir, "missing")); res.Passed {
		t.Fatalf("expected fail for missing dir, got %+v", res)
	}
	file := filepath.Join(dir, "f")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if res := preflight.CheckDirectoryAccess("dir", file); res.Passed {
		t.Fatalf("expected fail for non-directory, got %+v", res)
	}
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	cred := filepath.Join(dir, "credentials.json")
	if err := os.WriteFile(cred, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	if res := preflight.CheckFile("credential", cred); !res.Passed {
		t.Fatalf("expected pass, got %+v", res)
	}
	if res := preflight.CheckFile("credential", filepath.Join(dir, "nope.json")); res.Passed {
		t.Fatalf("expected fail for missing file, got %+v", res)
	}
	if res := preflight.CheckFile("credential", dir); res.Passed {
		t.Fatalf("expected fail for directory, got %+v", res)
	}
}

func TestRunAllFlagsMissingCredential(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.RepoDir = dir
	cfg.Paths.StateDir = dir
	cfg.Sheet.SpreadsheetID = "sheet-id"
	cfg.Paths.CredentialsPath = filepath.Join(dir, "credentials.json")

	results := preflight.RunAll(context.Background(), &cfg)
	failed := preflight.Failures(results)
	found := false
	for _, r := range failed {
		if r.Name == "Sheets credential" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected credential failure, results: %+v", results)
	}
}

type remoteExecutor struct {
	remotes string
	err     error
}

func (r *remoteExecutor) Run(ctx context.Context, dir string, args []string) (string, string, error) {
	if strings.Join(args, " ") == "remote" {
		return r.remotes, "", r.err
	}
	return "main\n", "", nil
}

func TestCheckRepository(t *testing.T) {
	client, err := git.New("git", t.TempDir(), git.WithExecutor(&remoteExecutor{remotes: "origin\nupstream\n"}))
	if err != nil {
		t.Fatal(err)
	}
	if res := preflight.CheckRepository(context.Background(), client, "origin"); !res.Passed {
		t.Fatalf("expected pass, got %+v", res)
	}
	if res := preflight.CheckRepository(context.Background(), client, "mirror"); res.Passed {
		t.Fatalf("expected fail for unconfigured remote, got %+v", res)
	}

	broken, err := git.New("git", t.TempDir(), git.WithExecutor(&remoteExecutor{err: errors.New("exit status 128")}))
	if err != nil {
		t.Fatal(err)
	}
	if res := preflight.CheckRepository(context.Background(), broken, "origin"); res.Passed {
		t.Fatalf("expected fail on git error, got %+v", res)
	}
}
