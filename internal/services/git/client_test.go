package git_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"adujour/internal/services/git"
)

// scriptedExecutor returns canned results keyed by the first matching
// argument prefix, recording every invocation.
type scriptedExecutor struct {
	results map[string]execResult
	calls   [][]string
}

type execResult struct {
	stdout string
	stderr string
	err    error
}

func (s *scriptedExecutor) Run(ctx context.Context, dir string, args []string) (string, string, error) {
	s.calls = append(s.calls, append([]string(nil), args...))
	key := strings.Join(args, " ")
	for prefix, res := range s.results {
		if strings.HasPrefix(key, prefix) {
			return res.stdout, res.stderr, res.err
		}
	}
	return "", "", nil
}

func newClient(t *testing.T, exec git.Executor) *git.Client {
	t.Helper()
	client, err := git.New("git", t.TempDir(), git.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNewValidation(t *testing.T) {
	if _, err := git.New("", "/repo"); err == nil {
		t.Fatal("expected error for empty binary")
	}
	if _, err := git.New("git", "  "); err == nil {
		t.Fatal("expected error for empty repo dir")
	}
}

func TestCurrentBranchTrimsOutput(t *testing.T) {
	exec := &scriptedExecutor{results: map[string]execResult{
		"rev-parse --abbrev-ref HEAD": {stdout: "main\n"},
	}}
	branch, err := newClient(t, exec).CurrentBranch(context.Background())
	if err != nil {
		t.Fatalf("CurrentBranch: %v", err)
	}
	if branch != "main" {
		t.Fatalf("branch = %q", branch)
	}
}

func TestBranchExists(t *testing.T) {
	exec := &scriptedExecutor{results: map[string]execResult{
		"rev-parse --verify --quiet refs/heads/gh-pages": {err: errors.New("exit status 1")},
	}}
	client := newClient(t, exec)

	ok, err := client.BranchExists(context.Background(), "gh-pages")
	if err != nil {
		t.Fatalf("BranchExists: %v", err)
	}
	if ok {
		t.Fatal("expected missing branch")
	}

	ok, err = client.BranchExists(context.Background(), "main")
	if err != nil {
		t.Fatalf("BranchExists: %v", err)
	}
	if !ok {
		t.Fatal("expected existing branch")
	}
}

func TestBranchExistsPropagatesRealFailures(t *testing.T) {
	exec := &scriptedExecutor{results: map[string]execResult{
		"rev-parse": {stderr: "fatal: not a git repository", err: errors.New("exit status 128")},
	}}
	if _, err := newClient(t, exec).BranchExists(context.Background(), "main"); err == nil {
		t.Fatal("expected error when stderr is present")
	}
}

func TestCommitNothingToCommitIsNoOp(t *testing.T) {
	exec := &scriptedExecutor{results: map[string]execResult{
		"commit": {stdout: "nothing to commit, working tree clean", err: errors.New("exit status 1")},
	}}
	committed, err := newClient(t, exec).Commit(context.Background(), "update site")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if committed {
		t.Fatal("expected no commit")
	}
}

func TestCommitFailurePropagates(t *testing.T) {
	exec := &scriptedExecutor{results: map[string]execResult{
		"commit": {stderr: "fatal: empty ident name", err: errors.New("exit status 128")},
	}}
	if _, err := newClient(t, exec).Commit(context.Background(), "update site"); err == nil {
		t.Fatal("expected commit error")
	}
}

func TestPushModes(t *testing.T) {
	exec := &scriptedExecutor{}
	client := newClient(t, exec)
	ctx := context.Background()

	for _, mode := range []git.PushMode{git.PushStandard, git.PushForceWithLease, git.PushForce} {
		if err := client.Push(ctx, "origin", "gh-pages", mode); err != nil {
			t.Fatalf("Push %v: %v", mode, err)
		}
	}

	want := [][]string{
		{"push", "origin", "gh-pages"},
		{"push", "--force-with-lease", "origin", "gh-pages"},
		{"push", "--force", "origin", "gh-pages"},
	}
	if len(exec.calls) != len(want) {
		t.Fatalf("calls = %v", exec.calls)
	}
	for i, args := range want {
		if strings.Join(exec.calls[i], " ") != strings.Join(args, " ") {
			t.Fatalf("call %d = %v, want %v", i, exec.calls[i], args)
		}
	}
}

func TestIsRejectedPush(t *testing.T) {
	exec := &scriptedExecutor{results: map[string]execResult{
		"push": {stderr: "! [rejected] gh-pages -> gh-pages (fetch first)", err: errors.New("exit status 1")},
	}}
	err := newClient(t, exec).Push(context.Background(), "origin", "gh-pages", git.PushStandard)
	if err == nil {
		t.Fatal("expected push error")
	}
	if !git.IsRejectedPush(err) {
		t.Fatalf("expected rejection classification for %v", err)
	}
	if git.IsRejectedPush(errors.New("network down")) {
		t.Fatal("plain errors are not rejections")
	}
}

func TestCommandErrorIncludesStderr(t *testing.T) {
	exec := &scriptedExecutor{results: map[string]execResult{
		"checkout": {stderr: "error: pathspec 'nope' did not match", err: errors.New("exit status 1")},
	}}
	err := newClient(t, exec).Checkout(context.Background(), "nope")
	if err == nil {
		t.Fatal("expected checkout error")
	}
	if !strings.Contains(err.Error(), "pathspec") {
		t.Fatalf("expected stderr in message, got %v", err)
	}
	if git.StderrOf(err) == "" {
		t.Fatal("expected StderrOf to surface stderr")
	}
}

func TestListTree(t *testing.T) {
	exec := &scriptedExecutor{results: map[string]execResult{
		"ls-tree": {stdout: "index.html\nstyles.css\nassets/cover.jpeg\n"},
	}}
	paths, err := newClient(t, exec).ListTree(context.Background(), "gh-pages")
	if err != nil {
		t.Fatalf("ListTree: %v", err)
	}
	if len(paths) != 3 || paths[2] != "assets/cover.jpeg" {
		t.Fatalf("paths = %v", paths)
	}
}

func TestCommitTreeArgs(t *testing.T) {
	exec := &scriptedExecutor{results: map[string]execResult{
		"commit-tree": {stdout: "deadbeef\n"},
	}}
	client := newClient(t, exec)
	id, err := client.CommitTree(context.Background(), "cafe", "deploy", "parent1")
	if err != nil {
		t.Fatalf("CommitTree: %v", err)
	}
	if id != "deadbeef" {
		t.Fatalf("id = %q", id)
	}
	got := strings.Join(exec.calls[0], " ")
	if got != "commit-tree cafe -m deploy -p parent1" {
		t.Fatalf("args = %q", got)
	}
}
