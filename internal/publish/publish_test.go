package publish_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"adujour/internal/isolate"
	"adujour/internal/publish"
	"adujour/internal/services/git"
)

var rejection = "! [rejected] gh-pages -> gh-pages (non-fast-forward)"

// sequencedGit replays canned results per command prefix, consuming
// them in order so a retry can succeed after a rejection.
type sequencedGit struct {
	results map[string][]seqResult
	calls   []string
}

type seqResult struct {
	stdout string
	stderr string
	err    error
}

func (s *sequencedGit) Run(ctx context.Context, dir string, args []string) (string, string, error) {
	key := strings.Join(args, " ")
	s.calls = append(s.calls, key)
	for prefix := range s.results {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		queue := s.results[prefix]
		if len(queue) == 0 {
			return "", "", nil
		}
		head := queue[0]
		s.results[prefix] = queue[1:]
		return head.stdout, head.stderr, head.err
	}
	return "", "", nil
}

func newPublisher(t *testing.T, exec git.Executor) *publish.Publisher {
	t.Helper()
	client, err := git.New("git", t.TempDir(), git.WithExecutor(exec))
	if err != nil {
		t.Fatal(err)
	}
	pub, err := publish.New(client)
	if err != nil {
		t.Fatal(err)
	}
	return pub
}

func mutatedTree() *isolate.Tree {
	return &isolate.Tree{Strategy: isolate.Orphan, Branch: "gh-pages", Mutated: true}
}

func subtreeTree() *isolate.Tree {
	return &isolate.Tree{Strategy: isolate.Subtree, Branch: "gh-pages", Commit: "commitid"}
}

func TestPublishFirstAttemptSucceeds(t *testing.T) {
	exec := &sequencedGit{results: map[string][]seqResult{}}
	outcome, err := newPublisher(t, exec).Publish(context.Background(), mutatedTree(), "origin")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if outcome.Level != publish.LevelStandard || len(outcome.Attempts) != 1 {
		t.Fatalf("outcome = %+v", outcome)
	}
	if !outcome.Committed {
		t.Fatal("expected commit on mutated tree")
	}
	if outcome.NoOp {
		t.Fatal("committed run is not a no-op")
	}
}

func TestPublishNothingToCommitIsNoOp(t *testing.T) {
	exec := &sequencedGit{results: map[string][]seqResult{
		"commit": {{stdout: "nothing to commit, working tree clean", err: errors.New("exit status 1")}},
	}}
	outcome, err := newPublisher(t, exec).Publish(context.Background(), mutatedTree(), "origin")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if outcome.Committed {
		t.Fatal("expected no commit")
	}
	if !outcome.NoOp {
		t.Fatal("expected no-op outcome")
	}
}

// A subtree isolation that derived no new commit publishes as a no-op:
// nothing is committed and the standard push suffices.
func TestPublishUnchangedSubtreeIsNoOp(t *testing.T) {
	exec := &sequencedGit{results: map[string][]seqResult{}}
	tree := &isolate.Tree{Strategy: isolate.Subtree, Branch: "gh-pages"}
	outcome, err := newPublisher(t, exec).Publish(context.Background(), tree, "origin")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if outcome.Committed {
		t.Fatal("expected no commit for unchanged tree")
	}
	if !outcome.NoOp {
		t.Fatalf("outcome = %+v", outcome)
	}
	for _, call := range exec.calls {
		if strings.HasPrefix(call, "commit") {
			t.Fatalf("no commit expected, calls: %v", exec.calls)
		}
	}
}

func TestPublishEscalatesThroughLadder(t *testing.T) {
	exec := &sequencedGit{results: map[string][]seqResult{
		"push origin gh-pages": {
			{stderr: rejection, err: errors.New("exit status 1")},
			{stderr: rejection, err: errors.New("exit status 1")},
		},
		"push --force-with-lease": {
			{stderr: "! [rejected] (stale info)", err: errors.New("exit status 1")},
		},
	}}
	outcome, err := newPublisher(t, exec).Publish(context.Background(), mutatedTree(), "origin")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if outcome.Level != publish.LevelForce {
		t.Fatalf("expected force level, got %v (%s)", outcome.Level, outcome.AttemptLog())
	}
	if len(outcome.Attempts) != 4 {
		t.Fatalf("attempts = %+v", outcome.Attempts)
	}
	joined := strings.Join(exec.calls, "\n")
	for _, want := range []string{"fetch origin gh-pages", "merge --strategy-option=ours --no-edit origin/gh-pages", "push --force origin gh-pages"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected call %q, got:\n%s", want, joined)
		}
	}
}

func TestPublishSubtreeSkipsMergeRung(t *testing.T) {
	exec := &sequencedGit{results: map[string][]seqResult{
		"push origin gh-pages": {
			{stderr: rejection, err: errors.New("exit status 1")},
		},
	}}
	outcome, err := newPublisher(t, exec).Publish(context.Background(), subtreeTree(), "origin")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if outcome.Level != publish.LevelForceWithLease {
		t.Fatalf("expected lease level, got %v", outcome.Level)
	}
	for _, call := range exec.calls {
		if strings.HasPrefix(call, "fetch") || strings.HasPrefix(call, "merge") {
			t.Fatalf("subtree publish must not fetch or merge, calls: %v", exec.calls)
		}
	}
}

func TestPublishNonRejectionFailureIsFatal(t *testing.T) {
	exec := &sequencedGit{results: map[string][]seqResult{
		"push origin gh-pages": {
			{stderr: "fatal: unable to access remote", err: errors.New("exit status 128")},
		},
	}}
	outcome, err := newPublisher(t, exec).Publish(context.Background(), mutatedTree(), "origin")
	if err == nil {
		t.Fatal("expected fatal publish error")
	}
	if len(outcome.Attempts) != 1 {
		t.Fatalf("expected no escalation, attempts: %+v", outcome.Attempts)
	}
}

func TestPublishSourceNeverForces(t *testing.T) {
	exec := &sequencedGit{results: map[string][]seqResult{
		"push origin main": {
			{stderr: rejection, err: errors.New("exit status 1")},
			{stderr: rejection, err: errors.New("exit status 1")},
		},
	}}
	pub := newPublisher(t, exec)
	_, err := pub.PublishSource(context.Background(), "origin", "main", "build", "Update music data")
	if err == nil {
		t.Fatal("expected error when merge retry also fails")
	}
	for _, call := range exec.calls {
		if strings.Contains(call, "--force") {
			t.Fatalf("source branch must never be force-pushed, calls: %v", exec.calls)
		}
	}
}

func TestPublishSourceMergeRetrySucceeds(t *testing.T) {
	exec := &sequencedGit{results: map[string][]seqResult{
		"push origin main": {
			{stderr: rejection, err: errors.New("exit status 1")},
			{},
		},
	}}
	outcome, err := newPublisher(t, exec).PublishSource(context.Background(), "origin", "main", "build", "Update music data")
	if err != nil {
		t.Fatalf("PublishSource: %v", err)
	}
	if outcome.Level != publish.LevelFetchMerge {
		t.Fatalf("outcome = %+v", outcome)
	}
}
