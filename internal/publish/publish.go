package publish

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"adujour/internal/isolate"
	"adujour/internal/services/git"
)

// Level identifies one rung of the push escalation ladder.
type Level int

const (
	LevelStandard Level = iota
	LevelFetchMerge
	LevelForceWithLease
	LevelForce
)

func (l Level) String() string {
	switch l {
	case LevelStandard:
		return "standard"
	case LevelFetchMerge:
		return "fetch+merge"
	case LevelForceWithLease:
		return "force-with-lease"
	case LevelForce:
		return "force"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Attempt records one push attempt and how it ended.
type Attempt struct {
	Level Level
	Err   error
}

// Outcome summarizes a publish: what was committed, whether anything
// actually changed, and the full attempt log.
type Outcome struct {
	Branch    string
	Remote    string
	Committed bool
	NoOp      bool
	Level     Level
	Attempts  []Attempt
}

// AttemptLog renders the attempt history for error reports.
func (o *Outcome) AttemptLog() string {
	var sb strings.Builder
	for i, a := range o.Attempts {
		if i > 0 {
			sb.WriteString("; ")
		}
		if a.Err == nil {
			fmt.Fprintf(&sb, "%s: ok", a.Level)
		} else {
			fmt.Fprintf(&sb, "%s: %v", a.Level, a.Err)
		}
	}
	return sb.String()
}

// Publisher pushes deploy and source branches with layered fallbacks.
type Publisher struct {
	git *git.Client
}

func New(gitClient *git.Client) (*Publisher, error) {
	if gitClient == nil {
		return nil, fmt.Errorf("git client required")
	}
	return &Publisher{git: gitClient}, nil
}

// CommitDeploy records the staged deploy tree for strategies that work
// in the checkout; it must run while the deploy branch is still checked
// out. For subtree it only reports whether isolation derived a new
// commit. The returned flag feeds Push so an unchanged tree surfaces as
// a no-op.
func (p *Publisher) CommitDeploy(ctx context.Context, tree *isolate.Tree) (bool, error) {
	if tree == nil {
		return false, fmt.Errorf("isolated tree required")
	}
	if tree.NeedsCommit() {
		committed, err := p.git.Commit(ctx, "Deploy site")
		if err != nil {
			return false, fmt.Errorf("commit deploy branch: %w", err)
		}
		return committed, nil
	}
	return tree.Commit != "", nil
}

// Publish commits the isolated tree if needed and pushes its branch.
func (p *Publisher) Publish(ctx context.Context, tree *isolate.Tree, remote string) (*Outcome, error) {
	if tree == nil {
		return nil, fmt.Errorf("isolated tree required")
	}
	committed, err := p.CommitDeploy(ctx, tree)
	if err != nil {
		return &Outcome{Branch: tree.Branch, Remote: remote}, err
	}
	return p.Push(ctx, tree, remote, committed)
}

// Push sends the deploy branch to the remote, escalating through the
// ladder: standard push, fetch+merge+retry, force-with-lease, force.
// Escalation only happens on remote rejections; any other failure is
// fatal at the rung it occurred.
func (p *Publisher) Push(ctx context.Context, tree *isolate.Tree, remote string, committed bool) (*Outcome, error) {
	if tree == nil {
		return nil, fmt.Errorf("isolated tree required")
	}
	outcome := &Outcome{Branch: tree.Branch, Remote: remote, Committed: committed}

	rungs := []Level{LevelStandard, LevelFetchMerge, LevelForceWithLease, LevelForce}
	for _, level := range rungs {
		err := p.attempt(ctx, tree, remote, level)
		if errors.Is(err, errSkipRung) {
			continue
		}
		outcome.Attempts = append(outcome.Attempts, Attempt{Level: level, Err: err})
		if err == nil {
			outcome.Level = level
			outcome.NoOp = !outcome.Committed && level == LevelStandard
			return outcome, nil
		}
		if !git.IsRejectedPush(err) {
			return outcome, fmt.Errorf("push %s to %s (%s): %w", tree.Branch, remote, level, err)
		}
	}
	return outcome, fmt.Errorf("push %s to %s exhausted all levels: %s", tree.Branch, remote, outcome.AttemptLog())
}

func (p *Publisher) attempt(ctx context.Context, tree *isolate.Tree, remote string, level Level) error {
	switch level {
	case LevelStandard:
		return p.git.Push(ctx, remote, tree.Branch, git.PushStandard)
	case LevelFetchMerge:
		// Merging needs the branch checked out; subtree trees skip
		// straight to the lease rung.
		if !tree.Mutated {
			return errSkipRung
		}
		if err := p.git.Fetch(ctx, remote, tree.Branch); err != nil {
			return err
		}
		if err := p.git.Merge(ctx, remote+"/"+tree.Branch); err != nil {
			return err
		}
		return p.git.Push(ctx, remote, tree.Branch, git.PushStandard)
	case LevelForceWithLease:
		return p.git.Push(ctx, remote, tree.Branch, git.PushForceWithLease)
	case LevelForce:
		return p.git.Push(ctx, remote, tree.Branch, git.PushForce)
	default:
		return fmt.Errorf("unknown push level %v", level)
	}
}

// PublishSource stages the artifact directory on the current source
// branch, commits, and pushes. The source branch is never force-pushed;
// on rejection the publisher fetches, merges, and retries once.
func (p *Publisher) PublishSource(ctx context.Context, remote, branch, artifactRel, message string) (*Outcome, error) {
	outcome := &Outcome{Branch: branch, Remote: remote}

	if err := p.git.Add(ctx, artifactRel); err != nil {
		return outcome, fmt.Errorf("stage artifact: %w", err)
	}
	committed, err := p.git.Commit(ctx, message)
	if err != nil {
		return outcome, fmt.Errorf("commit source branch: %w", err)
	}
	outcome.Committed = committed

	err = p.git.Push(ctx, remote, branch, git.PushStandard)
	outcome.Attempts = append(outcome.Attempts, Attempt{Level: LevelStandard, Err: err})
	if err == nil {
		outcome.NoOp = !committed
		return outcome, nil
	}
	if !git.IsRejectedPush(err) {
		return outcome, fmt.Errorf("push %s to %s: %w", branch, remote, err)
	}

	if err := p.git.Fetch(ctx, remote, branch); err != nil {
		outcome.Attempts = append(outcome.Attempts, Attempt{Level: LevelFetchMerge, Err: err})
		return outcome, fmt.Errorf("fetch %s/%s: %w", remote, branch, err)
	}
	if err := p.git.Merge(ctx, remote+"/"+branch); err != nil {
		outcome.Attempts = append(outcome.Attempts, Attempt{Level: LevelFetchMerge, Err: err})
		return outcome, fmt.Errorf("merge %s/%s: %w", remote, branch, err)
	}
	err = p.git.Push(ctx, remote, branch, git.PushStandard)
	outcome.Attempts = append(outcome.Attempts, Attempt{Level: LevelFetchMerge, Err: err})
	if err != nil {
		return outcome, fmt.Errorf("push %s to %s after merge: %w", branch, remote, err)
	}
	outcome.Level = LevelFetchMerge
	return outcome, nil
}

// errSkipRung marks a ladder rung that cannot apply to the tree; the
// ladder moves on without recording an attempt.
var errSkipRung = errors.New("rung not applicable")
