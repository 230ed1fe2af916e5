package git

import (
	"context"
	"fmt"
	"strings"
)

// PushMode selects how forcefully a push is attempted.
type PushMode int

const (
	PushStandard PushMode = iota
	PushForceWithLease
	PushForce
)

func (m PushMode) String() string {
	switch m {
	case PushStandard:
		return "standard"
	case PushForceWithLease:
		return "force-with-lease"
	case PushForce:
		return "force"
	default:
		return fmt.Sprintf("PushMode(%d)", int(m))
	}
}

// CurrentBranch returns the checked-out branch name, or "HEAD" when
// detached.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// RevParse resolves ref to a full object ID.
func (c *Client) RevParse(ctx context.Context, ref string) (string, error) {
	out, err := c.run(ctx, "rev-parse", "--verify", ref)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// BranchExists reports whether a local branch with the given name exists.
func (c *Client) BranchExists(ctx context.Context, branch string) (bool, error) {
	_, err := c.run(ctx, "rev-parse", "--verify", "--quiet", "refs/heads/"+branch)
	if err != nil {
		// rev-parse --quiet exits non-zero for unknown refs without
		// writing to stderr; anything with stderr is a real failure.
		if StderrOf(err) == "" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Checkout switches to an existing branch.
func (c *Client) Checkout(ctx context.Context, branch string) error {
	_, err := c.run(ctx, "checkout", branch)
	return err
}

// CheckoutNew creates (or resets) branch at the current HEAD and
// switches to it.
func (c *Client) CheckoutNew(ctx context.Context, branch string) error {
	_, err := c.run(ctx, "checkout", "-B", branch)
	return err
}

// CheckoutForce switches to a branch, discarding local modifications
// that would block the switch. Used by rollback, never by the forward
// path.
func (c *Client) CheckoutForce(ctx context.Context, branch string) error {
	_, err := c.run(ctx, "checkout", "--force", branch)
	return err
}

// CheckoutOrphan switches to a new branch with no history.
func (c *Client) CheckoutOrphan(ctx context.Context, branch string) error {
	_, err := c.run(ctx, "checkout", "--orphan", branch)
	return err
}

// DeleteBranch removes a local branch regardless of merge state.
func (c *Client) DeleteBranch(ctx context.Context, branch string) error {
	_, err := c.run(ctx, "branch", "-D", branch)
	return err
}

// AddAll stages every change in the working tree, including deletions.
func (c *Client) AddAll(ctx context.Context) error {
	_, err := c.run(ctx, "add", "-A")
	return err
}

// AddUpdate stages modifications and deletions of already-tracked
// files, leaving untracked files alone.
func (c *Client) AddUpdate(ctx context.Context) error {
	_, err := c.run(ctx, "add", "-u")
	return err
}

// Add stages the given paths.
func (c *Client) Add(ctx context.Context, paths ...string) error {
	args := append([]string{"add", "--"}, paths...)
	_, err := c.run(ctx, args...)
	return err
}

// RemoveCached unstages paths and removes them from the index only,
// leaving the working tree intact.
func (c *Client) RemoveCached(ctx context.Context, paths ...string) error {
	args := append([]string{"rm", "-r", "--cached", "--ignore-unmatch", "--"}, paths...)
	_, err := c.run(ctx, args...)
	return err
}

// StatusPorcelain returns `git status --porcelain` output.
func (c *Client) StatusPorcelain(ctx context.Context) (string, error) {
	return c.run(ctx, "status", "--porcelain")
}

// HasChanges reports whether the working tree or index differ from HEAD.
func (c *Client) HasChanges(ctx context.Context) (bool, error) {
	out, err := c.StatusPorcelain(ctx)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// Commit records staged changes. It returns false with a nil error when
// there was nothing to commit.
func (c *Client) Commit(ctx context.Context, message string) (bool, error) {
	out, err := c.run(ctx, "commit", "-m", message)
	if err != nil {
		combined := out + "\n" + StderrOf(err)
		if strings.Contains(combined, "nothing to commit") ||
			strings.Contains(combined, "nothing added to commit") {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ResetHard resets the current branch, index, and working tree to ref.
func (c *Client) ResetHard(ctx context.Context, ref string) error {
	_, err := c.run(ctx, "reset", "--hard", ref)
	return err
}

// Fetch updates the remote tracking ref for branch.
func (c *Client) Fetch(ctx context.Context, remote, branch string) error {
	_, err := c.run(ctx, "fetch", remote, branch)
	return err
}

// Merge merges ref into the current branch, preferring our side on
// conflicts so a deploy branch merge cannot stall on content clashes.
func (c *Client) Merge(ctx context.Context, ref string) error {
	_, err := c.run(ctx, "merge", "--strategy-option=ours", "--no-edit", ref)
	return err
}

// Push sends branch to remote with the given mode.
func (c *Client) Push(ctx context.Context, remote, branch string, mode PushMode) error {
	args := []string{"push"}
	switch mode {
	case PushForceWithLease:
		args = append(args, "--force-with-lease")
	case PushForce:
		args = append(args, "--force")
	}
	args = append(args, remote, branch)
	_, err := c.run(ctx, args...)
	return err
}

// HasRemote reports whether the named remote is configured.
func (c *Client) HasRemote(ctx context.Context, remote string) (bool, error) {
	out, err := c.run(ctx, "remote")
	if err != nil {
		return false, err
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == remote {
			return true, nil
		}
	}
	return false, nil
}

// SubtreeOf returns the tree object ID of a subdirectory of ref.
func (c *Client) SubtreeOf(ctx context.Context, ref, subdir string) (string, error) {
	out, err := c.run(ctx, "rev-parse", ref+":"+subdir)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// CommitTree creates a commit object for tree with the given parents
// and returns its ID. No working-tree state is touched.
func (c *Client) CommitTree(ctx context.Context, tree, message string, parents ...string) (string, error) {
	args := []string{"commit-tree", tree, "-m", message}
	for _, p := range parents {
		args = append(args, "-p", p)
	}
	out, err := c.run(ctx, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// UpdateRef points refs/heads/<branch> at commit.
func (c *Client) UpdateRef(ctx context.Context, branch, commit string) error {
	_, err := c.run(ctx, "update-ref", "refs/heads/"+branch, commit)
	return err
}

// WriteTree writes the current index to a tree object and returns its
// ID without creating a commit.
func (c *Client) WriteTree(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "write-tree")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ReadBlob returns the exact contents of path inside the given
// tree-ish. No trimming: blob bytes pass through untouched.
func (c *Client) ReadBlob(ctx context.Context, treeish, path string) (string, error) {
	return c.run(ctx, "cat-file", "blob", treeish+":"+path)
}

// ListTree returns the paths present in ref's tree, recursively.
func (c *Client) ListTree(ctx context.Context, ref string) ([]string, error) {
	out, err := c.run(ctx, "ls-tree", "-r", "--name-only", ref)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			paths = append(paths, line)
		}
	}
	return paths, nil
}

// IsRejectedPush reports whether err looks like a remote rejecting a
// non-fast-forward push.
func IsRejectedPush(err error) bool {
	if err == nil {
		return false
	}
	stderr := StderrOf(err)
	return strings.Contains(stderr, "[rejected]") ||
		strings.Contains(stderr, "non-fast-forward") ||
		strings.Contains(stderr, "fetch first") ||
		strings.Contains(stderr, "stale info")
}
