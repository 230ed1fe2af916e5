package isolate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"adujour/internal/backup"
	"adujour/internal/fileutil"
	"adujour/internal/services/git"
	"adujour/internal/site"
)

// Tree describes the isolated deploy branch produced by a run.
type Tree struct {
	// Strategy that produced the tree.
	Strategy Strategy
	// Branch is the local deploy branch name.
	Branch string
	// CandidateDir holds the exact file contents of the git tree that
	// will be published. Security verification runs against this
	// directory; it is read back from git, never from the artifact or
	// the backup, so whatever a strategy staged or derived is what gets
	// scanned.
	CandidateDir string
	// Commit is set when Subtree derived a new commit and moved the
	// local branch ref to it. It stays empty when the branch already
	// carried the same tree.
	Commit string
	// Mutated reports whether the repository working tree was touched
	// and therefore needs restoring on abort.
	Mutated bool
	// Staged lists the whitelist paths copied into the working tree,
	// so a failed run can remove them again.
	Staged []string
}

// NeedsCommit reports whether staged changes still have to be committed
// before the branch can be pushed.
func (t *Tree) NeedsCommit() bool { return t.Strategy != Subtree }

// Isolator materializes a credential-free deploy branch from a backed-up
// build artifact.
type Isolator struct {
	git         *git.Client
	whitelist   []string
	keepMarkers []string
	artifactRel string
	scratchDir  string
}

// New builds an Isolator. artifactRel is the artifact directory's path
// relative to the repository root (used by the subtree strategy);
// scratchDir receives candidate trees and is caller-owned.
func New(gitClient *git.Client, whitelist, keepMarkers []string, artifactRel, scratchDir string) (*Isolator, error) {
	if gitClient == nil {
		return nil, fmt.Errorf("git client required")
	}
	if len(whitelist) == 0 {
		return nil, fmt.Errorf("deploy whitelist is empty")
	}
	return &Isolator{
		git:         gitClient,
		whitelist:   append([]string(nil), whitelist...),
		keepMarkers: append([]string(nil), keepMarkers...),
		artifactRel: filepath.ToSlash(artifactRel),
		scratchDir:  scratchDir,
	}, nil
}

// Isolate derives the deploy branch tree from the snapshot using the
// given strategy. Whatever the strategy, the returned candidate
// directory mirrors the git tree destined for the branch and must pass
// security verification before anything is pushed.
func (iso *Isolator) Isolate(ctx context.Context, h *backup.Handle, strategy Strategy, targetBranch string) (*Tree, error) {
	if h == nil {
		return nil, fmt.Errorf("backup snapshot required before isolation")
	}
	if strings.TrimSpace(targetBranch) == "" {
		return nil, fmt.Errorf("target branch required")
	}

	tree := &Tree{Strategy: strategy, Branch: targetBranch}
	var err error
	switch strategy {
	case Subtree:
		err = iso.subtree(ctx, tree)
	case Orphan:
		err = iso.orphan(ctx, tree, h)
	case WhitelistPrune:
		err = iso.prune(ctx, tree, h)
	case WipeExceptMarkers:
		err = iso.wipe(ctx, tree, h)
	default:
		err = fmt.Errorf("unknown isolation strategy %v", strategy)
	}
	if err != nil {
		return tree, err
	}
	return tree, nil
}

// subtree derives the deploy ref from the committed artifact
// subdirectory of HEAD, without touching the working tree. When the
// branch already points at the same tree, no commit is created and no
// ref moves: a re-run of unchanged input is a no-op.
func (iso *Isolator) subtree(ctx context.Context, tree *Tree) error {
	if iso.artifactRel == "" || iso.artifactRel == "." {
		return fmt.Errorf("subtree strategy requires the artifact in a repository subdirectory")
	}
	treeID, err := iso.git.SubtreeOf(ctx, "HEAD", iso.artifactRel)
	if err != nil {
		return fmt.Errorf("artifact subdirectory %s not committed on source branch: %w", iso.artifactRel, err)
	}

	var parents []string
	exists, err := iso.git.BranchExists(ctx, tree.Branch)
	if err != nil {
		return err
	}
	if exists {
		branchTree, err := iso.git.RevParse(ctx, "refs/heads/"+tree.Branch+"^{tree}")
		if err != nil {
			return err
		}
		if branchTree == treeID {
			return iso.materializeCandidate(ctx, tree, treeID)
		}
		parent, err := iso.git.RevParse(ctx, "refs/heads/"+tree.Branch)
		if err != nil {
			return err
		}
		parents = append(parents, parent)
	}

	if err := iso.materializeCandidate(ctx, tree, treeID); err != nil {
		return err
	}
	commit, err := iso.git.CommitTree(ctx, treeID, deployMessage(), parents...)
	if err != nil {
		return err
	}
	if err := iso.git.UpdateRef(ctx, tree.Branch, commit); err != nil {
		return err
	}
	tree.Commit = commit
	return nil
}

// orphan rebuilds the deploy branch with no history.
func (iso *Isolator) orphan(ctx context.Context, tree *Tree, h *backup.Handle) error {
	tracked, err := iso.git.ListTree(ctx, "HEAD")
	if err != nil {
		return err
	}
	exists, err := iso.git.BranchExists(ctx, tree.Branch)
	if err != nil {
		return err
	}
	if exists {
		if err := iso.git.DeleteBranch(ctx, tree.Branch); err != nil {
			return err
		}
	}
	if err := iso.git.CheckoutOrphan(ctx, tree.Branch); err != nil {
		return err
	}
	tree.Mutated = true
	if err := iso.git.RemoveCached(ctx, "."); err != nil {
		return err
	}
	// Only files git was tracking are removed; untracked files such as
	// credentials stay on disk and are never staged.
	if err := iso.removeFromWorktree(tracked, nil); err != nil {
		return err
	}
	return iso.populate(ctx, tree, h)
}

// prune removes the previous whitelist paths from the existing deploy
// branch and copies in the new ones.
func (iso *Isolator) prune(ctx context.Context, tree *Tree, h *backup.Handle) error {
	done, err := iso.checkoutDeployBranch(ctx, tree, h)
	if err != nil || done {
		return err
	}
	for _, rel := range iso.whitelist {
		if err := os.RemoveAll(filepath.Join(iso.git.Dir(), filepath.FromSlash(rel))); err != nil {
			return fmt.Errorf("prune %s: %w", rel, err)
		}
	}
	if err := iso.git.AddUpdate(ctx); err != nil {
		return err
	}
	return iso.populate(ctx, tree, h)
}

// wipe removes every tracked path except the keep markers, then
// repopulates.
func (iso *Isolator) wipe(ctx context.Context, tree *Tree, h *backup.Handle) error {
	done, err := iso.checkoutDeployBranch(ctx, tree, h)
	if err != nil || done {
		return err
	}
	tracked, err := iso.git.ListTree(ctx, "HEAD")
	if err != nil {
		return err
	}
	if err := iso.removeFromWorktree(tracked, iso.keepMarkers); err != nil {
		return err
	}
	if err := iso.git.AddUpdate(ctx); err != nil {
		return err
	}
	return iso.populate(ctx, tree, h)
}

// checkoutDeployBranch switches to the deploy branch, falling back to
// the full orphan flow when the branch does not exist yet so no source
// history or files leak into it. done reports that the fallback already
// populated and staged the branch.
func (iso *Isolator) checkoutDeployBranch(ctx context.Context, tree *Tree, h *backup.Handle) (done bool, err error) {
	exists, err := iso.git.BranchExists(ctx, tree.Branch)
	if err != nil {
		return false, err
	}
	if !exists {
		return true, iso.orphan(ctx, tree, h)
	}
	if err := iso.git.Checkout(ctx, tree.Branch); err != nil {
		return false, err
	}
	tree.Mutated = true
	return false, nil
}

// populate copies the whitelisted snapshot paths into the repository
// root, stages exactly those paths, then reads the resulting index tree
// back out of git as the verification candidate.
func (iso *Isolator) populate(ctx context.Context, tree *Tree, h *backup.Handle) error {
	var staged []string
	for _, rel := range iso.whitelist {
		src := filepath.Join(h.Dir, filepath.FromSlash(rel))
		info, err := os.Stat(src)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return err
		}
		dst := filepath.Join(iso.git.Dir(), filepath.FromSlash(rel))
		if info.IsDir() {
			err = fileutil.CopyTree(src, dst)
		} else {
			err = fileutil.CopyFileVerified(src, dst)
		}
		if err != nil {
			return fmt.Errorf("populate %s: %w", rel, err)
		}
		staged = append(staged, rel)
	}
	if len(staged) == 0 {
		return fmt.Errorf("nothing to stage on %s", tree.Branch)
	}
	tree.Staged = staged
	if err := iso.git.Add(ctx, staged...); err != nil {
		return err
	}

	treeID, err := iso.git.WriteTree(ctx)
	if err != nil {
		return err
	}
	return iso.materializeCandidate(ctx, tree, treeID)
}

// materializeCandidate writes every blob of treeID into a fresh scratch
// directory. The scan that follows sees exactly what git will publish.
func (iso *Isolator) materializeCandidate(ctx context.Context, tree *Tree, treeID string) error {
	paths, err := iso.git.ListTree(ctx, treeID)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("derived tree %s is empty", treeID)
	}

	candidate := filepath.Join(iso.scratchDir, "candidate-"+uuid.New().String())
	if err := os.MkdirAll(candidate, 0o755); err != nil {
		return fmt.Errorf("create candidate dir: %w", err)
	}
	for _, rel := range paths {
		contents, err := iso.git.ReadBlob(ctx, treeID, rel)
		if err != nil {
			return fmt.Errorf("read %s from tree %s: %w", rel, treeID, err)
		}
		dst := filepath.Join(candidate, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, []byte(contents), 0o644); err != nil {
			return err
		}
	}
	if _, err := os.Stat(filepath.Join(candidate, site.EntryFile)); err != nil {
		return fmt.Errorf("candidate tree missing %s: %w", site.EntryFile, err)
	}
	tree.CandidateDir = candidate
	return nil
}

func (iso *Isolator) removeFromWorktree(tracked, keep []string) error {
	keepSet := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		keepSet[filepath.ToSlash(k)] = struct{}{}
	}
	for _, rel := range tracked {
		if _, ok := keepSet[filepath.ToSlash(rel)]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(iso.git.Dir(), filepath.FromSlash(rel))); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove tracked file %s: %w", rel, err)
		}
	}
	return nil
}

func deployMessage() string {
	return "Deploy site"
}
