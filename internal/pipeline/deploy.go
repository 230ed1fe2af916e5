package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"adujour/internal/backup"
	"adujour/internal/isolate"
	"adujour/internal/logging"
	"adujour/internal/preflight"
	"adujour/internal/publish"
	"adujour/internal/secscan"
	"adujour/internal/services"
	"adujour/internal/site"
)

// deployRun carries the mutable state of one deploy so the abort path
// can undo exactly what happened.
type deployRun struct {
	summary *Summary
	logger  *slog.Logger

	strategy isolate.Strategy
	policy   secscan.Policy

	originalBranch string
	originalHead   string

	deployBranchExisted bool
	deployBranchHead    string

	snapshot        *backup.Handle
	tree            *isolate.Tree
	sourceCommitted bool
	restored        bool
}

// Deploy runs the full pipeline against an existing artifact:
// Validating, BackingUp, Isolating, Verifying, Publishing. On any
// failure the working tree and checked-out branch are restored to
// their pre-run state before the error is returned.
func (c *Controller) Deploy(ctx context.Context) (*Summary, error) {
	start := c.now()
	runID := uuid.New().String()
	ctx = services.WithRunID(ctx, runID)

	run := &deployRun{
		summary: &Summary{RunID: runID, ArtifactDir: c.cfg.Paths.ArtifactDir},
		logger:  c.logger.With(logging.String(logging.FieldRunID, runID)),
	}

	if err := c.cfg.EnsureDirectories(); err != nil {
		run.summary.FinalState = StateAborting
		return run.summary, services.Wrap(services.ErrValidation, string(StateValidating), "directories", "", err)
	}

	lock := flock.New(c.cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		run.summary.FinalState = StateAborting
		return run.summary, services.Wrap(services.ErrValidation, string(StateValidating), "lock", "", err)
	}
	if !locked {
		run.summary.FinalState = StateAborting
		return run.summary, services.Wrap(services.ErrValidation, string(StateValidating), "lock",
			"another deploy is already running", nil)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(c.cfg.LockPath())
	}()

	err = c.deploy(ctx, run)
	c.cleanup(run)
	run.summary.Duration = c.now().Sub(start)
	if err != nil {
		return run.summary, err
	}
	run.summary.FinalState = StateDone
	return run.summary, nil
}

// Run executes build then deploy; with buildOnly it stops after the
// artifact is written.
func (c *Controller) Run(ctx context.Context, buildOnly bool) (*Summary, error) {
	buildSummary, err := c.Build(ctx)
	if err != nil || buildOnly {
		return buildSummary, err
	}
	deploySummary, err := c.Deploy(ctx)
	deploySummary.Counts = buildSummary.Counts
	deploySummary.Duration += buildSummary.Duration
	return deploySummary, err
}

func (c *Controller) deploy(ctx context.Context, run *deployRun) error {
	steps := []struct {
		state State
		fn    func(context.Context, *deployRun) error
	}{
		{StateValidating, c.validate},
		{StateBackingUp, c.backUp},
		{StateIsolating, c.isolate},
		{StateVerifying, c.verify},
		{StatePublishing, c.publish},
	}
	for _, step := range steps {
		stepCtx := services.WithState(ctx, string(step.state))
		run.logger.Info("entering state", logging.String(logging.FieldState, string(step.state)))
		if err := step.fn(stepCtx, run); err != nil {
			run.summary.FinalState = StateAborting
			run.summary.AbortedFrom = step.state
			c.abort(ctx, run, err)
			return err
		}
	}
	return nil
}

func (c *Controller) validate(ctx context.Context, run *deployRun) error {
	wrap := func(op, msg string, err error) error {
		return services.Wrap(services.ErrValidation, string(StateValidating), op, msg, err)
	}

	strategy, err := isolate.ParseStrategy(c.cfg.Deploy.Strategy)
	if err != nil {
		return wrap("strategy", "", err)
	}
	run.strategy = strategy
	run.summary.Strategy = strategy

	if strategy == isolate.Subtree && c.artifactRel() == "" {
		return wrap("strategy", "subtree requires the artifact inside the repository", nil)
	}

	if _, err := os.Stat(filepath.Join(c.cfg.Paths.ArtifactDir, site.EntryFile)); err != nil {
		return wrap("artifact", fmt.Sprintf("no %s in %s; run build first", site.EntryFile, c.cfg.Paths.ArtifactDir), nil)
	}

	policy, err := secscan.LoadPolicy(c.cfg.Security.PolicyPath)
	if err != nil {
		return wrap("policy", "", err)
	}
	run.policy = policy

	if res := preflight.CheckRepository(ctx, c.git, c.cfg.Deploy.Remote); !res.Passed {
		return wrap("repository", res.Detail, nil)
	}
	if failed := preflight.Failures(preflight.RunAll(ctx, c.cfg)); len(failed) > 0 {
		details := make([]string, 0, len(failed))
		for _, f := range failed {
			run.summary.PreflightFail = append(run.summary.PreflightFail, f.Name)
			details = append(details, f.Name+": "+f.Detail)
		}
		return wrap("preflight", strings.Join(details, "; "), nil)
	}

	branch, err := c.git.CurrentBranch(ctx)
	if err != nil {
		return wrap("branch", "", err)
	}
	if branch == "HEAD" {
		return wrap("branch", "repository is in detached HEAD state", nil)
	}
	head, err := c.git.RevParse(ctx, "HEAD")
	if err != nil {
		return wrap("branch", "", err)
	}
	run.originalBranch = branch
	run.originalHead = head

	exists, err := c.git.BranchExists(ctx, c.cfg.Deploy.Branch)
	if err != nil {
		return wrap("deploy branch", "", err)
	}
	run.deployBranchExisted = exists
	if exists {
		if run.deployBranchHead, err = c.git.RevParse(ctx, "refs/heads/"+c.cfg.Deploy.Branch); err != nil {
			return wrap("deploy branch", "", err)
		}
	}
	return nil
}

func (c *Controller) backUp(ctx context.Context, run *deployRun) error {
	h, err := c.backups.Snapshot(c.cfg.Paths.ArtifactDir)
	if err != nil {
		return services.Wrap(services.ErrBackup, string(StateBackingUp), "snapshot", "", err)
	}
	run.snapshot = h
	run.summary.BackupID = h.ID
	run.logger.Info("artifact backed up", logging.String("snapshot", h.ID))
	return nil
}

func (c *Controller) isolate(ctx context.Context, run *deployRun) error {
	wrap := func(op string, err error) error {
		return services.Wrap(services.ErrPublish, string(StateIsolating), op, "", err)
	}

	// Subtree derives the deploy ref from committed state, so the
	// artifact has to land on the source branch first.
	if run.strategy == isolate.Subtree {
		if err := c.git.Add(ctx, c.artifactRel()); err != nil {
			return wrap("stage artifact", err)
		}
		committed, err := c.git.Commit(ctx, "Update music data")
		if err != nil {
			return wrap("commit artifact", err)
		}
		run.sourceCommitted = committed
	}

	isolator, err := isolate.New(c.git, c.cfg.Deploy.Whitelist, c.cfg.Deploy.KeepMarkers,
		c.artifactRel(), c.cfg.BackupsDir())
	if err != nil {
		return wrap("isolator", err)
	}
	tree, err := isolator.Isolate(ctx, run.snapshot, run.strategy, c.cfg.Deploy.Branch)
	if tree != nil {
		run.tree = tree
	}
	if err != nil {
		return wrap("isolate", err)
	}
	run.logger.Info("deploy branch isolated",
		logging.String("branch", tree.Branch),
		logging.String("strategy", run.strategy.String()),
	)
	return nil
}

func (c *Controller) verify(ctx context.Context, run *deployRun) error {
	violations, err := secscan.Verify(run.tree.CandidateDir, run.policy)
	if err != nil {
		return services.Wrap(services.ErrSecurity, string(StateVerifying), "scan", "", err)
	}
	if len(violations) > 0 {
		details := make([]string, 0, len(violations))
		for _, v := range violations {
			details = append(details, v.String())
		}
		return services.Wrap(services.ErrSecurity, string(StateVerifying), "scan",
			strings.Join(details, "; "), nil)
	}
	run.logger.Info("candidate tree verified", logging.String("dir", run.tree.CandidateDir))
	return nil
}

func (c *Controller) publish(ctx context.Context, run *deployRun) error {
	wrap := func(op string, err error) error {
		return services.Wrap(services.ErrPublish, string(StatePublishing), op, "", err)
	}

	publisher, err := publish.New(c.git)
	if err != nil {
		return wrap("publisher", err)
	}

	// Worktree strategies commit while the deploy branch is still
	// checked out, then the run goes home before anything is pushed.
	committed, err := publisher.CommitDeploy(ctx, run.tree)
	if err != nil {
		return wrap("commit deploy branch", err)
	}
	if run.tree.Mutated {
		if err := c.git.Checkout(ctx, run.originalBranch); err != nil {
			return wrap("restore checkout", err)
		}
		run.restored = true
	}

	// Source branch publishes first so the deploy branch never outruns
	// the history it was derived from.
	var sourceOutcome *publish.Outcome
	if rel := c.artifactRel(); rel != "" {
		sourceBranch := c.cfg.Deploy.SourceBranch
		if sourceBranch == "" {
			sourceBranch = run.originalBranch
		}
		sourceOutcome, err = publisher.PublishSource(ctx, c.cfg.Deploy.Remote, sourceBranch, rel, "Update music data")
		run.summary.Source = sourceOutcome
		if err != nil {
			return wrap("source branch", err)
		}
	}

	deployOutcome, err := publisher.Push(ctx, run.tree, c.cfg.Deploy.Remote, committed)
	run.summary.Deploy = deployOutcome
	if err != nil {
		return wrap("deploy branch", err)
	}
	run.logger.Info("deploy branch published",
		logging.String("branch", run.tree.Branch),
		logging.String("level", deployOutcome.Level.String()),
		logging.Bool("no_op", deployOutcome.NoOp),
	)

	run.summary.NoOp = deployOutcome.NoOp && (sourceOutcome == nil || sourceOutcome.NoOp)
	return nil
}

// abort restores the pre-run repository state. It runs exactly once per
// failed run; restore failures are logged, and the backup is kept on
// disk whenever the artifact could not be restored.
func (c *Controller) abort(ctx context.Context, run *deployRun, cause error) {
	logger := run.logger.With(logging.String(logging.FieldState, string(StateAborting)))
	logger.Error("run aborted",
		logging.String("from", string(run.summary.AbortedFrom)),
		logging.Error(cause),
	)

	restoredArtifact := true

	if run.originalBranch != "" && !run.restored {
		branch, err := c.git.CurrentBranch(ctx)
		if err == nil && branch == run.originalBranch {
			run.restored = true
		} else {
			// Detached, on the deploy branch, or on an unborn orphan
			// whose HEAD does not even resolve: force the switch home.
			if err := c.git.CheckoutForce(ctx, run.originalBranch); err != nil {
				logger.Error("failed to restore original branch", logging.Error(err))
			} else {
				run.restored = true
			}
		}
	}

	// Undo staged or committed source-branch changes from this run.
	// The reset only runs once the original branch is confirmed checked
	// out, so it can never drag the deploy branch onto the source head.
	if run.restored && run.originalHead != "" && (run.sourceCommitted || run.tree != nil && run.tree.Mutated) {
		if err := c.git.ResetHard(ctx, run.originalHead); err != nil {
			logger.Error("failed to reset source branch", logging.Error(err))
		}
	}

	// Files populate copied into the worktree are untracked once the
	// source branch is back; sweep the ones the source does not own.
	if run.restored && run.tree != nil && len(run.tree.Staged) > 0 {
		c.removeStagedLeftovers(ctx, run, logger)
	}

	// Put the deploy branch ref back where it was.
	if run.tree != nil {
		switch {
		case run.deployBranchExisted && run.deployBranchHead != "":
			if head, err := c.git.RevParse(ctx, "refs/heads/"+run.tree.Branch); err == nil && head != run.deployBranchHead {
				if err := c.git.UpdateRef(ctx, run.tree.Branch, run.deployBranchHead); err != nil {
					logger.Error("failed to restore deploy branch ref", logging.Error(err))
				}
			}
		case !run.deployBranchExisted:
			if exists, err := c.git.BranchExists(ctx, run.tree.Branch); err == nil && exists {
				if err := c.git.DeleteBranch(ctx, run.tree.Branch); err != nil {
					logger.Error("failed to remove partial deploy branch", logging.Error(err))
				}
			}
		}
	}

	if run.snapshot != nil {
		if err := c.backups.Restore(run.snapshot); err != nil {
			restoredArtifact = false
			logger.Error("failed to restore artifact from backup",
				logging.String("snapshot", run.snapshot.ID),
				logging.Error(err),
			)
		}
	}

	if restoredArtifact {
		c.discardSnapshot(run)
	} else {
		logger.Warn("keeping backup for manual recovery", logging.String("snapshot", run.snapshot.ID))
		run.snapshot = nil
	}
}

// cleanup removes run-scoped scratch state. It runs on every completed
// run, success or failure.
func (c *Controller) cleanup(run *deployRun) {
	if run.tree != nil && run.tree.CandidateDir != "" {
		if err := os.RemoveAll(run.tree.CandidateDir); err != nil {
			run.logger.Warn("failed to remove candidate dir", logging.Error(err))
		}
	}
	c.discardSnapshot(run)
}

// removeStagedLeftovers deletes the whitelist paths a failed run copied
// into the working tree, skipping anything the restored branch tracks.
func (c *Controller) removeStagedLeftovers(ctx context.Context, run *deployRun, logger *slog.Logger) {
	tracked, err := c.git.ListTree(ctx, "HEAD")
	if err != nil {
		logger.Error("failed to list restored tree", logging.Error(err))
		return
	}
	for _, rel := range run.tree.Staged {
		if trackedUnder(tracked, rel) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(c.cfg.Paths.RepoDir, filepath.FromSlash(rel))); err != nil {
			logger.Warn("failed to remove populated file",
				logging.String("path", rel),
				logging.Error(err),
			)
		}
	}
}

func trackedUnder(tracked []string, rel string) bool {
	for _, p := range tracked {
		if p == rel || strings.HasPrefix(p, rel+"/") {
			return true
		}
	}
	return false
}

func (c *Controller) discardSnapshot(run *deployRun) {
	if run.snapshot == nil {
		return
	}
	if err := c.backups.Discard(run.snapshot); err != nil {
		run.logger.Warn("failed to discard backup", logging.Error(err))
	}
	run.snapshot = nil
}
