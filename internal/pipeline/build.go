package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"adujour/internal/classify"
	"adujour/internal/logging"
	"adujour/internal/preflight"
	"adujour/internal/services"
)

// Build runs Validating and Building only: fetch records, classify,
// render the artifact. It never touches git branches.
func (c *Controller) Build(ctx context.Context) (*Summary, error) {
	start := c.now()
	runID := uuid.New().String()
	ctx = services.WithRunID(ctx, runID)
	logger := c.logger.With(logging.String(logging.FieldRunID, runID))
	summary := &Summary{RunID: runID, ArtifactDir: c.cfg.Paths.ArtifactDir}

	result, err := c.buildArtifact(ctx, summary, logger)
	summary.Duration = c.now().Sub(start)
	if err != nil {
		summary.FinalState = StateAborting
		return summary, err
	}
	summary.Counts = countsOf(result)
	summary.FinalState = StateDone
	logger.Info("build complete",
		logging.Int("current", summary.Counts.Current),
		logging.Int("added", summary.Counts.Added),
		logging.Int("finished", summary.Counts.Finished),
	)
	return summary, nil
}

func (c *Controller) buildArtifact(ctx context.Context, summary *Summary, logger *slog.Logger) (classify.Result, error) {
	ctx = services.WithState(ctx, string(StateValidating))
	if err := c.cfg.EnsureDirectories(); err != nil {
		return classify.Result{}, services.Wrap(services.ErrValidation, string(StateValidating), "directories", "", err)
	}
	if failed := preflight.Failures(preflight.RunAll(ctx, c.cfg)); len(failed) > 0 {
		details := make([]string, 0, len(failed))
		for _, f := range failed {
			summary.PreflightFail = append(summary.PreflightFail, f.Name)
			details = append(details, f.Name+": "+f.Detail)
		}
		return classify.Result{}, services.Wrap(services.ErrValidation, string(StateValidating), "preflight",
			strings.Join(details, "; "), nil)
	}

	ctx = services.WithState(ctx, string(StateBuilding))
	logger.Info("fetching records", logging.String(logging.FieldState, string(StateBuilding)))
	records, err := c.source.Records(ctx)
	if err != nil {
		return classify.Result{}, services.Wrap(services.ErrBuild, string(StateBuilding), "fetch records", "", err)
	}

	result := classify.Classify(records, c.now())
	logger.Info("classified records",
		logging.Int("records", len(records)),
		logging.Int("albums", result.Total()),
	)

	artifact, err := c.builder.Build(ctx, result)
	if err != nil {
		return classify.Result{}, services.Wrap(services.ErrBuild, string(StateBuilding), "render site", "", err)
	}
	summary.ArtifactDir = artifact.Root
	logger.Info("artifact written",
		logging.String("dir", artifact.Root),
		logging.Int("files", len(artifact.Files)),
	)
	return result, nil
}
