package pipeline

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"adujour/internal/backup"
	"adujour/internal/classify"
	"adujour/internal/config"
	"adujour/internal/isolate"
	"adujour/internal/logging"
	"adujour/internal/publish"
	"adujour/internal/services/git"
	"adujour/internal/sheet"
	"adujour/internal/site"
)

// Summary reports what one run did.
type Summary struct {
	RunID         string
	FinalState    State
	Strategy      isolate.Strategy
	Counts        Counts
	ArtifactDir   string
	BackupID      string
	Deploy        *publish.Outcome
	Source        *publish.Outcome
	NoOp          bool
	Duration      time.Duration
	AbortedFrom   State
	PreflightFail []string
}

// Counts carries the classified album totals for display.
type Counts struct {
	Current  int
	Added    int
	Finished int
}

func countsOf(result classify.Result) Counts {
	return Counts{
		Current:  len(result.Current),
		Added:    len(result.Added),
		Finished: len(result.Finished),
	}
}

// Option overrides a controller collaborator, primarily for tests.
type Option func(*Controller)

func WithSource(source sheet.Source) Option {
	return func(c *Controller) {
		if source != nil {
			c.source = source
		}
	}
}

func WithBuilder(builder site.Builder) Option {
	return func(c *Controller) {
		if builder != nil {
			c.builder = builder
		}
	}
}

func WithGitExecutor(exec git.Executor) Option {
	return func(c *Controller) {
		if exec != nil {
			c.gitExec = exec
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// Controller sequences a run through its states and owns the
// rollback/cleanup contract.
type Controller struct {
	cfg     *config.Config
	logger  *slog.Logger
	source  sheet.Source
	builder site.Builder
	backups *backup.Manager
	git     *git.Client
	gitExec git.Executor
	now     func() time.Time
}

// New wires a controller from configuration. Collaborators not
// overridden by options are built from the config.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Controller, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	c := &Controller{
		cfg:     cfg,
		logger:  logger.With(logging.String(logging.FieldComponent, "pipeline")),
		backups: backup.NewManager(cfg.BackupsDir()),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	var gitOpts []git.Option
	if c.gitExec != nil {
		gitOpts = append(gitOpts, git.WithExecutor(c.gitExec))
	}
	gitClient, err := git.New(cfg.GitBinary(), cfg.Paths.RepoDir, gitOpts...)
	if err != nil {
		return nil, err
	}
	c.git = gitClient

	if c.source == nil {
		source, err := defaultSource(cfg)
		if err != nil {
			return nil, err
		}
		c.source = source
	}
	if c.builder == nil {
		c.builder = site.NewStaticBuilder(cfg)
	}
	return c, nil
}

func defaultSource(cfg *config.Config) (sheet.Source, error) {
	if cfg.Sheet.CSVPath != "" {
		return sheet.NewCSVSource(cfg.Sheet.CSVPath), nil
	}
	return sheet.NewSheetsSource(cfg.Paths.CredentialsPath, cfg.Sheet.SpreadsheetID, cfg.Sheet.Range)
}

// artifactRel returns the artifact directory's path relative to the
// repository root, empty when it lives outside the repository.
func (c *Controller) artifactRel() string {
	rel, err := filepath.Rel(c.cfg.Paths.RepoDir, c.cfg.Paths.ArtifactDir)
	if err != nil || rel == "." || filepath.IsAbs(rel) || len(rel) >= 2 && rel[:2] == ".." {
		return ""
	}
	return filepath.ToSlash(rel)
}
