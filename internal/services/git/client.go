package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Executor abstracts git invocation for testability.
type Executor interface {
	Run(ctx context.Context, dir string, args []string) (stdout string, stderr string, err error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps git CLI interactions for a single repository.
type Client struct {
	binary string
	dir    string
	exec   Executor
}

// New constructs a git client rooted at the repository directory.
func New(binary, repoDir string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("git binary required")
	}
	if strings.TrimSpace(repoDir) == "" {
		return nil, errors.New("repository directory required")
	}
	client := &Client{
		binary: binary,
		dir:    repoDir,
		exec:   commandExecutor{binary: binary},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Dir returns the repository directory the client operates on.
func (c *Client) Dir() string { return c.dir }

// CommandError carries the failing git invocation and its stderr so
// callers can classify the failure.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// StderrOf returns the stderr of the failing git command inside err, if
// any.
func StderrOf(err error) string {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Stderr
	}
	return ""
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	stdout, stderr, err := c.exec.Run(ctx, c.dir, args)
	if err != nil {
		return stdout, &CommandError{Args: args, Stderr: stderr, Err: err}
	}
	return stdout, nil
}

type commandExecutor struct {
	binary string
}

func (e commandExecutor) Run(ctx context.Context, dir string, args []string) (string, string, error) {
	cmd := exec.CommandContext(ctx, e.binary, args...) //nolint:gosec
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
