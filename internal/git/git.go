package git

import (
	"context"
	"strings"

	pexec "github.com/gorewood/gpp/internal/exec"
	"github.com/gorewood/gpp/internal/output"
)

// Client runs git commands in a working directory.
type Client struct {
	executor pexec.CommandExecutor
	dir      string
}

// New creates a Client for dir backed by the real git binary.
// An empty dir means the process working directory.
func New(dir string) *Client {
	return &Client{executor: pexec.NewRealExecutor(), dir: dir}
}

// NewWithExecutor creates a Client with a custom executor.
func NewWithExecutor(executor pexec.CommandExecutor, dir string) *Client {
	return &Client{executor: executor, dir: dir}
}

// Dir returns the directory git runs in.
func (c *Client) Dir() string {
	return c.dir
}

// Run executes a git command with the given arguments.
// It captures stdout and returns it with surrounding whitespace trimmed.
func (c *Client) Run(ctx context.Context, args ...string) (string, error) {
	stdout, stderr, err := c.executor.Run(ctx, c.dir, "git", args...)
	if err != nil {
		return "", commandError(err, stderr)
	}
	return strings.TrimSpace(string(stdout)), nil
}

// commandError converts a failed invocation into an *output.ExitError.
func commandError(err error, stderr []byte) error {
	if pexec.IsNotFound(err) {
		return output.NewSystemError("git not found: ensure git is installed and in PATH")
	}
	msg := strings.TrimSpace(string(stderr))
	if msg == "" && pexec.ExitCode(err) < 0 {
		msg = err.Error()
	}
	return output.NewExternalError("git", pexec.ExitCode(err), msg, err)
}

// IsRepo checks if the working directory is inside a git repository.
func (c *Client) IsRepo(ctx context.Context) bool {
	_, err := c.Run(ctx, "rev-parse", "--git-dir")
	return err == nil
}

// RequireRepo returns a user error when not inside a git repository.
func (c *Client) RequireRepo(ctx context.Context) error {
	if !c.IsRepo(ctx) {
		return output.NewUserError("not in a git repository")
	}
	return nil
}

// RepoRoot returns the top-level directory of the current working tree.
func (c *Client) RepoRoot(ctx context.Context) (string, error) {
	return c.Run(ctx, "rev-parse", "--show-toplevel")
}

// CurrentBranch returns the short name of the checked-out branch
// ("HEAD" when detached).
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	return c.Run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
}

// HEAD returns the full SHA of the current HEAD commit.
func (c *Client) HEAD(ctx context.Context) (string, error) {
	return c.Run(ctx, "rev-parse", "HEAD")
}

// RemoteURL returns the fetch URL configured for remote.
func (c *Client) RemoteURL(ctx context.Context, remote string) (string, error) {
	return c.Run(ctx, "remote", "get-url", remote)
}

// HasUncommittedChanges reports whether `git status --porcelain` lists
// anything: staged, unstaged or untracked.
func (c *Client) HasUncommittedChanges(ctx context.Context) (bool, error) {
	out, err := c.Run(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}
