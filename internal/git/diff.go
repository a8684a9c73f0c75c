package git

import (
	"context"
	"io"

	pexec "github.com/gorewood/gpp/internal/exec"
	"github.com/gorewood/gpp/internal/output"
)

// DiffWorkingTree streams `git diff` to stdout.
func (c *Client) DiffWorkingTree(ctx context.Context, stdout, stderr io.Writer) error {
	return c.stream(ctx, stdout, stderr, "diff")
}

// DiffFromBase streams `git diff <base>...HEAD`: the changes on the current
// branch since it diverged from base.
func (c *Client) DiffFromBase(ctx context.Context, base string, stdout, stderr io.Writer) error {
	return c.stream(ctx, stdout, stderr, "diff", base+"...HEAD")
}

// stream runs git with output attached to the caller's writers. git's
// stderr has already reached the user, so the returned error carries only
// the exit status.
func (c *Client) stream(ctx context.Context, stdout, stderr io.Writer, args ...string) error {
	err := c.executor.Stream(ctx, c.dir, stdout, stderr, "git", args...)
	if err == nil {
		return nil
	}
	if pexec.IsNotFound(err) {
		return output.NewSystemError("git not found: ensure git is installed and in PATH")
	}
	return output.NewExternalError("git", pexec.ExitCode(err), "", err)
}
