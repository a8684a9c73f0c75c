package git

import (
	"context"
	"strings"

	pexec "github.com/gorewood/gpp/internal/exec"
)

// StashTop returns the commit at refs/stash, or "" when there is no stash.
func (c *Client) StashTop(ctx context.Context) (string, error) {
	stdout, stderr, err := c.executor.Run(ctx, c.dir, "git", "rev-parse", "-q", "--verify", "refs/stash")
	if err != nil {
		if pexec.ExitCode(err) == 1 {
			return "", nil
		}
		return "", commandError(err, stderr)
	}
	return strings.TrimSpace(string(stdout)), nil
}

// StashPush stashes all uncommitted changes, untracked files included,
// under message. It reports whether a stash entry was created: git exits 0
// without one when there is nothing it can save.
func (c *Client) StashPush(ctx context.Context, message string) (bool, error) {
	before, err := c.StashTop(ctx)
	if err != nil {
		return false, err
	}
	if _, err := c.Run(ctx, "stash", "push", "--include-untracked", "-m", message); err != nil {
		return false, err
	}
	after, err := c.StashTop(ctx)
	if err != nil {
		return false, err
	}
	return after != "" && after != before, nil
}

// StashPop applies the most recent stash and drops it. Git keeps the stash
// entry when the apply conflicts.
func (c *Client) StashPop(ctx context.Context) error {
	_, err := c.Run(ctx, "stash", "pop")
	return err
}
