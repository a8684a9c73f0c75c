package git

import (
	"context"
	"fmt"
	"strings"
)

// AddAll stages every change in the working tree, including untracked files.
func (c *Client) AddAll(ctx context.Context) error {
	_, err := c.Run(ctx, "add", "-A")
	return err
}

// Commit records the staged changes with message.
func (c *Client) Commit(ctx context.Context, message string) error {
	_, err := c.Run(ctx, "commit", "-m", message)
	return err
}

// LastCommits returns the SHAs of the last n commits on HEAD, oldest first,
// which is the order they must be cherry-picked in.
func (c *Client) LastCommits(ctx context.Context, n int) ([]string, error) {
	out, err := c.Run(ctx, "rev-list", "--reverse", fmt.Sprintf("HEAD~%d..HEAD", n))
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// CherryPick applies the change introduced by sha onto the current branch.
func (c *Client) CherryPick(ctx context.Context, sha string) error {
	_, err := c.Run(ctx, "cherry-pick", sha)
	return err
}

// ShortSHA abbreviates a SHA to eight characters for display.
func ShortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
