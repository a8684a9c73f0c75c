package git

import (
	"context"
	"strings"
)

// Worktree is one entry of `git worktree list --porcelain`.
//
//	worktree /path/to/feature-branch
//	HEAD abc123def456
//	branch refs/heads/feature-branch
type Worktree struct {
	Path     string `json:"path"`
	HEAD     string `json:"head"`
	Branch   string `json:"branch,omitempty"` // short name; empty when detached
	Bare     bool   `json:"bare,omitempty"`
	Detached bool   `json:"detached,omitempty"`
}

// WorktreeAdd creates a worktree at path. With newBranch the branch is
// created from HEAD (`-b`); otherwise an existing branch is checked out.
func (c *Client) WorktreeAdd(ctx context.Context, path, branch string, newBranch bool) error {
	args := []string{"worktree", "add", path, branch}
	if newBranch {
		args = []string{"worktree", "add", path, "-b", branch}
	}
	_, err := c.Run(ctx, args...)
	return err
}

// WorktreeRemove removes the worktree at path. force also removes worktrees
// with uncommitted or untracked changes.
func (c *Client) WorktreeRemove(ctx context.Context, path string, force bool) error {
	args := []string{"worktree", "remove", path}
	if force {
		args = append(args, "--force")
	}
	_, err := c.Run(ctx, args...)
	return err
}

// Worktrees lists the repository's worktrees; the main worktree comes first.
func (c *Client) Worktrees(ctx context.Context) ([]Worktree, error) {
	out, err := c.Run(ctx, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}
	return parseWorktreePorcelain(out), nil
}

// parseWorktreePorcelain parses blank-line separated worktree blocks.
func parseWorktreePorcelain(out string) []Worktree {
	var worktrees []Worktree
	var current *Worktree

	flush := func() {
		if current != nil {
			worktrees = append(worktrees, *current)
			current = nil
		}
	}

	for line := range strings.SplitSeq(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			flush()
			continue
		}

		key, value, _ := strings.Cut(line, " ")
		switch key {
		case "worktree":
			flush()
			current = &Worktree{Path: value}
		case "HEAD":
			if current != nil {
				current.HEAD = value
			}
		case "branch":
			if current != nil {
				current.Branch = strings.TrimPrefix(value, "refs/heads/")
			}
		case "bare":
			if current != nil {
				current.Bare = true
			}
		case "detached":
			if current != nil {
				current.Detached = true
			}
		}
	}
	flush()

	return worktrees
}
