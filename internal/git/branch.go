package git

import (
	"context"
	"strconv"
	"strings"
)

// BranchRef is a local branch with its last-commit age as git renders it.
type BranchRef struct {
	Name       string `json:"name"`
	LastChange string `json:"last_change"`
}

// Checkout switches to an existing branch.
func (c *Client) Checkout(ctx context.Context, branch string) error {
	_, err := c.Run(ctx, "checkout", branch)
	return err
}

// CheckoutNew creates branch at HEAD and switches to it.
func (c *Client) CheckoutNew(ctx context.Context, branch string) error {
	_, err := c.Run(ctx, "checkout", "-b", branch)
	return err
}

// Pull fetches branch from remote and merges it into the current branch.
func (c *Client) Pull(ctx context.Context, remote, branch string) error {
	_, err := c.Run(ctx, "pull", remote, branch)
	return err
}

// Push pushes branch to remote and sets it as upstream.
func (c *Client) Push(ctx context.Context, remote, branch string) error {
	_, err := c.Run(ctx, "push", "-u", remote, branch)
	return err
}

// DeleteBranch force-deletes a local branch.
func (c *Client) DeleteBranch(ctx context.Context, branch string) error {
	_, err := c.Run(ctx, "branch", "-D", branch)
	return err
}

// RecentBranches returns up to count local branches, most recently
// committed first.
func (c *Client) RecentBranches(ctx context.Context, count int) ([]BranchRef, error) {
	out, err := c.Run(ctx, "for-each-ref",
		"--sort=-committerdate",
		"--count="+strconv.Itoa(count),
		"--format=%(refname:short)|%(committerdate:relative)",
		"refs/heads/",
	)
	if err != nil {
		return nil, err
	}
	return parseBranchRefs(out), nil
}

// parseBranchRefs parses "name|relative-date" lines, skipping malformed ones.
func parseBranchRefs(out string) []BranchRef {
	var refs []BranchRef
	for line := range strings.SplitSeq(out, "\n") {
		name, date, ok := strings.Cut(strings.TrimSpace(line), "|")
		if !ok || name == "" {
			continue
		}
		refs = append(refs, BranchRef{Name: name, LastChange: date})
	}
	return refs
}
