package workflow

import (
	"context"
	"fmt"

	"github.com/gorewood/gpp/internal/github"
	"github.com/gorewood/gpp/internal/output"
)

// PROptions configures PR.
type PROptions struct {
	Message string
	Body    *string // nil: use the message
	Commit  bool
	Merge   bool
}

// PRResult reports a created pull request.
type PRResult struct {
	Branch    string `json:"branch"`
	Committed bool   `json:"committed"`
	URL       string `json:"url,omitempty"`
}

// PR pushes the current branch and opens a pull request for it, first
// committing everything when opts.Commit is set and the tree is dirty.
func (r *Runner) PR(ctx context.Context, opts PROptions) (*PRResult, error) {
	if err := r.gh.Available(); err != nil {
		return nil, err
	}
	remote := r.cfg.Remote
	result := &PRResult{}

	if opts.Commit {
		dirty, err := r.git.HasUncommittedChanges(ctx)
		if err != nil {
			return nil, fmt.Errorf("checking git status: %w", err)
		}
		if dirty {
			r.printer.Progress("Staging changes...")
			if err := r.git.AddAll(ctx); err != nil {
				return nil, fmt.Errorf("staging changes: %w", err)
			}
			r.printer.Progress("Creating commit...")
			if err := r.git.Commit(ctx, opts.Message); err != nil {
				return nil, fmt.Errorf("creating commit: %w", err)
			}
			result.Committed = true
		} else {
			r.printer.Progress("No changes to commit; proceeding to PR creation.")
		}
	}

	branch, err := r.git.CurrentBranch(ctx)
	if err != nil {
		return nil, fmt.Errorf("determining branch: %w", err)
	}
	if branch == "HEAD" {
		return nil, output.NewUserError("HEAD is detached; check out a branch first")
	}
	result.Branch = branch

	if _, err := r.git.RemoteURL(ctx, remote); err != nil {
		return nil, output.NewUserErrorf("remote '%s' not set; cannot push branch", remote)
	}

	r.printer.Progress("Pushing branch '%s' to %s...", branch, remote)
	if err := r.git.Push(ctx, remote, branch); err != nil {
		return nil, fmt.Errorf("pushing branch: %w", err)
	}

	r.printer.Progress("Creating pull request...")
	url, err := r.createPR(ctx, github.PRRequest{
		Title:  opts.Message,
		Body:   opts.Body,
		Labels: r.labels(opts.Merge),
	})
	if err != nil {
		return nil, fmt.Errorf("creating PR: %w", err)
	}
	result.URL = url
	return result, nil
}
