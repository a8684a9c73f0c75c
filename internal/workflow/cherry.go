package workflow

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/gorewood/gpp/internal/git"
	"github.com/gorewood/gpp/internal/github"
	"github.com/gorewood/gpp/internal/output"
)

// CherryOptions configures Cherry. Num is the number of trailing commits
// to pick from a clean tree; 0 means one.
type CherryOptions struct {
	Title string
	Body  *string // nil: use the title
	Num   int
	Merge bool
}

// CherryResult reports a completed cherry workflow.
type CherryResult struct {
	Branch         string   `json:"branch"`
	OriginalBranch string   `json:"original_branch"`
	Commits        []string `json:"commits"`
	URL            string   `json:"url,omitempty"`
}

// Cherry lands work on a fresh branch off the base branch and opens a PR
// for it. Uncommitted changes are committed with the title first; on a clean
// tree the last Num commits are picked instead. The original branch is
// checked out again at the end.
func (r *Runner) Cherry(ctx context.Context, opts CherryOptions) (*CherryResult, error) {
	if err := r.gh.Available(); err != nil {
		return nil, err
	}
	if opts.Num < 0 {
		return nil, output.NewUserErrorf("number of commits must be at least 1, got %d", opts.Num)
	}
	branch, err := Kebab(opts.Title)
	if err != nil {
		return nil, err
	}
	base, remote := r.cfg.BaseBranch, r.cfg.Remote

	original, err := r.git.CurrentBranch(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting current branch: %w", err)
	}
	r.printer.Progress("Starting cherry-pick workflow from branch: %s", original)

	dirty, err := r.git.HasUncommittedChanges(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking git status: %w", err)
	}
	if dirty && opts.Num > 0 {
		return nil, output.NewUserError("cannot use -n with uncommitted changes; commit or stash them first")
	}

	commits, err := r.commitsToPick(ctx, opts, dirty)
	if err != nil {
		return nil, err
	}

	r.printer.Progress("Switching to %s...", base)
	if err := r.git.Checkout(ctx, base); err != nil {
		return nil, fmt.Errorf("switching to %s: %w", base, err)
	}
	r.printer.Progress("Pulling latest changes from %s...", remote)
	if err := r.git.Pull(ctx, remote, base); err != nil {
		return nil, fmt.Errorf("pulling from %s: %w", remote, err)
	}
	r.printer.Progress("Creating new branch: %s", branch)
	if err := r.git.CheckoutNew(ctx, branch); err != nil {
		return nil, fmt.Errorf("creating branch %s: %w", branch, err)
	}

	for i, sha := range commits {
		if len(commits) > 1 {
			r.printer.Progress("Cherry-picking commit %d/%d: %s", i+1, len(commits), git.ShortSHA(sha))
		} else {
			r.printer.Progress("Cherry-picking commit: %s", git.ShortSHA(sha))
		}
		if err := r.git.CherryPick(ctx, sha); err != nil {
			return nil, fmt.Errorf("cherry-picking %s: %w (resolve conflicts manually)", git.ShortSHA(sha), err)
		}
	}

	r.printer.Progress("Pushing branch '%s' to %s...", branch, remote)
	if err := r.git.Push(ctx, remote, branch); err != nil {
		return nil, fmt.Errorf("pushing branch: %w", err)
	}

	r.printer.Progress("Creating pull request...")
	url, err := r.createPR(ctx, github.PRRequest{
		Title:  opts.Title,
		Body:   opts.Body,
		Labels: r.labels(opts.Merge),
	})
	if err != nil {
		return nil, fmt.Errorf("creating PR (branch %s was created and pushed): %w", branch, err)
	}

	r.printer.Progress("Switching back to original branch: %s", original)
	if err := r.git.Checkout(ctx, original); err != nil {
		return nil, fmt.Errorf("switching back to %s: %w; you are currently on branch %s", original, err, branch)
	}

	return &CherryResult{
		Branch:         branch,
		OriginalBranch: original,
		Commits:        commits,
		URL:            url,
	}, nil
}

// commitsToPick commits a dirty tree and returns its SHA, or returns the
// last opts.Num commits of a clean one, oldest first.
func (r *Runner) commitsToPick(ctx context.Context, opts CherryOptions, dirty bool) ([]string, error) {
	if dirty {
		r.printer.Progress("Committing uncommitted changes...")
		if err := r.git.AddAll(ctx); err != nil {
			return nil, fmt.Errorf("staging changes: %w", err)
		}
		if err := r.git.Commit(ctx, opts.Title); err != nil {
			return nil, fmt.Errorf("creating commit: %w", err)
		}
		sha, err := r.git.HEAD(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting commit hash: %w", err)
		}
		return []string{sha}, nil
	}

	n := max(opts.Num, 1)
	plural := "s"
	if n == 1 {
		plural = ""
	}
	r.printer.Progress("Getting last %d commit%s to cherry-pick", n, plural)
	commits, err := r.git.LastCommits(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("getting commit hashes: %w", err)
	}
	if len(commits) < n {
		return nil, output.NewUserErrorf("could only find %d commits, but %d were requested", len(commits), n)
	}
	return commits, nil
}

var (
	nonWordRe     = regexp.MustCompile(`[^\p{L}\p{N}\p{M}_\s-]`)
	separatorRe   = regexp.MustCompile(`[\s_]+`)
	multiHyphenRe = regexp.MustCompile(`-+`)
)

// Kebab turns a PR title into a branch name: "Fix: the Login_Page!" becomes
// "fix-the-login-page".
func Kebab(title string) (string, error) {
	s := nonWordRe.ReplaceAllString(strings.ToLower(title), "")
	s = separatorRe.ReplaceAllString(strings.TrimSpace(s), "-")
	s = multiHyphenRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "", output.NewUserErrorf("title %q does not produce a valid branch name", title)
	}
	return s, nil
}
