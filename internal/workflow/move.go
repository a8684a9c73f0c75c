package workflow

import (
	"context"
	"fmt"
)

// MoveResult reports a completed move.
type MoveResult struct {
	Branch  string `json:"branch"`
	Base    string `json:"base"`
	Stashed bool   `json:"stashed"`
}

const stashNote = " (your changes are still in the stash)"

// Move carries uncommitted work onto a new branch cut from the freshly
// pulled base branch: stash, checkout base, pull, checkout -b, stash pop.
// Untracked files travel with the stash. Only a stash this call created is
// popped. A failed stash aborts before anything else happens.
func (r *Runner) Move(ctx context.Context, branch string) (*MoveResult, error) {
	base, remote := r.cfg.BaseBranch, r.cfg.Remote
	r.printer.Progress("Moving changes to new branch: %s", branch)

	dirty, err := r.git.HasUncommittedChanges(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking git status: %w", err)
	}

	stashed := false
	if dirty {
		r.printer.Progress("Stashing current changes...")
		stashed, err = r.git.StashPush(ctx, "gpp move to "+branch)
		if err != nil {
			return nil, fmt.Errorf("stashing changes: %w", err)
		}
		if !stashed {
			r.printer.Progress("Nothing could be stashed; continuing without a stash")
		}
	} else {
		r.printer.Progress("No uncommitted changes to stash")
	}

	note := ""
	if stashed {
		note = stashNote
	}

	r.printer.Progress("Switching to %s...", base)
	if err := r.git.Checkout(ctx, base); err != nil {
		return nil, fmt.Errorf("switching to %s: %w%s", base, err, note)
	}

	r.printer.Progress("Pulling latest changes from %s...", remote)
	if err := r.git.Pull(ctx, remote, base); err != nil {
		return nil, fmt.Errorf("pulling from %s: %w%s", remote, err, note)
	}

	r.printer.Progress("Creating and switching to branch: %s", branch)
	if err := r.git.CheckoutNew(ctx, branch); err != nil {
		return nil, fmt.Errorf("creating branch %s: %w%s", branch, err, note)
	}

	if stashed {
		r.printer.Progress("Applying stashed changes...")
		if err := r.git.StashPop(ctx); err != nil {
			return nil, fmt.Errorf("applying stashed changes: %w; your changes are still in the stash, run 'git stash pop' to apply them manually", err)
		}
	}

	return &MoveResult{Branch: branch, Base: base, Stashed: stashed}, nil
}
