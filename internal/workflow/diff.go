package workflow

import (
	"bytes"
	"context"
	"io"
)

// DiffResult describes which diff was shown. Diff carries the text only in
// JSON mode; otherwise it was streamed.
type DiffResult struct {
	WorkingTree bool   `json:"working_tree"`
	Base        string `json:"base,omitempty"`
	Diff        string `json:"diff"`
}

// Diff streams `git diff` when the tree is dirty, otherwise the branch's
// changes since it left the base branch (`git diff <base>...HEAD`). The
// returned error carries git's exit status; the result is returned with it.
func (r *Runner) Diff(ctx context.Context) (*DiffResult, error) {
	dirty, err := r.git.HasUncommittedChanges(ctx)
	if err != nil {
		return nil, err
	}

	var captured bytes.Buffer
	w, errW := r.printer.Writer(), r.printer.ErrWriter()
	if r.printer.IsJSON() {
		w = &captured
		errW = io.Discard
	}

	result := &DiffResult{WorkingTree: dirty}
	if dirty {
		r.printer.Progress("Showing working tree diff...")
		err = r.git.DiffWorkingTree(ctx, w, errW)
	} else {
		result.Base = r.cfg.BaseBranch
		r.printer.Progress("Showing diff from %s to current branch...", result.Base)
		err = r.git.DiffFromBase(ctx, result.Base, w, errW)
	}
	result.Diff = captured.String()
	return result, err
}
