package worktree

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gorewood/gpp/internal/git"
	"github.com/gorewood/gpp/internal/output"
)

// Options configures a Manager.
type Options struct {
	// Remote whose URL names the repository.
	Remote string
	// EnvFile is linked from the main worktree into new ones.
	EnvFile string
	// Progress receives step messages. Nil discards them.
	Progress func(format string, args ...any)
}

// Manager creates, deletes and lists managed worktrees.
type Manager struct {
	git  *git.Client
	opts Options
}

// NewManager returns a Manager operating through client.
func NewManager(client *git.Client, opts Options) *Manager {
	if opts.Remote == "" {
		opts.Remote = "origin"
	}
	if opts.EnvFile == "" {
		opts.EnvFile = ".envrc"
	}
	return &Manager{git: client, opts: opts}
}

func (m *Manager) progress(format string, args ...any) {
	if m.opts.Progress != nil {
		m.opts.Progress(format, args...)
	}
}

// cwd is the directory the git client runs in.
func (m *Manager) cwd() string {
	if dir := m.git.Dir(); dir != "" {
		return dir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// Layout resolves the repository name and main worktree. The name comes
// from the remote URL, falling back to the current directory name; the
// main worktree is the first porcelain entry, falling back to the current
// directory.
func (m *Manager) Layout(ctx context.Context) (Layout, []git.Worktree, error) {
	cwd := m.cwd()

	url, err := m.git.RemoteURL(ctx, m.opts.Remote)
	if err != nil {
		url = ""
	}
	repo := RepoName(url, filepath.Base(cwd))

	worktrees, err := m.git.Worktrees(ctx)
	if err != nil {
		return Layout{}, nil, fmt.Errorf("listing worktrees: %w", err)
	}
	mainPath := cwd
	if len(worktrees) > 0 && worktrees[0].Path != "" {
		mainPath = worktrees[0].Path
	}
	return NewLayout(repo, mainPath), worktrees, nil
}

// CreateResult reports a created worktree.
type CreateResult struct {
	Path    string `json:"path"`
	Branch  string `json:"branch"`
	Existed bool   `json:"existing_branch"`
	EnvLink string `json:"env_link,omitempty"`
}

// Create adds a sibling worktree for branch. With existing the branch must
// already exist; otherwise it is created from HEAD. When the main worktree
// has an env file, a relative symlink to it is placed in the new worktree;
// if that fails the worktree is removed again.
func (m *Manager) Create(ctx context.Context, branch string, existing bool) (*CreateResult, error) {
	if branch == "" {
		return nil, output.NewUserError("branch name is required")
	}
	layout, _, err := m.Layout(ctx)
	if err != nil {
		return nil, err
	}
	path := layout.PathFor(branch)

	if _, err := os.Lstat(path); err == nil {
		return nil, output.NewConflictError("directory already exists: " + path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, output.NewSystemErrorWithCause("checking "+path+": "+err.Error(), err)
	}

	m.progress("Creating worktree at %s...", path)
	if err := m.git.WorktreeAdd(ctx, path, branch, !existing); err != nil {
		return nil, fmt.Errorf("creating worktree: %w", err)
	}

	result := &CreateResult{Path: path, Branch: branch, Existed: existing}

	link, err := m.linkEnvFile(layout.MainPath, path)
	if err != nil {
		if rmErr := m.git.WorktreeRemove(ctx, path, true); rmErr != nil {
			return nil, fmt.Errorf("%w (rollback failed, remove %s manually: %v)", err, path, rmErr)
		}
		return nil, err
	}
	if link != "" {
		result.EnvLink = link
		m.progress("Created %s symlink -> %s", m.opts.EnvFile, link)
	}
	return result, nil
}

// linkEnvFile symlinks <wtPath>/<EnvFile> to the main worktree's copy.
// Returns the link target, or "" when the main worktree has no env file.
func (m *Manager) linkEnvFile(mainPath, wtPath string) (string, error) {
	source := filepath.Join(mainPath, m.opts.EnvFile)
	if _, err := os.Stat(source); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", output.NewSystemErrorWithCause("checking "+source+": "+err.Error(), err)
	}

	dest := filepath.Join(wtPath, m.opts.EnvFile)
	target, err := filepath.Rel(filepath.Dir(dest), source)
	if err != nil {
		target = source
	}
	if err := os.Symlink(target, dest); err != nil {
		return "", output.NewSystemErrorWithCause("linking "+m.opts.EnvFile+": "+err.Error(), err)
	}
	return target, nil
}

// DeleteResult reports a removed worktree.
type DeleteResult struct {
	Path          string `json:"path"`
	Branch        string `json:"branch"`
	BranchDeleted bool   `json:"branch_deleted"`
	Warning       string `json:"warning,omitempty"`
}

// Delete removes the worktree that has branch checked out and, unless
// keepBranch, deletes the branch. A failed branch deletion is reported in
// the result's Warning rather than as an error.
func (m *Manager) Delete(ctx context.Context, branch string, force, keepBranch bool) (*DeleteResult, error) {
	layout, worktrees, err := m.Layout(ctx)
	if err != nil {
		return nil, err
	}

	wt, ok := findByBranch(worktrees, branch)
	if !ok {
		return nil, output.NewUserError("no worktree found for branch: " + branch)
	}
	if filepath.Clean(wt.Path) == layout.MainPath {
		return nil, output.NewUserError("refusing to remove the main worktree at " + wt.Path)
	}

	m.progress("Removing worktree at %s...", wt.Path)
	if err := m.git.WorktreeRemove(ctx, wt.Path, force); err != nil {
		return nil, fmt.Errorf("removing worktree: %w", err)
	}

	result := &DeleteResult{Path: wt.Path, Branch: branch}
	if keepBranch {
		return result, nil
	}

	m.progress("Deleting branch %s...", branch)
	if err := m.git.DeleteBranch(ctx, branch); err != nil {
		result.Warning = "could not delete branch " + branch + ": " + err.Error()
		return result, nil
	}
	result.BranchDeleted = true
	return result, nil
}

// List returns worktrees; without all only the main and managed ones.
func (m *Manager) List(ctx context.Context, all bool) ([]git.Worktree, error) {
	layout, worktrees, err := m.Layout(ctx)
	if err != nil {
		return nil, err
	}
	if all {
		return worktrees, nil
	}
	return layout.Filter(worktrees), nil
}

func findByBranch(worktrees []git.Worktree, branch string) (git.Worktree, bool) {
	for _, wt := range worktrees {
		if wt.Branch == branch {
			return wt, true
		}
	}
	return git.Worktree{}, false
}
