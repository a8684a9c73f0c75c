package worktree

import (
	"path/filepath"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/valyala/fasttemplate"

	"github.com/gorewood/gpp/internal/git"
)

// Layout describes where managed worktrees of a repository go.
type Layout struct {
	Repo     string `json:"repo"`
	MainPath string `json:"main_path"`
	Parent   string `json:"parent"`
}

// NewLayout builds a Layout for repo whose main worktree is at mainPath.
func NewLayout(repo, mainPath string) Layout {
	mainPath = filepath.Clean(mainPath)
	return Layout{Repo: repo, MainPath: mainPath, Parent: filepath.Dir(mainPath)}
}

// PathFor returns the sibling directory for branch.
func (l Layout) PathFor(branch string) string {
	return filepath.Join(l.Parent, DirName(l.Repo, branch))
}

// IsManaged reports whether wt is the main worktree or a sibling named
// <repo>-*.
func (l Layout) IsManaged(wt git.Worktree) bool {
	path := filepath.Clean(wt.Path)
	if path == l.MainPath {
		return true
	}
	return filepath.Dir(path) == l.Parent &&
		strings.HasPrefix(filepath.Base(path), l.Repo+"-")
}

// Filter keeps the worktrees IsManaged accepts, preserving order.
func (l Layout) Filter(worktrees []git.Worktree) []git.Worktree {
	var managed []git.Worktree
	for _, wt := range worktrees {
		if l.IsManaged(wt) {
			managed = append(managed, wt)
		}
	}
	return managed
}

// DirName returns "<repo>-<branch>" with path separators in the branch
// replaced so "feat/login" stays a single directory.
func DirName(repo, branch string) string {
	flat := strings.NewReplacer("/", "-", "\\", "-").Replace(branch)
	return repo + "-" + flat
}

// RepoName derives the repository name from a remote URL, dropping a
// trailing ".git". Both URL and scp-like forms are accepted. An empty or
// unusable URL yields fallback.
func RepoName(remoteURL, fallback string) string {
	u := strings.TrimRight(strings.TrimSpace(remoteURL), "/")
	if u == "" {
		return fallback
	}
	if i := strings.LastIndexAny(u, "/:"); i >= 0 {
		u = u[i+1:]
	}
	u = strings.TrimSuffix(u, ".git")
	if u == "" {
		return fallback
	}
	return u
}

const (
	shellTemplate       = `cd {{path}} && {{post_create}}`
	shellTemplateCDOnly = `cd {{path}}`
)

// ShellCommand returns the line printed by `wt create --shell` for eval.
// An empty postCreate yields only the cd. postCreate is user configuration
// and is emitted as is.
func ShellCommand(path, postCreate string) string {
	tpl := shellTemplate
	if strings.TrimSpace(postCreate) == "" {
		tpl = shellTemplateCDOnly
	}
	return fasttemplate.New(tpl, "{{", "}}").ExecuteString(map[string]any{
		"path":        quotePath(path),
		"post_create": postCreate,
	})
}

// quotePath quotes path for a POSIX shell. Paths made only of characters
// with no meaning to the shell are double-quoted; anything else is
// single-quoted, since branch names may carry $, backticks or quotes.
func quotePath(path string) string {
	quoted := shellescape.Quote(path)
	if quoted == path {
		return `"` + path + `"`
	}
	return quoted
}
