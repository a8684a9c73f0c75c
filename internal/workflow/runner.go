package workflow

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/gorewood/gpp/internal/config"
	"github.com/gorewood/gpp/internal/git"
	"github.com/gorewood/gpp/internal/github"
	"github.com/gorewood/gpp/internal/output"
)

// Runner executes workflows against one repository.
type Runner struct {
	git     *git.Client
	gh      *github.Client
	printer *output.Printer
	cfg     config.Config
}

// NewRunner wires a Runner. Progress and streamed tool output go through
// printer.
func NewRunner(gitClient *git.Client, ghClient *github.Client, printer *output.Printer, cfg config.Config) *Runner {
	return &Runner{git: gitClient, gh: ghClient, printer: printer, cfg: cfg}
}

// labels returns the PR labels for a --merge flag.
func (r *Runner) labels(merge bool) []string {
	if merge && r.cfg.MergeLabel != "" {
		return []string{r.cfg.MergeLabel}
	}
	return nil
}

// createPR streams `gh pr create` and returns the PR URL gh printed, if any.
// In JSON mode gh's stdout is captured instead of shown.
func (r *Runner) createPR(ctx context.Context, req github.PRRequest) (string, error) {
	var captured bytes.Buffer
	shown := r.printer.Writer()
	if r.printer.IsJSON() {
		shown = io.Discard
	}
	err := r.gh.CreatePR(ctx, req, io.MultiWriter(shown, &captured), r.printer.ErrWriter())
	return prURL(captured.String()), err
}

// prURL picks the last URL-looking line of gh output.
func prURL(out string) string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "https://") || strings.HasPrefix(line, "http://") {
			return line
		}
	}
	return ""
}
