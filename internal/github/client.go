package github

import (
	"context"
	"io"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	pexec "github.com/gorewood/gpp/internal/exec"
	"github.com/gorewood/gpp/internal/output"
)

// ghInstallHint is shown when gh is not on PATH.
const ghInstallHint = "GitHub CLI 'gh' not found. Install from https://cli.github.com/"

// prListFields are the JSON fields requested from `gh pr list`.
const prListFields = "number,title,headRefName,statusCheckRollup"

// Client runs gh commands in a working directory.
type Client struct {
	executor pexec.CommandExecutor
	dir      string
}

// New creates a Client for dir backed by the real gh binary.
func New(dir string) *Client {
	return &Client{executor: pexec.NewRealExecutor(), dir: dir}
}

// NewWithExecutor creates a Client with a custom executor.
func NewWithExecutor(executor pexec.CommandExecutor, dir string) *Client {
	return &Client{executor: executor, dir: dir}
}

// Available returns a user error when gh is not installed.
func (c *Client) Available() error {
	if _, err := c.executor.LookPath("gh"); err != nil {
		return output.NewUserError(ghInstallHint)
	}
	return nil
}

// PRRequest describes a pull request to open from the current branch.
type PRRequest struct {
	Title  string
	Body   *string
	Labels []string
}

// Args returns the gh arguments for the request. A nil body falls back to
// the title; an explicitly empty one is passed as is.
func (r PRRequest) Args() []string {
	body := r.Title
	if r.Body != nil {
		body = *r.Body
	}
	args := []string{"pr", "create", "--title", r.Title, "--body", body}
	for _, label := range r.Labels {
		args = append(args, "--label", label)
	}
	return args
}

// CreatePR runs `gh pr create` with its output streamed to the given
// writers so the user sees the PR URL and any prompts.
func (c *Client) CreatePR(ctx context.Context, req PRRequest, stdout, stderr io.Writer) error {
	err := c.executor.Stream(ctx, c.dir, stdout, stderr, "gh", req.Args()...)
	if err != nil {
		return streamError(err)
	}
	return nil
}

// AddLabel adds label to PR number.
func (c *Client) AddLabel(ctx context.Context, number int, label string) error {
	_, stderr, err := c.executor.Run(ctx, c.dir, "gh", "pr", "edit", strconv.Itoa(number), "--add-label", label)
	if err != nil {
		return commandError(err, stderr)
	}
	return nil
}

// ListPRs returns open pull requests authored by author ("@me" for the
// authenticated user).
func (c *Client) ListPRs(ctx context.Context, author string) ([]PullRequest, error) {
	stdout, stderr, err := c.executor.Run(ctx, c.dir, "gh", "pr", "list",
		"--author", author,
		"--json", prListFields,
	)
	if err != nil {
		return nil, commandError(err, stderr)
	}
	return parsePRList(stdout)
}

// parsePRList decodes `gh pr list --json` output. Blank output is no PRs.
func parsePRList(data []byte) ([]PullRequest, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, nil
	}
	var prs []PullRequest
	if err := json.Unmarshal(data, &prs); err != nil {
		return nil, output.NewSystemErrorWithCause("parsing PR data: "+err.Error(), err)
	}
	return prs, nil
}

// ParsePRNumber accepts "123" or "#123".
func ParsePRNumber(s string) (int, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "#")
	n, err := strconv.Atoi(trimmed)
	if err != nil || n <= 0 {
		return 0, output.NewUserErrorf("invalid PR number %q", s)
	}
	return n, nil
}

func commandError(err error, stderr []byte) error {
	if pexec.IsNotFound(err) {
		return output.NewUserError(ghInstallHint)
	}
	msg := strings.TrimSpace(string(stderr))
	if msg == "" && pexec.ExitCode(err) < 0 {
		msg = err.Error()
	}
	return output.NewExternalError("gh", pexec.ExitCode(err), msg, err)
}

func streamError(err error) error {
	if pexec.IsNotFound(err) {
		return output.NewUserError(ghInstallHint)
	}
	return output.NewExternalError("gh", pexec.ExitCode(err), "", err)
}
