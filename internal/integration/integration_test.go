//go:build integration

// Package integration provides integration tests for the gpp CLI.
// These tests build the binary, create real git repositories with a bare
// origin, and put a scripted gh on PATH.
//
// Run with: go test -tags=integration ./internal/integration/...
package integration

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// fakeGH records its arguments to $GH_LOG and answers from canned files.
const fakeGH = `#!/bin/sh
echo "$*" >> "$GH_LOG"
if [ -n "$GH_EXIT" ]; then
  echo "gh: simulated failure" >&2
  exit "$GH_EXIT"
fi
case "$1 $2" in
  "pr list") cat "$GH_PRS" ;;
  "pr create") echo "https://github.com/acme/api/pull/7" ;;
esac
`

// testRepo is a git repository next to a bare origin, with gpp built and
// a fake gh installed.
type testRepo struct {
	t      *testing.T
	dir    string
	binary string
	env    []string
	ghLog  string
}

// newTestRepo creates <tmp>/api with one commit on master pushed to origin.
func newTestRepo(t *testing.T) *testRepo {
	t.Helper()

	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	binDir := filepath.Join(root, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatal(err)
	}
	binary := buildGPP(t, binDir)
	if err := os.WriteFile(filepath.Join(binDir, "gh"), []byte(fakeGH), 0o755); err != nil { //nolint:gosec // test script
		t.Fatal(err)
	}

	ghLog := filepath.Join(root, "gh.log")
	repo := &testRepo{
		t:      t,
		dir:    filepath.Join(root, "api"),
		binary: binary,
		ghLog:  ghLog,
		env: append(os.Environ(),
			"PATH="+binDir+string(os.PathListSeparator)+os.Getenv("PATH"),
			"GPP_CONFIG_HOME="+filepath.Join(root, "config"),
			"GH_LOG="+ghLog,
			"GH_PRS="+filepath.Join(root, "prs.json"),
		),
	}

	origin := filepath.Join(root, "api.git")
	runIn(t, root, "git", "init", "--bare", "-b", "master", origin)
	if err := os.Mkdir(repo.dir, 0o755); err != nil {
		t.Fatal(err)
	}
	repo.git("init", "-b", "master")
	repo.git("remote", "add", "origin", origin)
	repo.git("config", "user.email", "test@example.com")
	repo.git("config", "user.name", "Test User")
	repo.git("config", "commit.gpgsign", "false")
	repo.createFile("app.txt", "v1\n")
	repo.commit("Initial commit")
	repo.git("push", "-u", "origin", "master")

	return repo
}

// buildGPP compiles cmd/gpp into dir.
func buildGPP(t *testing.T, dir string) string {
	t.Helper()

	binary := filepath.Join(dir, "gpp")
	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/gpp")
	buildCmd.Dir = findProjectRoot(t)
	buildCmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build gpp: %v\n%s", err, output)
	}
	return binary
}

// findProjectRoot locates the project root by finding go.mod.
func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

func runIn(t *testing.T, dir string, name string, args ...string) string {
	t.Helper()

	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("%s %v failed: %v\n%s", name, args, err, output)
	}
	return strings.TrimSpace(string(output))
}

// git runs a git command in the test repo.
func (r *testRepo) git(args ...string) string {
	r.t.Helper()
	return runIn(r.t, r.dir, "git", args...)
}

// createFile creates a file with the given content.
func (r *testRepo) createFile(name, content string) {
	r.t.Helper()

	path := filepath.Join(r.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		r.t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		r.t.Fatalf("failed to write file %s: %v", name, err)
	}
}

// commit creates a commit with the given message.
func (r *testRepo) commit(msg string) {
	r.t.Helper()

	r.git("add", "-A")
	r.git("commit", "-m", msg)
}

// gpp runs the binary with extra environment entries.
// Returns stdout, stderr, and the process exit code.
func (r *testRepo) gpp(env []string, args ...string) (string, string, int) {
	r.t.Helper()

	cmd := exec.Command(r.binary, args...)
	cmd.Dir = r.dir
	cmd.Env = append(append([]string{}, r.env...), env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return stdout.String(), stderr.String(), 0
	case errors.As(err, &exitErr):
		return stdout.String(), stderr.String(), exitErr.ExitCode()
	default:
		r.t.Fatalf("running gpp %v: %v", args, err)
		return "", "", -1
	}
}

// gppOK runs gpp and expects success.
func (r *testRepo) gppOK(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.gpp(nil, args...)
	if code != 0 {
		r.t.Fatalf("gpp %v exited %d\nstdout: %s\nstderr: %s", args, code, stdout, stderr)
	}
	return stdout
}

// ghCalls returns the argument lines the fake gh received.
func (r *testRepo) ghCalls() []string {
	r.t.Helper()

	data, err := os.ReadFile(r.ghLog)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		r.t.Fatal(err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

type jsonError struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func parseJSONError(t *testing.T, stdout string) jsonError {
	t.Helper()

	var result jsonError
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("expected JSON error output, got: %s", stdout)
	}
	return result
}

// TestErrorNotGitRepo checks every repository command refuses to run
// outside a git repository with exit code 1.
func TestErrorNotGitRepo(t *testing.T) {
	dir := t.TempDir()
	binary := buildGPP(t, dir)

	nonGitDir := filepath.Join(dir, "not-a-repo")
	if err := os.MkdirAll(nonGitDir, 0o755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}

	cmds := [][]string{
		{"move", "feature"},
		{"diff"},
		{"branch"},
		{"list"},
		{"wt", "list"},
	}

	for _, args := range cmds {
		t.Run(strings.Join(args, "_"), func(t *testing.T) {
			cmd := exec.Command(binary, append(args, "--json")...)
			cmd.Dir = nonGitDir
			cmd.Env = append(os.Environ(), "GPP_CONFIG_HOME="+t.TempDir())

			out, err := cmd.Output()
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				t.Fatalf("expected exit error for %v outside git repo, got %v", args, err)
			}
			if exitErr.ExitCode() != 1 {
				t.Errorf("exit code = %d, want 1", exitErr.ExitCode())
			}

			errResult := parseJSONError(t, string(out))
			if errResult.Error != "not in a git repository" {
				t.Errorf("error = %q", errResult.Error)
			}
		})
	}
}

// TestCherryWorkflow runs cherry from a scratch branch with uncommitted
// work: the commit lands on a new kebab-case branch, is pushed, and a PR
// is opened with the merge label.
func TestCherryWorkflow(t *testing.T) {
	repo := newTestRepo(t)

	repo.git("checkout", "-b", "scratch")
	repo.createFile("app.txt", "v2\n")

	stdout := repo.gppOK("cherry", "Fix login bug!", "--merge", "--json")

	var result struct {
		Branch         string   `json:"branch"`
		OriginalBranch string   `json:"original_branch"`
		Commits        []string `json:"commits"`
		URL            string   `json:"url"`
	}
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\n%s", err, stdout)
	}
	if result.Branch != "fix-login-bug" || result.OriginalBranch != "scratch" {
		t.Errorf("result = %+v", result)
	}
	if len(result.Commits) != 1 {
		t.Errorf("commits = %v, want 1", result.Commits)
	}
	if result.URL != "https://github.com/acme/api/pull/7" {
		t.Errorf("url = %q", result.URL)
	}

	if branch := repo.git("rev-parse", "--abbrev-ref", "HEAD"); branch != "scratch" {
		t.Errorf("should be back on scratch, got %q", branch)
	}
	if remote := repo.git("ls-remote", "--heads", "origin", "fix-login-bug"); remote == "" {
		t.Error("fix-login-bug was not pushed")
	}
	if subject := repo.git("log", "-1", "--format=%s", "fix-login-bug"); subject != "Fix login bug!" {
		t.Errorf("picked commit subject = %q", subject)
	}

	calls := repo.ghCalls()
	want := "pr create --title Fix login bug! --body Fix login bug! --label merge"
	if len(calls) != 1 || calls[0] != want {
		t.Errorf("gh calls = %q, want [%q]", calls, want)
	}
}

// TestCherryNumWithDirtyTree checks -n is refused before anything changes.
func TestCherryNumWithDirtyTree(t *testing.T) {
	repo := newTestRepo(t)
	repo.createFile("app.txt", "dirty\n")

	stdout, _, code := repo.gpp(nil, "cherry", "Title", "-n", "2", "--json")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if e := parseJSONError(t, stdout); !strings.Contains(e.Error, "cannot use -n with uncommitted changes") {
		t.Errorf("error = %q", e.Error)
	}
	if status := repo.git("status", "--porcelain"); status != "M app.txt" {
		t.Errorf("working tree changed: %q", status)
	}
	if branches := repo.git("branch", "--list", "title"); branches != "" {
		t.Errorf("branch created: %q", branches)
	}
}

// TestPRWorkflow commits, pushes the current branch, and opens a PR.
func TestPRWorkflow(t *testing.T) {
	repo := newTestRepo(t)
	repo.git("checkout", "-b", "feature")
	repo.createFile("feature.txt", "new\n")

	stdout := repo.gppOK("pr", "Add feature", "--commit", "--body", "Details")
	if !strings.Contains(stdout, "https://github.com/acme/api/pull/7") {
		t.Errorf("gh output should be streamed, got %q", stdout)
	}
	if remote := repo.git("ls-remote", "--heads", "origin", "feature"); remote == "" {
		t.Error("feature was not pushed")
	}

	calls := repo.ghCalls()
	if len(calls) != 1 || calls[0] != "pr create --title Add feature --body Details" {
		t.Errorf("gh calls = %q", calls)
	}
}

// TestPRWorkflow_EmptyBody checks an explicit empty --body is not
// replaced by the message.
func TestPRWorkflow_EmptyBody(t *testing.T) {
	repo := newTestRepo(t)
	repo.git("checkout", "-b", "feature")

	repo.gppOK("pr", "Add feature", "--body", "")

	calls := repo.ghCalls()
	if len(calls) != 1 || calls[0] != "pr create --title Add feature --body" {
		t.Errorf("gh calls = %q", calls)
	}
}

// TestListAndMerge drives list and merge through the fake gh.
func TestListAndMerge(t *testing.T) {
	repo := newTestRepo(t)

	prs := `[
  {"number": 12, "title": "Fix login", "headRefName": "fix-login",
   "statusCheckRollup": [
     {"__typename": "CheckRun", "conclusion": "FAILURE", "status": "COMPLETED"},
     {"__typename": "CheckRun", "conclusion": "SUCCESS", "status": "COMPLETED"}]},
  {"number": 15, "title": "Docs", "headRefName": "docs", "statusCheckRollup": []}
]`
	var prsPath string
	for _, kv := range repo.env {
		if v, ok := strings.CutPrefix(kv, "GH_PRS="); ok {
			prsPath = v
		}
	}
	if err := os.WriteFile(prsPath, []byte(prs), 0o600); err != nil {
		t.Fatal(err)
	}

	stdout := repo.gppOK("list", "--author", "octocat")
	for _, expected := range []string{"PR #", "Checks", "Fix login", "❌ 1/2 failed", "❓ No checks"} {
		if !strings.Contains(stdout, expected) {
			t.Errorf("list output should contain %q:\n%s", expected, stdout)
		}
	}

	repo.gppOK("merge", "#12")

	calls := repo.ghCalls()
	want := []string{
		"pr list --author octocat --json number,title,headRefName,statusCheckRollup",
		"pr edit 12 --add-label merge",
	}
	if strings.Join(calls, "\n") != strings.Join(want, "\n") {
		t.Errorf("gh calls = %q, want %q", calls, want)
	}
}

// TestExternalExitCodeMirrored checks gpp exits with the failing tool's status.
func TestExternalExitCodeMirrored(t *testing.T) {
	repo := newTestRepo(t)

	_, stderr, code := repo.gpp([]string{"GH_EXIT=4"}, "merge", "12")
	if code != 4 {
		t.Errorf("gh failure: exit code = %d, want 4", code)
	}
	if !strings.Contains(stderr, "simulated failure") {
		t.Errorf("stderr = %q", stderr)
	}

	_, _, code = repo.gpp([]string{"GPP_BASE_BRANCH=does-not-exist"}, "diff")
	if code != 128 {
		t.Errorf("git diff failure: exit code = %d, want 128", code)
	}
}

// TestMoveWorkflow carries uncommitted work onto a branch cut from the
// updated base branch.
func TestMoveWorkflow(t *testing.T) {
	repo := newTestRepo(t)

	// Someone else advances origin/master.
	other := filepath.Join(filepath.Dir(repo.dir), "other")
	runIn(t, filepath.Dir(repo.dir), "git", "clone", filepath.Join(filepath.Dir(repo.dir), "api.git"), other)
	runIn(t, other, "git", "-c", "user.email=o@example.com", "-c", "user.name=Other", "commit", "--allow-empty", "-m", "Upstream change")
	runIn(t, other, "git", "push", "origin", "HEAD:master")

	repo.createFile("app.txt", "work in progress\n")
	repo.gppOK("move", "wip")

	if branch := repo.git("rev-parse", "--abbrev-ref", "HEAD"); branch != "wip" {
		t.Errorf("branch = %q, want wip", branch)
	}
	if subject := repo.git("log", "-1", "--format=%s"); subject != "Upstream change" {
		t.Errorf("wip should start from the updated master, HEAD is %q", subject)
	}
	if status := repo.git("status", "--porcelain"); status != "M app.txt" {
		t.Errorf("status = %q, changes should be carried over", status)
	}
}

// TestWtShellEval checks the --shell line can be evaluated as is.
func TestWtShellEval(t *testing.T) {
	repo := newTestRepo(t)
	repo.createFile(".envrc", "export API=1\n")

	stdout, stderr, code := repo.gpp([]string{"GPP_POST_CREATE=pwd"}, "wt", "create", "feature/login", "--shell")
	if code != 0 {
		t.Fatalf("wt create exited %d: %s", code, stderr)
	}

	wtPath := filepath.Join(filepath.Dir(repo.dir), "api-feature-login")
	if want := `cd "` + wtPath + `" && pwd` + "\n"; stdout != want {
		t.Fatalf("stdout = %q, want %q", stdout, want)
	}

	out := runIn(t, repo.dir, "sh", "-c", stdout)
	if out != wtPath {
		t.Errorf("eval ran in %q, want %q", out, wtPath)
	}
	if _, err := os.Stat(filepath.Join(wtPath, ".envrc")); err != nil {
		t.Errorf(".envrc not linked: %v", err)
	}

	listOut := repo.gppOK("wt", "list")
	if !strings.Contains(listOut, wtPath) || !strings.Contains(listOut, "feature/login") {
		t.Errorf("wt list output:\n%s", listOut)
	}

	repo.gppOK("wt", "delete", "feature/login", "--force", "--keep-branch")
	if branches := repo.git("branch", "--list", "feature/login"); branches == "" {
		t.Error("--keep-branch should keep the branch")
	}
}
