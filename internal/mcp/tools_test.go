package mcp

import (
	"context"
	"slices"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/gpp/internal/config"
	pexec "github.com/gorewood/gpp/internal/exec"
	"github.com/gorewood/gpp/internal/git"
	"github.com/gorewood/gpp/internal/github"
	"github.com/gorewood/gpp/internal/worktree"
)

// --- Test helpers ---

func makeServices(m *pexec.MockExecutor) Services {
	gitClient := git.NewWithExecutor(m, "/src/api")
	return Services{
		Git:       gitClient,
		GitHub:    github.NewWithExecutor(m, "/src/api"),
		Worktrees: worktree.NewManager(gitClient, worktree.Options{}),
		Config:    config.Default(),
	}
}

// --- Status handler tests ---

func TestHandleStatus(t *testing.T) {
	m := pexec.NewMockExecutor()
	m.AddExactMatch("git", []string{"rev-parse", "--show-toplevel"}, pexec.MockResponse{Stdout: []byte("/src/api\n")})
	m.AddExactMatch("git", []string{"rev-parse", "--abbrev-ref", "HEAD"}, pexec.MockResponse{Stdout: []byte("feature\n")})
	m.AddExactMatch("git", []string{"rev-parse", "HEAD"}, pexec.MockResponse{Stdout: []byte("abc123\n")})
	m.AddExactMatch("git", []string{"status", "--porcelain"}, pexec.MockResponse{Stdout: []byte("?? new.go\n")})

	_, out, err := handleStatus(makeServices(m))(context.Background(), &mcp.CallToolRequest{}, StatusInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := StatusOutput{Root: "/src/api", Branch: "feature", Head: "abc123", Dirty: true, BaseBranch: "master", Remote: "origin"}
	if out != want {
		t.Errorf("out = %+v, want %+v", out, want)
	}
}

func TestHandleStatus_NotARepo(t *testing.T) {
	m := pexec.NewMockExecutor()
	m.AddPrefixMatch("git", []string{"rev-parse"}, pexec.MockResponse{
		Err:    pexec.NewStatusError(128),
		Stderr: []byte("fatal: not a git repository"),
	})

	_, _, err := handleStatus(makeServices(m))(context.Background(), &mcp.CallToolRequest{}, StatusInput{})
	if err == nil {
		t.Fatal("expected error outside a repository")
	}
}

// --- Branches handler tests ---

func TestHandleBranches_DefaultCount(t *testing.T) {
	m := pexec.NewMockExecutor()
	m.AddPrefixMatch("git", []string{"for-each-ref"}, pexec.MockResponse{
		Stdout: []byte("feature|2 hours ago\nmaster|3 days ago\n"),
	})

	_, out, err := handleBranches(makeServices(m))(context.Background(), &mcp.CallToolRequest{}, BranchesInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Branches) != 2 || out.Branches[0].Name != "feature" || out.Branches[1].LastChange != "3 days ago" {
		t.Errorf("Branches = %+v", out.Branches)
	}
	if args := m.GetCalls()[0].Args; !slices.Contains(args, "--count=10") {
		t.Errorf("args = %v, want --count=10 from config", args)
	}
}

func TestHandleBranches_ExplicitCount(t *testing.T) {
	m := pexec.NewMockExecutor()

	_, out, err := handleBranches(makeServices(m))(context.Background(), &mcp.CallToolRequest{}, BranchesInput{Count: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Branches == nil || len(out.Branches) != 0 {
		t.Errorf("Branches = %#v, want empty non-nil slice", out.Branches)
	}
	if args := m.GetCalls()[0].Args; !slices.Contains(args, "--count=3") {
		t.Errorf("args = %v, want --count=3", args)
	}
}

// --- Pull requests handler tests ---

func TestHandlePullRequests(t *testing.T) {
	m := pexec.NewMockExecutor()
	m.AddPrefixMatch("gh", []string{"pr", "list"}, pexec.MockResponse{Stdout: []byte(`[
		{"number": 5, "title": "Fix", "headRefName": "fix",
		 "statusCheckRollup": [{"__typename": "CheckRun", "conclusion": "FAILURE", "status": "COMPLETED"}]}
	]`)})

	_, out, err := handlePullRequests(makeServices(m))(context.Background(), &mcp.CallToolRequest{}, PullRequestsInput{Author: "octocat"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.PullRequests) != 1 {
		t.Fatalf("len(PullRequests) = %d, want 1", len(out.PullRequests))
	}
	pr := out.PullRequests[0]
	if pr.Number != 5 || pr.Branch != "fix" || pr.ChecksState != "failed" || pr.Checks.Failed != 1 {
		t.Errorf("pr = %+v", pr)
	}
	if got := m.CallStrings()[0]; got != "gh pr list --author octocat --json number,title,headRefName,statusCheckRollup" {
		t.Errorf("call = %q", got)
	}
}

func TestHandlePullRequests_GHMissing(t *testing.T) {
	m := pexec.NewMockExecutor()
	m.SetMissing("gh")

	_, _, err := handlePullRequests(makeServices(m))(context.Background(), &mcp.CallToolRequest{}, PullRequestsInput{})
	if err == nil {
		t.Fatal("expected error when gh is missing")
	}
}

// --- Worktrees handler tests ---

func TestHandleWorktrees(t *testing.T) {
	m := pexec.NewMockExecutor()
	m.AddExactMatch("git", []string{"remote", "get-url", "origin"}, pexec.MockResponse{Stdout: []byte("git@github.com:acme/api.git")})
	m.AddExactMatch("git", []string{"worktree", "list", "--porcelain"}, pexec.MockResponse{Stdout: []byte(
		"worktree /src/api\nHEAD 1111111111111111111111111111111111111111\nbranch refs/heads/master\n\n" +
			"worktree /src/api-feature\nHEAD 2222222222222222222222222222222222222222\nbranch refs/heads/feature\n\n" +
			"worktree /tmp/scratch\nHEAD 3333333333333333333333333333333333333333\ndetached\n",
	)})
	handler := handleWorktrees(makeServices(m))

	_, out, err := handler(context.Background(), &mcp.CallToolRequest{}, WorktreesInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Worktrees) != 2 {
		t.Fatalf("len(Worktrees) = %d, want 2", len(out.Worktrees))
	}
	if out.Worktrees[1].Branch != "feature" || out.Worktrees[1].HEAD != "22222222" {
		t.Errorf("Worktrees[1] = %+v", out.Worktrees[1])
	}

	_, out, err = handler(context.Background(), &mcp.CallToolRequest{}, WorktreesInput{All: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Worktrees) != 3 || !out.Worktrees[2].Detached {
		t.Errorf("Worktrees = %+v", out.Worktrees)
	}
}

// --- Server registration test ---

func TestNewServer_RegistersTools(t *testing.T) {
	ctx := context.Background()
	server := NewServer("test-version", makeServices(pexec.NewMockExecutor()))
	if server == nil {
		t.Fatal("NewServer returned nil")
	}

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer serverSession.Close() //nolint:errcheck // test teardown

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close() //nolint:errcheck // test teardown

	res, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
		if tool.Annotations == nil || !tool.Annotations.ReadOnlyHint {
			t.Errorf("tool %s is not marked read-only", tool.Name)
		}
	}
	slices.Sort(names)
	want := []string{"branches", "pull_requests", "status", "worktrees"}
	if !slices.Equal(names, want) {
		t.Errorf("tools = %v, want %v", names, want)
	}
}
