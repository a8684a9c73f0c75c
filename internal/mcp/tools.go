package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/gpp/internal/github"
)

// --- Status tool ---

// StatusInput is the input for the status tool (no parameters needed).
type StatusInput struct{}

// StatusOutput is the output for the status tool.
type StatusOutput struct {
	Root       string `json:"root"        jsonschema:"repository top-level directory"`
	Branch     string `json:"branch"      jsonschema:"current branch (HEAD when detached)"`
	Head       string `json:"head"        jsonschema:"HEAD commit SHA"`
	Dirty      bool   `json:"dirty"       jsonschema:"true when git status --porcelain is non-empty"`
	BaseBranch string `json:"base_branch" jsonschema:"branch new work is cut from"`
	Remote     string `json:"remote"      jsonschema:"remote gpp pushes to"`
}

func handleStatus(svc Services) mcp.ToolHandlerFor[StatusInput, StatusOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ StatusInput) (*mcp.CallToolResult, StatusOutput, error) {
		root, err := svc.Git.RepoRoot(ctx)
		if err != nil {
			return nil, StatusOutput{}, fmt.Errorf("getting repo root: %w", err)
		}
		branch, err := svc.Git.CurrentBranch(ctx)
		if err != nil {
			return nil, StatusOutput{}, fmt.Errorf("getting current branch: %w", err)
		}
		head, err := svc.Git.HEAD(ctx)
		if err != nil {
			return nil, StatusOutput{}, fmt.Errorf("getting HEAD: %w", err)
		}
		dirty, err := svc.Git.HasUncommittedChanges(ctx)
		if err != nil {
			return nil, StatusOutput{}, fmt.Errorf("checking git status: %w", err)
		}
		return nil, StatusOutput{
			Root:       root,
			Branch:     branch,
			Head:       head,
			Dirty:      dirty,
			BaseBranch: svc.Config.BaseBranch,
			Remote:     svc.Config.Remote,
		}, nil
	}
}

// --- Branches tool ---

// BranchesInput is the input for the branches tool.
type BranchesInput struct {
	Count int `json:"count,omitempty" jsonschema:"maximum number of branches (default from config, 10)"`
}

// BranchSummary is one local branch.
type BranchSummary struct {
	Name       string `json:"name"        jsonschema:"branch name"`
	LastChange string `json:"last_change" jsonschema:"relative time of the last commit"`
}

// BranchesOutput is the output for the branches tool.
type BranchesOutput struct {
	Branches []BranchSummary `json:"branches" jsonschema:"branches, most recently changed first"`
}

func handleBranches(svc Services) mcp.ToolHandlerFor[BranchesInput, BranchesOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input BranchesInput) (*mcp.CallToolResult, BranchesOutput, error) {
		count := input.Count
		if count <= 0 {
			count = svc.Config.BranchCount
		}
		refs, err := svc.Git.RecentBranches(ctx, count)
		if err != nil {
			return nil, BranchesOutput{}, fmt.Errorf("listing branches: %w", err)
		}
		return nil, BranchesOutput{Branches: toBranchSummaries(refs)}, nil
	}
}

// --- Pull requests tool ---

// PullRequestsInput is the input for the pull_requests tool.
type PullRequestsInput struct {
	Author string `json:"author,omitempty" jsonschema:"GitHub login, or @me for the authenticated user (default)"`
}

// PRSummary is one open pull request.
type PRSummary struct {
	Number      int                 `json:"number"       jsonschema:"pull request number"`
	Title       string              `json:"title"        jsonschema:"pull request title"`
	Branch      string              `json:"branch"       jsonschema:"head branch"`
	ChecksState string              `json:"checks_state" jsonschema:"overall CI state: none, failed, pending, passed or skipped"`
	Checks      github.CheckSummary `json:"checks"       jsonschema:"check counts by outcome"`
}

// PullRequestsOutput is the output for the pull_requests tool.
type PullRequestsOutput struct {
	PullRequests []PRSummary `json:"pull_requests" jsonschema:"open pull requests"`
}

func handlePullRequests(svc Services) mcp.ToolHandlerFor[PullRequestsInput, PullRequestsOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PullRequestsInput) (*mcp.CallToolResult, PullRequestsOutput, error) {
		if err := svc.GitHub.Available(); err != nil {
			return nil, PullRequestsOutput{}, err
		}
		author := input.Author
		if author == "" {
			author = svc.Config.PRAuthor
		}
		prs, err := svc.GitHub.ListPRs(ctx, author)
		if err != nil {
			return nil, PullRequestsOutput{}, fmt.Errorf("listing pull requests: %w", err)
		}
		return nil, PullRequestsOutput{PullRequests: toPRSummaries(prs)}, nil
	}
}

// --- Worktrees tool ---

// WorktreesInput is the input for the worktrees tool.
type WorktreesInput struct {
	All bool `json:"all,omitempty" jsonschema:"include worktrees gpp did not create"`
}

// WorktreeSummary is one worktree.
type WorktreeSummary struct {
	Path     string `json:"path"               jsonschema:"worktree directory"`
	Branch   string `json:"branch,omitempty"   jsonschema:"checked-out branch"`
	HEAD     string `json:"head"               jsonschema:"short HEAD SHA"`
	Detached bool   `json:"detached,omitempty" jsonschema:"true when HEAD is detached"`
}

// WorktreesOutput is the output for the worktrees tool.
type WorktreesOutput struct {
	Worktrees []WorktreeSummary `json:"worktrees" jsonschema:"worktrees, main first"`
}

func handleWorktrees(svc Services) mcp.ToolHandlerFor[WorktreesInput, WorktreesOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input WorktreesInput) (*mcp.CallToolResult, WorktreesOutput, error) {
		worktrees, err := svc.Worktrees.List(ctx, input.All)
		if err != nil {
			return nil, WorktreesOutput{}, err
		}
		return nil, WorktreesOutput{Worktrees: toWorktreeSummaries(worktrees)}, nil
	}
}
