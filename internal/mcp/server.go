// Package mcp provides a Model Context Protocol server for gpp.
// It exposes read-only repository views (branches, pull requests,
// worktrees, status) as MCP tools that any MCP-capable agent can use.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/gpp/internal/config"
	"github.com/gorewood/gpp/internal/git"
	"github.com/gorewood/gpp/internal/github"
	"github.com/gorewood/gpp/internal/worktree"
)

// Services are the clients the tools read through.
type Services struct {
	Git       *git.Client
	GitHub    *github.Client
	Worktrees *worktree.Manager
	Config    config.Config
}

// NewServer creates an MCP server with all gpp tools registered.
func NewServer(version string, svc Services) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "gpp",
		Version: version,
	}, nil)
	registerTools(server, svc)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools. pull_requests
// talks to GitHub, so callers override OpenWorldHint for it.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// registerTools adds all gpp tools to the server.
func registerTools(server *mcp.Server, svc Services) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "status",
		Description: "Show repository state: root, current branch, HEAD, whether the tree has uncommitted changes, and the configured base branch and remote.",
		Annotations: readOnlyAnnotations(),
	}, handleStatus(svc))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "branches",
		Description: "List local branches by most recent commit, with a relative last-change time.",
		Annotations: readOnlyAnnotations(),
	}, handleBranches(svc))

	prAnnotations := readOnlyAnnotations()
	prAnnotations.OpenWorldHint = boolPtr(true)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "pull_requests",
		Description: "List open pull requests by author (default: the authenticated user) with a CI check summary for each.",
		Annotations: prAnnotations,
	}, handlePullRequests(svc))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "worktrees",
		Description: "List gpp-managed worktrees (siblings named <repo>-<branch>) and the main worktree, or every worktree with all=true.",
		Annotations: readOnlyAnnotations(),
	}, handleWorktrees(svc))
}
