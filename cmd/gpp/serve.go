package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	gppmcp "github.com/gorewood/gpp/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run gpp as a Model Context Protocol (MCP) server over stdio.

This exposes read-only views of the repository as MCP tools that any
MCP-capable agent environment can use.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "gpp": {
        "command": "gpp",
        "args": ["serve"]
      }
    }
  }

Available tools: status, branches, pull_requests, worktrees`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			return newServer(a).Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}

// newServer builds the MCP server over the app's clients and config.
func newServer(a *app) *mcp.Server {
	return gppmcp.NewServer(buildVersion(), gppmcp.Services{
		Git:       a.git,
		GitHub:    a.gh,
		Worktrees: a.worktrees(nil),
		Config:    a.cfg,
	})
}
