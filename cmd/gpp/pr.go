package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/gpp/internal/workflow"
)

// newPRCmd creates the pr command.
func newPRCmd() *cobra.Command {
	var (
		opts workflow.PROptions
		body string
	)
	cmd := &cobra.Command{
		Use:   "pr <message>",
		Short: "Push the current branch and open a pull request",
		Long: `Push the current branch and open a pull request with gh.

The message is the PR title, and the body unless --body is given. With
--commit, uncommitted changes are staged and committed with the message
first.

Examples:
  gpp pr "Fix login redirect"              # Push and open a PR
  gpp pr "Fix login redirect" -c           # Commit everything first
  gpp pr "Fix login redirect" -m -b "..."  # Add the merge label and a body`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Message = args[0]
			if cmd.Flags().Changed("body") {
				opts.Body = &body
			}
			return runPR(cmd, opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.Commit, "commit", "c", false, "Commit uncommitted changes first")
	cmd.Flags().BoolVarP(&opts.Merge, "merge", "m", false, "Add the merge label to the PR")
	cmd.Flags().StringVarP(&body, "body", "b", "", "PR body (defaults to the message)")
	return cmd
}

func runPR(cmd *cobra.Command, opts workflow.PROptions) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	result, err := a.runner().PR(cmd.Context(), opts)
	if err != nil {
		return a.fail(err)
	}
	return a.done(result, "Pull request created for '"+result.Branch+"'", result.URL)
}
