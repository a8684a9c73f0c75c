package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gorewood/gpp/internal/output"
	"github.com/gorewood/gpp/internal/workflow"
)

// newCherryCmd creates the cherry command.
func newCherryCmd() *cobra.Command {
	var (
		opts workflow.CherryOptions
		body string
	)
	cmd := &cobra.Command{
		Use:   "cherry <title>",
		Short: "Cherry-pick work onto a new branch off the base branch and open a PR",
		Long: `Land work on its own branch and open a pull request, without leaving
the current branch.

Steps:
  1. Commit uncommitted changes with the title (or, on a clean tree, take
     the last -n commits)
  2. Switch to the base branch and pull the latest changes
  3. Create a branch named after the title in kebab-case
  4. Cherry-pick the commits onto it and push
  5. Open a PR with the title and body
  6. Switch back to the original branch

Examples:
  gpp cherry "Fix login redirect"        # Commit changes and PR them
  gpp cherry "Refactor auth" -n 3        # PR the last three commits
  gpp cherry "Bump deps" -m -b "Weekly"  # Add the merge label and a body`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Title = args[0]
			if cmd.Flags().Changed("body") {
				opts.Body = &body
			}
			return runCherry(cmd, opts)
		},
	}
	cmd.Flags().IntVarP(&opts.Num, "num", "n", 0, "Number of previous commits to cherry-pick (default 1)")
	cmd.Flags().BoolVarP(&opts.Merge, "merge", "m", false, "Add the merge label to the PR")
	cmd.Flags().StringVarP(&body, "body", "b", "", "PR body (defaults to the title)")
	return cmd
}

func runCherry(cmd *cobra.Command, opts workflow.CherryOptions) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("num") && opts.Num < 1 {
		return a.fail(output.NewUserErrorf("--num must be at least 1, got %d", opts.Num))
	}
	result, err := a.runner().Cherry(cmd.Context(), opts)
	if err != nil {
		return a.fail(err)
	}
	hint := fmt.Sprintf("Branch created: %s, back on: %s", result.Branch, result.OriginalBranch)
	return a.done(result, "Cherry-pick workflow completed successfully!", hint)
}
