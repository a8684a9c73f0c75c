package main

import (
	"github.com/spf13/cobra"
)

// newMoveCmd creates the move command.
func newMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <branch>",
		Short: "Move uncommitted changes to a new branch off the updated base branch",
		Long: `Move current uncommitted changes to a new branch based on the updated base branch.

Steps:
  1. Stash current changes (if any)
  2. Switch to the base branch
  3. Pull latest changes from the remote
  4. Create and switch to the new branch
  5. Apply the stashed changes

If the stash cannot be applied, your changes stay in the stash; run
'git stash pop' once the conflict is resolved.

Examples:
  gpp move fix-login          # Carry work in progress onto fix-login
  gpp move fix-login --json   # Report the result as JSON`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMove(cmd, args[0])
		},
	}
}

func runMove(cmd *cobra.Command, branch string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	result, err := a.runner().Move(cmd.Context(), branch)
	if err != nil {
		return a.fail(err)
	}
	return a.done(result, "Successfully moved to branch '"+branch+"'", "")
}
