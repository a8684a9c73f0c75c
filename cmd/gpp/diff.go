package main

import (
	"github.com/spf13/cobra"
)

// newDiffCmd creates the diff command.
func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show working tree changes, or the branch diff against the base branch",
		Long: `Show a diff that fits the current state.

With uncommitted changes this is 'git diff'. On a clean tree it is
'git diff <base>...HEAD': everything the current branch adds since it left
the base branch. The exit status mirrors git's.

With --json the diff text is returned in the "diff" field.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			result, err := a.runner().Diff(cmd.Context())
			if err != nil {
				return a.fail(err)
			}
			if a.printer.IsJSON() {
				return a.printer.WriteJSON(result)
			}
			return nil
		},
	}
}
