package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gorewood/gpp/internal/github"
)

// newMergeCmd creates the merge command.
func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <pr>",
		Short: "Add the merge label to a pull request",
		Long: `Add the merge label (merge_label in config, default "merge") to a PR,
for repositories where a bot merges labelled PRs.

Examples:
  gpp merge 123
  gpp merge '#123'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, args[0])
		},
	}
}

func runMerge(cmd *cobra.Command, arg string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	number, err := github.ParsePRNumber(arg)
	if err != nil {
		return a.fail(err)
	}
	if err := a.requireGH(); err != nil {
		return err
	}

	label := a.cfg.MergeLabel
	a.printer.Progress("Adding '%s' label to PR #%d...", label, number)
	if err := a.gh.AddLabel(cmd.Context(), number, label); err != nil {
		return a.fail(err)
	}

	result := map[string]any{"number": number, "label": label}
	return a.done(result, fmt.Sprintf("Added '%s' label to PR #%d", label, number), "")
}
