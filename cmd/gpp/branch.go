package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/gpp/internal/git"
	"github.com/gorewood/gpp/internal/output"
)

// newBranchCmd creates the branch command.
func newBranchCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "branch",
		Short: "List the most recently changed branches",
		Long: `List local branches sorted by their last commit, newest first.

Examples:
  gpp branch              # Top branches (branch_count from config, default 10)
  gpp branch --count 25   # Show more
  gpp branch --json       # Output as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBranch(cmd, count)
		},
	}
	cmd.Flags().IntVar(&count, "count", 0, "Number of branches to show (default from config)")
	return cmd
}

func runBranch(cmd *cobra.Command, count int) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("count") && count < 1 {
		return a.fail(output.NewUserErrorf("--count must be at least 1, got %d", count))
	}
	if count == 0 {
		count = a.cfg.BranchCount
	}

	refs, err := a.git.RecentBranches(cmd.Context(), count)
	if err != nil {
		return a.fail(err)
	}

	if a.printer.IsJSON() {
		if refs == nil {
			refs = []git.BranchRef{}
		}
		return a.printer.WriteJSON(map[string]any{"branches": refs})
	}
	if len(refs) == 0 {
		a.printer.Println("No branches found")
		return nil
	}

	rows := make([][]string, 0, len(refs))
	for _, ref := range refs {
		rows = append(rows, []string{ref.Name, ref.LastChange})
	}
	a.printer.Table([]string{"Branch", "Last Change"}, rows)
	return nil
}
