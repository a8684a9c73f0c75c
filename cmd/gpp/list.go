package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gorewood/gpp/internal/github"
)

// prListItem is the JSON shape of one row of `gpp list`.
type prListItem struct {
	Number int                 `json:"number"`
	Title  string              `json:"title"`
	Branch string              `json:"branch"`
	State  github.CheckState   `json:"checks_state"`
	Checks github.CheckSummary `json:"checks"`
}

// newListCmd creates the list command.
func newListCmd() *cobra.Command {
	var author string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List open pull requests with their CI status",
		Long: `List open pull requests by an author with a summary of their checks.

The checks column shows the most pressing state: any failure, then
pending, then passed, then skipped.

Examples:
  gpp list                 # Your open PRs
  gpp list -a octocat      # Someone else's
  gpp list --json          # Output as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, author)
		},
	}
	cmd.Flags().StringVarP(&author, "author", "a", "", "PR author (default from config, @me)")
	return cmd
}

func runList(cmd *cobra.Command, author string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireGH(); err != nil {
		return err
	}
	if author == "" {
		author = a.cfg.PRAuthor
	}

	prs, err := a.gh.ListPRs(cmd.Context(), author)
	if err != nil {
		return a.fail(err)
	}

	if a.printer.IsJSON() {
		items := make([]prListItem, 0, len(prs))
		for _, pr := range prs {
			summary := github.Summarize(pr.StatusCheckRollup)
			items = append(items, prListItem{
				Number: pr.Number,
				Title:  pr.Title,
				Branch: pr.HeadRefName,
				State:  summary.State(),
				Checks: summary,
			})
		}
		return a.printer.WriteJSON(map[string]any{"pull_requests": items})
	}
	if len(prs) == 0 {
		a.printer.Println("No PRs found")
		return nil
	}

	rows := make([][]string, 0, len(prs))
	for _, pr := range prs {
		rows = append(rows, []string{
			"#" + strconv.Itoa(pr.Number),
			pr.Title,
			pr.HeadRefName,
			github.Summarize(pr.StatusCheckRollup).String(),
		})
	}
	a.printer.Table([]string{"PR #", "Title", "Branch", "Checks"}, rows)
	return nil
}
