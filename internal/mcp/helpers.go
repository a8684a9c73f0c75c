package mcp

import (
	"github.com/gorewood/gpp/internal/git"
	"github.com/gorewood/gpp/internal/github"
)

// toBranchSummaries converts for-each-ref results for output.
func toBranchSummaries(refs []git.BranchRef) []BranchSummary {
	result := make([]BranchSummary, 0, len(refs))
	for _, ref := range refs {
		result = append(result, BranchSummary{Name: ref.Name, LastChange: ref.LastChange})
	}
	return result
}

// toPRSummaries attaches a check summary to each pull request.
func toPRSummaries(prs []github.PullRequest) []PRSummary {
	result := make([]PRSummary, 0, len(prs))
	for _, pr := range prs {
		checks := github.Summarize(pr.StatusCheckRollup)
		result = append(result, PRSummary{
			Number:      pr.Number,
			Title:       pr.Title,
			Branch:      pr.HeadRefName,
			ChecksState: string(checks.State()),
			Checks:      checks,
		})
	}
	return result
}

// toWorktreeSummaries converts porcelain entries for output.
func toWorktreeSummaries(worktrees []git.Worktree) []WorktreeSummary {
	result := make([]WorktreeSummary, 0, len(worktrees))
	for _, wt := range worktrees {
		result = append(result, WorktreeSummary{
			Path:     wt.Path,
			Branch:   wt.Branch,
			HEAD:     git.ShortSHA(wt.HEAD),
			Detached: wt.Detached,
		})
	}
	return result
}
