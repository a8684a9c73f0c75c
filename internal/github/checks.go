package github

import (
	"fmt"
	"strings"
)

// PullRequest is one element of `gh pr list --json number,title,headRefName,statusCheckRollup`.
type PullRequest struct {
	Number            int           `json:"number"`
	Title             string        `json:"title"`
	HeadRefName       string        `json:"headRefName"`
	StatusCheckRollup []StatusCheck `json:"statusCheckRollup"`
}

// StatusCheck is a rollup entry: either a CheckRun (conclusion/status) or a
// legacy StatusContext (state).
type StatusCheck struct {
	TypeName   string `json:"__typename"`
	Name       string `json:"name,omitempty"`
	Context    string `json:"context,omitempty"`
	Conclusion string `json:"conclusion,omitempty"`
	Status     string `json:"status,omitempty"`
	State      string `json:"state,omitempty"`
}

// CheckState is the overall CI state of a pull request.
type CheckState string

const (
	ChecksNone    CheckState = "none"
	ChecksFailed  CheckState = "failed"
	ChecksPending CheckState = "pending"
	ChecksPassed  CheckState = "passed"
	ChecksSkipped CheckState = "skipped"
)

// CheckSummary counts rollup entries by outcome. Entries that fit no bucket
// (cancelled, neutral, stale) count only toward Total.
type CheckSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Pending int `json:"pending"`
	Skipped int `json:"skipped"`
}

// Summarize reduces a status rollup to counts.
func Summarize(rollup []StatusCheck) CheckSummary {
	summary := CheckSummary{Total: len(rollup)}
	for _, check := range rollup {
		switch check.TypeName {
		case "CheckRun":
			summarizeCheckRun(&summary, check)
		case "StatusContext":
			summarizeStatusContext(&summary, check)
		}
	}
	return summary
}

func summarizeCheckRun(s *CheckSummary, check StatusCheck) {
	switch strings.ToUpper(check.Conclusion) {
	case "SUCCESS":
		s.Passed++
	case "FAILURE", "TIMED_OUT", "STARTUP_FAILURE":
		s.Failed++
	case "SKIPPED":
		s.Skipped++
	case "":
		switch strings.ToUpper(check.Status) {
		case "IN_PROGRESS", "QUEUED", "PENDING", "WAITING", "REQUESTED":
			s.Pending++
		}
	}
}

func summarizeStatusContext(s *CheckSummary, check StatusCheck) {
	switch strings.ToUpper(check.State) {
	case "SUCCESS":
		s.Passed++
	case "FAILURE", "ERROR":
		s.Failed++
	case "PENDING", "EXPECTED":
		s.Pending++
	}
}

// State applies the display precedence: any failure wins, then pending,
// then passed, then skipped.
func (s CheckSummary) State() CheckState {
	switch {
	case s.Total == 0:
		return ChecksNone
	case s.Failed > 0:
		return ChecksFailed
	case s.Pending > 0:
		return ChecksPending
	case s.Passed > 0:
		return ChecksPassed
	default:
		return ChecksSkipped
	}
}

// String renders the summary for the list table, e.g. "✅ 3/3 passed".
func (s CheckSummary) String() string {
	switch s.State() {
	case ChecksNone:
		return "❓ No checks"
	case ChecksFailed:
		return fmt.Sprintf("❌ %d/%d failed", s.Failed, s.Total)
	case ChecksPending:
		return fmt.Sprintf("⏳ %d/%d pending", s.Pending, s.Total)
	case ChecksPassed:
		return fmt.Sprintf("✅ %d/%d passed", s.Passed, s.Total)
	default:
		return fmt.Sprintf("⚪ %d/%d skipped", s.Skipped, s.Total)
	}
}
