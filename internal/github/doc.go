// Package github wraps the GitHub CLI (gh) for pull request operations.
//
// Every call goes through an exec.CommandExecutor. JSON output from
// `gh ... --json` is decoded with goccy/go-json; CI status rollups are
// reduced to a CheckSummary for display.
package github
