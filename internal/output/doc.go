// Package output provides structured output handling for the gpp CLI.
//
// Every command renders through a Printer so the same code path serves both
// humans and scripts:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonMode, isTTY)
//	printer.Progress("Stashing current changes...")
//	printer.Table([]string{"Branch", "Last Change"}, rows)
//	printer.Success(map[string]any{"message": "Worktree removed"})
//
// # JSON Mode
//
// With --json, progress lines are suppressed and results are emitted as a
// single JSON document. Errors become {"error": "message", "code": N}.
//
// # Exit Codes
//
//	output.ExitSuccess     // 0
//	output.ExitUserError   // 1: bad arguments, not a repository, gh missing
//	output.ExitSystemError // 2: I/O failures
//	output.ExitConflict    // 3: worktree directory already exists
//
// Failed git/gh invocations are reported with NewExternalError, whose code
// mirrors the tool's own exit status.
package output
