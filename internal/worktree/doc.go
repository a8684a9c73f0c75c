// Package worktree manages sibling git worktrees named <repo>-<branch>.
//
// A managed worktree lives next to the main checkout:
//
//	~/src/api           main worktree
//	~/src/api-feature   gpp wt create feature
//
// and gets a relative symlink to the main worktree's env file (.envrc by
// default) so direnv picks up the same settings.
package worktree
