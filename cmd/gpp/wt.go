package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gorewood/gpp/internal/git"
	"github.com/gorewood/gpp/internal/worktree"
)

// newWtCmd creates the wt command group.
func newWtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wt",
		Short: "Git worktree helpers",
		Long: `Manage sibling worktrees named <repo>-<branch>.

  ~/src/api            main worktree
  ~/src/api-feature    gpp wt create feature

New worktrees get a relative symlink to the main worktree's env file
(env_file in config, default .envrc).`,
	}
	cmd.AddCommand(newWtCreateCmd())
	cmd.AddCommand(newWtDeleteCmd())
	cmd.AddCommand(newWtListCmd())
	return cmd
}

// worktreeResult is the JSON shape of `gpp wt create`.
type worktreeResult struct {
	*worktree.CreateResult
	Shell string `json:"shell"`
}

// newWtCreateCmd creates the wt create command.
func newWtCreateCmd() *cobra.Command {
	var existing, shell bool
	cmd := &cobra.Command{
		Use:   "create <branch>",
		Short: "Create a sibling worktree with the env file linked",
		Long: `Create ../<repo>-<branch> as a worktree on a new branch (or an existing
one with --existing) and link the main worktree's env file into it.

With --shell only a command line is printed on stdout, for eval:

  eval "$(gpp wt create feature --shell)"

which changes into the worktree and runs post_create (default: uv sync).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWtCreate(cmd, args[0], existing, shell)
		},
	}
	cmd.Flags().BoolVarP(&existing, "existing", "e", false, "Check out an existing branch instead of creating one")
	cmd.Flags().BoolVarP(&shell, "shell", "s", false, "Print only a shell command to eval (cd and post-create)")
	return cmd
}

func runWtCreate(cmd *cobra.Command, branch string, existing, shell bool) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	progress := a.printer.Progress
	if shell {
		// stdout is reserved for the eval line
		progress = func(format string, args ...any) {
			_, _ = fmt.Fprintf(a.printer.ErrWriter(), format+"\n", args...)
		}
	}

	result, err := a.worktrees(progress).Create(cmd.Context(), branch, existing)
	if err != nil {
		return a.fail(err)
	}

	line := worktree.ShellCommand(result.Path, a.cfg.PostCreate)
	switch {
	case a.printer.IsJSON():
		return a.printer.WriteJSON(worktreeResult{CreateResult: result, Shell: line})
	case shell:
		a.printer.Println(line)
		return nil
	default:
		return a.printer.Success(map[string]any{
			"message": "Worktree created at " + result.Path,
			"hint":    "Run: " + line,
		})
	}
}

// newWtDeleteCmd creates the wt delete command.
func newWtDeleteCmd() *cobra.Command {
	var force, keepBranch bool
	cmd := &cobra.Command{
		Use:   "delete <branch>",
		Short: "Remove the worktree for a branch and delete the branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWtDelete(cmd, args[0], force, keepBranch)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Remove even with uncommitted or untracked changes")
	cmd.Flags().BoolVarP(&keepBranch, "keep-branch", "k", false, "Keep the branch after removing the worktree")
	return cmd
}

func runWtDelete(cmd *cobra.Command, branch string, force, keepBranch bool) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	result, err := a.worktrees(a.printer.Progress).Delete(cmd.Context(), branch, force, keepBranch)
	if err != nil {
		return a.fail(err)
	}
	if result.Warning != "" && !a.printer.IsJSON() {
		a.printer.Warn("%s", result.Warning)
	}
	return a.done(result, "Worktree removed", "")
}

// newWtListCmd creates the wt list command.
func newWtListCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List gpp-managed worktrees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWtList(cmd, all)
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Show all worktrees, not just gpp-managed ones")
	return cmd
}

func runWtList(cmd *cobra.Command, all bool) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	worktrees, err := a.worktrees(nil).List(cmd.Context(), all)
	if err != nil {
		return a.fail(err)
	}

	if a.printer.IsJSON() {
		if worktrees == nil {
			worktrees = []git.Worktree{}
		}
		return a.printer.WriteJSON(map[string]any{"worktrees": worktrees})
	}
	if len(worktrees) == 0 {
		if all {
			a.printer.Println("No worktrees found")
		} else {
			a.printer.Println("No gpp-managed worktrees found (use --all to see all worktrees)")
		}
		return nil
	}

	rows := make([][]string, 0, len(worktrees))
	for _, wt := range worktrees {
		branch := wt.Branch
		switch {
		case wt.Bare:
			branch = "(bare)"
		case wt.Detached:
			branch = "(detached)"
		}
		rows = append(rows, []string{wt.Path, branch, git.ShortSHA(wt.HEAD)})
	}
	a.printer.Table([]string{"Path", "Branch", "HEAD"}, rows)
	return nil
}
