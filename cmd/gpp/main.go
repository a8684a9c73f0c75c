// Package main provides the entry point for the gpp CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gorewood/gpp/internal/config"
	"github.com/gorewood/gpp/internal/envfile"
	"github.com/gorewood/gpp/internal/output"
)

// Build info set via ldflags at build time by goreleaser.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	return boolFlag(cmd, "json")
}

// boolFlag looks a flag up on cmd, then on the root's persistent flags.
func boolFlag(cmd *cobra.Command, name string) bool {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup(name)
	}
	return flag != nil && flag.Value.String() == "true"
}

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd()
	err := fang.Execute(ctx, cmd,
		fang.WithVersion(buildVersion()),
		fang.WithErrorHandler(handleError),
	)
	return output.GetExitCode(err)
}

// handleError prints errors cobra produced itself (bad flags, wrong
// argument count). Command failures are *output.ExitError and have
// already been reported through the Printer.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *output.ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// newRootCmd creates the root command for the gpp CLI.
func newRootCmd() *cobra.Command {
	var installCompletion, showCompletion bool

	cmd := &cobra.Command{
		Use:   "gpp",
		Short: "Git productivity tools",
		Long: `gpp - Git productivity tools for branch, PR and worktree workflows.

gpp wraps git and the GitHub CLI (gh) to automate the everyday loop:
  - Move uncommitted work onto a fresh branch cut from the base branch
  - Cherry-pick work onto a new branch and open a PR in one step
  - Create and remove sibling worktrees with the env file linked in
  - List your open PRs with a CI check summary

All commands support --json for structured output.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch {
			case installCompletion:
				return runInstallCompletion(cmd)
			case showCompletion:
				return runShowCompletion(cmd)
			}
			if isJSONMode(cmd) {
				printer := output.NewPrinter(cmd.OutOrStdout(), true, false)
				err := output.NewUserError("no command specified. Run 'gpp --help' for usage")
				printer.Error(err)
				return err
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if _, err := colorMode(cmd); err != nil {
			output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), false).
				WithStderr(cmd.ErrOrStderr()).
				Error(err)
			return err
		}
		setupLogging(cmd)
		loadEnvFiles()
		return nil
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log every git and gh invocation to stderr")
	cmd.PersistentFlags().String("color", "auto", "Color output: auto, always, never")
	cmd.Flags().BoolVar(&installCompletion, "install-completion", false, "Install completion for the current shell")
	cmd.Flags().BoolVar(&showCompletion, "show-completion", false, "Show completion for the current shell, to copy it or customize the installation")

	lipgloss.SetHasDarkBackground(true)

	addCommandGroups(cmd)
	addCommands(cmd)

	return cmd
}

// setupLogging routes slog to stderr. --verbose enables debug records,
// which include every external command gpp runs.
func setupLogging(cmd *cobra.Command) {
	level := slog.LevelWarn
	if boolFlag(cmd, "verbose") {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// loadEnvFiles loads GPP_* settings from env files in priority order. The
// first file to set a variable wins; variables already in the environment
// always take precedence.
//
// Resolution order:
//  1. $CWD/.env.local   (per-repo override, gitignored)
//  2. $CWD/.env         (per-repo)
//  3. ~/.config/gpp/env (global fallback)
func loadEnvFiles() {
	keys, err := envfile.LoadFiles("GPP_", ".env.local", ".env", config.EnvPath())
	if err != nil {
		slog.Warn("loading env files", "err", err)
	}
	if len(keys) > 0 {
		slog.Debug("loaded settings from env files", "keys", keys)
	}
}

// addCommandGroups defines the command groups for help output.
func addCommandGroups(cmd *cobra.Command) {
	cmd.AddGroup(&cobra.Group{ID: "branch", Title: "Branch Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "pr", Title: "Pull Request Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "worktree", Title: "Worktree Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "agent", Title: "Agent Commands:"})
}

// addCommands adds all subcommands with their group assignments.
func addCommands(cmd *cobra.Command) {
	addGroupedCommand(cmd, newMoveCmd(), "branch")
	addGroupedCommand(cmd, newDiffCmd(), "branch")
	addGroupedCommand(cmd, newBranchCmd(), "branch")

	addGroupedCommand(cmd, newPRCmd(), "pr")
	addGroupedCommand(cmd, newCherryCmd(), "pr")
	addGroupedCommand(cmd, newListCmd(), "pr")
	addGroupedCommand(cmd, newMergeCmd(), "pr")

	addGroupedCommand(cmd, newWtCmd(), "worktree")

	addGroupedCommand(cmd, newServeCmd(), "agent")
}

// addGroupedCommand adds a subcommand with a group assignment.
func addGroupedCommand(parent *cobra.Command, child *cobra.Command, groupID string) {
	child.GroupID = groupID
	parent.AddCommand(child)
}
