package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/gpp/internal/config"
	"github.com/gorewood/gpp/internal/git"
	"github.com/gorewood/gpp/internal/github"
	"github.com/gorewood/gpp/internal/output"
	"github.com/gorewood/gpp/internal/workflow"
	"github.com/gorewood/gpp/internal/worktree"
)

// app bundles what every repository command needs.
type app struct {
	printer *output.Printer
	cfg     config.Config
	git     *git.Client
	gh      *github.Client
}

// newApp builds the printer, loads configuration and verifies the working
// directory is inside a git repository. Failures are already printed.
func newApp(cmd *cobra.Command) (*app, error) {
	printer := newPrinter(cmd)

	cfg, err := config.LoadDefault()
	if err != nil {
		printer.Error(err)
		return nil, err
	}

	a := &app{
		printer: printer,
		cfg:     cfg,
		git:     git.New(""),
		gh:      github.New(""),
	}
	if err := a.git.RequireRepo(cmd.Context()); err != nil {
		return nil, a.fail(err)
	}
	return a, nil
}

// newPrinter creates a Printer honoring --json and --color.
func newPrinter(cmd *cobra.Command) *output.Printer {
	return output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).
		WithStderr(cmd.ErrOrStderr())
}

// colorMode returns the --color value. It was validated before the command
// ran, so an invalid value falls back to auto.
func colorMode(cmd *cobra.Command) (output.ColorMode, error) {
	value := ""
	if flag := cmd.Root().PersistentFlags().Lookup("color"); flag != nil {
		value = flag.Value.String()
	}
	return output.ParseColorMode(value)
}

// useColor resolves --color against TTY detection on stdout.
func useColor(cmd *cobra.Command) bool {
	mode, _ := colorMode(cmd)
	return mode.Enabled(output.IsTTY(cmd.OutOrStdout()))
}

// fail reports err and returns it for RunE.
func (a *app) fail(err error) error {
	a.printer.Error(err)
	return err
}

// requireGH fails when gh is not on PATH.
func (a *app) requireGH() error {
	if err := a.gh.Available(); err != nil {
		return a.fail(err)
	}
	return nil
}

// done prints a finished command: result as JSON, or message and hint.
func (a *app) done(result any, message, hint string) error {
	if a.printer.IsJSON() {
		return a.printer.WriteJSON(result)
	}
	return a.printer.Success(map[string]any{"message": message, "hint": hint})
}

func (a *app) runner() *workflow.Runner {
	return workflow.NewRunner(a.git, a.gh, a.printer, a.cfg)
}

// worktrees returns a Manager reporting progress through progress.
func (a *app) worktrees(progress func(format string, args ...any)) *worktree.Manager {
	return worktree.NewManager(a.git, worktree.Options{
		Remote:   a.cfg.Remote,
		EnvFile:  a.cfg.EnvFile,
		Progress: progress,
	})
}
