package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/gpp/internal/output"
)

// completionTarget is where a shell's completion script is installed and
// which rc line, if any, loads it.
type completionTarget struct {
	Shell  string `json:"shell"`
	Script string `json:"script"`
	RCFile string `json:"rc_file,omitempty"`
	RCLine string `json:"rc_line,omitempty"`
}

// completionTargetFor returns the install location for shell under home.
func completionTargetFor(shell, home string) (completionTarget, error) {
	switch shell {
	case "bash":
		script := filepath.Join(home, ".bash_completions", "gpp.sh")
		return completionTarget{
			Shell:  shell,
			Script: script,
			RCFile: filepath.Join(home, ".bashrc"),
			RCLine: "source " + script,
		}, nil
	case "zsh":
		return completionTarget{
			Shell:  shell,
			Script: filepath.Join(home, ".zfunc", "_gpp"),
			RCFile: filepath.Join(home, ".zshrc"),
			RCLine: "fpath+=~/.zfunc; autoload -Uz compinit; compinit",
		}, nil
	case "fish":
		return completionTarget{
			Shell:  shell,
			Script: filepath.Join(home, ".config", "fish", "completions", "gpp.fish"),
		}, nil
	default:
		return completionTarget{}, output.NewUserErrorf("unsupported shell %q (supported: bash, zsh, fish)", shell)
	}
}

// detectShell names the user's login shell from $SHELL.
func detectShell() (string, error) {
	shell := filepath.Base(os.Getenv("SHELL"))
	if shell == "." || shell == "/" || shell == "" {
		return "", output.NewUserError("could not detect the current shell; set $SHELL")
	}
	return shell, nil
}

// writeCompletion writes root's completion script for shell.
func writeCompletion(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, true)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	default:
		return output.NewUserErrorf("unsupported shell %q (supported: bash, zsh, fish)", shell)
	}
}

// installCompletion writes the script and appends the rc line unless the rc
// file already has it.
func installCompletion(root *cobra.Command, shell, home string) (completionTarget, error) {
	target, err := completionTargetFor(shell, home)
	if err != nil {
		return target, err
	}

	var script bytes.Buffer
	if err := writeCompletion(root, shell, &script); err != nil {
		return target, err
	}
	if err := os.MkdirAll(filepath.Dir(target.Script), 0o755); err != nil {
		return target, output.NewSystemErrorWithCause("creating completion directory: "+err.Error(), err)
	}
	if err := os.WriteFile(target.Script, script.Bytes(), 0o644); err != nil { //nolint:gosec // completion scripts are world-readable
		return target, output.NewSystemErrorWithCause("writing completion script: "+err.Error(), err)
	}

	if target.RCFile == "" {
		return target, nil
	}
	if err := appendLineOnce(target.RCFile, target.RCLine); err != nil {
		return target, output.NewSystemErrorWithCause("updating "+target.RCFile+": "+err.Error(), err)
	}
	return target, nil
}

// appendLineOnce appends line to path, creating it, unless already present.
func appendLineOnce(path, line string) error {
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	for l := range strings.SplitSeq(string(existing), "\n") {
		if strings.TrimSpace(l) == line {
			return nil
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // user rc file
	if err != nil {
		return err
	}
	prefix := ""
	if len(existing) > 0 && !bytes.HasSuffix(existing, []byte("\n")) {
		prefix = "\n"
	}
	if _, err := fmt.Fprintf(f, "%s%s\n", prefix, line); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func runShowCompletion(cmd *cobra.Command) error {
	printer := newPrinter(cmd)
	shell, err := detectShell()
	if err != nil {
		printer.Error(err)
		return err
	}
	if err := writeCompletion(cmd.Root(), shell, cmd.OutOrStdout()); err != nil {
		printer.Error(err)
		return err
	}
	return nil
}

func runInstallCompletion(cmd *cobra.Command) error {
	printer := newPrinter(cmd)
	shell, err := detectShell()
	if err != nil {
		printer.Error(err)
		return err
	}
	home, err := os.UserHomeDir()
	if err != nil {
		err = output.NewSystemErrorWithCause("finding home directory: "+err.Error(), err)
		printer.Error(err)
		return err
	}

	target, err := installCompletion(cmd.Root(), shell, home)
	if err != nil {
		printer.Error(err)
		return err
	}
	if printer.IsJSON() {
		return printer.WriteJSON(target)
	}
	return printer.Success(map[string]any{
		"message": shell + " completion installed in " + target.Script,
		"hint":    "Completion will take effect once you restart the terminal",
	})
}
