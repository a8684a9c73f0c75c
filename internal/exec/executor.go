// Package exec provides an abstraction over command execution for testability.
// Production code uses RealExecutor; tests inject a MockExecutor that records
// every invocation and returns scripted responses.
package exec

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"strings"
)

// CommandExecutor abstracts command execution.
type CommandExecutor interface {
	// Run executes a command and returns stdout, stderr, and any error.
	Run(ctx context.Context, dir string, name string, args ...string) (stdout, stderr []byte, err error)

	// Stream executes a command with its output connected to the given writers.
	// Used for commands whose output belongs to the user (git diff, gh pr create).
	Stream(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error

	// LookPath reports where the named binary lives on PATH.
	LookPath(name string) (string, error)
}

// RealExecutor executes commands using os/exec.
// A nil logger means slog.Default at call time.
type RealExecutor struct {
	logger *slog.Logger
}

// NewRealExecutor returns a RealExecutor that logs through slog.Default.
func NewRealExecutor() *RealExecutor {
	return &RealExecutor{}
}

// NewRealExecutorWithLogger returns a RealExecutor that logs to logger.
func NewRealExecutorWithLogger(logger *slog.Logger) *RealExecutor {
	return &RealExecutor{logger: logger}
}

func (e *RealExecutor) log() *slog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return slog.Default()
}

// Run executes a command and returns stdout, stderr, and any error.
func (e *RealExecutor) Run(ctx context.Context, dir string, name string, args ...string) (stdout, stderr []byte, err error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	e.logStart(ctx, dir, name, args)
	err = cmd.Run()
	e.logDone(ctx, name, err)
	return stdoutBuf.Bytes(), stderrBuf.Bytes(), err
}

// Stream executes a command with stdout/stderr attached to the given writers.
func (e *RealExecutor) Stream(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	e.logStart(ctx, dir, name, args)
	err := cmd.Run()
	e.logDone(ctx, name, err)
	return err
}

// LookPath wraps os/exec.LookPath.
func (e *RealExecutor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (e *RealExecutor) logStart(ctx context.Context, dir, name string, args []string) {
	e.log().DebugContext(ctx, "executing",
		"cmd", name,
		"args", strings.Join(args, " "),
		"dir", dir,
	)
}

func (e *RealExecutor) logDone(ctx context.Context, name string, err error) {
	if err != nil {
		e.log().DebugContext(ctx, "command failed", "cmd", name, "status", ExitCode(err), "err", err)
		return
	}
	e.log().DebugContext(ctx, "command succeeded", "cmd", name)
}

// IsNotFound reports whether err means the binary could not be started
// because it is missing from PATH.
func IsNotFound(err error) bool {
	var execErr *exec.Error
	return errors.As(err, &execErr)
}

// ExitCode returns the process exit status carried by err, 0 for nil,
// and -1 when err does not carry one (binary missing, context cancelled).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	return -1
}

var _ CommandExecutor = (*RealExecutor)(nil)
