// Package shell runs the external command-line tools udes delegates to.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner runs an external command to completion.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// Executor handles external command execution.
type Executor struct {
	dir    string
	stdout io.Writer
	stderr io.Writer
}

// Option configures an Executor.
type Option func(*Executor)

// WithOutput redirects the child's stdout and stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(e *Executor) {
		e.stdout = stdout
		e.stderr = stderr
	}
}

// NewExecutor creates an executor running commands from dir.
// An empty dir means the current working directory.
func NewExecutor(dir string, opts ...Option) *Executor {
	e := &Executor{
		dir:    dir,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dir returns the working directory commands run from.
func (e *Executor) Dir() string {
	return e.dir
}

// Run executes name with args, streaming output to the configured writers.
func (e *Executor) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = e.dir
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr

	if err := cmd.Run(); err != nil {
		return newSubprocessError(name, args, err)
	}
	return nil
}

// SubprocessError reports an external command that could not be started or
// exited non-zero.
type SubprocessError struct {
	Command  string
	ExitCode int
	Err      error
}

func newSubprocessError(name string, args []string, err error) *SubprocessError {
	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	return &SubprocessError{
		Command:  CommandLine(name, args...),
		ExitCode: exitCode,
		Err:      err,
	}
}

func (e *SubprocessError) Error() string {
	msg := fmt.Sprintf("command %q failed", e.Command)
	if e.ExitCode >= 0 {
		msg = fmt.Sprintf("%s with exit code %d", msg, e.ExitCode)
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if hint := Hint(e); hint != "" {
		msg += " (" + hint + ")"
	}
	return msg
}

func (e *SubprocessError) Unwrap() error {
	return e.Err
}

// CommandLine renders a command the way a user would type it.
func CommandLine(name string, args ...string) string {
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}
