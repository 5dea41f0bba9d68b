// Package shelltest provides a fake shell.Runner for tests.
package shelltest

import (
	"context"
	"errors"
	"sync"

	"github.com/udes/udes-cli/internal/shell"
)

// Recorder records every command it is asked to run instead of running it.
type Recorder struct {
	mu       sync.Mutex
	commands []string
	failures map[string]error
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{failures: make(map[string]error)}
}

// FailOn makes the command line cmd fail as if it exited with exitCode.
func (r *Recorder) FailOn(cmd string, exitCode int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[cmd] = &shell.SubprocessError{
		Command:  cmd,
		ExitCode: exitCode,
		Err:      errors.New("exit status"),
	}
}

// Run implements shell.Runner.
func (r *Recorder) Run(_ context.Context, name string, args ...string) error {
	line := shell.CommandLine(name, args...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, line)
	return r.failures[line]
}

// Commands returns the recorded command lines in call order.
func (r *Recorder) Commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.commands))
	copy(out, r.commands)
	return out
}
