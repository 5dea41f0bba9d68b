// Package bower runs bower and bower-locker tasks.
package bower

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/udes/udes-cli/internal/logging"
	"github.com/udes/udes-cli/internal/shell"
)

// Command is one of the supported bower tasks.
type Command string

const (
	CommandInstall   Command = "install"
	CommandLock      Command = "lock"
	CommandStatus    Command = "status"
	CommandUninstall Command = "uninstall"
	CommandUnlock    Command = "unlock"
	CommandUpdate    Command = "update"
	CommandValidate  Command = "validate"
)

// InvalidCommandError reports a task name that is not a Command.
type InvalidCommandError struct {
	Name string
}

func (e *InvalidCommandError) Error() string {
	return fmt.Sprintf("invalid command: %s (expected one of %s)", e.Name, strings.Join(CommandNames(), ", "))
}

// Request is a parsed `udes bower` invocation.
type Request struct {
	Command  Command
	Packages []string
	Options  []string
}

// ParseArgs splits CLI arguments into packages and options. Arguments
// starting with "-" are bower options.
func ParseArgs(name string, args []string) (*Request, error) {
	cmd, err := ParseCommand(name)
	if err != nil {
		return nil, err
	}
	req := &Request{Command: cmd}
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			req.Options = append(req.Options, arg)
		} else {
			req.Packages = append(req.Packages, arg)
		}
	}
	return req, nil
}

// ParseCommand validates a task name.
func ParseCommand(name string) (Command, error) {
	cmd := Command(name)
	if _, ok := handlers[cmd]; !ok {
		return "", &InvalidCommandError{Name: name}
	}
	return cmd, nil
}

// CommandNames lists the supported tasks in alphabetical order.
func CommandNames() []string {
	names := make([]string, 0, len(handlers))
	for cmd := range handlers {
		names = append(names, string(cmd))
	}
	sort.Strings(names)
	return names
}

type handler func(ctx context.Context, r *Runner, req *Request) error

var handlers = map[Command]handler{
	CommandInstall:   withLockRelease("install"),
	CommandUninstall: withLockRelease("uninstall"),
	CommandUpdate:    withLockRelease("update"),
	CommandLock:      locker("lock"),
	CommandUnlock:    locker("unlock"),
	CommandStatus:    locker("status"),
	CommandValidate:  locker("validate"),
}

// Runner executes bower tasks through a shell runner.
type Runner struct {
	shell  shell.Runner
	logger logging.Logger
}

// NewRunner creates a bower task runner.
func NewRunner(sh shell.Runner, logger logging.Logger) *Runner {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Runner{shell: sh, logger: logger}
}

// Run executes req.
func (r *Runner) Run(ctx context.Context, req *Request) error {
	h, ok := handlers[req.Command]
	if !ok {
		return &InvalidCommandError{Name: string(req.Command)}
	}
	return h(ctx, r, req)
}

func (r *Runner) exec(ctx context.Context, name string, args ...string) error {
	r.logger.Debugf("Running %s", shell.CommandLine(name, args...))
	return r.shell.Run(ctx, name, args...)
}

// locker runs a bower-locker subcommand.
func locker(sub string) handler {
	return func(ctx context.Context, r *Runner, _ *Request) error {
		return r.exec(ctx, "bower-locker", sub)
	}
}

// withLockRelease unlocks bower.json, runs the bower command and locks again.
func withLockRelease(sub string) handler {
	return func(ctx context.Context, r *Runner, req *Request) error {
		if err := r.exec(ctx, "bower-locker", "unlock"); err != nil {
			return err
		}

		args := append([]string{sub}, req.Packages...)
		args = append(args, req.Options...)
		if err := r.exec(ctx, "bower", args...); err != nil {
			// Leave bower.json locked even when bower fails.
			if lockErr := r.exec(ctx, "bower-locker", "lock"); lockErr != nil {
				r.logger.Warnf("Failed to lock bower.json again: %v", lockErr)
			}
			return err
		}

		return r.exec(ctx, "bower-locker", "lock")
	}
}
