// Package lint runs htmlhint, eslint and polymer lint over a project.
package lint

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/udes/udes-cli/internal/logging"
	"github.com/udes/udes-cli/internal/shell"
	"github.com/udes/udes-cli/pkg/xos"
)

// Kind selects between checking and fixing.
type Kind int

const (
	KindLint Kind = iota
	KindFormat
)

func (k Kind) String() string {
	if k == KindFormat {
		return "format"
	}
	return "lint"
}

// Tool config files. A tool only runs when its file exists in the project.
const (
	HTMLHintConfig = ".htmlhintrc.json"
	ESLintConfig   = ".eslintrc.js"
	PolymerConfig  = "polymer.json"
)

// Target is one of the three tool families.
type Target string

const (
	TargetHTML    Target = "html"
	TargetJS      Target = "js"
	TargetPolymer Target = "polymer"
)

// Lintable describes what to lint or format.
type Lintable struct {
	Kind    Kind
	Path    string
	HTML    bool
	JS      bool
	Polymer bool
}

// Targets returns the selected targets. No selection means all of them.
func (l Lintable) Targets() []Target {
	if !l.HTML && !l.JS && !l.Polymer {
		return []Target{TargetHTML, TargetJS, TargetPolymer}
	}
	var targets []Target
	if l.HTML {
		targets = append(targets, TargetHTML)
	}
	if l.JS {
		targets = append(targets, TargetJS)
	}
	if l.Polymer {
		targets = append(targets, TargetPolymer)
	}
	return targets
}

// Validate checks the required fields.
func (l Lintable) Validate() error {
	if l.Path == "" {
		return errors.New("missing argument `path`")
	}
	return nil
}

// step is a tool invocation guarded by a config file.
type step struct {
	target Target
	config string
	name   string
	args   []string
}

func (l Lintable) steps() []step {
	var steps []step
	for _, target := range l.Targets() {
		switch target {
		case TargetHTML:
			if l.Kind == KindFormat {
				steps = append(steps, step{target, HTMLHintConfig, "eslint", []string{l.Path, "--ext", "html", "--ignore-path", ".gitignore", "--fix"}})
			} else {
				steps = append(steps, step{target, HTMLHintConfig, "htmlhint", []string{l.Path + "/**/*.html", "--config", HTMLHintConfig}})
			}
		case TargetJS:
			args := []string{l.Path, "--ext", "js,json", "--ignore-path", ".gitignore"}
			if l.Kind == KindFormat {
				args = append(args, "--fix")
			}
			steps = append(steps, step{target, ESLintConfig, "eslint", args})
		case TargetPolymer:
			args := []string{"lint"}
			if l.Kind == KindFormat {
				args = append(args, "--fix")
			}
			steps = append(steps, step{target, PolymerConfig, "polymer", args})
		}
	}
	return steps
}

// Linter runs the tools selected by a Lintable from a project directory.
type Linter struct {
	dir    string
	shell  shell.Runner
	logger logging.Logger
}

// NewLinter creates a linter for the project in dir.
func NewLinter(dir string, sh shell.Runner, logger logging.Logger) *Linter {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Linter{dir: dir, shell: sh, logger: logger}
}

// Run executes every selected tool whose config exists. A failing tool does
// not stop the others; all failures are returned together.
func (l *Linter) Run(ctx context.Context, target Lintable) error {
	if err := target.Validate(); err != nil {
		return err
	}

	var errs []error
	for _, s := range target.steps() {
		if !xos.Exists(filepath.Join(l.dir, s.config)) {
			l.logger.Debugf("Skipping %s %s: %s not found", target.Kind, s.target, s.config)
			continue
		}

		l.logger.Infof("Running %s", shell.CommandLine(s.name, s.args...))
		if err := l.shell.Run(ctx, s.name, s.args...); err != nil {
			l.logger.Errorf("%s %s failed: %v", target.Kind, s.target, err)
			errs = append(errs, fmt.Errorf("%s %s: %w", target.Kind, s.target, err))
		}
	}
	return errors.Join(errs...)
}
