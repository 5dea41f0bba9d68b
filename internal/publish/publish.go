// Package publish releases an npm package: checks, version bump, tag,
// optional npm publish and a documentation refresh.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/udes/udes-cli/internal/logging"
	"github.com/udes/udes-cli/internal/shell"
)

// ReleaseType is the version increment passed to `npm version`.
type ReleaseType string

const (
	ReleaseMajor      ReleaseType = "major"
	ReleaseMinor      ReleaseType = "minor"
	ReleasePatch      ReleaseType = "patch"
	ReleasePremajor   ReleaseType = "premajor"
	ReleasePreminor   ReleaseType = "preminor"
	ReleasePrepatch   ReleaseType = "prepatch"
	ReleasePrerelease ReleaseType = "prerelease"
)

// ReleaseTypes lists the valid release types, largest increment first.
var ReleaseTypes = []ReleaseType{
	ReleaseMajor, ReleaseMinor, ReleasePatch,
	ReleasePremajor, ReleasePreminor, ReleasePrepatch, ReleasePrerelease,
}

// ParseReleaseType validates a release type name.
func ParseReleaseType(s string) (ReleaseType, error) {
	for _, t := range ReleaseTypes {
		if string(t) == s {
			return t, nil
		}
	}
	names := make([]string, len(ReleaseTypes))
	for i, t := range ReleaseTypes {
		names[i] = string(t)
	}
	return "", fmt.Errorf("invalid release type %q: expected one of %s", s, strings.Join(names, ", "))
}

// PackageFile is the npm manifest read from the project directory.
const PackageFile = "package.json"

// PackageInfo is the part of package.json publish depends on.
type PackageInfo struct {
	Name    string            `json:"name"`
	Version string            `json:"version"`
	Scripts map[string]string `json:"scripts"`
}

// HasScript reports whether package.json defines the npm script name.
func (p *PackageInfo) HasScript(name string) bool {
	_, ok := p.Scripts[name]
	return ok
}

// ReadPackageInfo parses package.json in dir.
func ReadPackageInfo(dir string) (*PackageInfo, error) {
	path := filepath.Join(dir, PackageFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var info PackageInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if info.Version == "" {
		return nil, fmt.Errorf("%s has no version", path)
	}
	return &info, nil
}

// Options configures a release.
type Options struct {
	Type       ReleaseType
	NPM        bool
	Branch     string
	DocsBranch string
	Remote     string
}

func (o *Options) applyDefaults() {
	if o.Branch == "" {
		o.Branch = "master"
	}
	if o.DocsBranch == "" {
		o.DocsBranch = "gh-pages"
	}
	if o.Remote == "" {
		o.Remote = "origin"
	}
}

// checkScripts run before anything is changed, in this order.
var checkScripts = []string{"lint", "audit", "test"}

// Publisher runs the release from a project directory.
type Publisher struct {
	dir    string
	shell  shell.Runner
	logger logging.Logger
	opts   Options
	info   *PackageInfo
}

// NewPublisher validates opts and creates a publisher for the project in dir.
func NewPublisher(dir string, sh shell.Runner, logger logging.Logger, opts Options) (*Publisher, error) {
	if _, err := ParseReleaseType(string(opts.Type)); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Nop()
	}
	opts.applyDefaults()
	return &Publisher{dir: dir, shell: sh, logger: logger, opts: opts}, nil
}

// Plan describes the release steps for a confirmation prompt.
func (p *Publisher) Plan() []string {
	steps := []string{
		"run " + strings.Join(checkScripts, ", ") + " scripts",
		fmt.Sprintf("update %s from %s", p.opts.Branch, p.opts.Remote),
		fmt.Sprintf("npm version %s", p.opts.Type),
		"push a bump-version branch and a version tag",
	}
	if p.opts.NPM {
		steps = append(steps, "npm publish")
	}
	steps = append(steps, fmt.Sprintf("refresh documentation on %s", p.opts.DocsBranch))
	return steps
}

// Run performs the release and returns the published package info.
func (p *Publisher) Run(ctx context.Context) (*PackageInfo, error) {
	info, err := ReadPackageInfo(p.dir)
	if err != nil {
		return nil, err
	}
	p.info = info

	if err := p.canPublish(ctx); err != nil {
		return nil, err
	}
	if err := p.checkoutBranch(ctx); err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", p.opts.Branch, err)
	}
	if err := p.bumpVersion(ctx); err != nil {
		return nil, fmt.Errorf("failed to bump version: %w", err)
	}
	if p.opts.NPM {
		if err := p.publishToNpm(ctx); err != nil {
			return nil, fmt.Errorf("failed to publish to npm: %w", err)
		}
	}
	if err := p.updateDocumentation(ctx); err != nil {
		return nil, fmt.Errorf("failed to update documentation: %w", err)
	}

	return p.info, nil
}

// canPublish runs the project's own checks.
func (p *Publisher) canPublish(ctx context.Context) error {
	for _, script := range checkScripts {
		if !p.info.HasScript(script) {
			continue
		}
		if err := p.exec(ctx, "npm", "run", script); err != nil {
			p.logger.Errorf("Cannot publish, npm run %s failed: %v", script, err)
			return fmt.Errorf("pre-publish check %q failed: %w", script, err)
		}
	}
	return nil
}

func (p *Publisher) checkoutBranch(ctx context.Context) error {
	return p.sequence(ctx,
		[]string{"git", "fetch"},
		[]string{"git", "checkout", p.opts.Branch},
		[]string{"git", "pull", p.opts.Remote, p.opts.Branch},
		[]string{"npm", "install"},
	)
}

func (p *Publisher) bumpVersion(ctx context.Context) error {
	if err := p.exec(ctx, "npm", "version", string(p.opts.Type), "--no-git-tag-version"); err != nil {
		return err
	}
	info, err := ReadPackageInfo(p.dir)
	if err != nil {
		return err
	}
	p.info = info

	version := "v" + info.Version
	branch := bumpBranch(info.Version)
	return p.sequence(ctx,
		[]string{"git", "checkout", "-b", branch},
		[]string{"git", "commit", "-am", "Bump version to " + version},
		[]string{"git", "push", p.opts.Remote, branch},
		[]string{"git", "tag", version},
		[]string{"git", "push", p.opts.Remote, "--tags"},
	)
}

func (p *Publisher) publishToNpm(ctx context.Context) error {
	if p.info.HasScript("build") {
		if err := p.exec(ctx, "npm", "run", "build"); err != nil {
			return err
		}
	}
	return p.sequence(ctx,
		[]string{"npm", "publish"},
		[]string{"git", "reset", "--hard"},
	)
}

func (p *Publisher) updateDocumentation(ctx context.Context) error {
	if !p.info.HasScript("documentation") {
		p.logger.Debugf("No documentation script, skipping %s", p.opts.DocsBranch)
		return nil
	}
	return p.sequence(ctx,
		[]string{"git", "checkout", p.opts.DocsBranch},
		[]string{"git", "pull", p.opts.Remote, p.opts.DocsBranch},
		[]string{"git", "merge", bumpBranch(p.info.Version), "--strategy-option", "theirs", "--no-commit"},
		[]string{"npm", "run", "documentation"},
		[]string{"git", "commit", "-am", "Update documentation for v" + p.info.Version},
		[]string{"git", "push", p.opts.Remote, p.opts.DocsBranch},
	)
}

func bumpBranch(version string) string {
	return "bump-version-v" + version
}

func (p *Publisher) sequence(ctx context.Context, cmds ...[]string) error {
	for _, cmd := range cmds {
		if err := p.exec(ctx, cmd[0], cmd[1:]...); err != nil {
			return err
		}
	}
	return nil
}

func (p *Publisher) exec(ctx context.Context, name string, args ...string) error {
	p.logger.Infof("Executing '%s'", shell.CommandLine(name, args...))
	return p.shell.Run(ctx, name, args...)
}
