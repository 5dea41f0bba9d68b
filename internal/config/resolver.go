package config

import (
	"time"

	"github.com/udes/udes-cli/internal/polymer"
)

// Resolver handles configuration precedence: CLI flags > udes.yaml > command defaults.
type Resolver struct {
	config *Config
}

// NewResolver creates a new configuration resolver.
func NewResolver(config *Config) *Resolver {
	if config == nil {
		config = Default()
	}
	return &Resolver{config: config}
}

// ResolveBuildArgs layers the explicitly set CLI flags over the polymerBuild
// section. Keys of flags win; file values fill the rest.
func (r *Resolver) ResolveBuildArgs(flags polymer.Args) polymer.Args {
	file := r.config.PolymerBuild
	args := polymer.Args{}

	setString := func(key, value string) {
		if value != "" {
			args[key] = value
		}
	}
	setBool := func(key string, value *bool) {
		if value != nil {
			args[key] = *value
		}
	}

	setString("baseURI", file.BaseURI)
	setString("buildDir", file.BuildDir)
	setString("htaccessSample", file.HtaccessSample)
	if len(file.BuildNames) > 0 {
		args["buildNames"] = append([]string(nil), file.BuildNames...)
	}
	setBool("build", file.Build)
	setBool("addBuildDir", file.AddBuildDir)
	setBool("addBuildName", file.AddBuildName)
	setBool("dev", file.Dev)
	setBool("strictBaseHref", file.StrictBaseHref)
	setBool("failOnBuildError", file.FailOnBuildError)

	// A legacy rootURI flag overrides a baseURI coming from the file.
	if _, ok := flags["rootURI"]; ok {
		delete(args, "baseURI")
	}
	for key, value := range flags {
		args[key] = value
	}
	return args
}

// ResolveLintPath returns the path to lint.
// Precedence: CLI argument > lint.path > "."
func (r *Resolver) ResolveLintPath(cliPath string) string {
	if cliPath != "" {
		return cliPath
	}
	if r.config.Lint.Path != "" {
		return r.config.Lint.Path
	}
	return "."
}

// ResolveDebounce returns the watch debounce delay.
// Precedence: CLI flag > lint.debounce
func (r *Resolver) ResolveDebounce(cliDebounce time.Duration) time.Duration {
	if cliDebounce > 0 {
		return cliDebounce
	}
	return r.config.Lint.Debounce
}

// ResolveIgnore returns the directory names the watcher skips.
func (r *Resolver) ResolveIgnore() []string {
	return r.config.Lint.Ignore
}

// ResolvePublishNPM reports whether publish should run npm publish.
// Precedence: --npm flag > publish.npm
func (r *Resolver) ResolvePublishNPM(cliNPM bool) bool {
	return cliNPM || r.config.Publish.NPM
}

// Publish returns the release settings.
func (r *Resolver) Publish() PublishConfig {
	return r.config.Publish
}
