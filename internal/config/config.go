// Package config loads the udes.yaml project file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the project file looked up in the working directory.
const FileName = "udes.yaml"

// Config represents the udes.yaml project file.
type Config struct {
	// Defaults for `udes polymer-build`
	PolymerBuild PolymerBuildConfig `yaml:"polymerBuild"`

	// Defaults for `udes lint` and `udes format`
	Lint LintConfig `yaml:"lint"`

	// Release settings for `udes publish`
	Publish PublishConfig `yaml:"publish"`
}

// PolymerBuildConfig mirrors the polymer-build flags. Unset booleans keep the
// command defaults.
type PolymerBuildConfig struct {
	BaseURI          string   `yaml:"baseURI,omitempty"`
	BuildDir         string   `yaml:"buildDir,omitempty"`
	BuildNames       []string `yaml:"buildNames,omitempty"`
	HtaccessSample   string   `yaml:"htaccessSample,omitempty"`
	Build            *bool    `yaml:"build,omitempty"`
	AddBuildDir      *bool    `yaml:"addBuildDir,omitempty"`
	AddBuildName     *bool    `yaml:"addBuildName,omitempty"`
	Dev              *bool    `yaml:"dev,omitempty"`
	StrictBaseHref   *bool    `yaml:"strictBaseHref,omitempty"`
	FailOnBuildError *bool    `yaml:"failOnBuildError,omitempty"`
}

// LintConfig holds lint and format settings.
type LintConfig struct {
	Path     string        `yaml:"path,omitempty"`
	Debounce time.Duration `yaml:"debounce,omitempty"`
	Ignore   []string      `yaml:"ignore,omitempty"`
}

// PublishConfig holds release settings.
type PublishConfig struct {
	Branch     string `yaml:"branch,omitempty"`
	DocsBranch string `yaml:"docsBranch,omitempty"`
	Remote     string `yaml:"remote,omitempty"`
	NPM        bool   `yaml:"npm,omitempty"`
}

// Default returns the configuration used when no project file exists.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads and parses a udes.yaml file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &config, nil
}

// LoadOptional is Load, except that a missing file yields Default().
func LoadOptional(path string) (*Config, error) {
	config, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return config, err
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	for _, name := range c.PolymerBuild.BuildNames {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("polymerBuild.buildNames: empty build name")
		}
	}

	if c.Lint.Debounce < 0 {
		return fmt.Errorf("lint.debounce must not be negative")
	}

	if c.Publish.Branch == c.Publish.DocsBranch {
		return fmt.Errorf("publish.branch and publish.docsBranch must differ (both %q)", c.Publish.Branch)
	}

	return nil
}

// applyDefaults sets default values for missing fields.
func (c *Config) applyDefaults() {
	if c.Lint.Debounce == 0 {
		c.Lint.Debounce = 300 * time.Millisecond
	}
	if len(c.Lint.Ignore) == 0 {
		c.Lint.Ignore = []string{"node_modules", "bower_components", "build", ".git"}
	}

	if c.Publish.Branch == "" {
		c.Publish.Branch = "master"
	}
	if c.Publish.DocsBranch == "" {
		c.Publish.DocsBranch = "gh-pages"
	}
	if c.Publish.Remote == "" {
		c.Publish.Remote = "origin"
	}
}
