// Package polymer post-processes the output of `polymer build` for
// deployment: base-href rewriting, inline script minification and Apache
// rewrite-rule patching, one build variant directory at a time.
package polymer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/udes/udes-cli/internal/logging"
)

const (
	// DefaultBuildDir is the build output root, relative to the working directory.
	DefaultBuildDir = "build/"

	// DefaultHtaccessSample is the rewrite-rules template copied in dev mode.
	DefaultHtaccessSample = "htaccess.sample"

	// PolymerConfigFile lists the build variants inside the build root.
	PolymerConfigFile = "polymer.json"
)

// DefaultVariantNames is used when neither the caller nor polymer.json name
// any variant.
var DefaultVariantNames = []string{"bundled", "unbundled", "es5-bundled"}

var baseURIPattern = regexp.MustCompile(`^(/|[a-zA-Z][a-zA-Z0-9+.-]*://[^/]+/).+/$`)

// Mode selects the finishing step applied to each variant.
type Mode int

const (
	ModeProd Mode = iota
	ModeDev
)

func (m Mode) String() string {
	if m == ModeDev {
		return "dev"
	}
	return "prod"
}

// BuildConfig is the validated, immutable input of a post-processing run.
type BuildConfig struct {
	BaseURI               string
	BuildRootDir          string
	VariantNames          []string
	Mode                  Mode
	InvokeExternalBuilder bool
	AddBuildDir           bool
	AddBuildName          bool
	HtaccessSample        string
	StrictBaseHref        bool
	FailOnBuildError      bool
	DryRun                bool
	WorkDir               string
}

// VariantDir returns the output directory of a build variant.
func (c *BuildConfig) VariantDir(variant string) string {
	return filepath.Join(c.WorkDir, filepath.FromSlash(c.BuildRootDir), variant)
}

// BaseURL returns the absolute base URL a variant is served from.
func (c *BuildConfig) BaseURL(variant string) string {
	url := c.BaseURI
	if c.AddBuildDir {
		url += c.BuildRootDir
	}
	if c.AddBuildName {
		url += variant + "/"
	}
	return url
}

// HtaccessSamplePath returns the location of the rewrite-rules template.
func (c *BuildConfig) HtaccessSamplePath() string {
	if filepath.IsAbs(c.HtaccessSample) {
		return c.HtaccessSample
	}
	return filepath.Join(c.WorkDir, c.HtaccessSample)
}

// Args is the flat key/value input of the resolver, as produced by CLI flags,
// the project file or a programmatic caller.
type Args map[string]interface{}

// argAliases maps every accepted spelling to its canonical key.
var argAliases = map[string]string{
	"u":                  "baseURI",
	"buildName":          "buildNames",
	"n":                  "buildNames",
	"b":                  "buildNames",
	"copyHtaccessSample": "dev",
}

// normalize resolves aliases. Canonical keys win over their aliases.
func (a Args) normalize() Args {
	out := make(Args, len(a))
	for key, value := range a {
		if canonical, ok := argAliases[key]; ok {
			if _, set := a[canonical]; set {
				continue
			}
			key = canonical
		}
		out[key] = value
	}
	return out
}

// Resolver turns raw arguments into a BuildConfig.
type Resolver struct {
	workDir string
	logger  logging.Logger
}

// NewResolver creates a resolver reading polymer.json relative to workDir.
func NewResolver(workDir string, logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Resolver{workDir: workDir, logger: logger}
}

// Resolve validates args and builds the configuration. The base URI is
// checked before anything is read from disk.
func (r *Resolver) Resolve(raw Args) (*BuildConfig, error) {
	args := raw.normalize()

	baseURI, err := resolveBaseURI(args)
	if err != nil {
		return nil, err
	}

	config := &BuildConfig{
		BaseURI:          baseURI,
		BuildRootDir:     DefaultBuildDir,
		HtaccessSample:   DefaultHtaccessSample,
		FailOnBuildError: true,
		WorkDir:          r.workDir,
	}

	flags := []struct {
		key    string
		target *bool
		def    bool
	}{
		{"build", &config.InvokeExternalBuilder, true},
		{"addBuildDir", &config.AddBuildDir, false},
		{"addBuildName", &config.AddBuildName, false},
		{"strictBaseHref", &config.StrictBaseHref, false},
		{"failOnBuildError", &config.FailOnBuildError, true},
		{"dryRun", &config.DryRun, false},
	}
	for _, f := range flags {
		v, err := args.boolValue(f.key, f.def)
		if err != nil {
			return nil, err
		}
		*f.target = v
	}

	dev, err := args.boolValue("dev", false)
	if err != nil {
		return nil, err
	}
	rewriteBuildDev, err := args.boolValue("rewriteBuildDev", false)
	if err != nil {
		return nil, err
	}
	if rewriteBuildDev {
		r.logger.Debugf(".htaccess RewriteBase includes the build directory")
		dev = true
		config.AddBuildDir = true
		config.AddBuildName = true
	}
	if dev {
		config.Mode = ModeDev
	}

	if dir, err := args.stringValue("buildDir"); err != nil {
		return nil, err
	} else if dir != "" {
		config.BuildRootDir = formatDir(dir)
	}

	if sample, err := args.stringValue("htaccessSample"); err != nil {
		return nil, err
	} else if sample != "" {
		config.HtaccessSample = sample
	}

	names, err := args.stringsValue("buildNames")
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		names = r.defaultVariantNames(config)
	}
	for _, name := range names {
		if err := validateVariantName(name); err != nil {
			return nil, err
		}
	}
	config.VariantNames = names

	return config, nil
}

// defaultVariantNames reads the variant list from polymer.json, falling back
// to DefaultVariantNames when the file is missing or malformed.
func (r *Resolver) defaultVariantNames(config *BuildConfig) []string {
	path := filepath.Join(r.workDir, filepath.FromSlash(config.BuildRootDir), PolymerConfigFile)
	names, err := ReadVariantNames(path)
	if err != nil {
		r.logger.Debugf("Using default build names %v: %v", DefaultVariantNames, err)
		return append([]string(nil), DefaultVariantNames...)
	}
	return names
}

func resolveBaseURI(args Args) (string, error) {
	baseURI, err := args.stringValue("baseURI")
	if err != nil {
		return "", err
	}

	field := "baseURI"
	if baseURI == "" {
		rootURI, err := args.stringValue("rootURI")
		if err != nil {
			return "", err
		}
		if rootURI != "" {
			field = "rootURI"
			baseURI = normalizeRootURI(rootURI)
		}
	}

	if baseURI == "" {
		return "", &ConfigError{Field: "baseURI", Reason: "required"}
	}
	if !baseURIPattern.MatchString(baseURI) {
		return "", &ConfigError{
			Field:  field,
			Reason: fmt.Sprintf("%q must look like /path/ or scheme://host/path/", baseURI),
		}
	}
	return baseURI, nil
}

// normalizeRootURI turns a legacy root like "~user/app" into "/~user/app/".
func normalizeRootURI(rootURI string) string {
	if strings.Contains(rootURI, "://") {
		if !strings.HasSuffix(rootURI, "/") {
			rootURI += "/"
		}
		return rootURI
	}
	dir := formatDir(rootURI)
	return "/" + dir
}

// formatDir strips a leading slash and ensures a trailing one.
func formatDir(dir string) string {
	dir = strings.TrimPrefix(dir, "/")
	if dir != "" && !strings.HasSuffix(dir, "/") {
		dir += "/"
	}
	return dir
}

func validateVariantName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return &ConfigError{Field: "buildNames", Reason: "empty build name"}
	case name == "." || name == "..", strings.ContainsAny(name, `/\`):
		return &ConfigError{Field: "buildNames", Reason: fmt.Sprintf("%q is not a directory name", name)}
	}
	return nil
}

func (a Args) stringValue(key string) (string, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return "", nil
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case fmt.Stringer:
		return strings.TrimSpace(val.String()), nil
	default:
		return "", &ConfigError{Field: key, Reason: fmt.Sprintf("expected a string, got %T", v)}
	}
}

func (a Args) boolValue(key string, def bool) (bool, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return def, nil
	}
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		// A bare legacy flag such as -rewriteBuildDev carries no value.
		if val == "" {
			return true, nil
		}
		b, err := strconv.ParseBool(val)
		if err != nil {
			return false, &ConfigError{Field: key, Reason: fmt.Sprintf("%q is not a boolean", val)}
		}
		return b, nil
	default:
		return false, &ConfigError{Field: key, Reason: fmt.Sprintf("expected a boolean, got %T", v)}
	}
}

func (a Args) stringsValue(key string) ([]string, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return nil, nil
	}

	var raw []string
	switch val := v.(type) {
	case []string:
		raw = val
	case string:
		raw = strings.Split(val, ",")
	case []interface{}:
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, &ConfigError{Field: key, Reason: fmt.Sprintf("expected strings, got %T", item)}
			}
			raw = append(raw, s)
		}
	default:
		return nil, &ConfigError{Field: key, Reason: fmt.Sprintf("expected a list of strings, got %T", v)}
	}

	var out []string
	for _, s := range raw {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out, nil
}
