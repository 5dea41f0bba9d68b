package polymer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/udes/udes-cli/internal/logging"
	"github.com/udes/udes-cli/pkg/xos"
)

const (
	// EntryFileName is the public name of a variant's entry document.
	EntryFileName = "index.html"

	// StagingEntryFileName is used by projects served through index.php.
	StagingEntryFileName = "_index.html"

	// CompanionFileName is the server-side include removed in prod mode.
	CompanionFileName = "index.php"

	// HtaccessFileName is the active rewrite-rules file of a variant.
	HtaccessFileName = ".htaccess"
)

var (
	baseHrefPattern    = regexp.MustCompile(`(?i)(<base\b[^>]*?\bhref\s*=\s*)("[^"]*"|'[^']*')`)
	rewriteBasePattern = regexp.MustCompile(`^\s*RewriteBase\s+`)
)

// Result describes what post-processing did to one variant directory.
type Result struct {
	Variant              string
	Dir                  string
	EntryPath            string
	BaseHrefReplacements int
	Inlined              []string
	Htaccess             string
	Removed              []string
}

// PostProcessor turns one build variant directory into a deployable artifact.
type PostProcessor struct {
	config   *BuildConfig
	minifier *Minifier
	logger   logging.Logger
}

// NewPostProcessor creates a post-processor for config.
func NewPostProcessor(config *BuildConfig, logger logging.Logger) *PostProcessor {
	if logger == nil {
		logger = logging.Nop()
	}
	return &PostProcessor{
		config:   config,
		minifier: NewMinifier(),
		logger:   logger,
	}
}

// Process applies the pipeline to a single variant. Any failure is returned
// as a *VariantError naming the variant and the failed operation.
func (p *PostProcessor) Process(variant string) (*Result, error) {
	dir := p.config.VariantDir(variant)
	result := &Result{Variant: variant, Dir: dir}
	fail := func(op string, err error) (*Result, error) {
		return result, &VariantError{Variant: variant, Op: op, Err: err}
	}

	p.logger.Infof("Build directory: %s", dir)

	entry, err := locateEntry(dir)
	if err != nil {
		return fail("locate entry document", err)
	}
	result.EntryPath = entry

	info, err := os.Stat(entry)
	if err != nil {
		return fail("read entry document", err)
	}
	original, err := os.ReadFile(entry)
	if err != nil {
		return fail("read entry document", err)
	}

	baseURL := p.config.BaseURL(variant)
	doc, count := RewriteBaseHref(original, baseURL)
	result.BaseHrefReplacements = count
	if count == 0 {
		if p.config.StrictBaseHref {
			return fail("rewrite base href", &ModificationError{Path: entry, Pattern: `<base href="...">`})
		}
		p.logger.Warnf("No <base href> found in %s", entry)
	} else {
		p.logger.Debugf("Replaced <base href> of %s with %s", entry, baseURL)
	}

	doc, consumed, err := inlineAssets(doc, dir, p.minifier)
	if err != nil {
		return fail("inline scripts", err)
	}
	result.Inlined = consumed

	if p.config.DryRun {
		p.logDiff(entry, original, doc)
	} else {
		if err := xos.WriteFile(entry, doc, info.Mode().Perm()); err != nil {
			return fail("write entry document", err)
		}
		for _, path := range consumed {
			if _, err := xos.RemoveIfExists(path); err != nil {
				return fail("inline scripts", err)
			}
			result.Removed = append(result.Removed, path)
		}
	}
	if len(consumed) > 0 {
		p.logger.Debugf("Inlined and minified %d asset(s) into %s", len(consumed), entry)
	}

	switch p.config.Mode {
	case ModeDev:
		htaccess, err := p.installHtaccess(dir, baseURL)
		if err != nil {
			return fail("install .htaccess", err)
		}
		result.Htaccess = htaccess
	default:
		if err := p.finalize(dir, result); err != nil {
			return fail("finalize entry document", err)
		}
	}

	return result, nil
}

// locateEntry finds index.html, or the staging _index.html.
func locateEntry(dir string) (string, error) {
	for _, name := range []string{EntryFileName, StagingEntryFileName} {
		path := filepath.Join(dir, name)
		if xos.Exists(path) {
			return path, nil
		}
	}
	path := filepath.Join(dir, EntryFileName)
	return "", &FileNotFoundError{Path: path, Err: os.ErrNotExist}
}

// RewriteBaseHref points every <base href> of doc at baseURL and reports how
// many tags were rewritten.
func RewriteBaseHref(doc []byte, baseURL string) ([]byte, int) {
	count := 0
	out := baseHrefPattern.ReplaceAllFunc(doc, func(match []byte) []byte {
		count++
		sub := baseHrefPattern.FindSubmatch(match)
		quote := sub[2][0]
		value := strings.ReplaceAll(baseURL, string(quote), "")
		return append(append([]byte{}, sub[1]...), []byte(string(quote)+value+string(quote))...)
	})
	return out, count
}

// PatchRewriteBase sets the RewriteBase directive of an .htaccess document.
// The first directive is rewritten and any further ones are dropped, so the
// result holds exactly one. ok is false when the document has none.
func PatchRewriteBase(content, base string) (string, bool) {
	lines := strings.SplitAfter(content, "\n")
	var b strings.Builder
	found := false

	for _, line := range lines {
		if !rewriteBasePattern.MatchString(line) {
			b.WriteString(line)
			continue
		}
		if found {
			continue
		}
		found = true

		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		eol := line[len(strings.TrimRight(line, "\r\n")):]
		b.WriteString(indent + "RewriteBase " + base + eol)
	}

	return b.String(), found
}

// installHtaccess copies the sample rewrite rules into dir with the
// RewriteBase set to base.
func (p *PostProcessor) installHtaccess(dir, base string) (string, error) {
	sample := p.config.HtaccessSamplePath()
	target := filepath.Join(dir, HtaccessFileName)

	info, err := os.Stat(sample)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &FileNotFoundError{Path: sample, Err: err}
		}
		return "", err
	}
	content, err := os.ReadFile(sample)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", sample, err)
	}

	patched, ok := PatchRewriteBase(string(content), base)
	if !ok {
		return "", &ModificationError{Path: sample, Pattern: "RewriteBase"}
	}

	if p.config.DryRun {
		existing, _ := os.ReadFile(target)
		p.logDiff(target, existing, []byte(patched))
		return target, nil
	}

	p.logger.Infof("Copy of %s to %s with RewriteBase %s", sample, target, base)
	if err := xos.WriteFile(target, []byte(patched), info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", target, err)
	}
	return target, nil
}

// finalize removes the server-side companion file and publishes a staging
// entry document under its public name.
func (p *PostProcessor) finalize(dir string, result *Result) error {
	companion := filepath.Join(dir, CompanionFileName)
	public := filepath.Join(dir, EntryFileName)
	staged := result.EntryPath != public

	if p.config.DryRun {
		if xos.Exists(companion) {
			p.logger.Infof("Would remove %s", companion)
		}
		if staged {
			p.logger.Infof("Would rename %s to %s", result.EntryPath, public)
		}
		return nil
	}

	removed, err := xos.RemoveIfExists(companion)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", companion, err)
	}
	if removed {
		p.logger.Debugf("Removed %s", companion)
		result.Removed = append(result.Removed, companion)
	}

	if staged {
		if err := os.Rename(result.EntryPath, public); err != nil {
			return fmt.Errorf("failed to rename %s: %w", result.EntryPath, err)
		}
		p.logger.Debugf("Renamed %s to %s", result.EntryPath, public)
		result.EntryPath = public
	}
	return nil
}

func (p *PostProcessor) logDiff(path string, before, after []byte) {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: path,
		ToFile:   path + " (dry run)",
		Context:  2,
	})
	if err != nil {
		p.logger.Warnf("Cannot diff %s: %v", path, err)
		return
	}
	if diff == "" {
		p.logger.Infof("%s unchanged", path)
		return
	}
	p.logger.Infof("Changes to %s:\n%s", path, diff)
}
