package polymer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

type assetKind int

const (
	assetScript assetKind = iota
	assetStyle
)

// placeholder is an inline marker tag found in an entry document.
// start and end delimit the bytes to replace, end tag included.
type placeholder struct {
	kind  assetKind
	src   string
	attrs []html.Attribute
	start int
	end   int
}

// findPlaceholder returns the first inline placeholder in doc, or nil when
// none is left. Byte offsets come from the tokenizer's raw token text, so
// everything outside the placeholder is preserved exactly.
func findPlaceholder(doc []byte) (*placeholder, error) {
	z := html.NewTokenizer(bytes.NewReader(doc))
	offset := 0
	var open *placeholder

	for {
		tt := z.Next()
		start := offset
		offset += len(z.Raw())

		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, err
			}
			if open != nil {
				return nil, fmt.Errorf("unterminated <script> referencing %s", open.src)
			}
			return nil, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			p := placeholderFor(z.Token())
			if p == nil {
				continue
			}
			p.start = start
			if p.kind == assetStyle {
				p.end = offset
				return p, nil
			}
			open = p

		case html.EndTagToken:
			if open == nil {
				continue
			}
			if name, _ := z.TagName(); string(name) == "script" {
				open.end = offset
				return open, nil
			}
		}
	}
}

// placeholderFor recognises <script src="x.js" inline> and
// <link rel="stylesheet" href="x.css" inline>.
func placeholderFor(tok html.Token) *placeholder {
	attrs := make(map[string]string, len(tok.Attr))
	for _, a := range tok.Attr {
		attrs[strings.ToLower(a.Key)] = a.Val
	}
	if _, ok := attrs["inline"]; !ok {
		return nil
	}

	switch tok.Data {
	case "script":
		src := attrs["src"]
		if !isLocalAsset(src, ".js", ".mjs") {
			return nil
		}
		return &placeholder{kind: assetScript, src: src, attrs: keepAttrs(tok.Attr, "src", "inline")}
	case "link":
		href := attrs["href"]
		if !strings.Contains(strings.ToLower(attrs["rel"]), "stylesheet") || !isLocalAsset(href, ".css") {
			return nil
		}
		return &placeholder{kind: assetStyle, src: href, attrs: keepAttrs(tok.Attr, "rel", "href", "inline", "type")}
	}
	return nil
}

func isLocalAsset(ref string, exts ...string) bool {
	if ref == "" || strings.HasPrefix(ref, "//") || strings.Contains(ref, "://") || strings.HasPrefix(ref, "data:") {
		return false
	}
	path := strings.ToLower(stripQuery(ref))
	for _, ext := range exts {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func stripQuery(ref string) string {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		return ref[:i]
	}
	return ref
}

func keepAttrs(attrs []html.Attribute, drop ...string) []html.Attribute {
	var kept []html.Attribute
outer:
	for _, a := range attrs {
		for _, d := range drop {
			if strings.EqualFold(a.Key, d) {
				continue outer
			}
		}
		kept = append(kept, a)
	}
	return kept
}

func openTag(name string, attrs []html.Attribute) string {
	var b strings.Builder
	b.WriteString("<" + name)
	for _, a := range attrs {
		b.WriteString(" " + a.Key)
		if a.Val != "" {
			b.WriteString(`="` + html.EscapeString(a.Val) + `"`)
		}
	}
	b.WriteString(">")
	return b.String()
}

// assetPath resolves a placeholder reference inside the variant directory.
func assetPath(dir, ref string) (string, error) {
	rel := filepath.FromSlash(strings.TrimPrefix(stripQuery(ref), "/"))
	path := filepath.Join(dir, rel)
	if r, err := filepath.Rel(dir, path); err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s points outside %s", ref, dir)
	}
	return path, nil
}

// inlineAssets replaces placeholders one at a time until none remains.
// It returns the rewritten document and the asset files it consumed; the
// caller removes those once the document is safely written.
func inlineAssets(doc []byte, dir string, minifier *Minifier) ([]byte, []string, error) {
	var consumed []string
	seen := make(map[string]bool)

	for {
		p, err := findPlaceholder(doc)
		if err != nil {
			return nil, nil, err
		}
		if p == nil {
			return doc, consumed, nil
		}

		path, err := assetPath(dir, p.src)
		if err != nil {
			return nil, nil, err
		}
		source, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, nil, &FileNotFoundError{Path: path, Err: err}
			}
			return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		var replacement string
		switch p.kind {
		case assetScript:
			code, err := minifier.Script(string(source))
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", path, err)
			}
			replacement = openTag("script", p.attrs) + code + "</script>"
		case assetStyle:
			code, err := minifier.Style(string(source))
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", path, err)
			}
			replacement = openTag("style", p.attrs) + code + "</style>"
		}

		var b bytes.Buffer
		b.Grow(len(doc) - (p.end - p.start) + len(replacement))
		b.Write(doc[:p.start])
		b.WriteString(replacement)
		b.Write(doc[p.end:])
		doc = b.Bytes()

		if !seen[path] {
			seen[path] = true
			consumed = append(consumed, path)
		}
	}
}
