package polymer

import (
	"fmt"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"
)

const (
	mediaTypeJS  = "application/javascript"
	mediaTypeCSS = "text/css"
)

// Minifier compresses the assets embedded into entry documents.
type Minifier struct {
	m *minify.M
}

// NewMinifier creates a minifier for scripts and stylesheets.
func NewMinifier() *Minifier {
	m := minify.New()
	m.AddFunc(mediaTypeJS, js.Minify)
	m.AddFunc(mediaTypeCSS, css.Minify)
	return &Minifier{m: m}
}

// Script minifies JavaScript source so it can sit inside a <script> element.
func (m *Minifier) Script(src string) (string, error) {
	out, err := m.m.String(mediaTypeJS, src)
	if err != nil {
		return "", fmt.Errorf("failed to minify script: %w", err)
	}
	return escapeClosingTag(out, "script"), nil
}

// Style minifies CSS source so it can sit inside a <style> element.
func (m *Minifier) Style(src string) (string, error) {
	out, err := m.m.String(mediaTypeCSS, src)
	if err != nil {
		return "", fmt.Errorf("failed to minify stylesheet: %w", err)
	}
	return escapeClosingTag(out, "style"), nil
}

// escapeClosingTag keeps embedded code from terminating its element early.
func escapeClosingTag(code, tag string) string {
	return strings.ReplaceAll(code, "</"+tag, `<\/`+tag)
}
