package polymer

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloScript = `let hello="world";hello=hello.replace("world","foo");`

func TestFindPlaceholder(t *testing.T) {
	doc := []byte(`<html><head><script src="a.js"></script><script src="b.js" inline></script></head></html>`)

	p, err := findPlaceholder(doc)
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, assetScript, p.kind)
	assert.Equal(t, "b.js", p.src)
	assert.Equal(t, `<script src="b.js" inline></script>`, string(doc[p.start:p.end]))
}

func TestFindPlaceholderIgnores(t *testing.T) {
	docs := []string{
		`<script src="https://cdn.example.com/lib.js" inline></script>`,
		`<script src="//cdn.example.com/lib.js" inline></script>`,
		`<script inline>console.log(1)</script>`,
		`<script src="app.js"></script>`,
		`<link rel="import" href="elements.html" inline>`,
		`<!-- <script src="commented.js" inline></script> -->`,
	}

	for _, doc := range docs {
		p, err := findPlaceholder([]byte(doc))
		require.NoError(t, err)
		assert.Nil(t, p, doc)
	}
}

func TestFindPlaceholderUnterminated(t *testing.T) {
	_, err := findPlaceholder([]byte(`<head><script src="a.js" inline>`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated")
}

func TestInlineAssets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "script.js"), helloScript)
	writeFile(t, filepath.Join(dir, "js", "boot.js"), "window.booted = true;\n")

	doc := []byte("<head>\n  <script src=\"script.js\" inline=\"\"></script>\n" +
		"  <script type=\"module\" src=\"js/boot.js?v=2\" INLINE></script>\n</head>\n")

	out, consumed, err := inlineAssets(doc, dir, NewMinifier())
	require.NoError(t, err)

	got := string(out)
	assert.True(t, strings.HasPrefix(got, "<head>\n  <script>"), got)
	assert.Contains(t, got, `hello.replace("world","foo")`)
	assert.Contains(t, got, `<script type="module">`)
	assert.Contains(t, got, "window.booted=")
	assert.True(t, strings.HasSuffix(got, "</script>\n</head>\n"), got)
	assert.NotContains(t, got, "inline")

	assert.Equal(t, []string{
		filepath.Join(dir, "script.js"),
		filepath.Join(dir, "js", "boot.js"),
	}, consumed)
}

func TestInlineAssetsStylesheet(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "theme.css"), "body {\n  margin: 0px;\n}\n")

	out, consumed, err := inlineAssets([]byte(`<link rel="stylesheet" href="theme.css" media="screen" inline>`), dir, NewMinifier())
	require.NoError(t, err)

	assert.Equal(t, `<style media="screen">body{margin:0}</style>`, string(out))
	assert.Len(t, consumed, 1)
}

func TestInlineAssetsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "script.js"), helloScript)

	once, _, err := inlineAssets([]byte(`<script src="script.js" inline></script>`), dir, NewMinifier())
	require.NoError(t, err)

	twice, consumed, err := inlineAssets(once, dir, NewMinifier())
	require.NoError(t, err)
	assert.Equal(t, string(once), string(twice))
	assert.Empty(t, consumed)
}

func TestInlineAssetsMissingFile(t *testing.T) {
	dir := t.TempDir()

	_, _, err := inlineAssets([]byte(`<script src="missing.js" inline></script>`), dir, NewMinifier())

	var notFound *FileNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, filepath.Join(dir, "missing.js"), notFound.Path)
}

func TestInlineAssetsOutsideDir(t *testing.T) {
	_, _, err := inlineAssets([]byte(`<script src="../secret.js" inline></script>`), t.TempDir(), NewMinifier())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "points outside")
}

func TestMinifierEscapesClosingTag(t *testing.T) {
	code, err := NewMinifier().Script(`var s = "</script>";`)
	require.NoError(t, err)
	assert.NotContains(t, code, "</script")
	assert.Contains(t, code, `<\/script`)
}
