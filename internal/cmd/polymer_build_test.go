package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolymerBuildCommand(t *testing.T) {
	dir := t.TempDir()
	variant := filepath.Join(dir, "build", "bundled")
	require.NoError(t, os.MkdirAll(variant, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(variant, "index.html"),
		[]byte(`<html><head><base href="/"><script src="app.js" inline></script></head></html>`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(variant, "app.js"), []byte("console.log( 1 );\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "udes.yaml"), []byte("polymerBuild:\n  baseURI: /from-file/\n  build: false\n"), 0644))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	rootCmd.SetArgs([]string{"polymer-build", "--baseURI", "/src/", "--buildName", "bundled"})
	require.NoError(t, Execute(context.Background()))

	data, err := os.ReadFile(filepath.Join(variant, "index.html"))
	require.NoError(t, err)
	doc := string(data)
	assert.True(t, strings.HasPrefix(doc, `<html><head><base href="/src/"><script>`), doc)
	assert.Contains(t, doc, "console.log(1)")
	assert.NoFileExists(t, filepath.Join(variant, "app.js"))
}

func TestBowerCommandRejectsUnknownTask(t *testing.T) {
	rootCmd.SetArgs([]string{"bower", "prune"})
	err := Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid command: prune")
}
