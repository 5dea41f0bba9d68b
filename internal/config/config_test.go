package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udes/udes-cli/internal/polymer"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
polymerBuild:
  baseURI: /src/
  buildNames: [bundled, es5-bundled]
  dev: true
  failOnBuildError: false
lint:
  path: src
  debounce: 1s
publish:
  npm: true
`)

	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/src/", config.PolymerBuild.BaseURI)
	assert.Equal(t, []string{"bundled", "es5-bundled"}, config.PolymerBuild.BuildNames)
	require.NotNil(t, config.PolymerBuild.Dev)
	assert.True(t, *config.PolymerBuild.Dev)
	require.NotNil(t, config.PolymerBuild.FailOnBuildError)
	assert.False(t, *config.PolymerBuild.FailOnBuildError)
	assert.Nil(t, config.PolymerBuild.Build)

	assert.Equal(t, "src", config.Lint.Path)
	assert.Equal(t, time.Second, config.Lint.Debounce)
	assert.Equal(t, []string{"node_modules", "bower_components", "build", ".git"}, config.Lint.Ignore)

	assert.True(t, config.Publish.NPM)
	assert.Equal(t, "master", config.Publish.Branch)
	assert.Equal(t, "gh-pages", config.Publish.DocsBranch)
	assert.Equal(t, "origin", config.Publish.Remote)
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"malformed yaml":   "polymerBuild: [",
		"empty build name": "polymerBuild:\n  buildNames: ['']\n",
		"same branches":    "publish:\n  branch: main\n  docsBranch: main\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoadOptional(t *testing.T) {
	config, err := LoadOptional(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	assert.Equal(t, Default(), config)

	_, err = Load(filepath.Join(t.TempDir(), FileName))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolveBuildArgs(t *testing.T) {
	dev := true
	r := NewResolver(&Config{PolymerBuild: PolymerBuildConfig{
		BaseURI:    "/from-file/",
		BuildDir:   "dist",
		BuildNames: []string{"bundled"},
		Dev:        &dev,
	}})

	args := r.ResolveBuildArgs(polymer.Args{"baseURI": "/from-flag/", "dryRun": true})
	assert.Equal(t, polymer.Args{
		"baseURI":    "/from-flag/",
		"buildDir":   "dist",
		"buildNames": []string{"bundled"},
		"dev":        true,
		"dryRun":     true,
	}, args)

	args = r.ResolveBuildArgs(polymer.Args{"rootURI": "~user/app"})
	assert.NotContains(t, args, "baseURI")
	assert.Equal(t, "~user/app", args["rootURI"])
}

func TestResolveLint(t *testing.T) {
	r := NewResolver(nil)
	assert.Equal(t, ".", r.ResolveLintPath(""))
	assert.Equal(t, "src", r.ResolveLintPath("src"))
	assert.Equal(t, 300*time.Millisecond, r.ResolveDebounce(0))
	assert.Equal(t, time.Second, r.ResolveDebounce(time.Second))

	r = NewResolver(&Config{Lint: LintConfig{Path: "app"}})
	assert.Equal(t, "app", r.ResolveLintPath(""))
}

func TestResolvePublishNPM(t *testing.T) {
	assert.False(t, NewResolver(nil).ResolvePublishNPM(false))
	assert.True(t, NewResolver(nil).ResolvePublishNPM(true))
	assert.True(t, NewResolver(&Config{Publish: PublishConfig{NPM: true}}).ResolvePublishNPM(false))
}
