package publish

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udes/udes-cli/internal/shell"
	"github.com/udes/udes-cli/internal/shell/shelltest"
)

// npmVersionRunner records commands and emulates `npm version` by rewriting
// package.json.
type npmVersionRunner struct {
	*shelltest.Recorder
	t       *testing.T
	dir     string
	version string
}

func (r *npmVersionRunner) Run(ctx context.Context, name string, args ...string) error {
	if err := r.Recorder.Run(ctx, name, args...); err != nil {
		return err
	}
	if strings.HasPrefix(shell.CommandLine(name, args...), "npm version ") {
		info, err := ReadPackageInfo(r.dir)
		require.NoError(r.t, err)
		info.Version = r.version
		writePackage(r.t, r.dir, info)
	}
	return nil
}

func writePackage(t *testing.T, dir string, info *PackageInfo) {
	t.Helper()
	data, err := json.Marshal(info)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, PackageFile), data, 0644))
}

func newProject(t *testing.T, scripts ...string) (string, *npmVersionRunner) {
	t.Helper()
	dir := t.TempDir()
	info := &PackageInfo{Name: "udes-element", Version: "1.2.3", Scripts: map[string]string{}}
	for _, s := range scripts {
		info.Scripts[s] = "true"
	}
	writePackage(t, dir, info)
	return dir, &npmVersionRunner{Recorder: shelltest.NewRecorder(), t: t, dir: dir, version: "1.2.4"}
}

func TestParseReleaseType(t *testing.T) {
	for _, name := range []string{"major", "minor", "patch", "premajor", "preminor", "prepatch", "prerelease"} {
		rt, err := ParseReleaseType(name)
		require.NoError(t, err)
		assert.Equal(t, name, string(rt))
	}

	_, err := ParseReleaseType("prerealease")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected one of major")
}

func TestNewPublisherInvalidType(t *testing.T) {
	rec := shelltest.NewRecorder()
	_, err := NewPublisher(t.TempDir(), rec, nil, Options{Type: "huge"})
	require.Error(t, err)
	assert.Empty(t, rec.Commands())
}

func TestRun(t *testing.T) {
	dir, runner := newProject(t, "lint", "test", "documentation")

	p, err := NewPublisher(dir, runner, nil, Options{Type: ReleasePatch})
	require.NoError(t, err)

	info, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.2.4", info.Version)
	assert.Equal(t, "udes-element", info.Name)

	assert.Equal(t, []string{
		"npm run lint",
		"npm run test",
		"git fetch",
		"git checkout master",
		"git pull origin master",
		"npm install",
		"npm version patch --no-git-tag-version",
		"git checkout -b bump-version-v1.2.4",
		"git commit -am Bump version to v1.2.4",
		"git push origin bump-version-v1.2.4",
		"git tag v1.2.4",
		"git push origin --tags",
		"git checkout gh-pages",
		"git pull origin gh-pages",
		"git merge bump-version-v1.2.4 --strategy-option theirs --no-commit",
		"npm run documentation",
		"git commit -am Update documentation for v1.2.4",
		"git push origin gh-pages",
	}, runner.Commands())
}

func TestRunWithNpm(t *testing.T) {
	dir, runner := newProject(t, "build")

	p, err := NewPublisher(dir, runner, nil, Options{Type: ReleaseMinor, NPM: true, Branch: "main", Remote: "upstream"})
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"git fetch",
		"git checkout main",
		"git pull upstream main",
		"npm install",
		"npm version minor --no-git-tag-version",
		"git checkout -b bump-version-v1.2.4",
		"git commit -am Bump version to v1.2.4",
		"git push upstream bump-version-v1.2.4",
		"git tag v1.2.4",
		"git push upstream --tags",
		"npm run build",
		"npm publish",
		"git reset --hard",
	}, runner.Commands())
}

func TestRunCheckFailureAborts(t *testing.T) {
	dir, runner := newProject(t, "lint", "audit", "test")
	runner.FailOn("npm run audit", 1)

	p, err := NewPublisher(dir, runner, nil, Options{Type: ReleasePatch})
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `pre-publish check "audit" failed`)
	assert.Equal(t, []string{"npm run lint", "npm run audit"}, runner.Commands())
}

func TestRunMissingPackageJSON(t *testing.T) {
	rec := shelltest.NewRecorder()
	p, err := NewPublisher(t.TempDir(), rec, nil, Options{Type: ReleasePatch})
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, rec.Commands())
}

func TestPlan(t *testing.T) {
	p, err := NewPublisher(".", shelltest.NewRecorder(), nil, Options{Type: ReleaseMajor, NPM: true})
	require.NoError(t, err)

	plan := p.Plan()
	assert.Contains(t, plan, "npm version major")
	assert.Contains(t, plan, "npm publish")
	assert.Contains(t, plan, "refresh documentation on gh-pages")
}
