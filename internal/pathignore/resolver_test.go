package pathignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robocop-go/robocop/internal/testutil"
)

func writeIgnore(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(content), 0o644))
}

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	return NewResolver(testutil.NewTestLogger(t))
}

func TestResolver_NoIgnoreFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))

	r := newTestResolver(t)
	assert.False(t, r.IsIgnored(filepath.Join(root, "suite.robot"), false))
}

func TestResolver_SimplePattern(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	writeIgnore(t, root, "generated_*.robot\n")

	r := newTestResolver(t)
	assert.True(t, r.IsIgnored(filepath.Join(root, "generated_login.robot"), false))
	assert.False(t, r.IsIgnored(filepath.Join(root, "login.robot"), false))
}

func TestResolver_AncestorPatternAppliesToSubdirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	writeIgnore(t, root, "*.log\nbuild/\n")
	sub := filepath.Join(root, "suites", "nested")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	r := newTestResolver(t)
	assert.True(t, r.IsIgnored(filepath.Join(sub, "run.log"), false))
	assert.True(t, r.IsIgnored(filepath.Join(root, "build"), true))
	assert.False(t, r.IsIgnored(filepath.Join(sub, "suite.robot"), false))
}

func TestResolver_NearerNegationWins(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	writeIgnore(t, root, "*.robot\n")
	sub := filepath.Join(root, "keep")
	writeIgnore(t, sub, "!important.robot\n")

	r := newTestResolver(t)
	assert.False(t, r.IsIgnored(filepath.Join(sub, "important.robot"), false),
		"the nearest ignore file with an opinion decides")
	assert.True(t, r.IsIgnored(filepath.Join(sub, "other.robot"), false),
		"files the nearer .gitignore is silent about fall through to the ancestor")
}

func TestResolver_StopsAtRepositoryBoundary(t *testing.T) {
	outer := t.TempDir()
	writeIgnore(t, outer, "*.robot\n")

	repo := filepath.Join(outer, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))

	r := newTestResolver(t)
	assert.False(t, r.IsIgnored(filepath.Join(repo, "suite.robot"), false),
		"ignore files outside the repository boundary must not apply")
}

func TestResolver_DirectoryOnlyPattern(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	writeIgnore(t, root, "output/\n")

	r := newTestResolver(t)
	assert.True(t, r.IsIgnored(filepath.Join(root, "output"), true))
	assert.False(t, r.IsIgnored(filepath.Join(root, "output"), false),
		"a trailing-slash pattern matches directories only")
}
