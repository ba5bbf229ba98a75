package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFindConfigFile_PriorityOrder(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, FileNamePyproject, "[tool.robocop.lint]\nselect = [\"DOC01\"]\n")
	writeConfig(t, dir, FileNameDotTOML, "")
	writeConfig(t, dir, FileNameTOML, "")

	path, err := FindConfigFile(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileNameTOML), path, "robocop.toml outranks the others")

	require.NoError(t, os.Remove(filepath.Join(dir, FileNameTOML)))
	path, err = FindConfigFile(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileNameDotTOML), path)
}

func TestFindConfigFile_PyprojectNeedsRobocopTable(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, FileNamePyproject, "[tool.black]\nline-length = 88\n")

	path, err := FindConfigFile(dir)
	require.NoError(t, err)
	assert.Empty(t, path, "a pyproject.toml without [tool.robocop] does not count")

	writeConfig(t, dir, FileNamePyproject, "[tool.black]\nline-length = 88\n\n[tool.robocop.lint]\nselect = [\"DOC01\"]\n")
	path, err = FindConfigFile(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileNamePyproject), path)
}

func TestFindConfigFile_Empty(t *testing.T) {
	path, err := FindConfigFile(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestLoadFragment(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, FileNameTOML, `
language = ["en"]
target_version = "6"

[lint]
select = ["DOC01", "LEN01"]
threshold = "warning"
configure = ["LEN01.line_length=100"]

[format]
space_count = 2

[cache]
enabled = false
`)

	frag, err := LoadFragment(path)
	require.NoError(t, err, "unexpected error")

	assert.Equal(t, []string{"en"}, frag.Language)
	require.NotNil(t, frag.TargetVersion)
	assert.Equal(t, "6", *frag.TargetVersion)
	assert.Equal(t, []string{"DOC01", "LEN01"}, frag.Lint.Select)
	require.NotNil(t, frag.Lint.Threshold)
	assert.Equal(t, "warning", *frag.Lint.Threshold)
	assert.Equal(t, []string{"LEN01.line_length=100"}, frag.Lint.Configure)
	require.NotNil(t, frag.Format.SpaceCount)
	assert.Equal(t, 2, *frag.Format.SpaceCount)
	require.NotNil(t, frag.Cache.Enabled)
	assert.False(t, *frag.Cache.Enabled)

	assert.True(t, filepath.IsAbs(frag.Path), "fragment path must be absolute")
	assert.Equal(t, filepath.Dir(frag.Path), frag.Dir)
}

func TestLoadFragment_PyprojectNamespace(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, FileNamePyproject, `
[tool.black]
line-length = 88

[tool.robocop.lint]
select = ["DOC01"]
`)

	frag, err := LoadFragment(path)
	require.NoError(t, err, "unexpected error")
	assert.Equal(t, []string{"DOC01"}, frag.Lint.Select,
		"only the [tool.robocop] table is read; other tools' settings are invisible")
}

func TestLoadFragment_UnknownTopLevelKey(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, FileNameTOML, "linter = { select = [\"DOC01\"] }\n")

	_, err := LoadFragment(path)
	require.Error(t, err, "expected error for unknown key")

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr), "expected *ConfigurationError, got %T", err)
	assert.Equal(t, path, cfgErr.File)
	assert.Equal(t, "linter", cfgErr.Key)
	assert.Contains(t, cfgErr.Error(), "unknown configuration key")
}

func TestLoadFragment_UnknownNestedKey(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, FileNameTOML, "[lint]\nselekt = [\"DOC01\"]\n")

	_, err := LoadFragment(path)
	require.Error(t, err, "misspelled nested keys must not be silently dropped")
}

func TestLoadFragment_MalformedTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, FileNameTOML, "[lint\nselect = [\n")

	_, err := LoadFragment(path)
	require.Error(t, err, "expected error for malformed document")

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr), "expected *ConfigurationError, got %T", err)
	assert.Contains(t, cfgErr.Error(), "malformed")
}
