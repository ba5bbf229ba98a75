package config

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Default include and exclude globs. User globs extend these, they never
// replace them. A trailing separator on an exclude restricts it to
// directories.
var (
	DefaultInclude = []string{"*.robot", "*.resource"}
	DefaultExclude = []string{
		".direnv/", ".eggs/", ".git/", ".hg/", ".nox/", ".robocop_cache/",
		".svn/", ".tox/", ".venv/", "venv/", "__pycache__/",
	}
)

// FileFilter decides which paths participate in a run. Excludes apply to
// files and directories both; includes apply only to files. Exclude wins on
// conflict.
type FileFilter struct {
	includes []string
	excludes []string
}

// NewFileFilter builds the default ∪ user filter sets.
func NewFileFilter(userInclude, userExclude []string) *FileFilter {
	f := &FileFilter{
		includes: append(append([]string(nil), DefaultInclude...), userInclude...),
		excludes: append(append([]string(nil), DefaultExclude...), userExclude...),
	}
	return f
}

// Includes returns the effective include globs.
func (f *FileFilter) Includes() []string { return f.includes }

// Excludes returns the effective exclude globs.
func (f *FileFilter) Excludes() []string { return f.excludes }

// PathExcluded reports whether any exclude glob matches the path. Directory
// paths are compared with a trailing separator so "build/" style globs work.
func (f *FileFilter) PathExcluded(path string, isDir bool) bool {
	for _, glob := range f.excludes {
		dirOnly := strings.HasSuffix(glob, "/")
		pattern := strings.TrimSuffix(glob, "/")
		if dirOnly && !isDir {
			continue
		}
		if globMatchesPath(pattern, path) {
			return true
		}
	}
	return false
}

// PathIncluded reports whether a file path matches any include glob. It is
// never called for directories; the walk descends into a directory unless it
// is excluded.
func (f *FileFilter) PathIncluded(path string) bool {
	for _, glob := range f.includes {
		if globMatchesPath(glob, path) {
			return true
		}
	}
	return false
}

// globMatchesPath matches the glob against the full path and, for simple
// basename-style globs, against the final path element.
func globMatchesPath(glob, path string) bool {
	path = filepath.ToSlash(path)
	if ok, err := doublestar.Match(glob, path); err == nil && ok {
		return true
	}
	if !strings.Contains(glob, "/") {
		if ok, err := doublestar.Match(glob, filepath.Base(path)); err == nil && ok {
			return true
		}
	}
	return false
}
