// Package pathignore answers "does .gitignore hide this path?" for the file
// enumeration walk. It merges every ancestor directory's ignore file from the
// path upward to the repository boundary, caching per-directory results so
// sibling files reuse the ancestor lookups: the dominant cost is
// O(directories), not O(files × depth).
package pathignore

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	gitignore "github.com/sabhiram/go-gitignore"
)

const ignoreFileName = ".gitignore"

// dirEntry caches one directory's lookup: the compiled matcher when the
// directory has an ignore file, nil when it has none, and whether the
// directory is a repository root. "Has none" is cached too so the walk never
// re-stats the same directory.
type dirEntry struct {
	matcher *gitignore.GitIgnore
	gitRoot bool
}

// Resolver discovers, merges, and caches ignore patterns. Entries live for
// the process lifetime and are never invalidated mid-run.
type Resolver struct {
	mu      sync.Mutex
	entries map[string]*dirEntry
	log     *slog.Logger
}

// NewResolver returns an empty Resolver.
func NewResolver(log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{
		entries: make(map[string]*dirEntry),
		log:     log,
	}
}

// IsIgnored reports whether path is hidden by any ignore file between its
// parent directory and the repository boundary (or filesystem root). The
// nearest ignore file wins when files disagree, matching git's precedence.
func (r *Resolver) IsIgnored(path string, isDir bool) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	dir := filepath.Dir(abs)
	for {
		entry := r.dirEntry(dir)
		if entry.matcher != nil {
			rel, err := filepath.Rel(dir, abs)
			if err == nil && rel != "." {
				rel = filepath.ToSlash(rel)
				if isDir {
					rel += "/"
				}
				// The nearest file with an opinion decides, so a deeper
				// negation ("!kept.robot") overrides an ancestor exclude.
				if ignored, pattern := entry.matcher.MatchesPathHow(rel); pattern != nil {
					return ignored
				}
			}
		}
		if entry.gitRoot {
			return false
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
		dir = parent
	}
}

// dirEntry returns the cached entry for dir, filling it on first use.
func (r *Resolver) dirEntry(dir string) *dirEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.entries[dir]; ok {
		return entry
	}

	entry := &dirEntry{gitRoot: hasGitDir(dir)}
	data, err := os.ReadFile(filepath.Join(dir, ignoreFileName))
	if err == nil {
		lines := strings.Split(string(data), "\n")
		entry.matcher = gitignore.CompileIgnoreLines(lines...)
		r.log.Debug("ignore file loaded", "dir", dir, "patterns", len(lines))
	}
	r.entries[dir] = entry
	return entry
}

func hasGitDir(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}
