package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// GitDirName marks a VCS root; the discovery walk stops there by default so
// one repository never picks up configuration from another.
const GitDirName = ".git"

// Manager resolves the effective configuration for each file by walking up
// from the file's directory to the nearest recognized config document.
//
// Every visited directory, config-bearing or not, is memoized with the
// eventually resolved configuration, so sibling files short-circuit at the
// nearest memoized ancestor and the dominant cost is O(directories). The memo
// is fill-once: two goroutines racing on an unresolved directory serialize on
// the lock and the first writer wins.
type Manager struct {
	mu        sync.Mutex
	builder   *Builder
	dirs      map[string]*Resolved
	deflt     *Resolved
	forced    *Resolved
	stopAtGit bool
	log       *slog.Logger
}

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	// CLI is the flags fragment merged over every file configuration.
	CLI *Fragment
	// ConfigPath, when set, disables discovery: this one document is
	// resolved once and used for every file.
	ConfigPath string
	// IgnoreGitDir lets the walk continue past repository roots.
	IgnoreGitDir bool
	Logger       *slog.Logger
}

// NewManager builds a Manager. It fails fast on a broken forced config so a
// run aborts before any file is processed.
func NewManager(opts ManagerOptions) (*Manager, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	m := &Manager{
		builder:   NewBuilder(opts.CLI),
		dirs:      make(map[string]*Resolved),
		stopAtGit: !opts.IgnoreGitDir,
		log:       opts.Logger,
	}
	if opts.ConfigPath != "" {
		frag, err := LoadFragment(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		forced, err := m.builder.Build(frag)
		if err != nil {
			return nil, err
		}
		m.forced = forced
	}
	return m, nil
}

// GetConfigFor returns the resolved configuration governing path.
func (m *Manager) GetConfigFor(path string) (*Resolved, error) {
	if m.forced != nil {
		return m.forced, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(abs)
	if info, statErr := os.Stat(abs); statErr == nil && info.IsDir() {
		dir = abs
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolveDirLocked(dir)
}

// resolveDirLocked walks from dir upward until it hits a memoized ancestor,
// a recognized config file, a VCS root, or the filesystem root, then tags the
// whole visited chain with the resolution.
func (m *Manager) resolveDirLocked(dir string) (*Resolved, error) {
	var visited []string
	var resolved *Resolved

	for {
		if cached, ok := m.dirs[dir]; ok {
			resolved = cached
			break
		}
		visited = append(visited, dir)

		configPath, err := FindConfigFile(dir)
		if err != nil {
			return nil, err
		}
		if configPath != "" {
			m.log.Debug("config discovered", "dir", dir, "file", configPath)
			frag, err := LoadFragment(configPath)
			if err != nil {
				return nil, err
			}
			resolved, err = m.builder.Build(frag)
			if err != nil {
				return nil, err
			}
			break
		}

		parent := filepath.Dir(dir)
		atRoot := parent == dir
		if atRoot || (m.stopAtGit && hasGitDir(dir)) {
			resolved, err = m.defaultLocked()
			if err != nil {
				return nil, err
			}
			break
		}
		dir = parent
	}

	for _, d := range visited {
		m.dirs[d] = resolved
	}
	return resolved, nil
}

// defaultLocked resolves the no-config-file configuration (CLI + defaults)
// once and reuses it for every zone without a document.
func (m *Manager) defaultLocked() (*Resolved, error) {
	if m.deflt != nil {
		return m.deflt, nil
	}
	resolved, err := m.builder.Build(nil)
	if err != nil {
		return nil, err
	}
	m.deflt = resolved
	return resolved, nil
}

func hasGitDir(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, GitDirName))
	return err == nil && info.IsDir()
}
