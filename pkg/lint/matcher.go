package lint

import (
	"github.com/bmatcuk/doublestar/v4"

	"github.com/robocop-go/robocop/pkg/core"
)

// Matcher decides whether a rule is enabled under the current selection
// settings. Ignore always overrides select; an empty select set means
// "everything at or above the threshold".
type Matcher struct {
	Select         []string
	ExtendSelect   []string
	Ignore         []string
	Threshold      core.Severity
	PerFileIgnores map[string][]string // source-path glob -> rule patterns
}

// NewMatcher builds a Matcher with an info threshold and no selection, which
// enables every rule.
func NewMatcher() *Matcher {
	return &Matcher{Threshold: core.SeverityInfo}
}

// IsRuleEnabled reports whether the rule passes ignore, select, and the
// threshold at its default severity.
func (m *Matcher) IsRuleEnabled(rule Rule) bool {
	return m.SelectionEnabled(rule) && rule.DefaultSeverity() >= m.Threshold
}

// SelectionEnabled applies only the ignore and select gates. Callers that
// override a rule's severity through configuration check the threshold
// against the effective severity themselves.
func (m *Matcher) SelectionEnabled(rule Rule) bool {
	if matchesAny(m.Ignore, rule) {
		return false
	}
	if len(m.Select) > 0 || len(m.ExtendSelect) > 0 {
		if !matchesAny(m.Select, rule) && !matchesAny(m.ExtendSelect, rule) {
			return false
		}
	}
	return true
}

// IsRuleEnabledForFile additionally applies the per-file-ignore layer: a rule
// excluded for a matching source-path glob is disabled for that file even
// when globally enabled.
func (m *Matcher) IsRuleEnabledForFile(rule Rule, path string) bool {
	return m.IsRuleEnabled(rule) && !m.PerFileExcluded(rule, path)
}

// PerFileExcluded reports whether a per-file-ignore glob scoped to path
// excludes the rule.
func (m *Matcher) PerFileExcluded(rule Rule, path string) bool {
	for pathGlob, patterns := range m.PerFileIgnores {
		if !pathMatches(pathGlob, path) {
			continue
		}
		if matchesAny(patterns, rule) {
			return true
		}
	}
	return false
}

// matchesAny reports whether any pattern matches the rule's ID or name,
// either exactly or as a glob.
func matchesAny(patterns []string, rule Rule) bool {
	for _, pat := range patterns {
		if pat == rule.ID() || pat == rule.Name() {
			return true
		}
		if ok, err := doublestar.Match(pat, rule.ID()); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pat, rule.Name()); err == nil && ok {
			return true
		}
	}
	return false
}

// pathMatches matches a source path against a glob, falling back to a
// basename match so "test_*.robot" style globs work on absolute paths.
func pathMatches(glob, path string) bool {
	if ok, err := doublestar.PathMatch(glob, path); err == nil && ok {
		return true
	}
	base := path
	if i := lastSeparator(path); i >= 0 {
		base = path[i+1:]
	}
	ok, err := doublestar.Match(glob, base)
	return err == nil && ok
}

func lastSeparator(path string) int {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return i
		}
	}
	return -1
}
