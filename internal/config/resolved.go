package config

import (
	"github.com/robocop-go/robocop/pkg/core"
	"github.com/robocop-go/robocop/pkg/lint"
)

// Default values applied when neither the CLI nor any config file sets a field.
const (
	DefaultCacheDir   = ".robocop_cache"
	DefaultSpaceCount = 4
	DefaultIndent     = 4
	DefaultLineLength = 120
	DefaultSeparator  = "space"
	DefaultLineEnding = "native"
)

// DefaultThreshold is the minimum severity a rule needs to stay enabled when
// no threshold is configured.
const DefaultThreshold = core.SeverityInfo

// LinterSettings is the fully materialized linter configuration.
type LinterSettings struct {
	Select         []string
	ExtendSelect   []string
	Ignore         []string
	Configure      []string
	CustomRules    []string
	Threshold      core.Severity
	PerFileIgnores map[string][]string
	Reports        []string
	ExitZero       bool
	TargetVersion  string
}

// FormatterSettings is the fully materialized formatter configuration.
type FormatterSettings struct {
	Select        []string
	Configure     []string
	SpaceCount    int
	Indent        int
	LineLength    int
	Separator     string
	LineEnding    string
	Skip          []string
	Overwrite     bool
	TargetVersion string
}

// CacheSettings is the fully materialized cache configuration.
type CacheSettings struct {
	Enabled bool
	Dir     string
}

// Resolved is the immutable, source-agnostic configuration for one directory
// zone. Its hashes are its cache identity: only output-affecting fields feed
// them, so two Resolved values with equal hashes produce identical results.
type Resolved struct {
	// Sources lists the config document paths that contributed, base-first.
	Sources []string

	Filter    *FileFilter
	Language  []string
	Linter    LinterSettings
	Formatter FormatterSettings
	Cache     CacheSettings

	// LinterHash and FormatterHash fingerprint the concern-specific
	// output-affecting fields; they invalidate independently.
	LinterHash    uint64
	FormatterHash uint64

	// Fingerprint is a short display-only digest of both hashes plus the
	// language list. Never used for cache decisions.
	Fingerprint string
}

// Matcher builds the rule-selection matcher for this configuration.
func (r *Resolved) Matcher() *lint.Matcher {
	return &lint.Matcher{
		Select:         r.Linter.Select,
		ExtendSelect:   r.Linter.ExtendSelect,
		Ignore:         r.Linter.Ignore,
		Threshold:      r.Linter.Threshold,
		PerFileIgnores: r.Linter.PerFileIgnores,
	}
}
